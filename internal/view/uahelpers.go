// internal/view/uahelpers.go
//
// User-Agent template helpers, keyed off the bound request:
//
//	{{ if isBot .slingRequest }}…{{ end }}
package view

import (
	"html/template"

	"github.com/yanizio/objview/internal/request"
)

func uaFuncMap() template.FuncMap {
	ua := func(r *request.Request) request.UA {
		if r == nil || r.Info() == nil {
			return request.UA{}
		}
		return r.Info().UA
	}
	return template.FuncMap{
		"browser":        func(r *request.Request) string { return ua(r).Browser },
		"browserVersion": func(r *request.Request) string { return ua(r).Version },
		"os":             func(r *request.Request) string { return ua(r).OS },
		"osVersion":      func(r *request.Request) string { return ua(r).OSVersion },
		"device":         func(r *request.Request) string { return ua(r).Device },
		"isBot":          func(r *request.Request) bool { return ua(r).IsBot },
	}
}
