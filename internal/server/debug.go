// internal/server/debug.go
//
// Binding inspector.  GET /debug/objects/blog/hello runs the binder for
// /blog/hello and answers the published variables in binding order:
//
//	{"path":"/blog/hello","bindings":[{"name":"resource","type":"*resource.MappedResource"}, …]}
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/page"
	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/view"
)

type binding struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"` // strings only
}

type objectsDump struct {
	Path     string    `json:"path"`
	Bindings []binding `json:"bindings"`
}

func debugObjects(views *view.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pc := page.FromHTTP(r)
		if _, err := views.Binder().Bind(pc); err != nil {
			zap.S().Warnw("debug bind failed", "path", r.URL.Path, "err", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		req := request.FromContext(r.Context())
		dump := objectsDump{Path: req.PathInfo.ResourcePath}
		for _, name := range pc.Scope().Names() {
			v, _ := pc.Attribute(name)
			b := binding{Name: name, Type: fmt.Sprintf("%T", v)}
			if s, ok := v.(string); ok {
				b.Value = s
			}
			dump.Bindings = append(dump.Bindings, b)
		}

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dump); err != nil {
			zap.S().Warnw("debug encode failed", "err", err)
		}
	})
}
