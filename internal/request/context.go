// internal/request/context.go
//
// context.Context plumbing.  Resolve stores the Request, the Response, and
// the resource Manager under unexported keys so any code holding only an
// *http.Request can reach them.
package request

import (
	"context"

	"github.com/yanizio/objview/internal/resource"
)

type (
	requestKey  struct{}
	responseKey struct{}
	managerKey  struct{}
)

// WithRequest returns ctx carrying req.
func WithRequest(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the Request stored by Resolve, or nil.
func FromContext(ctx context.Context) *Request {
	v, _ := ctx.Value(requestKey{}).(*Request)
	return v
}

// WithResponse returns ctx carrying res.
func WithResponse(ctx context.Context, res *Response) context.Context {
	return context.WithValue(ctx, responseKey{}, res)
}

// ResponseFrom returns the Response stored by Resolve, or nil.
func ResponseFrom(ctx context.Context) *Response {
	v, _ := ctx.Value(responseKey{}).(*Response)
	return v
}

// WithManager returns ctx carrying m.
func WithManager(ctx context.Context, m resource.Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// ManagerFrom returns the resource Manager stored by Resolve, or nil.
func ManagerFrom(ctx context.Context) resource.Manager {
	v, _ := ctx.Value(managerKey{}).(resource.Manager)
	return v
}
