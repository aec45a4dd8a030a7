// internal/request/request.go
//
// Request and Response wrappers handed to views.
//
// Context
// -------
// A Request pairs the original *http.Request with everything the resolve
// step learned about it:
//
//   - PathInfo – the URL split into resource path, selectors, and extension
//     ("/blog/hello.print.html" → "/blog/hello", ["print"], "html").
//   - Resource – the resource.Resource that path resolved to.
//   - Locator  – the process-wide service locator.
//   - Info     – UA, Geo, and timestamp.
//
// Response wraps http.ResponseWriter and remembers the status code so logs
// and tests can inspect it.
//
// Notes
// -----
// • Both types are created once per request by Resolve and are read-only
//   for views.
// • Oxford commas, two spaces after periods.
package request

import (
	"net/http"
	"path"
	"strings"

	"github.com/yanizio/objview/internal/resource"
	"github.com/yanizio/objview/internal/service"
)

// PathInfo is the decomposed request path.
type PathInfo struct {
	ResourcePath string
	Selectors    []string
	Extension    string
}

// SplitPath decomposes a URL path.  Dots in the last segment separate the
// resource name from selectors and the extension; dots in parent segments
// are left alone.
func SplitPath(p string) PathInfo {
	p = path.Clean("/" + p)
	dir, last := path.Split(p)
	parts := strings.Split(last, ".")

	info := PathInfo{ResourcePath: path.Clean(dir + parts[0])}
	if len(parts) > 1 {
		info.Extension = parts[len(parts)-1]
		info.Selectors = parts[1 : len(parts)-1]
	}
	if len(info.Selectors) == 0 {
		info.Selectors = nil
	}
	return info
}

// String reassembles the path: resource path, then selectors and extension
// joined by dots.
func (p PathInfo) String() string {
	var b strings.Builder
	b.WriteString(p.ResourcePath)
	for _, s := range p.Selectors {
		b.WriteByte('.')
		b.WriteString(s)
	}
	if p.Extension != "" {
		b.WriteByte('.')
		b.WriteString(p.Extension)
	}
	return b.String()
}

// Request is the view-facing request.
type Request struct {
	HTTP     *http.Request
	PathInfo PathInfo

	resource resource.Resource
	locator  *service.Locator
	info     *Info
}

// New builds a Request.  Resolve is the usual caller; tests may call it
// directly.
func New(r *http.Request, res resource.Resource, loc *service.Locator) *Request {
	return &Request{
		HTTP:     r,
		PathInfo: SplitPath(r.URL.Path),
		resource: res,
		locator:  loc,
		info:     newInfo(r),
	}
}

// Resource returns the resolved resource.
func (r *Request) Resource() resource.Resource { return r.resource }

// ServiceLocator returns the service locator.
func (r *Request) ServiceLocator() *service.Locator { return r.locator }

// Info returns UA, Geo, and timestamp data.
func (r *Request) Info() *Info { return r.info }

// Method and Path are shorthands for templates.
func (r *Request) Method() string { return r.HTTP.Method }
func (r *Request) Path() string   { return r.HTTP.URL.Path }

// Selector reports whether sel appears among the path selectors.
func (r *Request) Selector(sel string) bool {
	for _, s := range r.PathInfo.Selectors {
		if s == sel {
			return true
		}
	}
	return false
}

//
// Response
//

// Response wraps http.ResponseWriter and records the status code.
type Response struct {
	http.ResponseWriter
	status int
}

// NewResponse wraps w.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{ResponseWriter: w}
}

// WriteHeader records code and forwards it.
func (r *Response) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

// Write sets an implicit 200 before the first body bytes.
func (r *Response) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Status returns the recorded code, 0 until something was written.
func (r *Response) Status() int { return r.status }

// SetContentType is a shorthand for templates that emit non-HTML.
func (r *Response) SetContentType(ct string) string {
	r.Header().Set("Content-Type", ct)
	return ""
}
