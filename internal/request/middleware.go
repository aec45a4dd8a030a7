// internal/request/middleware.go
//
// HTTP middleware that resolves the request path to a resource.
//
/*
Context
--------
Resolve sits after the security middleware and before the view handler.
For every request it:

  1. Splits the URL path into resource path, selectors, and extension.
  2. Asks the resource Manager for the resource at that path.
  3. Builds *Request and *Response and stores them, plus the Manager, in
     request.Context.
  4. Forwards with the wrapped Response as the writer.

A missing resource short-circuits with 404.  Any other Manager error is
logged and answered with 500.

Instrumentation
---------------
DEBUG span per request with path, resource type, selectors, extension,
browser, and bot flag.

Notes
-----
  • The Manager is shared by all requests and must be concurrency-safe.
  • Oxford commas, two spaces after periods.  No em dash.
*/
package request

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/resource"
	"github.com/yanizio/objview/internal/service"
)

// Resolve returns middleware bound to mgr and loc.
func Resolve(mgr resource.Manager, loc *service.Locator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pi := SplitPath(r.URL.Path)

			res, err := mgr.Resolve(r.Context(), pi.ResourcePath)
			if err != nil {
				if errors.Is(err, resource.ErrNotFound) {
					http.NotFound(w, r)
					return
				}
				zap.L().Error("resource resolve failed",
					zap.String("path", pi.ResourcePath), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
				return
			}

			req := New(r, res, loc)
			rw := NewResponse(w)

			rt := ""
			if res != nil {
				rt = res.ResourceType()
			}
			zap.S().Debugw("request resolved",
				"path", pi.ResourcePath,
				"resource_type", rt,
				"selectors", pi.Selectors,
				"ext", pi.Extension,
				"browser", req.Info().UA.Browser,
				"bot", req.Info().UA.IsBot,
			)

			ctx := WithRequest(r.Context(), req)
			ctx = WithResponse(ctx, rw)
			ctx = WithManager(ctx, mgr)
			req.HTTP = r.WithContext(ctx)
			next.ServeHTTP(rw, req.HTTP)
		})
	}
}
