// internal/server/router.go
//
// Root chi router.
//
// Route table
// -----------
//
//	/metrics           – Prometheus scrape endpoint.
//	/healthz           – liveness probe, always 200.
//	/debug/objects/*   – JSON list of the variables the binder publishes
//	                     for the trailing path (Deps.Debug only).
//	/*                 – alias rewrite → resolve → view render.
//
// Middleware order: RequestID, RealIP, Recoverer, ForceHTTPS, Security.
// Alias rewrite runs before request.Resolve so the resolved resource is the
// alias target.
//
// Errors
// ------
// request.Resolve answers 404 for unknown paths itself.  A missing template
// is a 404; binder and execution failures are logged and answered 500.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/middleware"
	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/resource"
	"github.com/yanizio/objview/internal/routing"
	"github.com/yanizio/objview/internal/service"
	"github.com/yanizio/objview/internal/view"
)

// DebugPrefix mounts the binding inspector.
const DebugPrefix = "/debug/objects"

// Deps are the collaborators Router wires together.
type Deps struct {
	Manager     resource.Manager
	Locator     *service.Locator
	Views       *view.Engine
	Aliases     *routing.AliasCache // nil disables alias rewrite
	RoutingMode string
	ForceHTTPS  bool
	Debug       bool
}

// Router returns the root handler.
func Router(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.ForceHTTPS(d.ForceHTTPS), middleware.Security)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	aliases := routing.Middleware(d.Aliases, d.RoutingMode)
	resolve := request.Resolve(d.Manager, d.Locator)

	if d.Debug {
		inspect := aliases(resolve(debugObjects(d.Views)))
		r.Handle(DebugPrefix, http.StripPrefix(DebugPrefix, inspect))
		r.Handle(DebugPrefix+"/*", http.StripPrefix(DebugPrefix, inspect))
	}

	r.Handle("/*", aliases(resolve(renderView(d.Views))))
	return r
}

// renderView renders the resolved resource with view.ViewName.
func renderView(views *view.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request.FromContext(r.Context())
		if req == nil {
			http.Error(w, "request not resolved", http.StatusInternalServerError)
			return
		}
		err := views.Render(w, r, view.ViewName(req))
		switch {
		case err == nil:
		case errors.Is(err, view.ErrTemplateNotFound):
			zap.S().Debugw("no template for resource", "path", req.PathInfo.ResourcePath, "err", err)
			http.NotFound(w, r)
		default:
			zap.S().Errorw("render failed",
				"path", req.PathInfo.ResourcePath,
				"request_id", chimw.GetReqID(r.Context()),
				"err", err,
			)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	})
}
