// Package metrics holds the Prometheus instruments shared by the binder, the
// resource layer, and the view engine.  All collectors are registered with
// the global registry, so mounting promhttp.Handler() is enough to expose
// them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BindTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "objview_bind_total",
			Help: "Cumulative number of define-objects invocations.",
		})

	BindErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objview_bind_errors_total",
			Help: "Define-objects invocations aborted, by error kind.",
		}, []string{"kind"})

	BindingsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objview_bindings_published_total",
			Help: "Variables written into page scope, by role.",
		}, []string{"role"})

	ResourceResolveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "objview_resource_resolve_total",
			Help: "Resource resolutions, by result (found, missing, error).",
		}, []string{"result"})

	ResourceCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "objview_resource_cache_hits_total",
			Help: "Resource resolutions served from the in-memory cache.",
		})

	TemplateParseTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "objview_template_parse_total",
			Help: "Template sets parsed from disk (cache misses).",
		})
)

func init() {
	prometheus.MustRegister(
		BindTotal,
		BindErrorsTotal,
		BindingsPublishedTotal,
		ResourceResolveTotal,
		ResourceCacheHitsTotal,
		TemplateParseTotal,
	)
}
