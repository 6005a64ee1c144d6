package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the API's prometheus instruments on a private registry.
type Collector struct {
	reg *prometheus.Registry

	PlanRequests *prometheus.CounterVec // leg_type label, "none" when empty
	PlanErrors   prometheus.Counter
	PlanDuration prometheus.Histogram

	DetailRequests prometheus.Counter

	LiveFeedErrors prometheus.Counter
}

// NewCollector registers and returns the API metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		PlanRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_plan_requests_total",
			Help: "Total plan requests served, labeled by resulting leg type.",
		}, []string{"leg_type"}),
		PlanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_plan_errors_total",
			Help: "Total plan requests that failed.",
		}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "planner_plan_duration_seconds",
			Help:    "Plan request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		DetailRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_detail_requests_total",
			Help: "Total trip detail requests served.",
		}),
		LiveFeedErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_live_feed_errors_total",
			Help: "Total failed live departure feed fetches.",
		}),
	}

	reg.MustRegister(
		c.PlanRequests,
		c.PlanErrors,
		c.PlanDuration,
		c.DetailRequests,
		c.LiveFeedErrors,
	)
	return c
}

// Handler exposes the registry for the /metrics route.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
