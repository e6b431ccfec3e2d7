package function

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	registrations *prometheus.CounterVec
	functions     prometheus.Gauge
	cacheHits     prometheus.Counter
}

// newMetrics creates the registry's collectors and registers them with
// reg.  A nil reg leaves the collectors unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		registrations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funcsig_registrations_total",
				Help: "Number of signature registrations by result.",
			},
			[]string{"result"},
		),
		functions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "funcsig_functions",
			Help: "Number of distinct function names in the registry.",
		}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "funcsig_analysis_cache_hits_total",
			Help: "Number of argument list analyses served from cache.",
		}),
	}
}
