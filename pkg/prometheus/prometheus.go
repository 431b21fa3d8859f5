package prometheus

import (
	"net/http"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry holding the runtime collectors, the service
// metrics declared in common and a constant build_info gauge labelled with env.
func NewRegistry(env string) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "build_info",
			Help:        "Always 1, labelled with the deployment environment",
			ConstLabels: prometheus.Labels{"env": env},
		}, func() float64 { return 1 }),
	)

	for _, counter := range common.PromCounters {
		registry.MustRegister(counter)
	}

	for _, histogram := range common.PromHistograms {
		registry.MustRegister(histogram)
	}

	return registry
}

func NewHandler(env string) http.Handler {
	registry := NewRegistry(env)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
