package adapter

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genbridge",
			Subsystem: "adapter",
			Name:      "generations_total",
			Help:      "Total number of generations by outcome and fallback reason",
		},
		[]string{"outcome", "reason"},
	)

	loadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genbridge",
			Subsystem: "adapter",
			Name:      "loads_total",
			Help:      "Total number of model load attempts",
		},
		[]string{"result"},
	)

	inferenceDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "genbridge",
			Subsystem: "adapter",
			Name:      "inference_duration_seconds",
			Help:      "Duration of model inference calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	inflightGenerations = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genbridge",
			Subsystem: "adapter",
			Name:      "inflight_generations",
			Help:      "Generations currently running against a model",
		},
	)

	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genbridge",
			Subsystem: "adapter",
			Name:      "model_loaded",
			Help:      "1 when a model handle is loaded, 0 otherwise",
		},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal, loadsTotal, inferenceDuration, inflightGenerations, modelLoaded)
}

func reasonLabel(r Reason) string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}
