package orchestrator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// attempt outcomes
const (
	outcomeSuccess  = "success"
	outcomeFallback = "fallback" // placed into default category
	outcomeFailed   = "failed"
	outcomeTimeout  = "timeout"
	outcomeSkipped  = "skipped"
)

// pipeline stages
const (
	stageExtract  = "extract"
	stageClassify = "classify"
	stagePlace    = "place"
	stageTotal    = "total"
)

// Metrics of classification attempts
type Metrics struct {
	outcomes *prometheus.CounterVec
	stages   *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewMetrics makes metrics registered with reg, nil reg leaves them unregistered
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookmarker",
			Name:      "classifications_total",
			Help:      "Classification attempts by outcome",
		}, []string{"outcome"}),
		stages: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bookmarker",
			Name:      "stage_duration_seconds",
			Help:      "Duration of classification stages",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "bookmarker",
			Name:      "inflight_resources",
			Help:      "Resources currently being classified",
		}),
	}
}

func (m *Metrics) outcome(name string) {
	m.outcomes.WithLabelValues(name).Inc()
}

func (m *Metrics) observe(stage string, d time.Duration) {
	m.stages.WithLabelValues(stage).Observe(d.Seconds())
}
