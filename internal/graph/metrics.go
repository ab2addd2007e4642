package graph

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/yuusheng/rolldown/internal/logger"
)

// A nil "*Metrics" is valid and records nothing
type Metrics struct {
	Registry *prometheus.Registry

	modules       *prometheus.CounterVec
	stageSeconds  *prometheus.HistogramVec
	diagnostics   *prometheus.CounterVec
	importRecords *prometheus.CounterVec
	inFlight      prometheus.Gauge
}

// Each call gets its own registry so repeated runs (and tests) never collide
// on the global one
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		Registry: registry,

		modules: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolldown",
			Subsystem: "scan",
			Name:      "modules_total",
			Help:      "Modules processed, by loader and outcome.",
		}, []string{"loader", "outcome"}),

		stageSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rolldown",
			Subsystem: "scan",
			Name:      "stage_seconds",
			Help:      "Time spent in each per-module stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"stage"}),

		diagnostics: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolldown",
			Subsystem: "scan",
			Name:      "diagnostics_total",
			Help:      "Messages reported while scanning, by kind.",
		}, []string{"kind"}),

		importRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rolldown",
			Subsystem: "scan",
			Name:      "import_records_total",
			Help:      "Import records created, by import kind.",
		}, []string{"kind"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "rolldown",
			Subsystem: "scan",
			Name:      "modules_in_flight",
			Help:      "Modules currently being processed.",
		}),
	}
}

func (m *Metrics) begin() {
	if m != nil {
		m.inFlight.Inc()
	}
}

func (m *Metrics) end(module *Module) {
	if m == nil {
		return
	}
	m.inFlight.Dec()

	outcome := "ok"
	if module.Failed {
		outcome = "failed"
	}
	m.modules.WithLabelValues(module.Loader.String(), outcome).Inc()

	for _, stage := range module.Stages {
		m.stageSeconds.WithLabelValues(strings.TrimSpace(stage.Name)).Observe(stage.Duration.Seconds())
	}

	for _, msg := range module.Msgs {
		if msg.Kind == logger.Error || msg.Kind == logger.Warning {
			m.diagnostics.WithLabelValues(msg.Kind.String()).Inc()
		}
	}

	if module.Scan != nil {
		for _, record := range module.Scan.ImportRecords {
			m.importRecords.WithLabelValues(record.Kind.String()).Inc()
		}
	}
}
