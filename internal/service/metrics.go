package service

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// Metrics holds the Prometheus collectors for evaluations.
type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	FailuresTotal      *prometheus.CounterVec
	MissingCriteria    prometheus.Histogram
	EvaluationDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "admitgate",
				Name:      "evaluations_total",
				Help:      "Total admission evaluations by outcome",
			},
			[]string{"policy", "result"}, // result=admit/no_admit
		),
		FailuresTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "admitgate",
				Name:      "evaluation_failures_total",
				Help:      "Total rejected inputs by error kind",
			},
			[]string{"kind"},
		),
		MissingCriteria: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "admitgate",
				Name:      "missing_criteria",
				Help:      "Number of absent criteria per evaluation",
				Buckets:   prometheus.LinearBuckets(0, 1, 13),
			},
		),
		EvaluationDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "admitgate",
				Name:      "evaluation_duration_seconds",
				Help:      "Evaluation duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
	}
}

// ObserveFailure counts a rejected input under its error kind.
func (m *Metrics) ObserveFailure(err error) {
	if m == nil || err == nil {
		return
	}
	kind, ok := criteria.KindOf(err)
	if !ok {
		kind = "Internal"
	}
	m.FailuresTotal.WithLabelValues(string(kind)).Inc()
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if path == "" {
		return errors.New("metrics textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
