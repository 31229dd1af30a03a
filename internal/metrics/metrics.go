// Package metrics provides Prometheus metrics for recipe aggregate operations
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "apitizers"

// AggregateMetrics counts and times aggregate write and read operations
type AggregateMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	imageUploads      *prometheus.CounterVec
	gatherer          prometheus.Gatherer
}

// New registers the aggregate metrics on a fresh registry
func New() *AggregateMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *AggregateMetrics {
	factory := promauto.With(reg)
	return &AggregateMetrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recipes",
				Name:      "operations_total",
				Help:      "Total number of recipe aggregate operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "recipes",
				Name:      "operation_duration_seconds",
				Help:      "Duration of recipe aggregate operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		imageUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "images",
				Name:      "uploads_total",
				Help:      "Image uploads and compensating deletes",
			},
			[]string{"action", "outcome"},
		),
		gatherer: gatherer,
	}
}

// ObserveOperation records one aggregate operation. Safe on a nil receiver.
func (m *AggregateMetrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveImage records an upload ("publish") or compensating delete ("discard").
func (m *AggregateMetrics) ObserveImage(action string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.imageUploads.WithLabelValues(action, outcome).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *AggregateMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
