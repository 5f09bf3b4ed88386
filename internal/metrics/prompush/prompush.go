// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// process_data is a short-lived batch command, so instead of exposing a scrape
// endpoint the collected registry is pushed to a Pushgateway on Flush. The
// pipeline job name is the Pushgateway "job" grouping key.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"disasteretl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string
	jobName    string
	reg        *prometheus.Registry

	stepCounter   *prometheus.CounterVec // step, status
	stepDuration  *prometheus.SummaryVec // step, status
	recordCounter *prometheus.CounterVec // kind
	batchCounter  prometheus.Counter
}

// NewBackend constructs a Pushgateway backend. An empty jobName becomes
// "process_data".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "process_data"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		stepCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline step runs (load, clean, save) by step and status.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDurationSeconds,
			Help:       "Pipeline step duration in seconds by step and status.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		recordCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Row counts by kind (loaded, duplicates, inserted).",
		}, []string{"kind"}),
		batchCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Bulk insert batches written to the destination.",
		}),
	}

	for name, c := range map[string]prometheus.Collector{
		"step counter":   b.stepCounter,
		"step summary":   b.stepDuration,
		"record counter": b.recordCounter,
		"batch counter":  b.batchCounter,
	} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", name, err)
		}
	}
	return b, nil
}

// IncCounter implements metrics.Backend. Unknown names are ignored; the job
// label is carried by the Pushgateway grouping key instead.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter != nil {
			b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)
		}
	case metrics.RecordsTotal:
		if b.recordCounter != nil {
			b.recordCounter.WithLabelValues(labels["kind"]).Add(delta)
		}
	case metrics.BatchesTotal:
		if b.batchCounter != nil {
			b.batchCounter.Add(delta)
		}
	}
}

// ObserveHistogram implements metrics.Backend for the step duration summary.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDurationSeconds || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
