// Package metrics records operational metrics from the process_data pipeline
// through a pluggable, global Backend.
//
// The default backend is a no-op, so the recording helpers are always safe to
// call. Concrete systems live in subpackages (prompush, datadog) and are
// installed with SetBackend by the command that owns the process.
package metrics

import "time"

// Metric names shared by every backend.
const (
	StepTotal           = "etl_step_total"
	StepDurationSeconds = "etl_step_duration_seconds"
	RecordsTotal        = "etl_records_total"
	BatchesTotal        = "etl_batches_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep counts one run of a pipeline step and records its duration,
// labelled with job, step and status ("success" or "failure").
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDurationSeconds, d.Seconds(), lbls)
}

// Time runs fn as the named step and records it with RecordStep. It returns
// fn's error unchanged.
func Time(job, step string, fn func() error) error {
	start := time.Now()
	err := fn()
	RecordStep(job, step, err, time.Since(start))
	return err
}

// RecordRow adds delta to the row counter for kind. Kinds used by
// process_data:
//   - "loaded": rows after the join
//   - "duplicates": rows removed by de-duplication
//   - "inserted": rows written to the destination
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches adds delta to the bulk-insert batch counter.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}
