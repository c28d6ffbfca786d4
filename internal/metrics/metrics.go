// Package metrics counts upstream requests, credential rotations, persisted
// records, and verification outcomes on a private Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"prospector/internal/services"
)

const namespace = "prospector"

// Recorder holds the counters for one process. A nil *Recorder discards
// every observation.
type Recorder struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	rotations     *prometheus.CounterVec
	persisted     prometheus.Counter
	skipped       prometheus.Counter
	verifications *prometheus.CounterVec
}

// New registers the counters on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Upstream requests by source and outcome.",
		}, []string{"source", "outcome"}),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Credential rotations caused by rate limiting.",
		}, []string{"purpose"}),
		persisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_persisted_total",
			Help:      "Records inserted into storage.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Fetched records skipped because the list already held them.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Processed records by verification outcome.",
		}, []string{"outcome"}),
	}
	r.registry.MustRegister(r.requests, r.rotations, r.persisted, r.skipped, r.verifications)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveRequest counts one upstream call labelled with its outcome.
func (r *Recorder) ObserveRequest(source string, err error) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(source, services.Label(err)).Inc()
}

// AddRotations counts credential rotations for purpose.
func (r *Recorder) AddRotations(purpose string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.rotations.WithLabelValues(purpose).Add(float64(n))
}

// AddPage counts the inserted and skipped records of one page.
func (r *Recorder) AddPage(inserted, skipped int) {
	if r == nil {
		return
	}
	if inserted > 0 {
		r.persisted.Add(float64(inserted))
	}
	if skipped > 0 {
		r.skipped.Add(float64(skipped))
	}
}

// ObserveVerification counts one processed record.
func (r *Recorder) ObserveVerification(outcome string) {
	if r == nil {
		return
	}
	r.verifications.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
