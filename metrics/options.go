package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to a Sink.
type Option func(*Sink)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(s *Sink) {
		if namespace != "" {
			s.namespace = namespace
		}
	}
}

// WithSubsystem sets the subsystem for all metrics.
func WithSubsystem(subsystem string) Option {
	return func(s *Sink) {
		if subsystem != "" {
			s.subsystem = subsystem
		}
	}
}

// WithStepBuckets sets the histogram buckets for per-event rotation steps,
// in degrees.
func WithStepBuckets(buckets []float64) Option {
	return func(s *Sink) {
		if len(buckets) > 0 {
			s.stepBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets the registry metrics are registered on.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(s *Sink) {
		if registry != nil {
			s.registry = registry
		}
	}
}
