// Package metrics exports touchtable gesture activity as Prometheus metrics.
//
// A [Sink] counts gesture events and plugs into an engine as its
// touchtable.EventSink. A [RegistryCollector] exposes the finger-ownership
// counters; it samples the registry on the engine goroutine each tick so
// scrapes never touch engine state directly.
package metrics

import (
	"math"

	"github.com/phanxgames/touchtable"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink counts gesture events. It implements touchtable.EventSink.
type Sink struct {
	namespace   string
	subsystem   string
	stepBuckets []float64
	registry    prometheus.Registerer

	events   *prometheus.CounterVec
	sessions *prometheus.GaugeVec
	steps    prometheus.Histogram
	scales   *prometheus.GaugeVec
	clones   prometheus.Counter
	snaps    *prometheus.CounterVec
}

// NewSink creates a Sink and registers its metrics.
func NewSink(opts ...Option) *Sink {
	s := &Sink{
		namespace:   "touchtable",
		subsystem:   "gestures",
		stepBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45},
		registry:    prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initializeMetrics()
	return s
}

func (s *Sink) initializeMetrics() {
	auto := promauto.With(s.registry)

	s.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "events_total",
		Help:      "Gesture events by type and recognizer",
	}, []string{"type", "recognizer"})

	s.sessions = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "active_sessions",
		Help:      "Gesture sessions currently running, by recognizer",
	}, []string{"recognizer"})

	s.steps = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "rotation_step_degrees",
		Help:      "Magnitude of each applied rotation step in degrees",
		Buckets:   s.stepBuckets,
	})

	s.scales = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "last_scale_ratio",
		Help:      "Most recent pinch ratio applied to an object",
	}, []string{"object"})

	s.clones = auto.NewCounter(prometheus.CounterOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "clones_spawned_total",
		Help:      "Clones instantiated by duplication strokes",
	})

	s.snaps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: s.namespace,
		Subsystem: s.subsystem,
		Name:      "snaps_total",
		Help:      "Objects locked onto anchors, by anchor",
	}, []string{"anchor"})
}

// EmitEvent implements touchtable.EventSink.
func (s *Sink) EmitEvent(ev touchtable.GestureEvent) {
	s.events.WithLabelValues(ev.Type.String(), ev.Recognizer).Inc()

	switch ev.Type {
	case touchtable.EventGestureBegan:
		s.sessions.WithLabelValues(ev.Recognizer).Inc()
	case touchtable.EventGestureEnded, touchtable.EventGestureCanceled:
		s.sessions.WithLabelValues(ev.Recognizer).Dec()
	case touchtable.EventRotated:
		s.steps.Observe(math.Abs(ev.Value))
	case touchtable.EventScaled:
		s.scales.WithLabelValues(ev.ObjectID).Set(ev.Value)
	case touchtable.EventCloneSpawned:
		s.clones.Inc()
	case touchtable.EventSnapped:
		s.snaps.WithLabelValues(ev.Anchor).Inc()
	}
}
