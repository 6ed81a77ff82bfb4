package metrics

import (
	"sync"
	"time"

	"github.com/phanxgames/touchtable"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryCollector exposes finger-ownership counters. Add it to the engine
// with AddTicker; each tick copies the registry's stats into a snapshot that
// Collect reads under a lock.
type RegistryCollector struct {
	registry *touchtable.Registry

	claims    *prometheus.Desc
	conflicts *prometheus.Desc
	releases  *prometheus.Desc
	owned     *prometheus.Desc

	mu   sync.Mutex
	snap touchtable.RegistryStats
}

// NewRegistryCollector creates a collector for reg under namespace.
func NewRegistryCollector(reg *touchtable.Registry, namespace string) *RegistryCollector {
	if namespace == "" {
		namespace = "touchtable"
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "registry", name), help, nil, nil)
	}
	c := &RegistryCollector{
		registry:  reg,
		claims:    desc("claims_total", "Successful finger claims"),
		conflicts: desc("conflicts_total", "Claims refused because another recognizer held the finger"),
		releases:  desc("releases_total", "Finger claims released"),
		owned:     desc("owned_fingers", "Fingers currently owned by a recognizer"),
	}
	c.Sample()
	return c
}

// Sample copies the registry's current stats. Call it on the goroutine that
// drives the engine.
func (c *RegistryCollector) Sample() {
	if c.registry == nil {
		return
	}
	st := c.registry.Stats()
	c.mu.Lock()
	c.snap = st
	c.mu.Unlock()
}

// Tick implements touchtable.Ticker.
func (c *RegistryCollector) Tick(time.Duration) { c.Sample() }

// Describe implements prometheus.Collector.
func (c *RegistryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.claims
	ch <- c.conflicts
	ch <- c.releases
	ch <- c.owned
}

// Collect implements prometheus.Collector.
func (c *RegistryCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	st := c.snap
	c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.claims, prometheus.CounterValue, float64(st.Claims))
	ch <- prometheus.MustNewConstMetric(c.conflicts, prometheus.CounterValue, float64(st.Conflicts))
	ch <- prometheus.MustNewConstMetric(c.releases, prometheus.CounterValue, float64(st.Releases))
	ch <- prometheus.MustNewConstMetric(c.owned, prometheus.GaugeValue, float64(st.Active))
}
