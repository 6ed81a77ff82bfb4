package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type dtoMetric struct {
	count uint64
	sum   float64
}

func (m *dtoMetric) read(h prometheus.Histogram) error {
	var out dto.Metric
	if err := h.Write(&out); err != nil {
		return err
	}
	m.count = out.GetHistogram().GetSampleCount()
	m.sum = out.GetHistogram().GetSampleSum()
	return nil
}

// collected returns the value of the single unlabeled metric called name, or
// -1 when it is missing.
func collected(g prometheus.Gatherer, name string) float64 {
	families, err := g.Gather()
	if err != nil {
		return -1
	}
	for _, f := range families {
		if f.GetName() != name || len(f.GetMetric()) == 0 {
			continue
		}
		m := f.GetMetric()[0]
		if c := m.GetCounter(); c != nil {
			return c.GetValue()
		}
		if gauge := m.GetGauge(); gauge != nil {
			return gauge.GetValue()
		}
	}
	return -1
}
