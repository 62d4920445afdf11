package metrics

import (
	"fmt"
	"sort"
)

// Metric accumulates a scalar over the rows of a flow table. Rows are
// [material flows..., time, total].
type Metric interface {
	Name() string
	Observe(row []float64)
	Value() float64
	Reset()
}

// Defaults returns fresh instances of the standard run metrics. Each run
// must use its own instances.
func Defaults() []Metric {
	return []Metric{
		NewPeakFlow(),
		NewMeanFlow(),
		NewFirstArrival(),
		NewActiveFraction(),
	}
}

// Evaluate resets ms, feeds them every row and collects their values.
func Evaluate(flow [][]float64, ms []Metric) map[string]float64 {
	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
	}
	for _, row := range flow {
		if len(row) < 2 {
			continue
		}
		for _, m := range ms {
			m.Observe(row)
		}
	}
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}

func total(row []float64) float64 { return row[len(row)-1] }
func timeOf(row []float64) float64 { return row[len(row)-2] }

var registry = map[string]func() Metric{
	"peak_flow":       func() Metric { return NewPeakFlow() },
	"mean_flow":       func() Metric { return NewMeanFlow() },
	"first_arrival":   func() Metric { return NewFirstArrival() },
	"active_fraction": func() Metric { return NewActiveFraction() },
}

// Lookup returns a fresh instance of the named metric.
func Lookup(name string) (Metric, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

// Names lists the registered metrics, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Factory returns a constructor for the named metrics, suitable for
// sim.WithMetrics. Unknown names fail here rather than per run.
func Factory(names []string) (func() []Metric, error) {
	for _, n := range names {
		if _, ok := registry[n]; !ok {
			return nil, fmt.Errorf("unknown metric: %s", n)
		}
	}
	return func() []Metric {
		ms := make([]Metric, len(names))
		for i, n := range names {
			ms[i] = registry[n]()
		}
		return ms
	}, nil
}
