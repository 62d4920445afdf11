package optim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/beltsim/internal/sim"
)

// Setters apply one swept value to a copy of the base parameters.
var setters = map[string]func(*sim.Parameters, float64){
	"belt_velocity": func(p *sim.Parameters, v float64) { p.BeltVelocity = v },
	"resolution":    func(p *sim.Parameters, v float64) { p.Resolution = v },
	"belt_length":   func(p *sim.Parameters, v float64) { p.BeltLength = v },
	"total_time":    func(p *sim.Parameters, v float64) { p.TotalTime = v },
	// flow_scale multiplies every source's flow rate; capacities are kept,
	// so sources empty sooner.
	"flow_scale": func(p *sim.Parameters, v float64) {
		for i := range p.Sources {
			p.Sources[i].FlowRate *= v
		}
	},
}

// Params lists the parameters a sweep can vary.
func Params() []string {
	names := make([]string, 0, len(setters))
	for n := range setters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Param  string    `yaml:"param" json:"param"`
	Values []float64 `yaml:"values" json:"values"`
}

// GridSearch runs the cartesian product of its axes.
type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes []Axis) (*GridSearch, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("sweep needs at least one axis")
	}
	seen := make(map[string]bool, len(axes))
	for _, a := range axes {
		if _, ok := setters[a.Param]; !ok {
			return nil, fmt.Errorf("unknown sweep parameter %q (have %v)", a.Param, Params())
		}
		if seen[a.Param] {
			return nil, fmt.Errorf("parameter %q swept twice", a.Param)
		}
		seen[a.Param] = true
		if len(a.Values) == 0 {
			return nil, fmt.Errorf("parameter %q has no values", a.Param)
		}
	}
	return &GridSearch{axes: axes}, nil
}

// Size is the number of points in the grid.
func (g *GridSearch) Size() int {
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Points enumerates the grid in axis order, the last axis varying fastest.
func (g *GridSearch) Points(base sim.Parameters) ([]map[string]float64, []sim.Parameters) {
	values := make([]map[string]float64, 0, g.Size())
	params := make([]sim.Parameters, 0, g.Size())
	g.pointsRecursive(0, map[string]float64{}, base, &values, &params)
	return values, params
}

func (g *GridSearch) pointsRecursive(
	depth int,
	current map[string]float64,
	base sim.Parameters,
	values *[]map[string]float64,
	params *[]sim.Parameters,
) {
	if depth == len(g.axes) {
		p := base.Clone()
		for _, a := range g.axes {
			setters[a.Param](&p, current[a.Param])
		}
		*values = append(*values, current)
		*params = append(*params, p)
		return
	}

	axis := g.axes[depth]
	for _, v := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, cv := range current {
			next[k] = cv
		}
		next[axis.Param] = v
		g.pointsRecursive(depth+1, next, base, values, params)
	}
}

// Run validates every point on e, then runs the valid ones concurrently.
// Invalid points are reported in their row rather than failing the sweep.
func (g *GridSearch) Run(ctx context.Context, e *sim.Engine, concurrency int, base sim.Parameters) (*Sweep, error) {
	values, params := g.Points(base)

	sweep := &Sweep{Rows: make([]Row, len(params))}
	for _, a := range g.axes {
		sweep.Axes = append(sweep.Axes, a.Param)
	}

	var (
		runnable []sim.Parameters
		index    []int
	)
	for i, p := range params {
		sweep.Rows[i].Values = values[i]
		if _, err := e.Validate(p); err != nil {
			sweep.Rows[i].Err = err.Error()
			continue
		}
		runnable = append(runnable, p)
		index = append(index, i)
	}

	results, err := sim.NewBatch(e, concurrency).Run(ctx, runnable)
	if err != nil {
		return nil, err
	}
	for j, res := range results {
		sweep.Rows[index[j]].fill(res)
	}
	return sweep, nil
}
