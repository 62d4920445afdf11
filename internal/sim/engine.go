package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/metrics"
)

type Engine struct {
	limits         Limits
	log            logrus.FieldLogger
	metrics        func() []metrics.Metric
	basicityTarget float64
	endTimeMargin  float64
}

type Option func(*Engine)

func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithLimits overrides resource limits; non-positive fields keep their
// defaults.
func WithLimits(l Limits) Option {
	return func(e *Engine) { e.limits = l.withDefaults() }
}

// WithMetrics sets the factory for per-run metrics. It is called once per
// run so runs never share metric state.
func WithMetrics(f func() []metrics.Metric) Option {
	return func(e *Engine) { e.metrics = f }
}

func WithBasicityTarget(b2 float64) Option {
	return func(e *Engine) { e.basicityTarget = b2 }
}

// WithEndTimeMargin sets how far past TotalTime, as a multiple of it, a
// source may still be discharging. Zero or less disables the check.
func WithEndTimeMargin(m float64) Option {
	return func(e *Engine) { e.endTimeMargin = m }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		limits:         DefaultLimits(),
		log:            logrus.StandardLogger(),
		metrics:        metrics.Defaults,
		basicityTarget: chem.DefaultBasicityTarget,
		endTimeMargin:  DefaultEndTimeMargin,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Limits() Limits { return e.limits }

// Validate checks p against this engine's limits.
func (e *Engine) Validate(p Parameters) (Warnings, error) {
	return validate(p, e.limits, e.endTimeMargin)
}

// state is everything a single run mutates.
type state struct {
	grid *belt.Grid
	chem *belt.ChemGrid
	flow [][]float64
	time float64
	step int
}

// Run validates p and simulates it to completion. Results are not shared
// with the engine or with other runs.
func (e *Engine) Run(p Parameters) (*Results, error) {
	ws, err := e.Validate(p)
	if err != nil {
		return nil, err
	}
	for _, w := range ws {
		e.log.WithField("source", w.Source).Warn(w.Msg)
	}

	dt := p.Dt()
	nSteps := p.Steps()
	k := p.CellsPerStep()
	cols := p.Columns()
	nm := len(p.Materials)
	tracked := p.TracksChemistry()

	e.log.WithFields(logrus.Fields{
		"steps":          nSteps,
		"dt":             dt,
		"cells_per_step": k,
		"columns":        cols,
		"chemistry":      tracked,
	}).Debug("starting belt simulation")

	st := &state{
		grid: belt.NewGrid(nm, cols),
		flow: make([][]float64, 0, nSteps+1),
	}

	// component mass per unit of material, by material row
	var perUnit [][]float64
	if tracked {
		st.chem = belt.NewChemGrid(nm, cols, chem.NumComponents)
		perUnit = make([][]float64, nm)
		for i, m := range p.Materials {
			perUnit[i] = p.MaterialChemistry[m].Chemistry.Scale(0.01).Vector()
		}
	}
	comp := make([]float64, chem.NumComponents)

	for st.time <= p.TotalTime && st.step <= nSteps {
		for _, src := range p.Sources {
			if !src.ActiveAt(st.time) {
				continue
			}
			q := src.Quantity(dt)
			st.grid.Add(src.MaterialRow, src.BeltColumn, q)
			if tracked {
				for c, v := range perUnit[src.MaterialRow] {
					comp[c] = v * q
				}
				st.chem.Add(src.MaterialRow, src.BeltColumn, comp)
			}
		}

		sample := make([]float64, nm+2)
		st.grid.Discharge(sample[:nm])
		sample[nm] = st.time
		sample[nm+1] = metrics.RowSum(sample[:nm])
		st.flow = append(st.flow, sample)

		st.grid.Shift(k)
		if tracked {
			st.chem.Shift(k)
		}

		st.time += dt
		st.step++
	}

	res := e.collect(p, st, ws)
	e.log.WithFields(logrus.Fields{
		"steps":         res.Metadata.Steps,
		"balance_error": res.Metadata.MassBalance.Error,
	}).Debug("belt simulation finished")
	return res, nil
}

func (e *Engine) collect(p Parameters, st *state, ws Warnings) *Results {
	flow := st.flow[:len(st.flow):len(st.flow)]
	props := metrics.Proportions(flow)

	meta := Metadata{
		Steps:        len(flow),
		Dt:           p.Dt(),
		CellsPerStep: p.CellsPerStep(),
		Columns:      st.grid.Cols(),
		MassBalance:  metrics.MassBalance(flow),
		Metrics:      metrics.Evaluate(flow, e.metrics()),
		Variability:  metrics.Variability(flow, props),
		Warnings:     ws.Strings(),
	}
	if len(flow) > 0 {
		meta.FinalTime = flow[len(flow)-1][len(p.Materials)]
	}

	res := &Results{
		Parameters:  p.Clone(),
		Flow:        flow,
		Proportions: props,
		FinalGrid:   st.grid.Matrix(),
		Metadata:    meta,
	}
	if st.chem != nil {
		res.Metadata.ChemistryTracked = true
		res.ChemistryTrend = chem.Trends(flow, p.Materials, p.MaterialChemistry)
		res.ChemistryGrid = st.chem.Tensor()
		res.Quality = chem.Assess(res.ChemistryTrend, e.basicityTarget)
	}
	return res
}
