package metrics

import "math"

// PeakFlow is the largest total discharge of any step.
type PeakFlow struct {
	peak float64
}

func NewPeakFlow() *PeakFlow { return &PeakFlow{} }

func (p *PeakFlow) Name() string { return "peak_flow" }

func (p *PeakFlow) Observe(row []float64) {
	p.peak = math.Max(p.peak, total(row))
}

func (p *PeakFlow) Value() float64 { return p.peak }
func (p *PeakFlow) Reset()         { p.peak = 0 }

// MeanFlow averages total discharge over every step, including empty ones.
type MeanFlow struct {
	sum     float64
	samples int
}

func NewMeanFlow() *MeanFlow { return &MeanFlow{} }

func (m *MeanFlow) Name() string { return "mean_flow" }

func (m *MeanFlow) Observe(row []float64) {
	m.sum += total(row)
	m.samples++
}

func (m *MeanFlow) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanFlow) Reset() {
	m.sum = 0
	m.samples = 0
}

// FirstArrival is the time material first reaches the discharge point, or -1
// if it never does.
type FirstArrival struct {
	at    float64
	found bool
}

func NewFirstArrival() *FirstArrival { return &FirstArrival{} }

func (f *FirstArrival) Name() string { return "first_arrival" }

func (f *FirstArrival) Observe(row []float64) {
	if !f.found && total(row) > 0 {
		f.at = timeOf(row)
		f.found = true
	}
}

func (f *FirstArrival) Value() float64 {
	if !f.found {
		return -1
	}
	return f.at
}

func (f *FirstArrival) Reset() {
	f.at = 0
	f.found = false
}

// ActiveFraction is the share of steps with material at the discharge point.
type ActiveFraction struct {
	active  int
	samples int
}

func NewActiveFraction() *ActiveFraction { return &ActiveFraction{} }

func (a *ActiveFraction) Name() string { return "active_fraction" }

func (a *ActiveFraction) Observe(row []float64) {
	a.samples++
	if total(row) > 0 {
		a.active++
	}
}

func (a *ActiveFraction) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.active) / float64(a.samples)
}

func (a *ActiveFraction) Reset() {
	a.active = 0
	a.samples = 0
}
