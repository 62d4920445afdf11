package belt

import "fmt"

// Source is a discharge point that feeds one material onto the belt at a
// constant rate until its capacity is exhausted.
type Source struct {
	Material    string  `json:"material" yaml:"material"`
	Capacity    float64 `json:"capacity" yaml:"capacity"`
	FlowRate    float64 `json:"flow_rate" yaml:"flow_rate"`
	MaterialRow int     `json:"material_row" yaml:"material_row"`
	BeltColumn  int     `json:"belt_column" yaml:"belt_column"`
	StartTime   float64 `json:"start_time" yaml:"start_time"`
}

// EndTime is derived from capacity and flow rate on every call.
func (s Source) EndTime() float64 {
	return s.StartTime + s.Capacity/s.FlowRate
}

// Duration is the length of the discharge window in seconds.
func (s Source) Duration() float64 {
	return s.Capacity / s.FlowRate
}

// ActiveAt reports whether the source discharges at time t. Both ends of the
// window are inclusive.
func (s Source) ActiveAt(t float64) bool {
	return s.StartTime <= t && t <= s.EndTime()
}

// Quantity is the mass (or volume) released during one step of length dt.
func (s Source) Quantity(dt float64) float64 {
	return s.FlowRate * dt
}

func (s Source) String() string {
	return fmt.Sprintf("%s@[%d,%d] %.3g/%.3g t=%.2f..%.2f",
		s.Material, s.MaterialRow, s.BeltColumn, s.FlowRate, s.Capacity, s.StartTime, s.EndTime())
}
