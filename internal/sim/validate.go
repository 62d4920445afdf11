package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/beltsim/internal/chem"
)

// DefaultEndTimeMargin bounds how far past TotalTime a source may keep
// discharging, as a multiple of TotalTime.
const DefaultEndTimeMargin = 1.5

// Warning is a non-fatal finding about otherwise valid parameters.
type Warning struct {
	Source int
	Msg    string
}

func (w Warning) String() string {
	if w.Source >= 0 {
		return fmt.Sprintf("sources[%d]: %s", w.Source, w.Msg)
	}
	return w.Msg
}

type Warnings []Warning

// Strings returns the warnings as text, or nil when there are none.
func (ws Warnings) Strings() []string {
	if len(ws) == 0 {
		return nil
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}

// Validate checks p against the default limits.
func Validate(p Parameters) (Warnings, error) {
	return validate(p, DefaultLimits(), DefaultEndTimeMargin)
}

// validate fails on the first violation. Checks run in a fixed order so the
// same parameters always produce the same error.
func validate(p Parameters, lim Limits, margin float64) (Warnings, error) {
	scalars := []struct {
		name string
		v    float64
	}{
		{"total_time", p.TotalTime},
		{"belt_length", p.BeltLength},
		{"resolution", p.Resolution},
		{"belt_velocity", p.BeltVelocity},
	}
	for _, s := range scalars {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) {
			return nil, invalid(s.name, "must be finite, got %g", s.v)
		}
		if s.v <= 0 {
			return nil, invalid(s.name, "must be positive, got %g", s.v)
		}
	}
	if p.Resolution > p.BeltLength {
		return nil, invalid("resolution", "%g exceeds belt_length %g", p.Resolution, p.BeltLength)
	}

	cols := math.Floor(p.BeltLength / p.Resolution)
	if cols > float64(lim.MaxColumns) {
		return nil, &ResourceError{Resource: "belt columns", Required: cols, Limit: lim.MaxColumns}
	}
	steps := math.Floor(p.TotalTime / (p.Resolution / p.BeltVelocity))
	if steps > float64(lim.MaxSteps) {
		return nil, &ResourceError{Resource: "time steps", Required: steps, Limit: lim.MaxSteps}
	}

	if len(p.Materials) == 0 {
		return nil, invalid("materials", "at least one material is required")
	}
	seen := make(map[string]int, len(p.Materials))
	for i, m := range p.Materials {
		if strings.TrimSpace(m) == "" {
			return nil, invalid("materials", "material %d has an empty name", i)
		}
		if j, dup := seen[m]; dup {
			return nil, invalid("materials", "%q listed twice (rows %d and %d)", m, j, i)
		}
		seen[m] = i
	}

	n := float64(len(p.Materials))
	if cells := (steps + 1) * (n + 2); cells > float64(lim.MaxCells) {
		return nil, &ResourceError{Resource: "flow table cells", Required: cells, Limit: lim.MaxCells}
	}
	if p.TracksChemistry() {
		if cells := n * cols * chem.NumComponents; cells > float64(lim.MaxCells) {
			return nil, &ResourceError{Resource: "chemistry grid cells", Required: cells, Limit: lim.MaxCells}
		}
	}

	if len(p.Sources) == 0 {
		return nil, invalid("sources", "at least one source is required")
	}
	ncols := int(cols)
	for i, s := range p.Sources {
		if math.IsNaN(s.Capacity) || math.IsInf(s.Capacity, 0) || s.Capacity <= 0 {
			return nil, invalidSource(i, "capacity", "must be positive, got %g", s.Capacity)
		}
		if math.IsNaN(s.FlowRate) || math.IsInf(s.FlowRate, 0) || s.FlowRate <= 0 {
			return nil, invalidSource(i, "flow_rate", "must be positive, got %g", s.FlowRate)
		}
		if math.IsNaN(s.StartTime) || math.IsInf(s.StartTime, 0) || s.StartTime < 0 {
			return nil, invalidSource(i, "start_time", "must be non-negative, got %g", s.StartTime)
		}
		if s.MaterialRow < 0 || s.MaterialRow >= len(p.Materials) {
			return nil, invalidSource(i, "material_row", "%d outside [0, %d)", s.MaterialRow, len(p.Materials))
		}
		if s.BeltColumn < 0 || s.BeltColumn >= ncols {
			return nil, invalidSource(i, "belt_column", "%d outside [0, %d)", s.BeltColumn, ncols)
		}
		if s.StartTime > p.TotalTime {
			return nil, invalidSource(i, "start_time", "%g is after total_time %g", s.StartTime, p.TotalTime)
		}
		if end := s.EndTime(); margin > 0 && end > margin*p.TotalTime {
			return nil, invalidSource(i, "capacity",
				"discharge would end at %g, past %g x total_time (%g)", end, margin, margin*p.TotalTime)
		}
	}

	if p.TracksChemistry() {
		for _, m := range p.Materials {
			entry, ok := p.MaterialChemistry[m]
			if !ok {
				return nil, invalid("material_chemistry", "no analysis for material %q", m)
			}
			if err := entry.Validate(); err != nil {
				return nil, invalid("material_chemistry", "%s: %v", m, err)
			}
		}
	}

	return warnings(p), nil
}

func warnings(p Parameters) Warnings {
	var ws Warnings
	last := p.Columns() - 1
	for i, s := range p.Sources {
		if s.Material != "" && s.Material != p.Materials[s.MaterialRow] {
			ws = append(ws, Warning{i, fmt.Sprintf("material %q placed on row %d (%q)", s.Material, s.MaterialRow, p.Materials[s.MaterialRow])})
		}
		if s.EndTime() > p.TotalTime {
			ws = append(ws, Warning{i, fmt.Sprintf("still discharging at end of run (ends at %g)", s.EndTime())})
		}
		if s.BeltColumn == last {
			ws = append(ws, Warning{i, "placed at the discharge column"})
		}
		if s.StartTime+p.TravelTime(s.BeltColumn) > p.TotalTime {
			ws = append(ws, Warning{i, "material does not reach the discharge end within total_time"})
		}
	}
	return ws
}
