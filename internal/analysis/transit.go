package analysis

import (
	"math"

	"github.com/san-kum/beltsim/internal/sim"
)

// Transit is when a source's material is expected at the discharge end.
type Transit struct {
	Source       int     `json:"source"`
	Material     string  `json:"material"`
	TravelTime   float64 `json:"travel_time"`
	FirstArrival float64 `json:"first_arrival"`
	LastArrival  float64 `json:"last_arrival"`
	// Arrives is false when nothing reaches the end within the run.
	Arrives bool `json:"arrives"`
}

// Transits derives the arrival window of every source from the belt
// geometry alone.
func Transits(p sim.Parameters) []Transit {
	out := make([]Transit, len(p.Sources))
	for i, s := range p.Sources {
		travel := p.TravelTime(s.BeltColumn)
		first := s.StartTime + travel
		out[i] = Transit{
			Source:       i,
			Material:     p.Materials[s.MaterialRow],
			TravelTime:   travel,
			FirstArrival: first,
			LastArrival:  math.Min(s.EndTime()+travel, p.TotalTime),
			Arrives:      first <= p.TotalTime,
		}
	}
	return out
}
