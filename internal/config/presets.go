package config

import (
	"sort"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/bunker"
)

var presets = map[string]func() *Case{
	"single": func() *Case {
		return &Case{
			Name: "single", Description: "one ore silo feeding a 50 m belt",
			TotalTime: 100,
			Belt:      BeltConfig{Length: 50, Resolution: 1, Velocity: 2},
			Materials: []string{"Ore"},
			Sources: []belt.Source{
				{Material: "Ore", Capacity: 1000, FlowRate: 10, BeltColumn: 5},
			},
		}
	},
	"two-silo": func() *Case {
		return &Case{
			Name: "two-silo", Description: "sinter and pellets, pellets starting late",
			TotalTime: 120,
			Belt:      BeltConfig{Length: 60, Resolution: 1, Velocity: 1},
			Materials: []string{"Sinter", "Pellets"},
			Sources: []belt.Source{
				{Material: "Sinter", Capacity: 1200, FlowRate: 12, MaterialRow: 0, BeltColumn: 5},
				{Material: "Pellets", Capacity: 600, FlowRate: 8, MaterialRow: 1, BeltColumn: 25, StartTime: 20},
			},
		}
	},
	"bf-burden": func() *Case {
		cfg := bunker.DefaultConfig()
		return &Case{
			Name: "bf-burden", Description: "blast-furnace burden with chemistry and bunker charging",
			TotalTime: 300,
			Belt:      BeltConfig{Length: 100, Resolution: 1, Velocity: 2},
			Materials: []string{"Sinter", "Pellets", "Lump Ore", "Limestone"},
			Sources: []belt.Source{
				{Material: "Sinter", Capacity: 3000, FlowRate: 15, MaterialRow: 0, BeltColumn: 10},
				{Material: "Pellets", Capacity: 1500, FlowRate: 8, MaterialRow: 1, BeltColumn: 30, StartTime: 10},
				{Material: "Lump Ore", Capacity: 800, FlowRate: 5, MaterialRow: 2, BeltColumn: 50, StartTime: 30},
				{Material: "Limestone", Capacity: 300, FlowRate: 2, MaterialRow: 3, BeltColumn: 70, StartTime: 20},
			},
			Chemistry: ChemistryConfig{Enabled: true},
			Bunker:    &cfg,
		}
	},
}

// GetPreset returns a fresh copy of the named case, or nil.
func GetPreset(name string) *Case {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
