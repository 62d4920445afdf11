package chem

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/ini.v1"
)

// DefaultDensity applies to library entries without a density (kg/m³).
const DefaultDensity = 2000.0

// Material is the analysis and bulk density of one burden material.
type Material struct {
	Chemistry Composition `json:"chemistry" yaml:"chemistry"`
	Density   float64     `json:"density" yaml:"density"`
}

func (m Material) Validate() error {
	if math.IsNaN(m.Density) || math.IsInf(m.Density, 0) || m.Density <= 0 {
		return fmt.Errorf("density must be positive and finite, got %g", m.Density)
	}
	return m.Chemistry.Validate()
}

// Library maps material names to their analysis.
type Library map[string]Material

// DefaultLibrary returns typical blast-furnace burden analyses.
func DefaultLibrary() Library {
	return Library{
		"Pellets":   {Chemistry: Composition{Fe: 65.5, SiO2: 4.2, CaO: 0.5, MgO: 0.3, Al2O3: 0.8}, Density: 2200},
		"Sinter":    {Chemistry: Composition{Fe: 57.2, SiO2: 9.8, CaO: 9.5, MgO: 1.2, Al2O3: 1.8}, Density: 1900},
		"Lump Ore":  {Chemistry: Composition{Fe: 62.0, SiO2: 6.5, CaO: 0.2, MgO: 0.1, Al2O3: 2.1}, Density: 2500},
		"Coke":      {Chemistry: Composition{Fe: 0.5, SiO2: 5.5, CaO: 0.3, MgO: 0.1, Al2O3: 2.8}, Density: 500},
		"Limestone": {Chemistry: Composition{Fe: 0.5, SiO2: 2.0, CaO: 52.0, MgO: 2.5, Al2O3: 0.8}, Density: 1600},
		"Dolomite":  {Chemistry: Composition{Fe: 0.3, SiO2: 1.5, CaO: 30.0, MgO: 20.0, Al2O3: 0.5}, Density: 1700},
		"Quartzite": {Chemistry: Composition{Fe: 0.2, SiO2: 95.0, CaO: 0.5, MgO: 0.1, Al2O3: 2.0}, Density: 1650},
	}
}

// Names returns the library's material names sorted.
func (l Library) Names() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Subset picks the named materials, failing on the first unknown one.
func (l Library) Subset(names []string) (Library, error) {
	out := make(Library, len(names))
	for _, name := range names {
		m, ok := l[name]
		if !ok {
			return nil, fmt.Errorf("material %q not in chemistry library", name)
		}
		out[name] = m
	}
	return out, nil
}

// MustSubset is Subset for callers that know every name is present.
func (l Library) MustSubset(names []string) Library {
	out, err := l.Subset(names)
	if err != nil {
		panic(err)
	}
	return out
}

// Validate checks every entry.
func (l Library) Validate() error {
	for _, name := range l.Names() {
		if err := l[name].Validate(); err != nil {
			return fmt.Errorf("chemistry[%s]: %w", name, err)
		}
	}
	return nil
}

// LoadINI reads a library with one section per material:
//
//	[Sinter]
//	Fe = 57.2
//	SiO2 = 9.8
//	density = 1900
func LoadINI(path string) (Library, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading chemistry library: %w", err)
	}
	return fromINI(file), nil
}

// ParseINI is LoadINI over in-memory data.
func ParseINI(data []byte) (Library, error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing chemistry library: %w", err)
	}
	return fromINI(file), nil
}

func fromINI(file *ini.File) Library {
	lib := make(Library)
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		lib[sec.Name()] = Material{
			Chemistry: Composition{
				Fe:    sec.Key("Fe").MustFloat64(0),
				SiO2:  sec.Key("SiO2").MustFloat64(0),
				CaO:   sec.Key("CaO").MustFloat64(0),
				MgO:   sec.Key("MgO").MustFloat64(0),
				Al2O3: sec.Key("Al2O3").MustFloat64(0),
			},
			Density: sec.Key("density").MustFloat64(DefaultDensity),
		}
	}
	return lib
}

// SaveINI writes the library in the LoadINI format.
func (l Library) SaveINI(path string) error {
	file := ini.Empty()
	for _, name := range l.Names() {
		sec, err := file.NewSection(name)
		if err != nil {
			return err
		}
		m := l[name]
		for i, v := range m.Chemistry.Vector() {
			sec.Key(ComponentNames[i]).SetValue(formatFloat(v))
		}
		sec.Key("density").SetValue(formatFloat(m.Density))
	}
	return file.SaveTo(path)
}
