package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/beltsim/internal/belt"
	"github.com/san-kum/beltsim/internal/bunker"
	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

const (
	DefaultTotalTime  = 100.0
	DefaultBeltLength = 100.0
	DefaultResolution = 1.0
	DefaultVelocity   = 2.0
)

// Case is a simulation case as stored in a YAML or JSON file.
type Case struct {
	Name        string        `yaml:"name,omitempty" json:"name,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	TotalTime   float64       `yaml:"total_time" json:"total_time"`
	Belt        BeltConfig    `yaml:"belt" json:"belt"`
	Materials   []string      `yaml:"materials" json:"materials"`
	Sources     []belt.Source `yaml:"sources" json:"sources"`

	Chemistry ChemistryConfig `yaml:"chemistry,omitempty" json:"chemistry,omitempty"`
	Limits    sim.Limits      `yaml:"limits,omitempty" json:"limits,omitempty"`
	Bunker    *bunker.Config  `yaml:"bunker,omitempty" json:"bunker,omitempty"`

	dir string
}

type BeltConfig struct {
	Length     float64 `yaml:"length" json:"length"`
	Resolution float64 `yaml:"resolution" json:"resolution"`
	Velocity   float64 `yaml:"velocity" json:"velocity"`
}

// ChemistryConfig turns on chemistry tracking. Analyses come from the
// built-in library, then Library (an INI file, relative to the case file),
// then Materials, later entries winning.
type ChemistryConfig struct {
	Enabled        bool         `yaml:"enabled" json:"enabled"`
	Library        string       `yaml:"library,omitempty" json:"library,omitempty"`
	Materials      chem.Library `yaml:"materials,omitempty" json:"materials,omitempty"`
	BasicityTarget float64      `yaml:"basicity_target,omitempty" json:"basicity_target,omitempty"`
}

func DefaultCase() *Case {
	return &Case{
		TotalTime: DefaultTotalTime,
		Belt: BeltConfig{
			Length:     DefaultBeltLength,
			Resolution: DefaultResolution,
			Velocity:   DefaultVelocity,
		},
	}
}

// Load reads a case file. Files ending in .json are decoded as JSON, anything
// else as YAML. Unknown keys are rejected in both.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case: %w", err)
	}
	c, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".json"))
	if err != nil {
		return nil, err
	}
	c.dir = filepath.Dir(path)
	return c, nil
}

// Parse decodes a case on top of DefaultCase.
func Parse(data []byte, isJSON bool) (*Case, error) {
	c := DefaultCase()
	if isJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, fmt.Errorf("parsing case: %w", err)
		}
		return c, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("parsing case: %w", err)
	}
	return c, nil
}

func Save(path string, c *Case) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Parameters builds the engine input for the case.
func (c *Case) Parameters() (sim.Parameters, error) {
	p := sim.Parameters{
		TotalTime:    c.TotalTime,
		BeltLength:   c.Belt.Length,
		Resolution:   c.Belt.Resolution,
		BeltVelocity: c.Belt.Velocity,
		Materials:    append([]string(nil), c.Materials...),
		Sources:      append([]belt.Source(nil), c.Sources...),
	}
	if !c.Chemistry.Enabled {
		return p, nil
	}

	lib, err := c.library()
	if err != nil {
		return sim.Parameters{}, err
	}
	p.MaterialChemistry, err = lib.Subset(c.Materials)
	if err != nil {
		return sim.Parameters{}, err
	}
	return p, nil
}

func (c *Case) library() (chem.Library, error) {
	lib := chem.DefaultLibrary()
	if c.Chemistry.Library != "" {
		path := c.Chemistry.Library
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}
		loaded, err := chem.LoadINI(path)
		if err != nil {
			return nil, err
		}
		for k, v := range loaded {
			lib[k] = v
		}
	}
	for k, v := range c.Chemistry.Materials {
		lib[k] = v
	}
	return lib, nil
}

// EngineOptions returns the engine settings the case overrides.
func (c *Case) EngineOptions() []sim.Option {
	opts := []sim.Option{sim.WithLimits(c.Limits)}
	if c.Chemistry.BasicityTarget > 0 {
		opts = append(opts, sim.WithBasicityTarget(c.Chemistry.BasicityTarget))
	}
	return opts
}

// BunkerConfig returns the case's bunker settings or the defaults.
func (c *Case) BunkerConfig() bunker.Config {
	if c.Bunker != nil {
		return *c.Bunker
	}
	return bunker.DefaultConfig()
}

// FromParameters wraps engine input as a case, for saving.
func FromParameters(name string, p sim.Parameters) *Case {
	c := &Case{
		Name:      name,
		TotalTime: p.TotalTime,
		Belt: BeltConfig{
			Length:     p.BeltLength,
			Resolution: p.Resolution,
			Velocity:   p.BeltVelocity,
		},
		Materials: append([]string(nil), p.Materials...),
		Sources:   append([]belt.Source(nil), p.Sources...),
	}
	if p.TracksChemistry() {
		c.Chemistry = ChemistryConfig{Enabled: true, Materials: p.MaterialChemistry}
	}
	return c
}
