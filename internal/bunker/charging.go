package bunker

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

// Config sizes the bin and bunker and sets the automatic discharge
// thresholds, as fractions of bin capacity.
type Config struct {
	BinCapacity    float64 `yaml:"bin_capacity" json:"bin_capacity"`
	BunkerDiameter float64 `yaml:"bunker_diameter" json:"bunker_diameter"`
	BunkerHeight   float64 `yaml:"bunker_height" json:"bunker_height"`
	HighTrigger    float64 `yaml:"high_trigger" json:"high_trigger"`
	LowTrigger     float64 `yaml:"low_trigger" json:"low_trigger"`
	AutoDischarge  bool    `yaml:"auto_discharge" json:"auto_discharge"`
}

func DefaultConfig() Config {
	return Config{
		BinCapacity:    100,
		BunkerDiameter: 8,
		BunkerHeight:   25,
		HighTrigger:    0.8,
		LowTrigger:     0.2,
		AutoDischarge:  true,
	}
}

func (c Config) Validate() error {
	if c.HighTrigger <= 0 || c.HighTrigger > 1 {
		return fmt.Errorf("high_trigger must be in (0, 1], got %g", c.HighTrigger)
	}
	if c.LowTrigger < 0 || c.LowTrigger >= c.HighTrigger {
		return fmt.Errorf("low_trigger must be in [0, high_trigger), got %g", c.LowTrigger)
	}
	return nil
}

// Transfer is one move of material from the bin to the bunker.
type Transfer struct {
	Time      float64 `json:"time"`
	Requested float64 `json:"requested"`
	Moved     float64 `json:"moved"`
	Manual    bool    `json:"manual"`
}

// Charge is one entry of the bunker charging sequence.
type Charge struct {
	Material  string           `json:"material"`
	Volume    float64          `json:"volume"`
	Timestamp float64          `json:"timestamp"`
	Chemistry chem.Composition `json:"chemistry"`
	B2        float64          `json:"b2"`
}

// System routes belt discharge through a transfer bin into a bunker.
type System struct {
	cfg Config
	log logrus.FieldLogger

	Bin    *TransferBin
	Bunker *Bunker

	transfers []Transfer
	fed       float64
	source    *sim.Results
}

func NewSystem(cfg Config, log logrus.FieldLogger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	bin, err := NewTransferBin("TB-01", cfg.BinCapacity, log)
	if err != nil {
		return nil, err
	}
	bunker, err := NewBunker("BF-01", cfg.BunkerDiameter, cfg.BunkerHeight)
	if err != nil {
		return nil, err
	}
	return &System{cfg: cfg, log: log, Bin: bin, Bunker: bunker}, nil
}

func (s *System) Config() Config { return s.cfg }

// Transfers lists every bin discharge in order.
func (s *System) Transfers() []Transfer {
	return append([]Transfer(nil), s.transfers...)
}

// Fed is the total volume offered to the bin.
func (s *System) Fed() float64 { return s.fed }

// ProcessDischarge feeds every flowing row of a run into the bin. Flow values
// are masses per step and become volumes through each material's density.
// The run must have tracked chemistry.
func (s *System) ProcessDischarge(res *sim.Results) error {
	if !res.Metadata.ChemistryTracked {
		return sim.ErrNoChemistry
	}
	s.source = res
	materials := res.Parameters.Materials
	lib := res.Parameters.MaterialChemistry
	n := len(materials)

	s.log.WithField("steps", len(res.Flow)).Info("charging belt discharge")
	for _, row := range res.Flow {
		t := row[n]
		if row[n+1] > chem.FlowEpsilon {
			for i, mass := range row[:n] {
				if mass <= 0 {
					continue
				}
				m := lib[materials[i]]
				density := m.Density
				if density <= 0 {
					density = chem.DefaultDensity
				}
				v := mass / density
				s.fed += v
				s.Bin.Add(materials[i], v, m.Chemistry, t)
			}
		}
		if s.cfg.AutoDischarge {
			s.checkAuto(t)
		}
	}
	return nil
}

func (s *System) checkAuto(t float64) {
	fill := s.Bin.FillFraction()
	if fill < s.cfg.HighTrigger {
		return
	}
	s.discharge((fill-s.cfg.LowTrigger)*s.Bin.Capacity, t, false)
}

// ManualDischarge moves volume to the bunker, clamped to the bin content, and
// returns what moved.
func (s *System) ManualDischarge(volume, t float64) float64 {
	if volume > s.Bin.Volume() {
		s.log.WithFields(logrus.Fields{
			"requested": volume,
			"available": s.Bin.Volume(),
		}).Warn("requested volume exceeds bin contents")
		volume = s.Bin.Volume()
	}
	return s.discharge(volume, t, true)
}

func (s *System) discharge(volume, t float64, manual bool) float64 {
	moved := 0.0
	for _, l := range s.Bin.Discharge(volume) {
		moved += s.Bunker.AddLayer(l.Material, l.Volume, l.Composition, t)
	}
	s.transfers = append(s.transfers, Transfer{Time: t, Requested: volume, Moved: moved, Manual: manual})
	s.log.WithFields(logrus.Fields{"volume": moved, "time": t}).Debug("discharged to bunker")
	return moved
}

// ChargingSequence lists the bunker layers bottom first.
func (s *System) ChargingSequence() []Charge {
	layers := s.Bunker.Layers()
	out := make([]Charge, len(layers))
	for i, l := range layers {
		out[i] = Charge{
			Material:  l.Material,
			Volume:    l.Volume,
			Timestamp: l.Timestamp,
			Chemistry: l.Composition,
			B2:        l.Composition.BlendB2(),
		}
	}
	return out
}
