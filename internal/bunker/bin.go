package bunker

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/beltsim/internal/chem"
)

// BinLayer is a batch of material waiting in the transfer bin.
type BinLayer struct {
	Material    string           `json:"material"`
	Volume      float64          `json:"volume"`
	Composition chem.Composition `json:"chemistry"`
	Timestamp   float64          `json:"timestamp"`
}

// TransferBin buffers belt discharge before it goes to the bunker. Material
// leaves in the order it arrived.
type TransferBin struct {
	ID       string
	Capacity float64

	volume float64
	layers []BinLayer
	log    logrus.FieldLogger
}

func NewTransferBin(id string, capacity float64, log logrus.FieldLogger) (*TransferBin, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("transfer bin %s: capacity must be positive, got %g", id, capacity)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TransferBin{ID: id, Capacity: capacity, log: log}, nil
}

func (t *TransferBin) Volume() float64       { return t.volume }
func (t *TransferBin) FillFraction() float64 { return t.volume / t.Capacity }

func (t *TransferBin) Layers() []BinLayer {
	return append([]BinLayer(nil), t.layers...)
}

// Add queues material and returns the volume accepted. Overflow is cut off
// and logged.
func (t *TransferBin) Add(material string, volume float64, c chem.Composition, timestamp float64) float64 {
	if t.volume+volume > t.Capacity {
		t.log.WithFields(logrus.Fields{
			"bin":      t.ID,
			"material": material,
			"excess":   t.volume + volume - t.Capacity,
		}).Warn("transfer bin overflow")
		volume = t.Capacity - t.volume
	}
	if volume <= 0 {
		return 0
	}
	t.layers = append(t.layers, BinLayer{Material: material, Volume: volume, Composition: c, Timestamp: timestamp})
	t.volume += volume
	return volume
}

// Discharge removes up to volume from the front of the queue, splitting the
// last batch if needed.
func (t *TransferBin) Discharge(volume float64) []BinLayer {
	var out []BinLayer
	remaining := volume
	for remaining > 0 && len(t.layers) > 0 {
		head := &t.layers[0]
		if head.Volume <= remaining {
			out = append(out, *head)
			remaining -= head.Volume
			t.volume -= head.Volume
			t.layers = t.layers[1:]
			continue
		}
		part := *head
		part.Volume = remaining
		out = append(out, part)
		head.Volume -= remaining
		t.volume -= remaining
		remaining = 0
	}
	if len(t.layers) == 0 {
		t.volume = 0
	}
	return out
}

type BinStatus struct {
	Volume       float64   `json:"current_volume"`
	Capacity     float64   `json:"capacity"`
	FillPercent  float64   `json:"fill_percentage"`
	LayerCount   int       `json:"layer_count"`
	Chemistry    *Analysis `json:"current_chemistry,omitempty"`
	CanDischarge bool      `json:"can_discharge"`
}

func (t *TransferBin) Status() BinStatus {
	s := BinStatus{
		Volume:       t.volume,
		Capacity:     t.Capacity,
		FillPercent:  t.FillFraction() * 100,
		LayerCount:   len(t.layers),
		CanDischarge: t.volume > 0,
	}
	if a, ok := t.chemistry(); ok {
		s.Chemistry = &a
	}
	return s
}

// chemistry blends the bin content by volume. Basicities use the floored
// denominators of a blended trend.
func (t *TransferBin) chemistry() (Analysis, bool) {
	var total float64
	for _, l := range t.layers {
		total += l.Volume
	}
	if total == 0 {
		return Analysis{}, false
	}
	var c chem.Composition
	for _, l := range t.layers {
		c = c.Add(l.Composition.Scale(l.Volume / total))
	}
	return Analysis{Volume: total, Chemistry: c, B2: c.BlendB2(), B4: c.BlendB4()}, true
}
