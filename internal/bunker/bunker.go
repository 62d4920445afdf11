package bunker

import (
	"fmt"
	"math"

	"github.com/san-kum/beltsim/internal/chem"
)

// Bunker is a cylindrical bunker holding layers bottom to top in arrival
// order.
type Bunker struct {
	ID       string
	Diameter float64
	Height   float64

	layers []MaterialLayer
}

func NewBunker(id string, diameter, height float64) (*Bunker, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("bunker %s: diameter must be positive, got %g", id, diameter)
	}
	if height <= 0 {
		return nil, fmt.Errorf("bunker %s: height must be positive, got %g", id, height)
	}
	return &Bunker{ID: id, Diameter: diameter, Height: height}, nil
}

func (b *Bunker) CrossSection() float64 {
	r := b.Diameter / 2
	return math.Pi * r * r
}

func (b *Bunker) Capacity() float64 { return b.CrossSection() * b.Height }

// Level is the height of the top of the stack.
func (b *Bunker) Level() float64 {
	level := 0.0
	for _, l := range b.layers {
		level += l.Height
	}
	return level
}

func (b *Bunker) Volume() float64 {
	v := 0.0
	for _, l := range b.layers {
		v += l.Volume
	}
	return v
}

// FillFraction is Level over Height.
func (b *Bunker) FillFraction() float64 { return b.Level() / b.Height }

// Layers returns a copy of the stack, bottom first.
func (b *Bunker) Layers() []MaterialLayer {
	return append([]MaterialLayer(nil), b.layers...)
}

// AddLayer stacks volume of material on top and returns the volume accepted.
// A layer that would overflow is cut to the remaining height; nothing is
// added once the bunker is full.
func (b *Bunker) AddLayer(material string, volume float64, c chem.Composition, timestamp float64) float64 {
	if volume <= 0 {
		return 0
	}
	area := b.CrossSection()
	height := volume / area
	top := b.Level()
	if top+height > b.Height {
		height = b.Height - top
		volume = height * area
	}
	if height <= 0 {
		return 0
	}
	b.layers = append(b.layers, MaterialLayer{
		Material:    material,
		Volume:      volume,
		Height:      height,
		Position:    top,
		Timestamp:   timestamp,
		Composition: c,
	})
	return volume
}

// DischargeSequence lists what a discharge of volume would draw, bottom
// layer first. The stack is not changed.
func (b *Bunker) DischargeSequence(volume float64) []Portion {
	var seq []Portion
	remaining := volume
	for _, l := range b.layers {
		if remaining <= 0 {
			break
		}
		v := math.Min(l.Volume, remaining)
		seq = append(seq, Portion{Layer: l, Volume: v})
		remaining -= v
	}
	return seq
}

// DischargeChemistry blends the layers a discharge of volume would draw. It
// reports false when the bunker is empty.
func (b *Bunker) DischargeChemistry(volume float64) (Analysis, bool) {
	seq := b.DischargeSequence(volume)
	if len(seq) == 0 {
		return Analysis{}, false
	}
	var total float64
	for _, p := range seq {
		total += p.Volume
	}
	var c chem.Composition
	for _, p := range seq {
		c = c.Add(p.Layer.Composition.Scale(p.Volume / total))
	}
	return Analysis{Volume: total, Chemistry: c, B2: c.B2(), B4: c.B4()}, true
}
