package bunker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/beltsim/internal/chem"
)

var (
	sinter    = chem.DefaultLibrary()["Sinter"].Chemistry
	limestone = chem.DefaultLibrary()["Limestone"].Chemistry
)

func TestNewBunkerRejectsBadGeometry(t *testing.T) {
	_, err := NewBunker("b", 0, 10)
	assert.Error(t, err)
	_, err = NewBunker("b", 2, -1)
	assert.Error(t, err)
}

func TestBunkerStacksLayers(t *testing.T) {
	b, err := NewBunker("b", 2, 3)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, b.CrossSection(), 1e-12)

	assert.InDelta(t, math.Pi, b.AddLayer("Sinter", math.Pi, sinter, 0), 1e-12)
	assert.InDelta(t, 2*math.Pi, b.AddLayer("Limestone", 2*math.Pi, limestone, 1), 1e-12)

	layers := b.Layers()
	require.Len(t, layers, 2)
	assert.InDelta(t, 1.0, layers[0].Height, 1e-12)
	assert.Equal(t, 0.0, layers[0].Position)
	assert.InDelta(t, 1.0, layers[1].Position, 1e-12)
	assert.InDelta(t, 3.0, layers[1].Top(), 1e-12)
	assert.InDelta(t, 1.0, b.FillFraction(), 1e-12)

	assert.Zero(t, b.AddLayer("Sinter", 1, sinter, 2), "full bunker accepts nothing")
	assert.Len(t, b.Layers(), 2)
}

func TestBunkerTruncatesOverflow(t *testing.T) {
	b, err := NewBunker("b", 2, 2.5)
	require.NoError(t, err)
	b.AddLayer("Sinter", math.Pi, sinter, 0)

	accepted := b.AddLayer("Limestone", 2*math.Pi, limestone, 1)
	assert.InDelta(t, 1.5*math.Pi, accepted, 1e-9)
	assert.InDelta(t, 2.5, b.Level(), 1e-9)
	assert.Equal(t, "Limestone", b.Layers()[1].Material)
}

func TestDischargeSequenceIsBottomUp(t *testing.T) {
	b, _ := NewBunker("b", 2, 10)
	b.AddLayer("Sinter", math.Pi, sinter, 0)
	b.AddLayer("Limestone", 2*math.Pi, limestone, 1)

	seq := b.DischargeSequence(1.5 * math.Pi)
	require.Len(t, seq, 2)
	assert.Equal(t, "Sinter", seq[0].Layer.Material)
	assert.InDelta(t, math.Pi, seq[0].Volume, 1e-12)
	assert.InDelta(t, 0.5*math.Pi, seq[1].Volume, 1e-12)

	assert.Len(t, b.Layers(), 2, "sequence must not consume layers")
}

func TestDischargeChemistry(t *testing.T) {
	b, _ := NewBunker("b", 2, 10)
	_, ok := b.DischargeChemistry(1)
	assert.False(t, ok)

	b.AddLayer("Sinter", 1, sinter, 0)
	b.AddLayer("Limestone", 1, limestone, 1)

	a, ok := b.DischargeChemistry(2)
	require.True(t, ok)
	assert.InDelta(t, (sinter.CaO+limestone.CaO)/2, a.Chemistry.CaO, 1e-9)
	assert.InDelta(t, a.Chemistry.CaO/a.Chemistry.SiO2, a.B2, 1e-12)
}

func TestLayerBasicity(t *testing.T) {
	l := MaterialLayer{Composition: chem.Composition{CaO: 10, SiO2: 5, MgO: 2, Al2O3: 1}}
	assert.InDelta(t, 2.0, l.B2(), 1e-12)
	assert.InDelta(t, 2.0, l.B4(), 1e-12)

	l = MaterialLayer{Composition: chem.Composition{CaO: 10}}
	assert.Zero(t, l.B2())
	assert.Zero(t, l.B4())
}
