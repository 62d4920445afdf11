package chem

import (
	"fmt"
	"math"
)

// Component indices into a chemistry vector.
const (
	Fe = iota
	SiO2
	CaO
	MgO
	Al2O3

	NumComponents
)

// ComponentNames lists components in vector order.
var ComponentNames = [NumComponents]string{"Fe", "SiO2", "CaO", "MgO", "Al2O3"}

// BasicityFloor bounds the denominator of blended basicity ratios.
const BasicityFloor = 0.1

// Composition is a chemical analysis in mass percent.
type Composition struct {
	Fe    float64 `json:"Fe" yaml:"Fe"`
	SiO2  float64 `json:"SiO2" yaml:"SiO2"`
	CaO   float64 `json:"CaO" yaml:"CaO"`
	MgO   float64 `json:"MgO" yaml:"MgO"`
	Al2O3 float64 `json:"Al2O3" yaml:"Al2O3"`
}

func FromVector(v []float64) Composition {
	var c Composition
	if len(v) >= NumComponents {
		c = Composition{Fe: v[Fe], SiO2: v[SiO2], CaO: v[CaO], MgO: v[MgO], Al2O3: v[Al2O3]}
	}
	return c
}

func (c Composition) Vector() []float64 {
	return []float64{c.Fe, c.SiO2, c.CaO, c.MgO, c.Al2O3}
}

func (c Composition) Sum() float64 {
	return c.Fe + c.SiO2 + c.CaO + c.MgO + c.Al2O3
}

// B2 is CaO/SiO2, or 0 without silica.
func (c Composition) B2() float64 {
	if c.SiO2 <= 0 {
		return 0
	}
	return c.CaO / c.SiO2
}

// B4 is (CaO+MgO)/(SiO2+Al2O3), or 0 without acidic oxides.
func (c Composition) B4() float64 {
	acid := c.SiO2 + c.Al2O3
	if acid <= 0 {
		return 0
	}
	return (c.CaO + c.MgO) / acid
}

// BlendB2 is CaO/max(SiO2, 0.1), used for blended material at trace silica.
func (c Composition) BlendB2() float64 {
	return c.CaO / max(c.SiO2, BasicityFloor)
}

// BlendB4 is (CaO+MgO)/max(SiO2+Al2O3, 0.1).
func (c Composition) BlendB4() float64 {
	return (c.CaO + c.MgO) / max(c.SiO2+c.Al2O3, BasicityFloor)
}

// Scale returns each component multiplied by f.
func (c Composition) Scale(f float64) Composition {
	return Composition{Fe: c.Fe * f, SiO2: c.SiO2 * f, CaO: c.CaO * f, MgO: c.MgO * f, Al2O3: c.Al2O3 * f}
}

func (c Composition) Add(o Composition) Composition {
	return Composition{Fe: c.Fe + o.Fe, SiO2: c.SiO2 + o.SiO2, CaO: c.CaO + o.CaO, MgO: c.MgO + o.MgO, Al2O3: c.Al2O3 + o.Al2O3}
}

// Validate checks that every component is a percentage and that the analysis
// does not exceed 100% in total.
func (c Composition) Validate() error {
	for i, v := range c.Vector() {
		if math.IsNaN(v) || v < 0 || v > 100 {
			return fmt.Errorf("%s must be within [0, 100], got %g", ComponentNames[i], v)
		}
	}
	if s := c.Sum(); s > 100+1e-9 {
		return fmt.Errorf("components sum to %.3g%%, above 100%%", s)
	}
	return nil
}
