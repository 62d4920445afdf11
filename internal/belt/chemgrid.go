package belt

// ChemGrid carries component mass alongside a Grid. Every cell holds one
// value per component; cells are never renormalised, so the composition of a
// cell is its component mass divided by the matching Grid cell.
type ChemGrid struct {
	rows  int
	cols  int
	comps int
	data  []float64
}

func NewChemGrid(rows, cols, comps int) *ChemGrid {
	return &ChemGrid{rows: rows, cols: cols, comps: comps, data: make([]float64, rows*cols*comps)}
}

func (g *ChemGrid) Rows() int       { return g.rows }
func (g *ChemGrid) Cols() int       { return g.cols }
func (g *ChemGrid) Components() int { return g.comps }

func (g *ChemGrid) index(row, col int) int {
	return (row*g.cols + col) * g.comps
}

func (g *ChemGrid) At(row, col, comp int) float64 {
	return g.data[g.index(row, col)+comp]
}

// Add accumulates component masses into a cell. Extra values beyond the
// component count are ignored.
func (g *ChemGrid) Add(row, col int, values []float64) {
	cell := g.data[g.index(row, col) : g.index(row, col)+g.comps]
	for k := 0; k < len(cell) && k < len(values); k++ {
		cell[k] += values[k]
	}
}

// Shift moves content k cells toward the discharge end, like Grid.Shift.
func (g *ChemGrid) Shift(k int) {
	if k <= 0 {
		return
	}
	width := g.cols * g.comps
	for r := 0; r < g.rows; r++ {
		shiftRow(g.data[r*width:(r+1)*width], k, g.comps)
	}
}

// Discharge sums component mass over all materials at the last column.
func (g *ChemGrid) Discharge(dst []float64) []float64 {
	if cap(dst) < g.comps {
		dst = make([]float64, g.comps)
	}
	dst = dst[:g.comps]
	clear(dst)
	for r := 0; r < g.rows; r++ {
		i := g.index(r, g.cols-1)
		for k := 0; k < g.comps; k++ {
			dst[k] += g.data[i+k]
		}
	}
	return dst
}

// Tensor returns a deep copy indexed [material][position][component].
func (g *ChemGrid) Tensor() [][][]float64 {
	t := make([][][]float64, g.rows)
	for r := range t {
		t[r] = make([][]float64, g.cols)
		for c := range t[r] {
			i := g.index(r, c)
			t[r][c] = make([]float64, g.comps)
			copy(t[r][c], g.data[i:i+g.comps])
		}
	}
	return t
}
