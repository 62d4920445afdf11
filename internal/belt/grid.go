package belt

import "math"

// Grid holds material mass per belt cell. Rows are materials, columns are
// belt positions with the discharge point at the last column.
type Grid struct {
	rows int
	cols int
	data []float64
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) At(row, col int) float64 {
	return g.data[row*g.cols+col]
}

// Add accumulates v into a cell. Sources sharing a cell add up.
func (g *Grid) Add(row, col int, v float64) {
	g.data[row*g.cols+col] += v
}

func (g *Grid) row(r int) []float64 {
	return g.data[r*g.cols : (r+1)*g.cols]
}

// Column copies one column into dst (grown if needed) and returns it.
func (g *Grid) Column(col int, dst []float64) []float64 {
	if cap(dst) < g.rows {
		dst = make([]float64, g.rows)
	}
	dst = dst[:g.rows]
	for r := 0; r < g.rows; r++ {
		dst[r] = g.data[r*g.cols+col]
	}
	return dst
}

// Discharge copies the last column, the material currently at the discharge
// point.
func (g *Grid) Discharge(dst []float64) []float64 {
	return g.Column(g.cols-1, dst)
}

// Shift moves every row k cells toward the discharge end. Content pushed past
// the last column is dropped and the first k columns are zeroed.
func (g *Grid) Shift(k int) {
	if k <= 0 {
		return
	}
	for r := 0; r < g.rows; r++ {
		shiftRow(g.row(r), k, 1)
	}
}

// shiftRow shifts a row of width-sized cells by k cells.
func shiftRow(row []float64, k, width int) {
	n := len(row)
	off := k * width
	if off >= n {
		clear(row)
		return
	}
	copy(row[off:], row[:n-off])
	clear(row[:off])
}

func (g *Grid) Total() float64 {
	sum := 0.0
	for _, v := range g.data {
		sum += v
	}
	return sum
}

// RowTotal is the mass of one material currently on the belt.
func (g *Grid) RowTotal(row int) float64 {
	sum := 0.0
	for _, v := range g.row(row) {
		sum += v
	}
	return sum
}

func (g *Grid) IsValid() bool {
	for _, v := range g.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (g *Grid) Reset() {
	clear(g.data)
}

func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, data: make([]float64, len(g.data))}
	copy(c.data, g.data)
	return c
}

// Matrix returns a deep copy as rows of columns.
func (g *Grid) Matrix() [][]float64 {
	m := make([][]float64, g.rows)
	for r := range m {
		m[r] = make([]float64, g.cols)
		copy(m[r], g.row(r))
	}
	return m
}
