package metrics

import "math"

// BalanceEpsilon floors the denominator of Balance.ErrorPercent.
const BalanceEpsilon = 1e-10

// Proportions converts a flow table into percentages of total flow. Each row
// of flow is [material flows..., time, total]; the result has one column per
// material. A row whose total is zero yields zeros for every material, and
// any non-finite quotient is replaced by zero.
func Proportions(flow [][]float64) [][]float64 {
	out := make([][]float64, len(flow))
	for i, row := range flow {
		n := len(row) - 2
		if n < 0 {
			n = 0
		}
		out[i] = make([]float64, n)
		if n == 0 {
			continue
		}
		total := row[len(row)-1]
		if total == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			p := row[j] / total * 100
			if math.IsNaN(p) || math.IsInf(p, 0) {
				p = 0
			}
			out[i][j] = p
		}
	}
	return out
}

// Balance compares the integrated per-material flow with the integrated total
// column of a flow table.
type Balance struct {
	TotalInput   float64 `json:"total_input"`
	TotalOutput  float64 `json:"total_output"`
	Error        float64 `json:"balance_error"`
	ErrorPercent float64 `json:"balance_error_percent"`
}

// MassBalance sums a flow table. For a leak-free run both sums agree; a
// non-zero error points at double counting or skipped discharge.
func MassBalance(flow [][]float64) Balance {
	var b Balance
	for _, row := range flow {
		n := len(row)
		if n < 2 {
			continue
		}
		b.TotalInput += RowSum(row[:n-2])
		b.TotalOutput += row[n-1]
	}
	b.Error = math.Abs(b.TotalInput - b.TotalOutput)
	b.ErrorPercent = b.Error / math.Max(b.TotalInput, BalanceEpsilon) * 100
	return b
}

// RowSum adds material flows in column order, the same order the engine uses
// for its total column.
func RowSum(flows []float64) float64 {
	var s float64
	for _, v := range flows {
		s += v
	}
	return s
}
