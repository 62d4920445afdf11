package viz

import (
	"fmt"
	"math"
	"strings"
)

// BeltLoading sums a belt grid over materials, giving the load per column.
func BeltLoading(grid [][]float64) []float64 {
	if len(grid) == 0 {
		return nil
	}
	out := make([]float64, len(grid[0]))
	for _, row := range grid {
		for j, v := range row {
			out[j] += v
		}
	}
	return out
}

// BeltProfile draws the load along the belt as a braille area chart, feed
// end on the left and discharge end on the right. Columns that fall into
// one pixel are merged by taking the largest load.
func BeltProfile(grid [][]float64, width, height int) string {
	loading := BeltLoading(grid)
	if len(loading) == 0 || width <= 0 || height <= 0 {
		return Subtle.Render("(empty belt)") + "\n"
	}

	c := NewCanvas(width, height)
	px := c.PixelWidth()
	bins := make([]float64, px)
	for j, v := range loading {
		x := j * px / len(loading)
		bins[x] = math.Max(bins[x], v)
	}

	peak := 0.0
	for _, v := range bins {
		peak = math.Max(peak, v)
	}
	if peak > 0 {
		for x, v := range bins {
			h := int(math.Ceil(v / peak * float64(c.PixelHeight())))
			c.FillColumn(x, h)
		}
	}

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteString(strings.Repeat("▔", width))
	b.WriteByte('\n')
	foot := fmt.Sprintf("feed%s discharge", strings.Repeat(" ", max(width-len("feed")-len(" discharge"), 1)))
	b.WriteString(Subtle.Render(foot))
	b.WriteString(fmt.Sprintf("\n%s %s\n", MetricLabel.Render("peak load"), MetricValue.Render(fmt.Sprintf("%.3f", peak))))
	return b.String()
}
