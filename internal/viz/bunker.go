package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/beltsim/internal/bunker"
)

// BunkerView draws the transfer bin fill and the bunker stack, newest layer
// on top.
func BunkerView(s *bunker.System, barWidth int) string {
	st := s.Bin.Status()
	bin := []string{
		kv("volume", fmt.Sprintf("%.2f / %.2f m³", st.Volume, st.Capacity)),
		ProgressBar(st.Volume/st.Capacity, barWidth),
		kv("layers", st.LayerCount),
	}
	if st.Chemistry != nil {
		bin = append(bin, kv("B2", fmt.Sprintf("%.3f", st.Chemistry.B2)))
	}

	b := s.Bunker
	layers := b.Layers()
	colors := map[string]int{}
	stack := make([]string, 0, len(layers))
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		ci, ok := colors[l.Material]
		if !ok {
			ci = len(colors)
			colors[l.Material] = ci
		}
		stack = append(stack, fmt.Sprintf("%s %-10s %6.2fm  B2 %.2f",
			MaterialStyle(ci).Render(strings.Repeat("█", 4)), l.Material, l.Height, l.B2()))
	}
	if len(stack) == 0 {
		stack = append(stack, Subtle.Render("empty"))
	}
	bunk := []string{
		kv("level", fmt.Sprintf("%.2f / %.2f m", b.Level(), b.Height)),
		ProgressBar(b.FillFraction(), barWidth),
		strings.Join(stack, "\n"),
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		BoxWithTitle("Bin "+s.Bin.ID, strings.Join(bin, "\n")),
		" ",
		BoxWithTitle("Bunker "+b.ID, strings.Join(bunk, "\n")),
	)
}
