package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles. They are rebuilt by SetTheme.
var (
	Panel       lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	MetricValue lipgloss.Style
	MetricLabel lipgloss.Style
	KeyHint     lipgloss.Style
	HeaderStyle lipgloss.Style

	StatusGood lipgloss.Style
	StatusWarn lipgloss.Style
	StatusBad  lipgloss.Style
)

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	KeyHint = lipgloss.NewStyle().Italic(true).Foreground(t.Muted)
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)

	StatusGood = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	StatusWarn = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	StatusBad = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
}

// MaterialColors tints material rows in order.
var MaterialColors = []lipgloss.Color{"#00d7ff", "#ffaf00", "#87ff5f", "#ff5f87", "#af87ff", "#ffd75f", "#5fffd7"}

func MaterialStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MaterialColors[i%len(MaterialColors)])
}

// ProgressBar renders a fill level in [0, 1]. High fill is drawn as a
// warning since bins and bunkers near capacity start truncating.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction >= 0.9:
		return StatusBad.Render(bar)
	case fraction >= 0.6:
		return StatusWarn.Render(bar)
	}
	return StatusGood.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one line of block characters, sampling down
// to width. An empty or flat series is drawn at the lowest level.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteRune(sparkChars[idx])
	}
	return MetricValue.Render(b.String())
}

// BoxWithTitle renders content in a panel with a title line above it.
func BoxWithTitle(title, content string) string {
	return Panel.Render(Title.Render(title) + "\n" + content)
}

func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
