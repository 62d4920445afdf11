package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/beltsim/internal/chem"
	"github.com/san-kum/beltsim/internal/sim"
)

func kv(label string, value any) string {
	return fmt.Sprintf("%s %s", MetricLabel.Render(label+":"), MetricValue.Render(fmt.Sprint(value)))
}

func f3(v float64) string { return fmt.Sprintf("%.3f", v) }

// Status colours a quality label.
func Status(label string) string {
	if label == chem.Good {
		return StatusGood.Render(label)
	}
	return StatusBad.Render(label)
}

// RunPanel shows the belt setup and stepping of a run.
func RunPanel(res *sim.Results) string {
	p, m := res.Parameters, res.Metadata
	lines := []string{
		kv("belt", fmt.Sprintf("%gm @ %gm/s, %gm cells", p.BeltLength, p.BeltVelocity, p.Resolution)),
		kv("columns", m.Columns),
		kv("steps", fmt.Sprintf("%d (dt %gs, %d cell/step)", m.Steps, m.Dt, m.CellsPerStep)),
		kv("simulated", fmt.Sprintf("%gs of %gs", m.FinalTime, p.TotalTime)),
		kv("sources", len(p.Sources)),
		kv("chemistry", m.ChemistryTracked),
	}
	return BoxWithTitle("Run", strings.Join(lines, "\n"))
}

// BalancePanel shows mass in against mass out.
func BalancePanel(res *sim.Results) string {
	b := res.Metadata.MassBalance
	errLine := kv("error", fmt.Sprintf("%s (%.4f%%)", f3(b.Error), b.ErrorPercent))
	if b.Error != 0 {
		errLine = MetricLabel.Render("error: ") + StatusWarn.Render(fmt.Sprintf("%s (%.4f%%)", f3(b.Error), b.ErrorPercent))
	}
	return BoxWithTitle("Mass balance", strings.Join([]string{
		kv("input", f3(b.TotalInput)),
		kv("output", f3(b.TotalOutput)),
		errLine,
	}, "\n"))
}

// MetricsPanel lists run metrics by name.
func MetricsPanel(res *sim.Results) string {
	names := make([]string, 0, len(res.Metadata.Metrics))
	for n := range res.Metadata.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = kv(n, f3(res.Metadata.Metrics[n]))
	}
	if len(lines) == 0 {
		lines = append(lines, Subtle.Render("none"))
	}
	return BoxWithTitle("Metrics", strings.Join(lines, "\n"))
}

// MaterialTable lists discharge and blend share statistics per material.
func MaterialTable(res *sim.Results) string {
	discharged := res.Discharged()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Border)).
		Headers("material", "discharged", "mean %", "std %", "min %", "max %")

	for i, m := range res.Materials() {
		row := []string{m, f3(discharged[i]), "-", "-", "-", "-"}
		if i < len(res.Metadata.Variability) {
			s := res.Metadata.Variability[i]
			row[2], row[3], row[4], row[5] = f3(s.Mean), f3(s.Std), f3(s.Min), f3(s.Max)
		}
		t.Row(row...)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		s := lipgloss.NewStyle().Padding(0, 1)
		switch {
		case row == table.HeaderRow:
			return s.Bold(true).Foreground(CurrentTheme.Primary)
		case col == 0:
			return s.Inherit(MaterialStyle(row))
		}
		return s.Align(lipgloss.Right)
	})
	return t.Render()
}

// QualityPanel summarises blended chemistry. It returns "" for runs without
// chemistry.
func QualityPanel(res *sim.Results) string {
	q := res.Quality
	if q == nil {
		return ""
	}
	return BoxWithTitle("Burden quality", strings.Join([]string{
		kv("Fe", fmt.Sprintf("%.2f%% ± %.2f", q.AvgFe, q.FeStd)) + "  " + Status(q.FeStability),
		kv("B2", fmt.Sprintf("%.3f ± %.3f (target %.2f)", q.AvgBasicity, q.BasicityStd, q.BasicityTarget)) + "  " + Status(q.BasicityQuality),
	}, "\n"))
}

func warningsPanel(res *sim.Results) string {
	if len(res.Metadata.Warnings) == 0 {
		return ""
	}
	lines := make([]string, len(res.Metadata.Warnings))
	for i, w := range res.Metadata.Warnings {
		lines[i] = StatusWarn.Render("! ") + w
	}
	return BoxWithTitle("Warnings", strings.Join(lines, "\n"))
}

// Summary renders every panel for a finished run.
func Summary(title string, res *sim.Results) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, RunPanel(res), " ", BalancePanel(res), " ", MetricsPanel(res)))
	b.WriteString("\n")
	b.WriteString(MaterialTable(res))
	b.WriteString("\n")
	for _, p := range []string{QualityPanel(res), warningsPanel(res)} {
		if p != "" {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	b.WriteString(MetricLabel.Render("discharge ") + Sparkline(res.Totals(), 60))
	b.WriteString("\n")
	return b.String()
}
