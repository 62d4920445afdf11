package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/beltsim/internal/sim"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.DeepSkyBlue,
	asciigraph.Orange,
	asciigraph.LawnGreen,
	asciigraph.HotPink,
	asciigraph.MediumPurple,
	asciigraph.Gold,
	asciigraph.Aquamarine,
}

// PlotOptions sizes a terminal chart.
type PlotOptions struct {
	Caption string
	Height  int
	Width   int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Height: 12, Width: 80}
}

// PlotSeries draws one or more series on a shared axis. Series with no
// points are skipped; if none remain an empty string is returned.
func PlotSeries(series [][]float64, legends []string, opts PlotOptions) string {
	var data [][]float64
	var names []string
	var colors []asciigraph.AnsiColor
	for i, s := range series {
		if len(s) == 0 {
			continue
		}
		data = append(data, s)
		colors = append(colors, seriesColors[i%len(seriesColors)])
		if i < len(legends) {
			names = append(names, legends[i])
		}
	}
	if len(data) == 0 {
		return ""
	}

	o := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.SeriesColors(colors...),
		asciigraph.Precision(2),
	}
	if opts.Width > 0 {
		o = append(o, asciigraph.Width(opts.Width))
	}
	if opts.Caption != "" {
		o = append(o, asciigraph.Caption(opts.Caption))
	}
	if len(names) == len(data) && len(data) > 1 {
		o = append(o, asciigraph.SeriesLegends(names...))
	}
	return asciigraph.PlotMany(data, o...)
}

// FlowPlot charts each material's discharge per step.
func FlowPlot(res *sim.Results, opts PlotOptions) string {
	mats := res.Materials()
	series := make([][]float64, len(mats))
	for i, m := range mats {
		series[i], _ = res.Series(m)
	}
	if opts.Caption == "" {
		opts.Caption = "discharge per step"
	}
	return PlotSeries(series, mats, opts)
}

// TotalPlot charts the total discharge per step.
func TotalPlot(res *sim.Results, opts PlotOptions) string {
	if opts.Caption == "" {
		opts.Caption = "total discharge"
	}
	return PlotSeries([][]float64{res.Totals()}, nil, opts)
}

// ProportionPlot charts each material's share of the blend in percent.
func ProportionPlot(res *sim.Results, opts PlotOptions) string {
	mats := res.Materials()
	series := make([][]float64, len(mats))
	for i, m := range mats {
		series[i], _ = res.ProportionSeries(m)
	}
	if opts.Caption == "" {
		opts.Caption = "blend proportions (%)"
	}
	return PlotSeries(series, mats, opts)
}

// ChemistryPlots charts the blended Fe content and basicity separately,
// since their scales differ by two orders of magnitude.
func ChemistryPlots(res *sim.Results, opts PlotOptions) (string, error) {
	tr, err := res.Chemistry()
	if err != nil {
		return "", err
	}
	fe := opts
	fe.Caption = "blend Fe (%)"
	b := opts
	b.Caption = "basicity B2 / B4"
	return PlotSeries([][]float64{tr.Fe}, nil, fe) + "\n\n" +
		PlotSeries([][]float64{tr.B2, tr.B4}, []string{"B2", "B4"}, b), nil
}
