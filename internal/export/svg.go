package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/beltsim/internal/sim"
)

// Palette colours material series in order; the total is always white.
var Palette = []string{"#00d7ff", "#ffaf00", "#87ff5f", "#ff5f87", "#af87ff", "#ffd75f", "#5fffd7"}

// Series is one named line of a chart.
type Series struct {
	Name   string
	Color  string
	Points []float64
}

// FlowToSVG charts each material's discharge and the total over time.
func FlowToSVG(res *sim.Results, width, height int) string {
	times := res.Times()
	series := make([]Series, 0, len(res.Parameters.Materials)+1)
	for i, m := range res.Parameters.Materials {
		pts, _ := res.Series(m)
		series = append(series, Series{Name: m, Color: Palette[i%len(Palette)], Points: pts})
	}
	series = append(series, Series{Name: "total", Color: "#ffffff", Points: res.Totals()})
	return SeriesToSVG(times, series, width, height)
}

// SeriesToSVG draws series sharing the x values xs on common axes.
func SeriesToSVG(xs []float64, series []Series, width, height int) string {
	if len(xs) < 2 || len(series) == 0 {
		return ""
	}

	minX, maxX := xs[0], xs[len(xs)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, y := range s.Points {
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}
	}
	if math.IsInf(minY, 1) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, s := range series {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, s.Color))
		for j, y := range s.Points {
			if j >= len(xs) {
				break
			}
			px := (xs[j] - minX) / rangeX * float64(width)
			py := float64(height) - (y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
			}
		}
		sb.WriteString(`"/>
`)
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 16+14*i, s.Color, escape(s.Name)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
