// Package viz renders simulation results for the terminal.
//
//   - [Summary]: lipgloss panels for run setup, mass balance, metrics,
//     per-material blend statistics and burden quality
//   - [PlotSeries], [FlowPlot], [ProportionPlot], [ChemistryPlots]:
//     asciigraph line charts
//   - [BeltProfile]: braille area chart of the load along the belt
//   - [BunkerView]: transfer bin fill and bunker layer stack
//
// Colours follow the current [Theme]; call [SetTheme] before rendering.
package viz
