// Package export renders simulation results as CSV, JSON and SVG.
package export
