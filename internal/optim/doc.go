// Package optim sweeps belt parameters over a grid, runs every point through
// the engine concurrently and ranks the outcomes by a metric.
package optim
