// Package belt provides the transport primitives of the conveyor model.
//
// The belt is discretized into equal cells from the inlet (column 0) to the
// discharge end (last column). Material mass lives in a [Grid] with one row
// per material; optional chemistry travels in a parallel [ChemGrid]:
//
//   - [Source]: a silo or bunker discharging one material into one cell
//   - [Grid]: material mass per (row, column), shifted toward the discharge end
//   - [ChemGrid]: component mass per (row, column, component), shifted in lockstep
//
// # Ownership
//
// Grids are plain mutable buffers. A grid belongs to exactly one simulation
// run; values read out of it for recording must be copied with [Grid.Column]
// or [Grid.Matrix].
package belt
