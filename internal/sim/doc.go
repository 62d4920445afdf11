// Package sim runs the belt transport simulation.
//
// An Engine takes a Parameters value, validates it and advances a
// discretized belt in fixed steps of dt = resolution / velocity. Each step
// injects material from the active sources, records the discharge column and
// shifts the belt toward the discharge end. The result is a flow table with
// one row per step laid out as [material flows..., time, total], plus
// derived proportions, a mass balance and, when material chemistry is
// supplied, the blended chemistry of the discharge.
//
// Engines hold configuration only. Every call to Run allocates its own grid
// and table, so one Engine can serve concurrent runs; Batch does exactly that.
package sim
