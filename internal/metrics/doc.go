// Package metrics reduces a belt flow table to blend proportions, a mass
// balance and scalar run metrics.
package metrics
