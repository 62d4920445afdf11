// Package bunker models what happens to belt discharge downstream: a
// transfer bin that collects it first-in first-out and a cylindrical
// blast-furnace bunker that stacks it in layers.
package bunker
