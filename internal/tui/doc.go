// Package tui is a bubbletea viewer that replays a stored run sample by
// sample: blend proportions, per-material flow, cumulative discharge and,
// when tracked, the blended chemistry at each time point.
package tui
