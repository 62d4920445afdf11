// Package config loads simulation cases from YAML or JSON files and provides
// the built-in presets.
package config
