// Package storage keeps simulation runs on disk, one directory per run.
package storage
