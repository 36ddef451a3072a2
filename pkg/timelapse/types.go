// Package timelapse wires the parsing, scheduling, path generation, and
// emission stages into the single deterministic pass that rewrites a G-code
// file with camera snapshot blocks.
package timelapse

import "github.com/printpath/printpath/pkg/camera"

// Options configures one processing pass.
type Options struct {
	// Firmware selects the snapshot trigger command. Empty means use the
	// flavor detected in the file, falling back to klipper.
	Firmware string

	TravelSpeed   int     // mm/min
	DwellTime     int     // ms
	RetractLength float64 // mm, 0 disables retraction
	RetractSpeed  int     // mm/s
	ZHopHeight    float64 // mm added to every snapshot height

	// Snapshots is the requested snapshot count N.
	Snapshots int
	// FirstLayer is the first eligible layer floor F.
	FirstLayer int

	Generator camera.PathGenerator
}

// SnapshotRecord is the exported per-snapshot result consumed by viewers.
// Records are append-only and ordered by sequence index.
type SnapshotRecord struct {
	Sequence int
	Layer    int
	X, Y, Z  float64
}

// LayerStart is the tracked position at the first line of a detected layer.
type LayerStart struct {
	Layer   int
	X, Y, Z float64
}
