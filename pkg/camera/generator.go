// Package camera synthesizes 3D waypoints for timelapse snapshots. The two
// path shapes, Orbit and Arc, are variants of a single PathGenerator
// interface selected by name from typed configuration.
package camera

import (
	"fmt"

	"github.com/printpath/printpath/pkg/gcode"
)

// Waypoint is a camera target position.
type Waypoint struct {
	X, Y, Z float64
}

// Sample carries everything a generator needs for one snapshot.
type Sample struct {
	// T is the progress fraction in [0,1], assigned by the scheduler as
	// k/max(1, N-1) for the k-th accepted snapshot.
	T float64
	// Seq and Total are the accepted snapshot index and the requested
	// count. Orbit uses them to space azimuths so a closed loop does not
	// repeat its start angle at the end.
	Seq, Total int
	// CurrentZ is the tracked print height at the triggering line.
	CurrentZ float64
	// FirstZ is the tracked height at the first accepted snapshot; path
	// heights interpolate from here to the metadata's max Z.
	FirstZ float64
}

// PathGenerator maps a progress sample and print metadata to a waypoint.
// Implementations are pure: no I/O, no shared state across passes.
type PathGenerator interface {
	Name() string
	Waypoint(s Sample, md *gcode.Metadata) Waypoint
}

// Generator names accepted by New.
const (
	NameOrbit = "orbit"
	NameArc   = "arc"
)

// New builds a generator by name.
func New(name string, orbit OrbitConfig, arc ArcConfig) (PathGenerator, error) {
	switch name {
	case NameOrbit:
		return NewOrbit(orbit), nil
	case NameArc:
		return NewArc(arc), nil
	default:
		return nil, fmt.Errorf("unknown path generator %q", name)
	}
}

// blendZ applies the constant Z offset and the Z-follow factor shared by
// both generators: factor 1.0 means the camera follows the path alone, with
// no extra tracking of the instantaneous print height.
func blendZ(pathZ, offset, follow, currentZ float64) float64 {
	return pathZ + offset + currentZ*(follow-1.0)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
