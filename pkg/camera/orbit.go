package camera

import (
	"math"

	"github.com/printpath/printpath/pkg/gcode"
)

// OrbitConfig controls the circular path.
type OrbitConfig struct {
	// Radius of the circle in mm. Negative values are clamped to zero.
	Radius float64
	// Orbits is how many full 360-degree loops the camera makes over the
	// whole print.
	Orbits int
	// SnapshotsPerLoop is the number of snapshots within each loop; the
	// total snapshot budget is Orbits * SnapshotsPerLoop.
	SnapshotsPerLoop int
	// StartAngle is the azimuth of the first snapshot, in degrees, with 0
	// on the positive X axis.
	StartAngle float64
	// CenterOnModel centers the circle on the model bounding box instead
	// of the bed.
	CenterOnModel bool
	// FixedZ pins every snapshot to one height instead of climbing with
	// print progress. Active when UseFixedZ is set.
	FixedZ    float64
	UseFixedZ bool

	ZOffset       float64
	ZFollowFactor float64
}

// Orbit is the circular path generator.
type Orbit struct {
	cfg OrbitConfig
}

// NewOrbit clamps out-of-range values and returns the generator.
func NewOrbit(cfg OrbitConfig) *Orbit {
	if cfg.Radius < 0 {
		cfg.Radius = 0
	}
	if cfg.Orbits < 1 {
		cfg.Orbits = 1
	}
	if cfg.SnapshotsPerLoop < 1 {
		cfg.SnapshotsPerLoop = 1
	}
	if cfg.ZFollowFactor == 0 {
		cfg.ZFollowFactor = 1.0
	}
	return &Orbit{cfg: cfg}
}

func (o *Orbit) Name() string { return NameOrbit }

// Snapshots returns the total snapshot budget implied by the configuration.
func (o *Orbit) Snapshots() int {
	return o.cfg.Orbits * o.cfg.SnapshotsPerLoop
}

// Waypoint places the camera on the circle. Azimuths advance by
// orbits*360/total per snapshot, so one loop of eight snapshots lands every
// 45 degrees and a closed loop never duplicates its starting frame. Height
// interpolates from the first accepted snapshot's Z to the print's max Z
// unless a fixed height is configured.
func (o *Orbit) Waypoint(s Sample, md *gcode.Metadata) Waypoint {
	cx, cy := md.BedX/2, md.BedY/2
	if o.cfg.CenterOnModel {
		cx, cy = md.CenterX(), md.CenterY()
	}

	total := s.Total
	if total < 1 {
		total = 1
	}
	loopFrac := float64(s.Seq) / float64(total)
	angle := (o.cfg.StartAngle + loopFrac*float64(o.cfg.Orbits)*360.0) * math.Pi / 180.0

	var pathZ float64
	if o.cfg.UseFixedZ {
		pathZ = o.cfg.FixedZ
	} else {
		top := md.MaxZ
		if top < s.FirstZ {
			top = s.FirstZ
		}
		pathZ = lerp(s.FirstZ, top, s.T)
	}

	return Waypoint{
		X: cx + o.cfg.Radius*math.Cos(angle),
		Y: cy + o.cfg.Radius*math.Sin(angle),
		Z: blendZ(pathZ, o.cfg.ZOffset, o.cfg.ZFollowFactor, s.CurrentZ),
	}
}
