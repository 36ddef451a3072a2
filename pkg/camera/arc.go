package camera

import (
	"fmt"

	"github.com/printpath/printpath/pkg/gcode"
)

// Corner names a bounding-box corner on the XY plane. Front is min Y, left
// is min X.
type Corner string

const (
	FrontLeft  Corner = "front-left"
	FrontRight Corner = "front-right"
	BackLeft   Corner = "back-left"
	BackRight  Corner = "back-right"
)

// ParseCorner validates a corner name.
func ParseCorner(s string) (Corner, error) {
	switch Corner(s) {
	case FrontLeft, FrontRight, BackLeft, BackRight:
		return Corner(s), nil
	}
	return "", fmt.Errorf("unknown corner %q", s)
}

func (c Corner) coords(md *gcode.Metadata) (float64, float64) {
	switch c {
	case FrontRight:
		return md.MaxX, md.MinY
	case BackLeft:
		return md.MinX, md.MaxY
	case BackRight:
		return md.MaxX, md.MaxY
	default:
		return md.MinX, md.MinY
	}
}

// ArcConfig controls the corner-to-corner path.
type ArcConfig struct {
	StartCorner Corner
	EndCorner   Corner

	// VerticalFraction is the leading share of progress during which the
	// camera climbs at the start corner; HorizontalFraction is the
	// trailing share pinned at the end corner. If they sum past 1 they
	// are rescaled proportionally so the three phases stay ordered.
	VerticalFraction   float64
	HorizontalFraction float64

	// ControlOffsetH and ControlOffsetV shift the Bezier control point
	// away from the segment midpoint, horizontally and in Z. Both are
	// clamped so the curve stays within the bounding box and Z extents.
	ControlOffsetH float64
	ControlOffsetV float64

	ZOffset       float64
	ZFollowFactor float64
}

// Arc is the three-phase corner-to-corner generator: a vertical climb at the
// start corner, a quadratic Bezier sweep, and a final hold at the end corner.
type Arc struct {
	cfg ArcConfig
}

// NewArc clamps fractions into [0,1], rescales overlapping phases, and fills
// unset corners with the defaults.
func NewArc(cfg ArcConfig) *Arc {
	if cfg.StartCorner == "" {
		cfg.StartCorner = FrontLeft
	}
	if cfg.EndCorner == "" {
		cfg.EndCorner = BackRight
	}
	cfg.VerticalFraction = clamp(cfg.VerticalFraction, 0, 1)
	cfg.HorizontalFraction = clamp(cfg.HorizontalFraction, 0, 1)
	if sum := cfg.VerticalFraction + cfg.HorizontalFraction; sum > 1 {
		cfg.VerticalFraction /= sum
		cfg.HorizontalFraction /= sum
	}
	if cfg.ZFollowFactor == 0 {
		cfg.ZFollowFactor = 1.0
	}
	return &Arc{cfg: cfg}
}

func (a *Arc) Name() string { return NameArc }

func (a *Arc) Waypoint(s Sample, md *gcode.Metadata) Waypoint {
	x0, y0 := a.cfg.StartCorner.coords(md)
	x2, y2 := a.cfg.EndCorner.coords(md)

	zLow := s.FirstZ
	zHigh := md.MaxZ
	if zHigh < zLow {
		zHigh = zLow
	}

	phase1End := a.cfg.VerticalFraction
	phase3Start := 1 - a.cfg.HorizontalFraction

	x, y := x0, y0
	pathZ := lerp(zLow, zHigh, s.T)

	switch {
	case s.T < phase1End:
		// Vertical only: XY pinned at the start corner.
	case s.T > phase3Start:
		x, y = x2, y2
	default:
		band := phase3Start - phase1End
		tArc := 0.0
		if band > 0 {
			tArc = clamp((s.T-phase1End)/band, 0, 1)
		}

		arcStartZ := lerp(zLow, zHigh, phase1End)
		arcEndZ := lerp(zLow, zHigh, phase3Start)
		midZ := (arcStartZ + arcEndZ) / 2
		ctrlZ := clamp(midZ+a.cfg.ControlOffsetV, zLow, zHigh)
		pathZ = bezier(arcStartZ, ctrlZ, arcEndZ, tArc)

		// The horizontal axis with the larger span carries the Bezier;
		// the other interpolates linearly between the corners.
		if abs(x2-x0) >= abs(y2-y0) {
			ctrlX := clamp((x0+x2)/2+a.cfg.ControlOffsetH, md.MinX, md.MaxX)
			x = bezier(x0, ctrlX, x2, tArc)
			y = lerp(y0, y2, tArc)
		} else {
			ctrlY := clamp((y0+y2)/2+a.cfg.ControlOffsetH, md.MinY, md.MaxY)
			y = bezier(y0, ctrlY, y2, tArc)
			x = lerp(x0, x2, tArc)
		}
	}

	return Waypoint{X: x, Y: y, Z: blendZ(pathZ, a.cfg.ZOffset, a.cfg.ZFollowFactor, s.CurrentZ)}
}

// bezier evaluates a quadratic Bezier with endpoints a, b and control c.
func bezier(a, c, b, t float64) float64 {
	u := 1 - t
	return u*u*a + 2*u*t*c + t*t*b
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
