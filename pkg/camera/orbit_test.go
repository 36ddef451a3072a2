package camera

import (
	"math"
	"testing"

	"github.com/printpath/printpath/pkg/gcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() *gcode.Metadata {
	return &gcode.Metadata{
		MinX: 80, MaxX: 140,
		MinY: 90, MaxY: 150,
		MaxZ: 40,
		BedX: 220, BedY: 220,
	}
}

func TestOrbit_AzimuthSpacing(t *testing.T) {
	// One loop of eight snapshots lands every 45 degrees and never
	// repeats the starting azimuth.
	gen := NewOrbit(OrbitConfig{
		Radius:           30,
		Orbits:           1,
		SnapshotsPerLoop: 8,
		CenterOnModel:    true,
	})
	md := testMetadata()

	total := gen.Snapshots()
	require.Equal(t, 8, total)

	cx, cy := md.CenterX(), md.CenterY()
	for k := 0; k < total; k++ {
		s := Sample{
			T:      float64(k) / float64(total-1),
			Seq:    k,
			Total:  total,
			FirstZ: 0.2,
		}
		wp := gen.Waypoint(s, md)

		gotAngle := math.Atan2(wp.Y-cy, wp.X-cx) * 180 / math.Pi
		wantAngle := float64(k) * 45.0
		diff := math.Mod(gotAngle-wantAngle+720, 360)
		if diff > 180 {
			diff = 360 - diff
		}
		assert.InDelta(t, 0, diff, 1e-9, "snapshot %d azimuth", k)
	}
}

func TestOrbit_RadiusHeld(t *testing.T) {
	gen := NewOrbit(OrbitConfig{Radius: 25, Orbits: 2, SnapshotsPerLoop: 5, CenterOnModel: true})
	md := testMetadata()

	cx, cy := md.CenterX(), md.CenterY()
	total := gen.Snapshots()
	for k := 0; k < total; k++ {
		wp := gen.Waypoint(Sample{T: float64(k) / float64(total-1), Seq: k, Total: total, FirstZ: 0.2}, md)
		r := math.Hypot(wp.X-cx, wp.Y-cy)
		assert.InDelta(t, 25, r, 1e-9)
	}
}

func TestOrbit_CenterSelection(t *testing.T) {
	md := testMetadata()
	s := Sample{T: 0, Seq: 0, Total: 4, FirstZ: 0.2}

	onModel := NewOrbit(OrbitConfig{Radius: 10, Orbits: 1, SnapshotsPerLoop: 4, CenterOnModel: true, StartAngle: 0})
	wp := onModel.Waypoint(s, md)
	assert.InDelta(t, md.CenterX()+10, wp.X, 1e-9)
	assert.InDelta(t, md.CenterY(), wp.Y, 1e-9)

	onBed := NewOrbit(OrbitConfig{Radius: 10, Orbits: 1, SnapshotsPerLoop: 4, CenterOnModel: false})
	wp = onBed.Waypoint(s, md)
	assert.InDelta(t, md.BedX/2+10, wp.X, 1e-9)
	assert.InDelta(t, md.BedY/2, wp.Y, 1e-9)
}

func TestOrbit_StartAngle(t *testing.T) {
	gen := NewOrbit(OrbitConfig{Radius: 10, Orbits: 1, SnapshotsPerLoop: 4, CenterOnModel: true, StartAngle: 90})
	md := testMetadata()

	wp := gen.Waypoint(Sample{T: 0, Seq: 0, Total: 4, FirstZ: 0.2}, md)
	assert.InDelta(t, md.CenterX(), wp.X, 1e-9)
	assert.InDelta(t, md.CenterY()+10, wp.Y, 1e-9)
}

func TestOrbit_HeightClimbs(t *testing.T) {
	gen := NewOrbit(OrbitConfig{Radius: 30, Orbits: 1, SnapshotsPerLoop: 5, CenterOnModel: true})
	md := testMetadata()

	first := gen.Waypoint(Sample{T: 0, Seq: 0, Total: 5, FirstZ: 0.2}, md)
	mid := gen.Waypoint(Sample{T: 0.5, Seq: 2, Total: 5, FirstZ: 0.2}, md)
	last := gen.Waypoint(Sample{T: 1, Seq: 4, Total: 5, FirstZ: 0.2}, md)

	assert.InDelta(t, 0.2, first.Z, 1e-9)
	assert.InDelta(t, (0.2+40)/2, mid.Z, 1e-9)
	assert.InDelta(t, 40, last.Z, 1e-9)
}

func TestOrbit_FixedZ(t *testing.T) {
	gen := NewOrbit(OrbitConfig{Radius: 30, Orbits: 1, SnapshotsPerLoop: 5, UseFixedZ: true, FixedZ: 15})
	md := testMetadata()

	for _, tt := range []float64{0, 0.5, 1} {
		wp := gen.Waypoint(Sample{T: tt, Seq: 0, Total: 5, FirstZ: 0.2}, md)
		assert.InDelta(t, 15, wp.Z, 1e-9)
	}
}

func TestOrbit_ZOffsetAndFollow(t *testing.T) {
	md := testMetadata()

	offset := NewOrbit(OrbitConfig{Radius: 30, Orbits: 1, SnapshotsPerLoop: 5, UseFixedZ: true, FixedZ: 10, ZOffset: 5})
	wp := offset.Waypoint(Sample{T: 0, Seq: 0, Total: 5, FirstZ: 0.2, CurrentZ: 3}, md)
	assert.InDelta(t, 15, wp.Z, 1e-9)

	// ZFollowFactor below 1 pulls the height toward the path by
	// subtracting a share of the current print height.
	follow := NewOrbit(OrbitConfig{Radius: 30, Orbits: 1, SnapshotsPerLoop: 5, UseFixedZ: true, FixedZ: 10, ZFollowFactor: 0.5})
	wp = follow.Waypoint(Sample{T: 0, Seq: 0, Total: 5, FirstZ: 0.2, CurrentZ: 4}, md)
	assert.InDelta(t, 10+4*(0.5-1), wp.Z, 1e-9)
}

func TestOrbit_ConfigClamping(t *testing.T) {
	gen := NewOrbit(OrbitConfig{Radius: -5, Orbits: 0, SnapshotsPerLoop: 0})
	require.Equal(t, 1, gen.Snapshots())

	md := testMetadata()
	wp := gen.Waypoint(Sample{T: 0, Seq: 0, Total: 1, FirstZ: 0.2}, md)
	// Radius clamped to zero: the waypoint sits on the center.
	assert.InDelta(t, md.BedX/2, wp.X, 1e-9)
	assert.InDelta(t, md.BedY/2, wp.Y, 1e-9)
}

func TestNew_SelectsGenerator(t *testing.T) {
	gen, err := New(NameOrbit, OrbitConfig{}, ArcConfig{})
	require.NoError(t, err)
	assert.Equal(t, NameOrbit, gen.Name())

	gen, err = New(NameArc, OrbitConfig{}, ArcConfig{})
	require.NoError(t, err)
	assert.Equal(t, NameArc, gen.Name())

	_, err = New("spiral", OrbitConfig{}, ArcConfig{})
	require.Error(t, err)
}
