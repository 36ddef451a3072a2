package timelapse

import (
	"fmt"

	"github.com/printpath/printpath/pkg/camera"
	"github.com/printpath/printpath/pkg/gcode"
)

// Snapshot trigger sentinels. Downstream firmware macros match on the
// literal text, so these strings are part of the wire contract.
const (
	TriggerKlipper = "TIMELAPSE_TAKE_FRAME"
	TriggerMarlin  = "M240"
)

// Emitter renders one injected snapshot block. Positions use three decimals
// and feed rates zero, matching what slicers emit.
type Emitter struct {
	Firmware      string
	PathName      string
	TravelSpeed   int
	DwellTime     int
	RetractLength float64
	RetractSpeed  int
}

func (e *Emitter) trigger() string {
	if e.Firmware == gcode.FirmwareMarlin {
		return TriggerMarlin
	}
	return TriggerKlipper
}

// Block renders the full injected sequence for one snapshot: header, forced
// absolute mode, optional retract, travel to the waypoint, optional dwell,
// trigger, travel back to the exact pre-block position, optional unretract,
// footer. The caller re-emits the triggering line immediately after.
func (e *Emitter) Block(seq, total, layer int, wp camera.Waypoint, preX, preY, preZ float64) []string {
	speed := float64(e.TravelSpeed)
	out := make([]string, 0, 12)

	out = append(out, fmt.Sprintf("; --- PrintPath %s snapshot %d/%d for layer %d ---",
		e.PathName, seq+1, total, layer))
	out = append(out, "G90 ; absolute positioning for snapshot move")

	if e.RetractLength > 0 {
		out = append(out, "G91 ; relative extrusion for retract")
		out = append(out, fmt.Sprintf("G1 E-%.3f F%.0f ; retract", e.RetractLength, float64(e.RetractSpeed)*60))
		out = append(out, "G90")
	}

	out = append(out, fmt.Sprintf("G0 X%.3f Y%.3f Z%.3f F%.0f ; move to snapshot position",
		wp.X, wp.Y, wp.Z, speed))

	if e.DwellTime > 0 {
		out = append(out, fmt.Sprintf("G4 P%d ; dwell for camera", e.DwellTime))
	}

	out = append(out, e.trigger())

	out = append(out, fmt.Sprintf("G0 X%.3f Y%.3f Z%.3f F%.0f ; return to print position",
		preX, preY, preZ, speed))

	if e.RetractLength > 0 {
		out = append(out, "G91 ; relative extrusion for unretract")
		out = append(out, fmt.Sprintf("G1 E%.3f F%.0f ; unretract", e.RetractLength, float64(e.RetractSpeed)*60))
		out = append(out, "G90 ; restore absolute positioning")
	}

	out = append(out, "; --- end PrintPath snapshot ---")
	return out
}
