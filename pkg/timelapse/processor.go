package timelapse

import (
	"log/slog"

	"github.com/printpath/printpath/pkg/camera"
	"github.com/printpath/printpath/pkg/gcode"
)

// Result is the output of one processing pass.
type Result struct {
	// Lines is the rewritten file: every original line preserved in its
	// original relative order, with snapshot blocks interleaved.
	Lines []string
	// Snapshots is the ordered record list, the contract consumed by the
	// visualization layer.
	Snapshots []SnapshotRecord
	// LayerStarts holds the tracked position at each detected layer
	// boundary, snapshot or not.
	LayerStarts []LayerStart

	Metadata       gcode.Metadata
	LayersDetected int
}

// Process runs the two passes over the input: one metadata scan, then one
// streaming pass that tracks machine state, detects layer boundaries,
// schedules snapshots, and splices in the emitted blocks. The pass is
// fully deterministic for a given input and configuration and shares no
// state with other invocations.
func Process(lines []string, opts Options) *Result {
	md := gcode.ScanMetadata(lines)
	for _, w := range md.Warnings {
		slog.Warn("metadata_substitution", "detail", w)
	}
	slog.Info("metadata_scan_complete",
		"total_layers", md.TotalLayers,
		"bed_x", md.BedX, "bed_y", md.BedY,
		"max_z", md.MaxZ,
		"firmware", md.Firmware)

	firmware := opts.Firmware
	if firmware == "" {
		firmware = md.Firmware
	}
	if firmware == "" {
		firmware = gcode.FirmwareKlipper
	}

	emitter := &Emitter{
		Firmware:      firmware,
		PathName:      opts.Generator.Name(),
		TravelSpeed:   opts.TravelSpeed,
		DwellTime:     opts.DwellTime,
		RetractLength: opts.RetractLength,
		RetractSpeed:  opts.RetractSpeed,
	}

	sched := NewScheduler(opts.Snapshots, opts.FirstLayer, md.TotalLayers)
	state := &gcode.MachineState{}
	detector := gcode.NewLayerDetector()

	res := &Result{
		Lines:    make([]string, 0, len(lines)),
		Metadata: md,
	}

	var firstZ float64
	haveFirst := false

	for _, raw := range lines {
		ln := gcode.Parse(raw)

		// Position before this line applies; an injected block must
		// return here so the original line resumes undisturbed.
		preX, preY, preZ := state.X, state.Y, state.Z
		state.Apply(ln)

		if ev, ok := detector.Observe(ln, state.Z); ok {
			res.LayersDetected++
			res.LayerStarts = append(res.LayerStarts, LayerStart{
				Layer: ev.Index, X: state.X, Y: state.Y, Z: state.Z,
			})

			if t, accepted := sched.Accept(ev.Index); accepted {
				if !haveFirst {
					firstZ = state.Z
					haveFirst = true
				}
				seq := len(res.Snapshots)
				wp := opts.Generator.Waypoint(camera.Sample{
					T:        t,
					Seq:      seq,
					Total:    opts.Snapshots,
					CurrentZ: state.Z,
					FirstZ:   firstZ,
				}, &md)
				wp.Z += opts.ZHopHeight

				res.Lines = append(res.Lines,
					emitter.Block(seq, opts.Snapshots, ev.Index, wp, preX, preY, preZ)...)
				res.Snapshots = append(res.Snapshots, SnapshotRecord{
					Sequence: seq,
					Layer:    ev.Index,
					X:        wp.X, Y: wp.Y, Z: wp.Z,
				})

				slog.Info("snapshot_inserted",
					"sequence", seq+1,
					"total", opts.Snapshots,
					"layer", ev.Index,
					"x", wp.X, "y", wp.Y, "z", wp.Z)
			}
		}

		res.Lines = append(res.Lines, raw)
	}

	slog.Info("processing_complete",
		"layers_detected", res.LayersDetected,
		"snapshots", len(res.Snapshots))

	return res
}
