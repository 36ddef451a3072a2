package gcode

import "regexp"

// zDeltaThreshold is the minimum Z increase, in millimeters, treated as a
// layer change when no explicit layer marker is present.
const zDeltaThreshold = 0.05

var layerMarkerRe = regexp.MustCompile(`(?i);\s*LAYER:\s*(\d+)`)

// LayerEvent reports that a new logical layer has begun.
type LayerEvent struct {
	// Index is the logical layer number. Indices strictly increase across
	// events within a single pass.
	Index int
	// Z is the tracked Z height at the line that triggered the event.
	Z float64
}

// LayerDetector decides, per line, whether a new logical layer has begun.
// Two strategies are evaluated in priority order: an explicit ";LAYER:n"
// marker, and a Z-delta fallback for files without markers. At most one
// event fires per line.
type LayerDetector struct {
	last      int // last reported layer index, -1 before any event
	baselineZ float64
	// pendingLift is set when a marker fires: slicers emit the marker
	// before the layer's Z move, so the next threshold-crossing rise
	// belongs to the marker's own transition and must not fire again.
	pendingLift bool
}

// NewLayerDetector returns a detector with a fresh baseline. The Z baseline
// starts at zero, the machine's position at pass start.
func NewLayerDetector() *LayerDetector {
	return &LayerDetector{last: -1}
}

// Observe inspects one tokenized line together with the tracked Z after the
// line was applied. A marker fires only when its id is strictly greater than
// the last recorded id, which guards against duplicate or out-of-order
// markers from multi-object slicing. Firing resets the Z baseline and arms
// pendingLift, so the fallback never double-counts a transition a marker
// already reported. The fallback fires only when Z has risen more than the
// threshold above the last distinct-layer Z; equal or decreasing Z never
// fires.
func (d *LayerDetector) Observe(ln Line, z float64) (LayerEvent, bool) {
	if m := layerMarkerRe.FindStringSubmatch(ln.Raw); m != nil {
		id := atoi(m[1])
		if id > d.last {
			d.last = id
			d.baselineZ = z
			d.pendingLift = true
			return LayerEvent{Index: id, Z: z}, true
		}
		// Stale or duplicate marker: no event, and no fallback either.
		return LayerEvent{}, false
	}

	if z-d.baselineZ > zDeltaThreshold {
		d.baselineZ = z
		if d.pendingLift {
			// The marker's own Z move. Track it silently.
			d.pendingLift = false
			return LayerEvent{}, false
		}
		d.last++
		return LayerEvent{Index: d.last, Z: z}, true
	}
	return LayerEvent{}, false
}
