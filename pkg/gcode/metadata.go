package gcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Documented defaults for fields that stay unresolved at end of file.
const (
	DefaultBedX = 220.0
	DefaultBedY = 220.0
	DefaultMaxZ = 250.0

	// minBedDim is the validity floor: a bed candidate with either
	// dimension below this is discarded in favor of the defaults.
	minBedDim = 50.0
)

// Firmware flavors recognized in slicer comments. Anything else is ignored.
const (
	FirmwareKlipper = "klipper"
	FirmwareMarlin  = "marlin"
)

// Metadata is the result of one independent forward pass over the file.
// It is built once and immutable thereafter; unresolved fields carry the
// documented defaults. TotalLayers zero means unknown and selects the
// scheduler's fallback mode.
type Metadata struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MaxZ       float64

	TotalLayers int
	BedX, BedY  float64
	Firmware    string

	// Warnings records substitutions made for degenerate input, such as a
	// bed candidate below the validity floor.
	Warnings []string
}

// CenterX returns the X center of the model bounding box.
func (md *Metadata) CenterX() float64 { return (md.MinX + md.MaxX) / 2 }

// CenterY returns the Y center of the model bounding box.
func (md *Metadata) CenterY() float64 { return (md.MinY + md.MaxY) / 2 }

var (
	totalPhraseRe = regexp.MustCompile(`(?i);\s*total layer number:\s*(\d+)`)
	layersRe      = regexp.MustCompile(`(?i)LAYERS:\s*(\d+)`)

	polygonRe = regexp.MustCompile(`(?i)POLYGON=\[\[(-?[\d.]+),(-?[\d.]+)\],\[(-?[\d.]+),(-?[\d.]+)\],\[(-?[\d.]+),(-?[\d.]+)\],\[(-?[\d.]+),(-?[\d.]+)\]`)
	rangeRe   = regexp.MustCompile(`(?i)X\[(-?[\d.]+):(-?[\d.]+)\]\s*Y\[(-?[\d.]+):(-?[\d.]+)\](?:\s*Z\[(-?[\d.]+):(-?[\d.]+)\])?`)

	minXRe = regexp.MustCompile(`(?i)\bmin_x\s*[=:]\s*(-?[\d.]+)`)
	maxXRe = regexp.MustCompile(`(?i)\bmax_x\s*[=:]\s*(-?[\d.]+)`)
	minYRe = regexp.MustCompile(`(?i)\bmin_y\s*[=:]\s*(-?[\d.]+)`)
	maxYRe = regexp.MustCompile(`(?i)\bmax_y\s*[=:]\s*(-?[\d.]+)`)

	maxZRe = regexp.MustCompile(`(?i)\b(?:max_z_height|max_z)\s*[=:]\s*(-?[\d.]+)`)

	bedSizeRe  = regexp.MustCompile(`(?i)\b(?:print_bed_size|bed_size|bed_shape)\s*[=:]?\s*(-?[\d.]+)\s*[xX,*]\s*(-?[\d.]+)`)
	bedAreaRe  = regexp.MustCompile(`(?i)\bprintable_area\s*[=:]\s*(.+)`)
	areaPairRe = regexp.MustCompile(`(-?[\d.]+)\s*[x,]\s*(-?[\d.]+)`)

	flavorRe = regexp.MustCompile(`(?i)\b(?:FLAVOR|gcode_flavor)\s*[=:]\s*(\w+)`)
)

// ScanMetadata mines bounding box, total layer count, bed size, and firmware
// flavor from comments in a single forward pass. Per field it tries ordered
// pattern families and keeps the first match; scanning stops early once every
// field is resolved. A field that never resolves takes its default.
func ScanMetadata(lines []string) Metadata {
	md := Metadata{}

	var layersDone, bboxDone, maxZDone, bedDone, flavorDone bool
	var haveMinX, haveMaxX, haveMinY, haveMaxY bool

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !layersDone {
			if m := totalPhraseRe.FindStringSubmatch(line); m != nil {
				md.TotalLayers = atoi(m[1])
				layersDone = true
			} else if strings.HasPrefix(strings.ToUpper(line), ";TOTAL_LAYERS:") {
				if n, ok := atoiAfterColon(line); ok {
					md.TotalLayers = n
					layersDone = true
				}
			} else if strings.HasPrefix(strings.ToUpper(line), ";MAX_LAYER:") {
				if n, ok := atoiAfterColon(line); ok {
					md.TotalLayers = n + 1
					layersDone = true
				}
			} else if m := layersRe.FindStringSubmatch(line); m != nil {
				md.TotalLayers = atoi(m[1])
				layersDone = true
			}
		}

		if !bboxDone {
			if m := polygonRe.FindStringSubmatch(line); m != nil {
				xs := []float64{atof(m[1]), atof(m[3]), atof(m[5]), atof(m[7])}
				ys := []float64{atof(m[2]), atof(m[4]), atof(m[6]), atof(m[8])}
				md.MinX, md.MaxX = minMax(xs)
				md.MinY, md.MaxY = minMax(ys)
				bboxDone = true
			} else if m := rangeRe.FindStringSubmatch(line); m != nil {
				md.MinX, md.MaxX = atof(m[1]), atof(m[2])
				md.MinY, md.MaxY = atof(m[3]), atof(m[4])
				if m[5] != "" && !maxZDone {
					md.MaxZ = atof(m[6])
					maxZDone = true
				}
				bboxDone = true
			} else {
				if m := minXRe.FindStringSubmatch(line); m != nil && !haveMinX {
					md.MinX, haveMinX = atof(m[1]), true
				}
				if m := maxXRe.FindStringSubmatch(line); m != nil && !haveMaxX {
					md.MaxX, haveMaxX = atof(m[1]), true
				}
				if m := minYRe.FindStringSubmatch(line); m != nil && !haveMinY {
					md.MinY, haveMinY = atof(m[1]), true
				}
				if m := maxYRe.FindStringSubmatch(line); m != nil && !haveMaxY {
					md.MaxY, haveMaxY = atof(m[1]), true
				}
				bboxDone = haveMinX && haveMaxX && haveMinY && haveMaxY
			}
		}

		if !maxZDone {
			if m := maxZRe.FindStringSubmatch(line); m != nil {
				md.MaxZ = atof(m[1])
				maxZDone = true
			}
		}

		if !bedDone {
			if m := bedSizeRe.FindStringSubmatch(line); m != nil {
				md.BedX, md.BedY = atof(m[1]), atof(m[2])
				bedDone = true
			} else if m := bedAreaRe.FindStringSubmatch(line); m != nil {
				if x, y, ok := farCorner(m[1]); ok {
					md.BedX, md.BedY = x, y
					bedDone = true
				}
			}
			if bedDone && (md.BedX < minBedDim || md.BedY < minBedDim) {
				md.Warnings = append(md.Warnings, fmt.Sprintf(
					"bed candidate %.1fx%.1f below %.0fmm floor, using default",
					md.BedX, md.BedY, minBedDim))
				md.BedX, md.BedY = DefaultBedX, DefaultBedY
			}
		}

		if !flavorDone {
			if m := flavorRe.FindStringSubmatch(line); m != nil {
				switch strings.ToLower(m[1]) {
				case FirmwareKlipper:
					md.Firmware = FirmwareKlipper
					flavorDone = true
				case FirmwareMarlin:
					md.Firmware = FirmwareMarlin
					flavorDone = true
				}
			}
		}

		if layersDone && bboxDone && maxZDone && bedDone && flavorDone {
			break
		}
	}

	if !bedDone {
		md.BedX, md.BedY = DefaultBedX, DefaultBedY
	}
	if !maxZDone {
		md.MaxZ = DefaultMaxZ
	}
	if !bboxDone {
		// Partial individual bounds are kept; missing edges fall back to
		// the bed extents so corner paths stay on the plate.
		if !haveMinX {
			md.MinX = 0
		}
		if !haveMaxX {
			md.MaxX = md.BedX
		}
		if !haveMinY {
			md.MinY = 0
		}
		if !haveMaxY {
			md.MaxY = md.BedY
		}
	}

	return md
}

// farCorner parses a printable_area polygon like "0x0,220x0,220x220,0x220"
// and returns the numerically largest corner.
func farCorner(s string) (float64, float64, bool) {
	pairs := areaPairRe.FindAllStringSubmatch(s, -1)
	if len(pairs) == 0 {
		return 0, 0, false
	}
	var x, y float64
	for _, p := range pairs {
		if v := atof(p[1]); v > x {
			x = v
		}
		if v := atof(p[2]); v > y {
			y = v
		}
	}
	return x, y, true
}

func minMax(vs []float64) (float64, float64) {
	lo, hi := vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func atof(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiAfterColon(line string) (int, bool) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return n, true
}
