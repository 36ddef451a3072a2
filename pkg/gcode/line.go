// Package gcode implements the stateful parsing side of the timelapse
// post-processor: a line tokenizer, a machine position tracker, a layer
// boundary detector, and a one-pass metadata extractor.
package gcode

import (
	"strconv"
	"strings"
)

// Kind classifies a tokenized G-code line.
type Kind int

const (
	// KindOther is anything the tokenizer does not recognize. Such lines
	// are passed through untouched and never affect parser state.
	KindOther Kind = iota
	// KindMove is a G0/G1 motion command.
	KindMove
	// KindSetMode is G90 (absolute) or G91 (relative).
	KindSetMode
	// KindDwell is a G4 pause.
	KindDwell
	// KindComment is a line whose first non-blank character is ';'.
	KindComment
)

// Line is the typed form of one input line. Every downstream consumer
// (tracker, layer detector, processor) reads this single representation
// instead of re-matching patterns on the raw text.
type Line struct {
	Kind Kind
	Raw  string

	// Axis words present on a move. A Has* flag false means the axis was
	// absent from the line and must not be touched by the tracker.
	X, Y, Z, E, F    float64
	HasX, HasY, HasZ bool
	HasE, HasF       bool

	// Absolute is valid only for KindSetMode.
	Absolute bool

	// Comment holds the text after ';' for comment lines, trimmed.
	Comment string
}

// Parse tokenizes a single raw line. It never fails: anything that does not
// parse cleanly comes back as KindOther (or as a move with fewer axis words).
func Parse(raw string) Line {
	ln := Line{Kind: KindOther, Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ln
	}
	if strings.HasPrefix(trimmed, ";") {
		ln.Kind = KindComment
		ln.Comment = strings.TrimSpace(trimmed[1:])
		return ln
	}

	// Strip an inline comment before tokenizing the command itself.
	code := trimmed
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = strings.TrimSpace(code[:i])
	}
	if code == "" {
		return ln
	}

	fields := strings.Fields(code)
	cmd := strings.ToUpper(fields[0])

	switch cmd {
	case "G0", "G1":
		ln.Kind = KindMove
		for _, w := range fields[1:] {
			if len(w) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(w[1:], 64)
			if err != nil {
				continue
			}
			switch w[0] {
			case 'X', 'x':
				ln.X, ln.HasX = v, true
			case 'Y', 'y':
				ln.Y, ln.HasY = v, true
			case 'Z', 'z':
				ln.Z, ln.HasZ = v, true
			case 'E', 'e':
				ln.E, ln.HasE = v, true
			case 'F', 'f':
				ln.F, ln.HasF = v, true
			}
		}
	case "G90":
		ln.Kind = KindSetMode
		ln.Absolute = true
	case "G91":
		ln.Kind = KindSetMode
		ln.Absolute = false
	case "G4":
		ln.Kind = KindDwell
	}

	return ln
}
