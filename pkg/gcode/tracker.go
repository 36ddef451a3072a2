package gcode

// MachineState tracks the toolhead position and positioning mode as lines
// are consumed. A fresh zero-valued state (origin, absolute mode) is used
// for every pass; states are never shared across passes.
type MachineState struct {
	X, Y, Z  float64
	Relative bool
}

// Apply consumes one tokenized line. Absolute moves set each present axis
// outright; relative moves add the delta for present axes only. Axes absent
// from the line keep their prior value. Mode switches produce no motion, and
// unrecognized lines leave the state untouched.
func (m *MachineState) Apply(ln Line) {
	switch ln.Kind {
	case KindMove:
		if m.Relative {
			if ln.HasX {
				m.X += ln.X
			}
			if ln.HasY {
				m.Y += ln.Y
			}
			if ln.HasZ {
				m.Z += ln.Z
			}
		} else {
			if ln.HasX {
				m.X = ln.X
			}
			if ln.HasY {
				m.Y = ln.Y
			}
			if ln.HasZ {
				m.Z = ln.Z
			}
		}
	case KindSetMode:
		m.Relative = !ln.Absolute
	}
}
