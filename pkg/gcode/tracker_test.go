package gcode

import "testing"

func TestMachineState_AbsoluteMoves(t *testing.T) {
	var m MachineState

	m.Apply(Parse("G1 X10 Y20 Z0.2"))
	if m.X != 10 || m.Y != 20 || m.Z != 0.2 {
		t.Fatalf("after first move: %+v", m)
	}

	// Absent axes keep their prior value.
	m.Apply(Parse("G1 X15"))
	if m.X != 15 || m.Y != 20 || m.Z != 0.2 {
		t.Errorf("after partial move: %+v", m)
	}
}

func TestMachineState_RelativeMoves(t *testing.T) {
	var m MachineState

	m.Apply(Parse("G1 X10 Y10 Z1"))
	m.Apply(Parse("G91"))
	if !m.Relative {
		t.Fatal("G91 did not switch to relative mode")
	}

	m.Apply(Parse("G1 X5 Z-0.5"))
	if m.X != 15 || m.Y != 10 || m.Z != 0.5 {
		t.Errorf("after relative move: %+v", m)
	}

	m.Apply(Parse("G90"))
	m.Apply(Parse("G1 X1 Y2 Z3"))
	if m.X != 1 || m.Y != 2 || m.Z != 3 {
		t.Errorf("after returning to absolute: %+v", m)
	}
}

func TestMachineState_ModeSwitchNoMotion(t *testing.T) {
	m := MachineState{X: 5, Y: 6, Z: 7}

	m.Apply(Parse("G91"))
	m.Apply(Parse("G90"))
	if m.X != 5 || m.Y != 6 || m.Z != 7 {
		t.Errorf("mode switches moved the head: %+v", m)
	}
}

func TestMachineState_IgnoresUnknownLines(t *testing.T) {
	m := MachineState{X: 1, Y: 2, Z: 3}

	for _, raw := range []string{"M104 S200", "; comment", "G28 X", ""} {
		m.Apply(Parse(raw))
	}
	if m.X != 1 || m.Y != 2 || m.Z != 3 {
		t.Errorf("unknown lines changed state: %+v", m)
	}
}

func TestMachineState_ExtrusionOnlyMove(t *testing.T) {
	m := MachineState{X: 1, Y: 2, Z: 3}

	m.Apply(Parse("G1 E5.0 F1800"))
	if m.X != 1 || m.Y != 2 || m.Z != 3 {
		t.Errorf("extrusion-only move changed position: %+v", m)
	}
}
