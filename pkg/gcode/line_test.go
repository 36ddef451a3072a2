package gcode

import "testing"

func TestParse_Moves(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Line
	}{
		{
			name: "full move",
			raw:  "G1 X10.5 Y-3 Z0.2 E1.25 F3000",
			want: Line{Kind: KindMove, X: 10.5, Y: -3, Z: 0.2, E: 1.25, F: 3000,
				HasX: true, HasY: true, HasZ: true, HasE: true, HasF: true},
		},
		{
			name: "travel move",
			raw:  "G0 X100 Y100",
			want: Line{Kind: KindMove, X: 100, Y: 100, HasX: true, HasY: true},
		},
		{
			name: "lowercase words",
			raw:  "g1 x5 z1.0",
			want: Line{Kind: KindMove, X: 5, Z: 1.0, HasX: true, HasZ: true},
		},
		{
			name: "inline comment stripped",
			raw:  "G1 X1 ; wipe",
			want: Line{Kind: KindMove, X: 1, HasX: true},
		},
		{
			name: "malformed axis word skipped",
			raw:  "G1 Xabc Y2",
			want: Line{Kind: KindMove, Y: 2, HasY: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			got.Raw = ""
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_Modes(t *testing.T) {
	abs := Parse("G90")
	if abs.Kind != KindSetMode || !abs.Absolute {
		t.Errorf("G90 parsed as %+v", abs)
	}

	rel := Parse("G91 ; relative")
	if rel.Kind != KindSetMode || rel.Absolute {
		t.Errorf("G91 parsed as %+v", rel)
	}
}

func TestParse_Passthrough(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{"", KindOther},
		{"M104 S200", KindOther},
		{"G28", KindOther},
		{"G4 P500", KindDwell},
		{"; just a comment", KindComment},
		{"  ;LAYER:3", KindComment},
	}

	for _, tt := range tests {
		if got := Parse(tt.raw); got.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.kind)
		}
	}
}

func TestParse_CommentText(t *testing.T) {
	ln := Parse(";LAYER:3")
	if ln.Comment != "LAYER:3" {
		t.Errorf("comment text = %q, want %q", ln.Comment, "LAYER:3")
	}
}
