package storage

import "testing"

func TestIsGcodeKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"jobs/benchy.gcode", true},
		{"jobs/benchy.GCODE", true},
		{"cube.gco", true},
		{"old/part.g", true},
		{"jobs/benchy.stl", false},
		{"readme.txt", false},
		{"archive.gcode.zip", false},
	}

	for _, tt := range tests {
		if got := IsGcodeKey(tt.key); got != tt.want {
			t.Errorf("IsGcodeKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
