package security

import (
	"os"
	"strings"
	"testing"
)

func TestValidateLine(t *testing.T) {
	v := NewValidator(1024, 100, 1000)

	if err := v.ValidateLine("G1 X10 Y10 Z0.2 F3000"); err != nil {
		t.Errorf("expected no error for short line, got: %v", err)
	}

	long := strings.Repeat("X", 101)
	if err := v.ValidateLine(long); err == nil {
		t.Error("expected error for line exceeding limit 100")
	}
}

func TestValidateLineCount(t *testing.T) {
	v := NewValidator(1024, 100, 50)

	if err := v.ValidateLineCount(50); err != nil {
		t.Errorf("expected no error at the limit, got: %v", err)
	}

	if err := v.ValidateLineCount(51); err == nil {
		t.Error("expected error for count 51 exceeding limit 50")
	}
}

func TestValidateFile(t *testing.T) {
	v := NewValidator(10, 100, 1000)

	path := "/tmp/test_printpath_input.gcode"
	os.Remove(path)
	defer os.Remove(path)

	if err := os.WriteFile(path, []byte("G28\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := v.ValidateFile(path); err != nil {
		t.Errorf("expected no error for small file, got: %v", err)
	}

	if err := os.WriteFile(path, []byte(strings.Repeat("G28\n", 10)), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if err := v.ValidateFile(path); err == nil {
		t.Error("expected error for file exceeding size limit")
	}
}

func TestValidateFile_Missing(t *testing.T) {
	v := NewValidator(1024, 100, 1000)

	if err := v.ValidateFile("/tmp/printpath_does_not_exist.gcode"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewValidator_Defaults(t *testing.T) {
	v := NewValidator(0, 0, 0)

	// Non-positive limits fall back to permissive defaults.
	if v.MaxLineLength() <= 0 {
		t.Errorf("MaxLineLength = %d, want positive default", v.MaxLineLength())
	}
	if err := v.ValidateLine(strings.Repeat("X", 1000)); err != nil {
		t.Errorf("default line limit rejected a long line: %v", err)
	}
}
