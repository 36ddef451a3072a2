// Package security validates G-code input before processing. The core
// never crashes on bad content, but absurd inputs (multi-gigabyte files,
// megabyte-long lines) are rejected up front instead of being streamed.
package security

import (
	"fmt"
	"log/slog"
	"os"
)

// Validator holds the input limits for one run.
type Validator struct {
	maxFileSize   int64
	maxLineLength int
	maxLineCount  int
}

// NewValidator creates a validator with the given limits. Non-positive
// limits are replaced with permissive defaults.
func NewValidator(maxFileSize int64, maxLineLength, maxLineCount int) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = 512 * 1024 * 1024
	}
	if maxLineLength <= 0 {
		maxLineLength = 16 * 1024
	}
	if maxLineCount <= 0 {
		maxLineCount = 20_000_000
	}

	slog.Info("input_validator_init",
		"max_file_size_mb", maxFileSize/1024/1024,
		"max_line_length", maxLineLength,
		"max_line_count", maxLineCount)

	return &Validator{
		maxFileSize:   maxFileSize,
		maxLineLength: maxLineLength,
		maxLineCount:  maxLineCount,
	}
}

// MaxLineLength returns the per-line byte limit, used to size scanner buffers.
func (v *Validator) MaxLineLength() int { return v.maxLineLength }

// ValidateFile checks the on-disk size of an input file.
func (v *Validator) ValidateFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("input is not a regular file: %s", path)
	}
	if fi.Size() > v.maxFileSize {
		return fmt.Errorf("input file size %d exceeds limit %d", fi.Size(), v.maxFileSize)
	}
	return nil
}

// ValidateLine checks one line's length against the limit.
func (v *Validator) ValidateLine(line string) error {
	if len(line) > v.maxLineLength {
		return fmt.Errorf("line length %d exceeds limit %d", len(line), v.maxLineLength)
	}
	return nil
}

// ValidateLineCount checks the total number of lines read.
func (v *Validator) ValidateLineCount(n int) error {
	if n > v.maxLineCount {
		return fmt.Errorf("line count %d exceeds limit %d", n, v.maxLineCount)
	}
	return nil
}
