// Package errors provides small helpers for context-aware error wrapping.
package errors

import "fmt"

// Wrap annotates an error with context. A nil err returns nil, so call
// sites can wrap unconditionally.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf is Wrap with a formatted context string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
