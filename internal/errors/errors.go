// Package errors provides sentinel errors and error types for puzzle-study.
// It defines the notation failure kinds and structured error types that
// preserve context while allowing inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrMalformedPosition indicates a position string with the wrong
	// segment/field shape or an invalid character.
	ErrMalformedPosition = errors.New("malformed position")

	// ErrUnresolvableOrigin indicates that no square on the board could
	// have supplied the piece named by a ply.
	ErrUnresolvableOrigin = errors.New("unresolvable origin")

	// ErrMalformedPly indicates a move token matching none of the
	// recognised shapes.
	ErrMalformedPly = errors.New("malformed ply")

	// ErrInvalidPuzzle indicates puzzle data that cannot be converted.
	ErrInvalidPuzzle = errors.New("invalid puzzle")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStageFull indicates the study stage has no free chapter slots.
	ErrStageFull = errors.New("stage is full")
)

// Kind returns a short machine-readable name for the sentinel wrapped by
// err, or "internal" if none matches.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedPosition):
		return "malformed_position"
	case errors.Is(err, ErrUnresolvableOrigin):
		return "unresolvable_origin"
	case errors.Is(err, ErrMalformedPly):
		return "malformed_ply"
	case errors.Is(err, ErrInvalidPuzzle):
		return "invalid_puzzle"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrStageFull):
		return "stage_full"
	default:
		return "internal"
	}
}

// PlyError wraps errors with ply context: the 1-based ply number, the
// offending token and, when converting puzzles, the puzzle ID.
// It supports unwrapping via errors.Is() and errors.As().
type PlyError struct {
	Err      error  // The underlying error
	PuzzleID string // Puzzle being converted (if applicable)
	PlyNum   int    // 1-based ply number where the error occurred
	MoveText string // The token that caused the error
}

// Error returns a formatted error message including all available context.
func (e *PlyError) Error() string {
	var parts []string

	if e.PuzzleID != "" {
		parts = append(parts, fmt.Sprintf("puzzle %s", e.PuzzleID))
	}
	if e.PlyNum > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.PlyNum))
	}
	if e.MoveText != "" {
		parts = append(parts, fmt.Sprintf("move %q", e.MoveText))
	}

	context := strings.Join(parts, ", ")

	if e.Err != nil {
		if context == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", context, e.Err)
	}
	return context
}

// Unwrap returns the underlying error.
func (e *PlyError) Unwrap() error {
	return e.Err
}

// PositionError reports which field of a position string was rejected.
type PositionError struct {
	Err   error  // The underlying error
	Field string // Field name, e.g. "rank 3" or "side to move"
	Got   string // The offending text
}

// Error returns a formatted error message with the field and its value.
func (e *PositionError) Error() string {
	var parts []string

	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Got != "" {
		parts = append(parts, fmt.Sprintf("unexpected %q", e.Got))
	}

	if e.Err != nil {
		if len(parts) > 0 {
			return fmt.Sprintf("%s: %v", strings.Join(parts, ": "), e.Err)
		}
		return e.Err.Error()
	}

	if len(parts) > 0 {
		return strings.Join(parts, ": ")
	}
	return "position error"
}

// Unwrap returns the underlying error.
func (e *PositionError) Unwrap() error {
	return e.Err
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}
