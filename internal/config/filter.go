package config

import (
	"fmt"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// SelectionConfig holds settings for choosing which puzzles to convert.
type SelectionConfig struct {
	// Incorrect keeps the first N failed attempts from activity input.
	// Zero keeps every failure.
	Incorrect int `json:"incorrect"`

	// Rating bounds; zero disables a bound
	MinRating int `json:"minRating"`
	MaxRating int `json:"maxRating"`

	// Themes keeps puzzles carrying at least one of these themes
	Themes []string `json:"themes"`

	// IDs keeps only these puzzles when non-empty
	IDs []string `json:"ids"`
}

// NewSelectionConfig creates a SelectionConfig with default values.
// All fields use Go zero values - selection is unrestricted by default.
func NewSelectionConfig() *SelectionConfig {
	return &SelectionConfig{}
}

// Validate checks that the selection configuration is valid.
func (s *SelectionConfig) Validate() error {
	if s.Incorrect < 0 {
		return fmt.Errorf("incorrect count %d is negative: %w", s.Incorrect, errors.ErrInvalidConfig)
	}
	if s.MinRating < 0 || s.MaxRating < 0 {
		return fmt.Errorf("rating bounds must not be negative: %w", errors.ErrInvalidConfig)
	}
	if s.MaxRating > 0 && s.MinRating > s.MaxRating {
		return fmt.Errorf("min rating (%d) > max rating (%d): %w",
			s.MinRating, s.MaxRating, errors.ErrInvalidConfig)
	}
	return nil
}

// Matches reports whether a puzzle with this rating and these themes is
// selected.
func (s *SelectionConfig) Matches(rating int, themes []string) bool {
	if s.MinRating > 0 && rating < s.MinRating {
		return false
	}
	if s.MaxRating > 0 && rating > s.MaxRating {
		return false
	}
	if len(s.Themes) == 0 {
		return true
	}
	for _, want := range s.Themes {
		for _, have := range themes {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Wants reports whether the puzzle with this ID is selected.
func (s *SelectionConfig) Wants(id string) bool {
	if len(s.IDs) == 0 {
		return true
	}
	for _, want := range s.IDs {
		if want == id {
			return true
		}
	}
	return false
}
