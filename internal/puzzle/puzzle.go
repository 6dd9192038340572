// Package puzzle models training puzzles as delivered by lichess: the
// puzzle activity stream (one JSON attempt per line) and the single
// puzzle endpoint, whose start position is recovered by replaying the
// game movetext.
package puzzle

import (
	"fmt"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/engine"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// TrainingURL is the prefix of a puzzle's public page.
const TrainingURL = "https://lichess.org/training/"

// Puzzle is a training puzzle: a start position and the coordinate moves
// that solve it, beginning with the solver's move.
type Puzzle struct {
	ID       string   `json:"id"`
	Rating   int      `json:"rating"`
	Solution []string `json:"solution"`
	Themes   []string `json:"themes"`
	FEN      string   `json:"fen"`

	// Set when the puzzle was fetched by ID rather than from activity.
	ImportedDirectly bool `json:"importedDirectly,omitempty"`
}

// Validate checks that the puzzle carries what chapter building needs.
func (p Puzzle) Validate() error {
	switch {
	case p.ID == "":
		return fmt.Errorf("missing id: %w", errors.ErrInvalidPuzzle)
	case len(p.Solution) == 0:
		return fmt.Errorf("puzzle %s has no solution: %w", p.ID, errors.ErrInvalidPuzzle)
	case p.FEN == "":
		return fmt.Errorf("puzzle %s has no position: %w", p.ID, errors.ErrInvalidPuzzle)
	}
	return nil
}

// SideToMove returns the colour of the solver.
func (p Puzzle) SideToMove() (chess.Colour, error) {
	_, toMove, err := engine.ParseFEN(p.FEN)
	if err != nil {
		return chess.White, fmt.Errorf("puzzle %s: %w", p.ID, err)
	}
	return toMove, nil
}

// URL returns the puzzle's training page.
func (p Puzzle) URL() string {
	return TrainingURL + p.ID
}

// InfoComment is the text attached to the last move of a chapter.
func (p Puzzle) InfoComment() string {
	return fmt.Sprintf("%s (from puzzle history)\nRating - %d\nThemes - %s",
		p.URL(), p.Rating, strings.Join(p.Themes, ", "))
}

// Unique drops repeated puzzle IDs, keeping the first occurrence.
func Unique(puzzles []Puzzle) (unique []Puzzle, dropped int) {
	seen := make(map[string]bool, len(puzzles))
	unique = make([]Puzzle, 0, len(puzzles))
	for _, p := range puzzles {
		if seen[p.ID] {
			dropped++
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}
	return unique, dropped
}
