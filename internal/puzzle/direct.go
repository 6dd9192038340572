package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"

	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/notation"
)

// DirectData is the body of the single puzzle endpoint. The puzzle has
// no position of its own; it starts where the game movetext ends.
type DirectData struct {
	Game struct {
		PGN string `json:"pgn"`
	} `json:"game"`
	Puzzle struct {
		ID       string   `json:"id"`
		Rating   int      `json:"rating"`
		Solution []string `json:"solution"`
		Themes   []string `json:"themes"`
	} `json:"puzzle"`
}

// ParseDirect decodes a single puzzle response and derives its start
// position by decoding the game movetext.
func ParseDirect(data []byte) (Puzzle, error) {
	var d DirectData
	if err := json.Unmarshal(data, &d); err != nil {
		return Puzzle{}, fmt.Errorf("decoding puzzle: %v: %w", err, pserrors.ErrInvalidPuzzle)
	}
	return d.ToPuzzle()
}

// ToPuzzle converts the response to a Puzzle.
func (d DirectData) ToPuzzle() (Puzzle, error) {
	fen, err := notation.Decode(d.Game.PGN)
	if err != nil {
		var plyErr *pserrors.PlyError
		if errors.As(err, &plyErr) {
			plyErr.PuzzleID = d.Puzzle.ID
		}
		return Puzzle{}, fmt.Errorf("deriving position of puzzle %s: %w", d.Puzzle.ID, err)
	}

	p := Puzzle{
		ID:               d.Puzzle.ID,
		Rating:           d.Puzzle.Rating,
		Solution:         d.Puzzle.Solution,
		Themes:           d.Puzzle.Themes,
		FEN:              fen,
		ImportedDirectly: true,
	}
	if err := p.Validate(); err != nil {
		return Puzzle{}, err
	}
	return p, nil
}
