// Package study turns puzzles into gamebook chapters and assembles them
// into the document a study import accepts.
package study

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/notation"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
)

// Chapter is one puzzle rendered as a gamebook game.
type Chapter struct {
	Number   int    `json:"number"`
	PuzzleID string `json:"puzzleId"`
	PGN      string `json:"pgn"`
}

// BuildChapter renders p as chapter number. The solution is encoded
// from the puzzle position; the solver's moves are marked correct and
// each reply prompts for the next move. The last move carries the
// puzzle's info comment.
func BuildChapter(p puzzle.Puzzle, number int) (Chapter, error) {
	if err := p.Validate(); err != nil {
		return Chapter{}, err
	}
	solver, err := p.SideToMove()
	if err != nil {
		return Chapter{}, err
	}

	tokens, err := notation.Encode(p.FEN, p.Solution)
	if err != nil {
		var plyErr *pserrors.PlyError
		if errors.As(err, &plyErr) {
			plyErr.PuzzleID = p.ID
		}
		return Chapter{}, fmt.Errorf("encoding puzzle %s: %w", p.ID, err)
	}

	var sb strings.Builder
	writeHeaders(&sb, p, number)
	sb.WriteString("\n\n")
	writeMovetext(&sb, p, solver, tokens)

	return Chapter{Number: number, PuzzleID: p.ID, PGN: sb.String()}, nil
}

func writeHeaders(sb *strings.Builder, p puzzle.Puzzle, number int) {
	tags := [][2]string{
		{"Event", "Puzzle " + strconv.Itoa(number)},
		{"Result", "*"},
		{"Variant", "From Position"},
		{"ECO", "?"},
		{"Opening", "?"},
		{"FEN", p.FEN},
		{"SetUp", "1"},
		{"ChapterMode", "gamebook"},
	}
	for i, tag := range tags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(sb, "[%s %q]", tag[0], tag[1])
	}
}

func writeMovetext(sb *strings.Builder, p puzzle.Puzzle, solver chess.Colour, tokens []string) {
	prompt := fmt.Sprintf("{ %s to move }", solver)
	sb.WriteString(prompt)
	sb.WriteByte('\n')

	mover := solver
	for i, token := range tokens {
		// Numbering starts at 1 whichever side moves first.
		moveNumber := i/2 + 1
		if solver == chess.Black {
			moveNumber = (i+1)/2 + 1
		}

		sb.WriteString(strconv.Itoa(moveNumber))
		if mover == chess.White {
			sb.WriteString(". ")
		} else {
			sb.WriteString("... ")
		}
		sb.WriteString(token)

		switch {
		case i == len(tokens)-1:
			fmt.Fprintf(sb, " { %s }", p.InfoComment())
		case mover == solver:
			sb.WriteString(" { Correct }")
		default:
			sb.WriteString(" " + prompt)
		}
		sb.WriteByte(' ')
		mover = mover.Opposite()
	}
	sb.WriteByte('*')
}
