package chess

import (
	"fmt"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Move is a coordinate move: origin, destination and an optional
// promotion piece. It is a transient value applied to a Position.
type Move struct {
	From Square
	To   Square

	// The piece promoted to (Empty if not a promotion).
	Promotion Piece
}

// NewMove creates a move without promotion.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: Empty}
}

// ParseCoordinateMove parses a 4 or 5 character coordinate move such as
// "e2e4" or "e7e8q". The promotion letter may be in either case.
func ParseCoordinateMove(text string) (Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return Move{}, fmt.Errorf("coordinate move %q must be 4 or 5 characters: %w", text, errors.ErrMalformedPly)
	}

	from, ok := Sq(text[0:2])
	if !ok {
		return Move{}, fmt.Errorf("invalid origin square in %q: %w", text, errors.ErrMalformedPly)
	}
	to, ok := Sq(text[2:4])
	if !ok {
		return Move{}, fmt.Errorf("invalid destination square in %q: %w", text, errors.ErrMalformedPly)
	}

	move := NewMove(from, to)
	if len(text) == 5 {
		promotion := PieceFromLetter(upper(text[4]))
		switch promotion {
		case Knight, Bishop, Rook, Queen:
			move.Promotion = promotion
		default:
			return Move{}, fmt.Errorf("invalid promotion letter %q in %q: %w", text[4], text, errors.ErrMalformedPly)
		}
	}
	return move, nil
}

// IsPromotion returns true if a promotion piece was supplied.
func (m Move) IsPromotion() bool {
	return m.Promotion != Empty
}

// String returns the coordinate form of the move, e.g. "e7e8q".
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(lower(m.Promotion.Letter()))
	}
	return s
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}
