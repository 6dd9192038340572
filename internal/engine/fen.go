// Package engine provides the position-string codec, the move executor
// and the origin resolver used by the notation converters.
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// InitialFEN is the FEN string for the standard starting position.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Castling rights and move counters are not modeled; FormatFEN always
// emits these fixed fields.
const (
	castlingPlaceholder = "KQkq"
	countersPlaceholder = "0 1"
)

// ConvertFENCharToPiece converts a FEN character to a piece type.
func ConvertFENCharToPiece(c byte) chess.Piece {
	switch c {
	case 'K', 'k':
		return chess.King
	case 'Q', 'q':
		return chess.Queen
	case 'R', 'r':
		return chess.Rook
	case 'N', 'n':
		return chess.Knight
	case 'B', 'b':
		return chess.Bishop
	case 'P', 'p':
		return chess.Pawn
	default:
		return chess.Empty
	}
}

// ColouredPieceToFENLetter returns the FEN letter for a coloured piece,
// lowercase for Black.
func ColouredPieceToFENLetter(colouredPiece chess.Piece) byte {
	letter := chess.ExtractPiece(colouredPiece).Letter()
	if chess.ExtractColour(colouredPiece) == chess.Black {
		letter = byte(unicode.ToLower(rune(letter)))
	}
	return letter
}

// ParseFEN parses a position string into a position and the side to move.
// The en passant target, if any, is recorded on the returned position.
func ParseFEN(fen string) (*chess.Position, chess.Colour, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, chess.White, &errors.PositionError{
			Err:   errors.ErrMalformedPosition,
			Field: fmt.Sprintf("expected 6 fields, found %d", len(parts)),
		}
	}

	pos := chess.NewPosition()
	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, chess.White, err
	}

	toMove, err := parseSideToMove(parts[1])
	if err != nil {
		return nil, chess.White, err
	}
	if err := parseCastlingRights(parts[2]); err != nil {
		return nil, chess.White, err
	}
	if err := parseEnPassant(pos, parts[3]); err != nil {
		return nil, chess.White, err
	}
	if err := parseCounters(parts[4], parts[5]); err != nil {
		return nil, chess.White, err
	}

	return pos, toMove, nil
}

// parsePiecePlacement parses the 8 rank segments, rank 8 first.
func parsePiecePlacement(pos *chess.Position, placement string) error {
	segments := strings.Split(placement, "/")
	if len(segments) != chess.BoardSize {
		return &errors.PositionError{
			Err:   errors.ErrMalformedPosition,
			Field: fmt.Sprintf("expected %d rank segments, found %d", chess.BoardSize, len(segments)),
			Got:   placement,
		}
	}

	for i, segment := range segments {
		rank := chess.BoardSize - 1 - i
		file := 0
		for j := 0; j < len(segment); j++ {
			c := segment[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := ConvertFENCharToPiece(c)
			if piece == chess.Empty {
				return &errors.PositionError{
					Err:   errors.ErrMalformedPosition,
					Field: fmt.Sprintf("rank %d", rank+1),
					Got:   string(c),
				}
			}
			colour := chess.White
			if unicode.IsLower(rune(c)) {
				colour = chess.Black
			}
			// Set ignores squares past the h-file; the overflow is
			// reported below.
			pos.Set(chess.Square{Rank: rank, File: file}, chess.MakeColouredPiece(colour, piece))
			file++
		}
		if file != chess.BoardSize {
			return &errors.PositionError{
				Err:   errors.ErrMalformedPosition,
				Field: fmt.Sprintf("rank %d does not cover 8 files", rank+1),
				Got:   segment,
			}
		}
	}
	return nil
}

// parseSideToMove parses the side to move field.
func parseSideToMove(field string) (chess.Colour, error) {
	switch field {
	case "w":
		return chess.White, nil
	case "b":
		return chess.Black, nil
	default:
		return chess.White, &errors.PositionError{
			Err:   errors.ErrMalformedPosition,
			Field: "side to move",
			Got:   field,
		}
	}
}

// parseCastlingRights checks the castling field. The rights themselves
// are not tracked.
func parseCastlingRights(field string) error {
	if field == "-" {
		return nil
	}
	for _, c := range field {
		if !strings.ContainsRune(castlingPlaceholder, c) {
			return &errors.PositionError{
				Err:   errors.ErrMalformedPosition,
				Field: "castling rights",
				Got:   field,
			}
		}
	}
	return nil
}

// parseEnPassant parses the en passant target square field.
func parseEnPassant(pos *chess.Position, field string) error {
	pos.ClearEnPassant()
	if field == "-" {
		return nil
	}
	sq, ok := chess.Sq(field)
	if !ok {
		return &errors.PositionError{
			Err:   errors.ErrMalformedPosition,
			Field: "en passant square",
			Got:   field,
		}
	}
	pos.SetEnPassant(sq)
	return nil
}

// parseCounters checks the halfmove clock and fullmove number fields.
func parseCounters(halfmove, fullmove string) error {
	for _, field := range []string{halfmove, fullmove} {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return &errors.PositionError{
				Err:   errors.ErrMalformedPosition,
				Field: "move counter",
				Got:   field,
			}
		}
	}
	return nil
}

// FormatFEN serializes a position and side to move. Castling rights and
// counters are fixed placeholders.
func FormatFEN(pos *chess.Position, toMove chess.Colour) string {
	var sb strings.Builder

	writePiecePlacement(&sb, pos)

	sb.WriteByte(' ')
	if toMove == chess.White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(castlingPlaceholder)

	sb.WriteByte(' ')
	if pos.EnPassant {
		sb.WriteString(pos.EPSquare.String())
	} else {
		sb.WriteByte('-')
	}

	sb.WriteByte(' ')
	sb.WriteString(countersPlaceholder)

	return sb.String()
}

// writePiecePlacement writes the piece placement part of FEN.
func writePiecePlacement(sb *strings.Builder, pos *chess.Position) {
	for rank := chess.BoardSize - 1; rank >= 0; rank-- {
		emptyCount := 0
		for file := 0; file < chess.BoardSize; file++ {
			piece := pos.Squares[rank][file]
			if piece == chess.Empty {
				emptyCount++
				continue
			}
			if emptyCount > 0 {
				sb.WriteByte(byte('0' + emptyCount))
				emptyCount = 0
			}
			sb.WriteByte(ColouredPieceToFENLetter(piece))
		}
		if emptyCount > 0 {
			sb.WriteByte(byte('0' + emptyCount))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
}
