package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/engine"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Encode replays coordinate moves such as "e2e4" or "e7e8q" from the
// given position and returns one verbose token per move. Tokens are bare:
// no move numbers, no check marks.
func Encode(fen string, moves []string) ([]string, error) {
	pos, _, err := engine.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(moves))
	for i, text := range moves {
		move, err := chess.ParseCoordinateMove(text)
		if err != nil {
			return nil, &errors.PlyError{Err: err, PlyNum: i + 1, MoveText: text}
		}

		token, err := EncodeMove(pos, move)
		if err != nil {
			return nil, &errors.PlyError{Err: err, PlyNum: i + 1, MoveText: text}
		}
		if _, err := engine.ApplyMove(pos, move); err != nil {
			return nil, &errors.PlyError{Err: err, PlyNum: i + 1, MoveText: text}
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// EncodeMove returns the verbose token for a move without applying it.
func EncodeMove(pos *chess.Position, move chess.Move) (string, error) {
	piece := pos.Get(move.From)

	switch engine.Classify(pos, move) {
	case chess.KingsideCastle:
		return "O-O", nil
	case chess.QueensideCastle:
		return "O-O-O", nil
	case chess.PawnMove:
		return encodePawnMove(move, chess.ExtractColour(piece)), nil
	case chess.PieceMove:
		var sb strings.Builder
		sb.WriteByte(chess.ExtractPiece(piece).Letter())
		sb.WriteString(move.From.String())
		if !pos.IsEmpty(move.To) {
			sb.WriteByte('x')
		}
		sb.WriteString(move.To.String())
		return sb.String(), nil
	default:
		return "", fmt.Errorf("no piece on %s: %w", move.From, errors.ErrMalformedPly)
	}
}

// encodePawnMove names the destination, prefixed by the origin file for
// captures (en passant included) and suffixed by a promotion on the last
// rank.
func encodePawnMove(move chess.Move, colour chess.Colour) string {
	var sb strings.Builder
	if move.From.File != move.To.File {
		sb.WriteByte(chess.FileChar(move.From.File))
		sb.WriteByte('x')
	}
	sb.WriteString(move.To.String())
	if move.IsPromotion() && move.To.Rank == chess.HomeRank(colour.Opposite()) {
		sb.WriteByte('=')
		sb.WriteByte(move.Promotion.Letter())
	}
	return sb.String()
}
