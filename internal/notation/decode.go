package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/engine"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Decode replays movetext from the standard starting position and
// returns the final position string.
func Decode(movetext string) (string, error) {
	return replay(chess.NewInitialPosition(), chess.White, movetext)
}

// DecodeFrom replays movetext from the given position string.
func DecodeFrom(fen, movetext string) (string, error) {
	pos, toMove, err := engine.ParseFEN(fen)
	if err != nil {
		return "", err
	}
	return replay(pos, toMove, movetext)
}

// replay applies each ply in turn. The first bad ply aborts the replay
// since every later ply depends on the board it would have produced.
func replay(pos *chess.Position, toMove chess.Colour, movetext string) (string, error) {
	plyNum := 0
	for _, field := range strings.Fields(movetext) {
		token := stripMoveNumber(field)
		if token == "" || isTermination(token) {
			continue
		}

		plyNum++
		if err := applyPly(pos, toMove, token); err != nil {
			return "", &errors.PlyError{Err: err, PlyNum: plyNum, MoveText: token}
		}
		toMove = toMove.Opposite()
	}
	return engine.FormatFEN(pos, toMove), nil
}

// applyPly resolves the origin of one token and applies it.
func applyPly(pos *chess.Position, toMove chess.Colour, token string) error {
	ply, err := ParsePly(token)
	if err != nil {
		return err
	}

	var move chess.Move
	if ply.Class.IsCastle() {
		home := chess.HomeRank(toMove)
		move.From = chess.Square{Rank: home, File: 4}
		move.To = chess.Square{Rank: home, File: 6}
		if ply.Class == chess.QueensideCastle {
			move.To.File = 2
		}
		if pos.Get(move.From) != chess.MakeColouredPiece(toMove, chess.King) {
			return fmt.Errorf("no %s king on %s to castle: %w", toMove, move.From, errors.ErrUnresolvableOrigin)
		}
	} else {
		from, ok := engine.ResolveOrigin(pos, ply.To, ply.Piece, toMove, ply.Hint)
		if !ok {
			return fmt.Errorf("no %s %s can reach %s: %w", toMove, ply.Piece, ply.To, errors.ErrUnresolvableOrigin)
		}
		move = chess.Move{From: from, To: ply.To, Promotion: ply.Promotion}
	}

	_, err = engine.ApplyMove(pos, move)
	return err
}

// stripMoveNumber removes a leading move number indicator such as "12."
// or "12...". A bare indicator yields "".
func stripMoveNumber(field string) string {
	i := 0
	for i < len(field) && field[i] >= '0' && field[i] <= '9' {
		i++
	}
	if i == 0 || i == len(field) || field[i] != '.' {
		return field
	}
	return strings.TrimLeft(field[i:], ".")
}

// isTermination reports whether the token is a game result marker.
func isTermination(token string) bool {
	switch token {
	case "1-0", "0-1", "1/2-1/2", "*":
		return true
	}
	return false
}
