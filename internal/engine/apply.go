package engine

import (
	"fmt"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Castling geometry: the king starts on the e-file and the rooks on the
// corner files.
const (
	kingHomeFile      = 4
	kingsideRookFile  = chess.BoardSize - 1
	queensideRookFile = 0
)

// Classify decides how a move changes the board. The checks are ordered
// and mutually exclusive: a castle is recognised before the generic king
// move it would otherwise look like.
func Classify(pos *chess.Position, move chess.Move) chess.MoveClass {
	piece := pos.Get(move.From)
	if piece == chess.Empty {
		return chess.UnknownMove
	}

	colour := chess.ExtractColour(piece)
	switch chess.ExtractPiece(piece) {
	case chess.King:
		if isCastle(move, colour) {
			if move.To.File > move.From.File {
				return chess.KingsideCastle
			}
			return chess.QueensideCastle
		}
		return chess.PieceMove
	case chess.Pawn:
		return chess.PawnMove
	default:
		return chess.PieceMove
	}
}

// isCastle reports whether a king move starts on the home square and
// travels two files along the home rank.
func isCastle(move chess.Move, colour chess.Colour) bool {
	home := chess.HomeRank(colour)
	return move.From.Rank == home &&
		move.From.File == kingHomeFile &&
		move.To.Rank == home &&
		abs(move.To.File-move.From.File) == 2
}

// ApplyMove applies a move to the position in place and returns the
// coloured piece that moved. The move is assumed legal; only an empty
// origin square is rejected.
func ApplyMove(pos *chess.Position, move chess.Move) (chess.Piece, error) {
	if !move.From.OnBoard() || !move.To.OnBoard() {
		return chess.Empty, fmt.Errorf("move %s leaves the board: %w", move, errors.ErrMalformedPly)
	}

	moved := pos.Get(move.From)

	switch class := Classify(pos, move); class {
	case chess.KingsideCastle, chess.QueensideCastle:
		applyCastle(pos, move, class)
	case chess.PawnMove:
		applyPawnMove(pos, move, moved)
	case chess.PieceMove:
		relocate(pos, move.From, move.To)
		pos.ClearEnPassant()
	default:
		return chess.Empty, fmt.Errorf("no piece on %s: %w", move.From, errors.ErrMalformedPly)
	}

	return moved, nil
}

// applyCastle moves the rook next to the king's destination, then the king.
func applyCastle(pos *chess.Position, move chess.Move, class chess.MoveClass) {
	rank := move.From.Rank
	rookFrom := chess.Square{Rank: rank, File: kingsideRookFile}
	rookTo := chess.Square{Rank: rank, File: move.To.File - 1}
	if class == chess.QueensideCastle {
		rookFrom.File = queensideRookFile
		rookTo.File = move.To.File + 1
	}

	relocate(pos, rookFrom, rookTo)
	relocate(pos, move.From, move.To)
	pos.ClearEnPassant()
}

// applyPawnMove handles en passant capture, promotion and the en passant
// target left by a double advance.
func applyPawnMove(pos *chess.Position, move chess.Move, pawn chess.Piece) {
	colour := chess.ExtractColour(pawn)

	if pos.IsEnPassantTarget(move.To) {
		captured := move.To.Offset(-chess.ColourOffset(colour), 0)
		pos.Set(captured, chess.Empty)
	}

	relocate(pos, move.From, move.To)
	if move.IsPromotion() {
		pos.Set(move.To, chess.MakeColouredPiece(colour, move.Promotion))
	}

	if move.From.File == move.To.File && abs(move.To.Rank-move.From.Rank) == 2 {
		pos.SetEnPassant(chess.Square{Rank: (move.From.Rank + move.To.Rank) / 2, File: move.From.File})
	} else {
		pos.ClearEnPassant()
	}
}

// relocate moves whatever stands on from to to, replacing any occupant.
func relocate(pos *chess.Position, from, to chess.Square) {
	piece := pos.Get(from)
	pos.Set(from, chess.Empty)
	pos.Set(to, piece)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
