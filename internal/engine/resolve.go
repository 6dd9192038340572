package engine

import "github.com/lgbarn/puzzle-study-go/internal/chess"

// AnyLine marks an unrestricted rank or file in a Hint.
const AnyLine = -1

// Hint carries the disambiguation restrictions of a ply. A field set to
// AnyLine places no restriction.
type Hint struct {
	File int
	Rank int
}

// NoHint places no restriction on the origin square.
var NoHint = Hint{File: AnyLine, Rank: AnyLine}

// FileHint restricts the origin to one file.
func FileHint(file int) Hint {
	return Hint{File: file, Rank: AnyLine}
}

// matches reports whether sq satisfies the restrictions.
func (h Hint) matches(sq chess.Square) bool {
	if h.File != AnyLine && sq.File != h.File {
		return false
	}
	if h.Rank != AnyLine && sq.Rank != h.Rank {
		return false
	}
	return true
}

// direction is one search ray, as a rank and file step.
type direction struct {
	dRank int
	dFile int
}

// Search rays in the order they are tried.
var (
	straightRays = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	diagonalRays = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenRays    = append(append([]direction{}, diagonalRays...), straightRays...)
	knightJumps  = []direction{
		{1, 2}, {1, -2}, {2, 1}, {2, -1},
		{-1, 2}, {-1, -2}, {-2, 1}, {-2, -1},
	}
	kingSteps = []direction{
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
		{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	}
)

// ResolveOrigin finds the square a piece of the given kind and colour
// moved from to reach to. Rays are walked outward from the destination in
// a fixed order and the first match is returned. For sliding pieces the
// first occupied square ends a ray whether or not it matches.
func ResolveOrigin(pos *chess.Position, to chess.Square, kind chess.Piece, colour chess.Colour, hint Hint) (chess.Square, bool) {
	want := chess.MakeColouredPiece(colour, kind)

	switch kind {
	case chess.Pawn:
		return resolvePawn(pos, to, want, colour, hint)
	case chess.Knight:
		return searchRays(pos, to, want, hint, knightJumps, false)
	case chess.Bishop:
		return searchRays(pos, to, want, hint, diagonalRays, true)
	case chess.Rook:
		return searchRays(pos, to, want, hint, straightRays, true)
	case chess.Queen:
		return searchRays(pos, to, want, hint, queenRays, true)
	case chess.King:
		return searchRays(pos, to, want, hint, kingSteps, false)
	default:
		return chess.Square{}, false
	}
}

func searchRays(pos *chess.Position, to chess.Square, want chess.Piece, hint Hint, rays []direction, sliding bool) (chess.Square, bool) {
	for _, d := range rays {
		sq := to.Offset(d.dRank, d.dFile)
		for sq.OnBoard() {
			piece := pos.Get(sq)
			if piece != chess.Empty {
				if piece == want && hint.matches(sq) {
					return sq, true
				}
				break
			}
			if !sliding {
				break
			}
			sq = sq.Offset(d.dRank, d.dFile)
		}
	}
	return chess.Square{}, false
}

// resolvePawn walks back toward the side the pawn came from, on the
// restricted file for captures. A capture looks one square back; a push
// may look two squares back when it lands on the double-advance rank.
func resolvePawn(pos *chess.Position, to chess.Square, want chess.Piece, colour chess.Colour, hint Hint) (chess.Square, bool) {
	back := -chess.ColourOffset(colour)
	file := to.File
	if hint.File != AnyLine {
		file = hint.File
	}

	steps := 1
	doubleAdvanceRank := chess.HomeRank(colour) + 3*chess.ColourOffset(colour)
	if file == to.File && to.Rank == doubleAdvanceRank {
		steps = 2
	}

	sq := chess.Square{Rank: to.Rank, File: file}
	for i := 0; i < steps; i++ {
		sq = sq.Offset(back, 0)
		piece := pos.Get(sq)
		if piece == chess.Empty {
			continue
		}
		if piece == want && hint.matches(sq) {
			return sq, true
		}
		break
	}
	return chess.Square{}, false
}
