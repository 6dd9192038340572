// Package chess provides core chess types and operations.
package chess

// Colour represents the colour of a piece or player.
type Colour int

const (
	Black Colour = iota
	White
)

// String returns the string representation of a colour.
func (c Colour) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Opposite returns the opposite colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

// Piece represents a chess piece type, or a coloured piece when packed
// with MakeColouredPiece.
type Piece int

const (
	Empty Piece = iota // Empty square
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
	NumPieceValues
)

// String returns the string representation of a piece.
func (p Piece) String() string {
	names := []string{"Empty", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "Unknown"
}

// Letter returns the single letter representation of a piece (uppercase).
func (p Piece) Letter() byte {
	letters := []byte{' ', 'P', 'N', 'B', 'R', 'Q', 'K'}
	if p >= 0 && int(p) < len(letters) {
		return letters[p]
	}
	return '?'
}

// PieceFromLetter converts an uppercase piece letter to a piece type.
// Returns Empty for anything that is not one of PNBRQK.
func PieceFromLetter(c byte) Piece {
	switch c {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return Empty
	}
}

// MoveClass categorizes the different ways a move changes the board.
type MoveClass int

const (
	PawnMove MoveClass = iota
	PieceMove
	KingsideCastle
	QueensideCastle
	UnknownMove
)

// String returns the string representation of a move class.
func (m MoveClass) String() string {
	switch m {
	case PawnMove:
		return "PawnMove"
	case PieceMove:
		return "PieceMove"
	case KingsideCastle:
		return "KingsideCastle"
	case QueensideCastle:
		return "QueensideCastle"
	default:
		return "UnknownMove"
	}
}

// IsCastle returns true for either castling class.
func (m MoveClass) IsCastle() bool {
	return m == KingsideCastle || m == QueensideCastle
}

// Constants for board dimensions and coordinates.
const (
	BoardSize = 8

	RankBase  = '1'
	FileBase  = 'a'
	FirstRank = RankBase
	LastRank  = RankBase + BoardSize - 1
	FirstFile = FileBase
	LastFile  = FileBase + BoardSize - 1
)

// IsFileChar returns true if c is a file letter 'a'-'h'.
func IsFileChar(c byte) bool {
	return c >= FirstFile && c <= LastFile
}

// IsRankChar returns true if c is a rank digit '1'-'8'.
func IsRankChar(c byte) bool {
	return c >= FirstRank && c <= LastRank
}

// FileIndex converts a file letter to a 0-7 index, or -1 if invalid.
func FileIndex(c byte) int {
	if !IsFileChar(c) {
		return -1
	}
	return int(c - FileBase)
}

// RankIndex converts a rank digit to a 0-7 index, or -1 if invalid.
func RankIndex(c byte) int {
	if !IsRankChar(c) {
		return -1
	}
	return int(c - RankBase)
}

// FileChar converts a 0-7 file index back to its letter.
func FileChar(file int) byte {
	return byte(FileBase + file)
}

// RankChar converts a 0-7 rank index back to its digit.
func RankChar(rank int) byte {
	return byte(RankBase + rank)
}

// ColourOffset returns +1 for White, -1 for Black (for pawn direction).
func ColourOffset(colour Colour) int {
	if colour == White {
		return 1
	}
	return -1
}

// HomeRank returns the back rank index a colour's pieces start on.
func HomeRank(colour Colour) int {
	if colour == White {
		return 0
	}
	return BoardSize - 1
}

// PieceShift is used for encoding coloured pieces.
const PieceShift = 3

// MakeColouredPiece creates a coloured piece value.
func MakeColouredPiece(colour Colour, piece Piece) Piece {
	return Piece((int(piece) << PieceShift) | int(colour))
}

// W creates a white piece.
func W(piece Piece) Piece {
	return MakeColouredPiece(White, piece)
}

// B creates a black piece.
func B(piece Piece) Piece {
	return MakeColouredPiece(Black, piece)
}

// ExtractColour extracts the colour from a coloured piece.
func ExtractColour(colouredPiece Piece) Colour {
	return Colour(colouredPiece & 0x01)
}

// ExtractPiece extracts the piece type from a coloured piece.
func ExtractPiece(colouredPiece Piece) Piece {
	return Piece(colouredPiece >> PieceShift)
}
