package chess

// Square identifies a board square by 0-based rank and file indices.
// Rank 0 is White's back rank and file 0 is the a-file.
type Square struct {
	Rank int
	File int
}

// Sq builds a square from algebraic coordinates such as "e4".
// It returns false if the text is not exactly one file letter and one rank digit.
func Sq(text string) (Square, bool) {
	if len(text) != 2 || !IsFileChar(text[0]) || !IsRankChar(text[1]) {
		return Square{}, false
	}
	return Square{Rank: RankIndex(text[1]), File: FileIndex(text[0])}, true
}

// MustSq is like Sq but panics on invalid input. Intended for fixed
// coordinates in code and tests.
func MustSq(text string) Square {
	sq, ok := Sq(text)
	if !ok {
		panic("chess: invalid square " + text)
	}
	return sq
}

// OnBoard returns true if both indices lie in 0..7.
func (s Square) OnBoard() bool {
	return s.Rank >= 0 && s.Rank < BoardSize && s.File >= 0 && s.File < BoardSize
}

// Offset returns the square shifted by the given rank and file deltas.
// The result may be off the board.
func (s Square) Offset(dRank, dFile int) Square {
	return Square{Rank: s.Rank + dRank, File: s.File + dFile}
}

// String returns the algebraic name of the square, e.g. "e4".
func (s Square) String() string {
	if !s.OnBoard() {
		return "??"
	}
	return string([]byte{FileChar(s.File), RankChar(s.Rank)})
}

// Position is an 8x8 grid of coloured pieces plus the en passant target.
// Squares are indexed [rank][file]. No legality invariants are enforced.
type Position struct {
	Squares [BoardSize][BoardSize]Piece

	// Is an en passant capture possible? If so then EPSquare holds the
	// square a capturing pawn would land on.
	EnPassant bool
	EPSquare  Square
}

// NewPosition creates a new empty position.
func NewPosition() *Position {
	return &Position{}
}

// NewInitialPosition creates a position with the standard starting setup.
func NewInitialPosition() *Position {
	p := NewPosition()
	p.SetupInitialPosition()
	return p
}

// SetupInitialPosition sets up the standard chess starting position.
func (p *Position) SetupInitialPosition() {
	p.Squares = [BoardSize][BoardSize]Piece{}

	backRank := []Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < BoardSize; file++ {
		p.Squares[0][file] = W(backRank[file])
		p.Squares[1][file] = W(Pawn)
		p.Squares[6][file] = B(Pawn)
		p.Squares[7][file] = B(backRank[file])
	}

	p.ClearEnPassant()
}

// Get returns the coloured piece on a square, or Empty. Off-board
// squares read as Empty.
func (p *Position) Get(sq Square) Piece {
	if !sq.OnBoard() {
		return Empty
	}
	return p.Squares[sq.Rank][sq.File]
}

// Set places a coloured piece (or Empty) on a square.
// Off-board squares are ignored.
func (p *Position) Set(sq Square, piece Piece) {
	if sq.OnBoard() {
		p.Squares[sq.Rank][sq.File] = piece
	}
}

// IsEmpty returns true if no piece stands on the square.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Get(sq) == Empty
}

// SetEnPassant records the en passant target square.
func (p *Position) SetEnPassant(sq Square) {
	p.EnPassant = true
	p.EPSquare = sq
}

// ClearEnPassant removes the en passant target.
func (p *Position) ClearEnPassant() {
	p.EnPassant = false
	p.EPSquare = Square{}
}

// IsEnPassantTarget returns true if sq is the live en passant target.
func (p *Position) IsEnPassantTarget(sq Square) bool {
	return p.EnPassant && p.EPSquare == sq
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := &Position{}
	*newPos = *p
	return newPos
}
