// Package notation converts between coordinate moves and movetext.
//
// Two dialects are involved. Encode produces a verbose dialect that always
// embeds the full origin square of a piece move ("Nb1c3", "Qd1xd7") so no
// origin search is needed by the consumer. Decode reads standard minimal
// algebraic notation ("Nc3", "Qxd7", "Nbd2") and reconstructs each origin
// square from the board with engine.ResolveOrigin.
package notation

import (
	"fmt"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	"github.com/lgbarn/puzzle-study-go/internal/engine"
	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Ply is one parsed movetext token. Class is PawnMove, PieceMove or one
// of the castling classes. For castles only Text and Class are set.
type Ply struct {
	Text      string
	Class     chess.MoveClass
	Piece     chess.Piece
	To        chess.Square
	Hint      engine.Hint
	Promotion chess.Piece
}

// ParsePly parses a single algebraic token such as "e4", "exd5",
// "f1=Q", "Nbd2", "R1e7", "Qh4xe1" or "O-O-O". Check, mate and
// annotation suffixes are ignored.
func ParsePly(token string) (Ply, error) {
	text := strings.TrimRight(token, "+#!?")
	if text == "" {
		return Ply{}, fmt.Errorf("empty ply %q: %w", token, errors.ErrMalformedPly)
	}

	switch text {
	case "O-O", "0-0":
		return Ply{Text: token, Class: chess.KingsideCastle}, nil
	case "O-O-O", "0-0-0":
		return Ply{Text: token, Class: chess.QueensideCastle}, nil
	}

	if chess.IsFileChar(text[0]) {
		return parsePawnPly(token, text)
	}
	return parsePiecePly(token, text)
}

// parsePawnPly handles tokens that start with a file letter.
func parsePawnPly(token, text string) (Ply, error) {
	ply := Ply{Text: token, Class: chess.PawnMove, Piece: chess.Pawn, Hint: engine.NoHint}

	rest := text
	if len(text) >= 2 && text[1] == 'x' {
		ply.Hint = engine.FileHint(chess.FileIndex(text[0]))
		rest = text[2:]
	}

	if len(rest) < 2 {
		return Ply{}, fmt.Errorf("pawn ply %q has no destination: %w", token, errors.ErrMalformedPly)
	}
	to, ok := chess.Sq(rest[:2])
	if !ok {
		return Ply{}, fmt.Errorf("pawn ply %q has invalid destination: %w", token, errors.ErrMalformedPly)
	}
	ply.To = to

	promotion, err := parsePromotion(rest[2:])
	if err != nil {
		return Ply{}, fmt.Errorf("pawn ply %q: %w", token, err)
	}
	ply.Promotion = promotion
	return ply, nil
}

// parsePromotion accepts "", "=Q" or "Q".
func parsePromotion(suffix string) (chess.Piece, error) {
	if suffix == "" {
		return chess.Empty, nil
	}
	letters := strings.TrimPrefix(suffix, "=")
	if len(letters) == 1 {
		switch piece := chess.PieceFromLetter(letters[0]); piece {
		case chess.Knight, chess.Bishop, chess.Rook, chess.Queen:
			return piece, nil
		}
	}
	return chess.Empty, fmt.Errorf("invalid promotion %q: %w", suffix, errors.ErrMalformedPly)
}

// parsePiecePly handles tokens that start with a piece letter. Any
// capture marker is dropped; what sits between the piece letter and the
// destination is disambiguation.
func parsePiecePly(token, text string) (Ply, error) {
	piece := chess.PieceFromLetter(text[0])
	if piece == chess.Empty || piece == chess.Pawn {
		return Ply{}, fmt.Errorf("unrecognised ply %q: %w", token, errors.ErrMalformedPly)
	}

	body := strings.ReplaceAll(text[1:], "x", "")
	if len(body) < 2 || len(body) > 4 {
		return Ply{}, fmt.Errorf("piece ply %q has wrong length: %w", token, errors.ErrMalformedPly)
	}

	to, ok := chess.Sq(body[len(body)-2:])
	if !ok {
		return Ply{}, fmt.Errorf("piece ply %q has invalid destination: %w", token, errors.ErrMalformedPly)
	}

	hint, err := parseDisambiguation(body[:len(body)-2])
	if err != nil {
		return Ply{}, fmt.Errorf("piece ply %q: %w", token, err)
	}

	return Ply{Text: token, Class: chess.PieceMove, Piece: piece, To: to, Hint: hint}, nil
}

// parseDisambiguation reads a lone file, a lone rank, or a full square.
func parseDisambiguation(s string) (engine.Hint, error) {
	switch len(s) {
	case 0:
		return engine.NoHint, nil
	case 1:
		if chess.IsFileChar(s[0]) {
			return engine.FileHint(chess.FileIndex(s[0])), nil
		}
		if chess.IsRankChar(s[0]) {
			return engine.Hint{File: engine.AnyLine, Rank: chess.RankIndex(s[0])}, nil
		}
	case 2:
		if sq, ok := chess.Sq(s); ok {
			return engine.Hint{File: sq.File, Rank: sq.Rank}, nil
		}
	}
	return engine.NoHint, fmt.Errorf("invalid disambiguation %q: %w", s, errors.ErrMalformedPly)
}
