package puzzle

import (
	"errors"
	"strings"
	"testing"

	"github.com/lgbarn/puzzle-study-go/internal/chess"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/testutil"
)

const activity = `{"date":1712345678000,"win":false,"puzzle":{"id":"N9l1q","fen":"6k1/5p2/2p3pQ/1p3q1P/2n1pP2/1BP3R1/1P3PK1/r7 b - - 1 1","plays":1200,"rating":1873,"solution":["e4e3","h6h7","g8f8"],"themes":["endgame","short"]}}
{"date":1712345600000,"win":true,"puzzle":{"id":"R0zaE","fen":"1n1qk2r/pQ3ppp/2p1p3/2bp4/2P1n1b1/5P2/PP1PP1BP/RNB1K1NR b KQkq - 0 1","rating":1500,"solution":["e4g3","h2g3"],"themes":["middlegame"]}}

not json at all
{"date":1712345500000,"win":false,"puzzle":{"id":"jlm4M","fen":"2k5/1pp3N1/p3P3/5p2/7p/P5n1/1PP3P1/2K5 b - - 0 1","rating":1650,"solution":["c8d8","e6e7"],"themes":["advancedPawn","promotion"]}}
`

func TestReadActivity(t *testing.T) {
	var skipped []int
	attempts, err := ReadActivity(strings.NewReader(activity), func(lineNum int, err error) {
		skipped = append(skipped, lineNum)
		testutil.AssertErrorIs(t, err, pserrors.ErrInvalidPuzzle, "line %d", lineNum)
	})
	testutil.AssertNoError(t, err, "ReadActivity")
	testutil.AssertEqual(t, len(attempts), 3, "attempts")
	testutil.AssertEqual(t, skipped, []int{4}, "skipped lines")

	first := attempts[0]
	testutil.AssertFalse(t, first.Win, "first.Win")
	testutil.AssertEqual(t, first.Date, int64(1712345678000))
	testutil.AssertEqual(t, first.Puzzle.ID, "N9l1q")
	testutil.AssertEqual(t, first.Puzzle.Rating, 1873)
	testutil.AssertEqual(t, first.Puzzle.Solution, []string{"e4e3", "h6h7", "g8f8"})
	testutil.AssertEqual(t, first.Puzzle.Themes, []string{"endgame", "short"})
}

func TestIncorrect(t *testing.T) {
	attempts, err := ReadActivity(strings.NewReader(activity), nil)
	testutil.AssertNoError(t, err, "ReadActivity")

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"N9l1q", "jlm4M"}},
		{1, []string{"N9l1q"}},
		{5, []string{"N9l1q", "jlm4M"}},
	}
	for _, tt := range tests {
		var got []string
		for _, p := range Incorrect(attempts, tt.n) {
			got = append(got, p.ID)
		}
		testutil.AssertEqual(t, got, tt.want, "Incorrect(n=%d)", tt.n)
	}

	date, ok := LastFailedDate(attempts)
	testutil.AssertTrue(t, ok, "LastFailedDate found")
	testutil.AssertEqual(t, date, int64(1712345500000))

	_, ok = LastFailedDate(attempts[1:2])
	testutil.AssertFalse(t, ok, "LastFailedDate with only wins")
}

func TestParseDirect(t *testing.T) {
	body := `{"game":{"id":"abc","pgn":"g4 d5 Bg2 Bxg4 c4 c6 Qb3 Nf6 Qxb7 e6 Qxa8 Bc5 Qb7 Ne4 f3"},` +
		`"puzzle":{"id":"R0zaE","rating":1512,"plays":4000,"solution":["c5g1","h1g1","d8h4"],"themes":["opening","fork"]}}`

	p, err := ParseDirect([]byte(body))
	testutil.AssertNoError(t, err, "ParseDirect")
	testutil.AssertEqual(t, p, Puzzle{
		ID:               "R0zaE",
		Rating:           1512,
		Solution:         []string{"c5g1", "h1g1", "d8h4"},
		Themes:           []string{"opening", "fork"},
		FEN:              "1n1qk2r/pQ3ppp/2p1p3/2bp4/2P1n1b1/5P2/PP1PP1BP/RNB1K1NR b KQkq - 0 1",
		ImportedDirectly: true,
	})

	colour, err := p.SideToMove()
	testutil.AssertNoError(t, err, "SideToMove")
	testutil.AssertEqual(t, colour, chess.Black)
}

func TestParseDirect_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		sentinel error
	}{
		{"not json", `{"game":`, pserrors.ErrInvalidPuzzle},
		{"bad movetext", `{"game":{"pgn":"e4 e5 Qz9"},"puzzle":{"id":"abcde","solution":["a2a3"]}}`, pserrors.ErrMalformedPly},
		{"no solution", `{"game":{"pgn":"e4"},"puzzle":{"id":"abcde","solution":[]}}`, pserrors.ErrInvalidPuzzle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDirect([]byte(tt.body))
			testutil.AssertErrorIs(t, err, tt.sentinel, "ParseDirect()")
		})
	}

	_, err := ParseDirect([]byte(`{"game":{"pgn":"e4 e5 Nf6"},"puzzle":{"id":"qwert","solution":["a2a3"]}}`))
	var plyErr *pserrors.PlyError
	if !errors.As(err, &plyErr) {
		t.Fatalf("ParseDirect() error %v is not a PlyError", err)
	}
	testutil.AssertEqual(t, plyErr.PuzzleID, "qwert")
	testutil.AssertEqual(t, plyErr.PlyNum, 3)
}

func TestInfoComment(t *testing.T) {
	p := Puzzle{ID: "R0zaE", Rating: 1512, Themes: []string{"opening", "fork"}}
	want := "https://lichess.org/training/R0zaE (from puzzle history)\nRating - 1512\nThemes - opening, fork"
	testutil.AssertEqual(t, p.InfoComment(), want)
}

func TestValidate(t *testing.T) {
	good := Puzzle{ID: "abcde", Solution: []string{"e2e4"}, FEN: "8/8/8/8/8/8/8/8 w - - 0 1"}
	testutil.AssertNoError(t, good.Validate(), "valid puzzle")

	for _, p := range []Puzzle{
		{Solution: good.Solution, FEN: good.FEN},
		{ID: good.ID, FEN: good.FEN},
		{ID: good.ID, Solution: good.Solution},
	} {
		testutil.AssertErrorIs(t, p.Validate(), pserrors.ErrInvalidPuzzle, "Validate(%+v)", p)
	}
}

func TestUnique(t *testing.T) {
	in := []Puzzle{{ID: "a"}, {ID: "b", Rating: 1}, {ID: "a", Rating: 2}, {ID: "c"}, {ID: "b"}}
	got, dropped := Unique(in)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	testutil.AssertEqual(t, ids, []string{"a", "b", "c"})
	testutil.AssertEqual(t, dropped, 2)
	testutil.AssertEqual(t, got[1].Rating, 1, "first occurrence kept")
}
