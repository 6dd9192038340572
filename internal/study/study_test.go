package study

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/testutil"
)

var (
	blackPuzzle = puzzle.Puzzle{
		ID:       "N9l1q",
		Rating:   1873,
		Solution: []string{"e4e3", "f2e3", "f5b1"},
		Themes:   []string{"endgame", "short"},
		FEN:      "6k1/5p2/2p3pQ/1p3q1P/2n1pP2/1BP3R1/1P3PK1/r7 b - - 1 1",
	}
	whitePuzzle = puzzle.Puzzle{
		ID:       "abcde",
		Rating:   1500,
		Solution: []string{"e1g1", "e8c8", "f1f8"},
		Themes:   []string{"castling"},
		FEN:      "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
	}
)

func headers(number int, fen string) string {
	return fmt.Sprintf("[Event \"Puzzle %d\"]\n[Result \"*\"]\n[Variant \"From Position\"]\n"+
		"[ECO \"?\"]\n[Opening \"?\"]\n[FEN \"%s\"]\n[SetUp \"1\"]\n[ChapterMode \"gamebook\"]", number, fen)
}

func TestBuildChapter(t *testing.T) {
	tests := []struct {
		name     string
		puzzle   puzzle.Puzzle
		number   int
		movetext string
	}{
		{
			name:   "black to move",
			puzzle: blackPuzzle,
			number: 1,
			movetext: "{ Black to move }\n" +
				"1... e3 { Correct } 2. fxe3 { Black to move } 2... Qf5b1 " +
				"{ https://lichess.org/training/N9l1q (from puzzle history)\nRating - 1873\nThemes - endgame, short } *",
		},
		{
			name:   "white to move",
			puzzle: whitePuzzle,
			number: 3,
			movetext: "{ White to move }\n" +
				"1. O-O { Correct } 1... O-O-O { White to move } 2. Rf1f8 " +
				"{ https://lichess.org/training/abcde (from puzzle history)\nRating - 1500\nThemes - castling } *",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := BuildChapter(tt.puzzle, tt.number)
			testutil.AssertNoError(t, err, "BuildChapter")
			testutil.AssertEqual(t, c.Number, tt.number)
			testutil.AssertEqual(t, c.PuzzleID, tt.puzzle.ID)
			testutil.AssertEqual(t, c.PGN, headers(tt.number, tt.puzzle.FEN)+"\n\n"+tt.movetext)
		})
	}
}

func TestBuildChapter_Errors(t *testing.T) {
	bad := whitePuzzle
	bad.Solution = []string{"e1g1", "d5d4"}

	_, err := BuildChapter(bad, 1)
	testutil.AssertErrorIs(t, err, pserrors.ErrMalformedPly, "BuildChapter()")
	var plyErr *pserrors.PlyError
	if !errors.As(err, &plyErr) {
		t.Fatalf("BuildChapter() error %v is not a PlyError", err)
	}
	testutil.AssertEqual(t, plyErr.PuzzleID, "abcde")
	testutil.AssertEqual(t, plyErr.PlyNum, 2)

	_, err = BuildChapter(puzzle.Puzzle{ID: "empty"}, 1)
	testutil.AssertErrorIs(t, err, pserrors.ErrInvalidPuzzle, "BuildChapter(no solution)")

	bad = whitePuzzle
	bad.FEN = "r3k2r/8/8 w - - 0 1"
	_, err = BuildChapter(bad, 1)
	testutil.AssertErrorIs(t, err, pserrors.ErrMalformedPosition, "BuildChapter(bad position)")
}

func TestStageAdd(t *testing.T) {
	s := NewStage()

	batch := make([]puzzle.Puzzle, 60)
	added, truncated, err := s.Add(batch...)
	testutil.AssertNoError(t, err, "Add 60")
	testutil.AssertEqual(t, added, 60)
	testutil.AssertEqual(t, truncated, 0)

	added, truncated, err = s.Add(make([]puzzle.Puzzle, 10)...)
	testutil.AssertNoError(t, err, "Add 10")
	testutil.AssertEqual(t, added, 4)
	testutil.AssertEqual(t, truncated, 6)
	testutil.AssertEqual(t, s.Len(), Capacity)
	testutil.AssertEqual(t, s.Remaining(), 0)
	testutil.AssertEqual(t, s.String(), "64/64 puzzles staged")

	added, truncated, err = s.Add(whitePuzzle)
	testutil.AssertErrorIs(t, err, pserrors.ErrStageFull, "Add(full)")
	testutil.AssertKind(t, err, "stage_full")
	testutil.AssertEqual(t, added, 0)
	testutil.AssertEqual(t, truncated, 1)

}

func TestStageDocument(t *testing.T) {
	s := NewStage()
	_, _, err := s.Add(whitePuzzle, blackPuzzle)
	testutil.AssertNoError(t, err, "Add")

	tests := []struct {
		offset bool
		first  int
	}{
		{false, 1},
		{true, 2},
	}
	for _, tt := range tests {
		doc, err := s.Document(tt.offset)
		testutil.AssertNoError(t, err, "Document(%v)", tt.offset)

		parts := strings.Split(doc, "\n\n[Event")
		testutil.AssertEqual(t, len(parts), 2, "chapters in document")
		testutil.AssertTrue(t, strings.HasPrefix(doc, fmt.Sprintf("[Event \"Puzzle %d\"]", tt.first)), "first chapter number")
		testutil.AssertContains(t, doc, fmt.Sprintf("[Event \"Puzzle %d\"]", tt.first+1))
	}

	puzzles := s.Puzzles()
	puzzles[0].ID = "mutated"
	testutil.AssertEqual(t, s.Puzzles()[0].ID, "abcde", "Puzzles returns a copy")
}

func TestImportRequest(t *testing.T) {
	r := NewImportRequest("[Event \"Puzzle 2\"]", 2)
	form := r.Form()

	testutil.AssertEqual(t, form.Get("name"), "Puzzle 2")
	testutil.AssertEqual(t, form.Get("pgn"), "[Event \"Puzzle 2\"]")
	testutil.AssertEqual(t, form.Get("orientation"), "default")
	testutil.AssertEqual(t, form.Get("variant"), "fromPosition")
	testutil.AssertEqual(t, form.Get("mode"), "gamebook")
}

func TestImportRequest_Prepare(t *testing.T) {
	r := NewImportRequest("[Event \"Puzzle 1\"]", 1)

	tests := []struct {
		name     string
		token    string
		wantAuth string
	}{
		{"with token", "lip_abcdefghij0123456789", "Bearer lip_abcdefghij0123456789"},
		{"without token", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := r.Prepare("aB3dE6gH", tt.token)
			testutil.AssertEqual(t, p.URL, "https://lichess.org/api/study/aB3dE6gH/import-pgn")
			testutil.AssertEqual(t, p.Authorization, tt.wantAuth)
			testutil.AssertEqual(t, p.ContentType, "application/x-www-form-urlencoded")
			testutil.AssertEqual(t, p.Body, r.Form().Encode())
		})
	}
}
