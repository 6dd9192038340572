package processing

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	"github.com/lgbarn/puzzle-study-go/internal/engine"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/store"
	"github.com/lgbarn/puzzle-study-go/internal/testutil"
)

func attempt(id string, win bool, rating int, solution ...string) puzzle.Attempt {
	return puzzle.Attempt{
		Win: win,
		Puzzle: puzzle.Puzzle{
			ID:       id,
			Rating:   rating,
			Solution: solution,
			Themes:   []string{"opening"},
			FEN:      engine.InitialFEN,
		},
	}
}

const directBody = `{"game":{"id":"abc","pgn":"g4 d5 Bg2 Bxg4 c4 c6 Qb3 Nf6 Qxb7 e6 Qxa8 Bc5 Qb7 Ne4 f3"},` +
	`"puzzle":{"id":"R0zaE","rating":1512,"solution":["c5g1","h1g1","d8h4"],"themes":["opening","fork"]}}`

func newPipeline(t *testing.T, cfg *config.Config, cache *store.Store) *Pipeline {
	t.Helper()
	return NewPipeline(cfg, cache, zerolog.Nop())
}

func TestSelect(t *testing.T) {
	attempts := []puzzle.Attempt{
		attempt("aaaaa", false, 1200, "e2e4"),
		attempt("bbbbb", true, 1300, "d2d4"),
		attempt("ccccc", false, 2100, "c2c4"),
		attempt("aaaaa", false, 1200, "e2e4"),
		attempt("ddddd", false, 1500, "g1f3"),
	}

	tests := []struct {
		name       string
		cfg        *config.Config
		want       []string
		duplicates int
	}{
		{
			name:       "defaults drop wins and duplicates",
			cfg:        config.NewConfig(),
			want:       []string{"aaaaa", "ccccc", "ddddd"},
			duplicates: 1,
		},
		{
			name: "keep duplicates",
			cfg:  config.NewConfigBuilder().WithDuplicateSuppression(false).Build(),
			want: []string{"aaaaa", "ccccc", "aaaaa", "ddddd"},
		},
		{
			name: "first two incorrect",
			cfg:  config.NewConfigBuilder().WithIncorrect(2).Build(),
			want: []string{"aaaaa", "ccccc"},
		},
		{
			name: "chosen ids",
			cfg:  config.NewConfigBuilder().WithIDs("ddddd", "ccccc").Build(),
			want: []string{"ccccc", "ddddd"},
		},
		{
			name:       "rating range",
			cfg:        config.NewConfigBuilder().WithMinRating(1000).WithMaxRating(1600).Build(),
			want:       []string{"aaaaa", "ddddd"},
			duplicates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stats Stats
			got := newPipeline(t, tt.cfg, nil).Select(attempts, &stats)

			ids := make([]string, len(got))
			for i, p := range got {
				ids[i] = p.ID
			}
			testutil.AssertEqual(t, ids, tt.want)
			testutil.AssertEqual(t, stats.Duplicates, tt.duplicates)
			testutil.AssertEqual(t, stats.Selected, len(tt.want))
		})
	}
}

func TestSelect_Truncates(t *testing.T) {
	attempts := make([]puzzle.Attempt, 70)
	for i := range attempts {
		attempts[i] = attempt(fmt.Sprintf("p%04d", i), false, 1500, "e2e4")
	}

	var stats Stats
	got := newPipeline(t, config.NewConfig(), nil).Select(attempts, &stats)
	testutil.AssertEqual(t, len(got), 64)
	testutil.AssertEqual(t, stats.Truncated, 6)
}

func TestConvert(t *testing.T) {
	puzzles := []puzzle.Puzzle{
		attempt("aaaaa", false, 1200, "e2e4", "e7e5").Puzzle,
		attempt("bbbbb", false, 1300, "d4d5").Puzzle, // empty origin
		attempt("ccccc", false, 1400, "g1f3").Puzzle,
	}

	cfg := config.NewConfigBuilder().WithWorkers(2).WithOffset(true).Build()
	var stats Stats
	chapters, err := newPipeline(t, cfg, nil).Convert(context.Background(), puzzles, &stats)
	testutil.AssertNoError(t, err, "Convert")

	testutil.AssertEqual(t, len(chapters), 2)
	testutil.AssertEqual(t, chapters[0].PuzzleID, "aaaaa")
	testutil.AssertEqual(t, chapters[0].Number, 2)
	testutil.AssertEqual(t, chapters[1].PuzzleID, "ccccc")
	testutil.AssertEqual(t, chapters[1].Number, 3, "renumbered after failure")
	testutil.AssertContains(t, chapters[1].PGN, `[Event "Puzzle 3"]`)
	testutil.AssertEqual(t, stats.Failed, 1)
	testutil.AssertEqual(t, stats.Converted, 2)
}

func TestConvert_Cache(t *testing.T) {
	cache, err := store.OpenInMemory()
	testutil.AssertNoError(t, err, "OpenInMemory")
	defer cache.Close()

	puzzles := []puzzle.Puzzle{
		attempt("aaaaa", false, 1200, "e2e4").Puzzle,
		attempt("bbbbb", false, 1300, "d2d4").Puzzle,
	}
	p := newPipeline(t, config.NewConfigBuilder().WithWorkers(2).Build(), cache)

	var first Stats
	want, err := p.Convert(context.Background(), puzzles, &first)
	testutil.AssertNoError(t, err, "first Convert")
	testutil.AssertEqual(t, first.Cached, 0)
	testutil.AssertEqual(t, first.CacheEntries, 2)

	var second Stats
	got, err := p.Convert(context.Background(), puzzles, &second)
	testutil.AssertNoError(t, err, "second Convert")
	testutil.AssertEqual(t, second.Cached, 2)
	testutil.AssertEqual(t, got, want)

	// A different position in the study is rebuilt.
	var third Stats
	got, err = p.Convert(context.Background(), puzzles[1:], &third)
	testutil.AssertNoError(t, err, "third Convert")
	testutil.AssertEqual(t, third.Cached, 0)
	testutil.AssertEqual(t, got[0].Number, 1)
}

func TestEvict(t *testing.T) {
	cache, err := store.OpenInMemory()
	testutil.AssertNoError(t, err, "OpenInMemory")
	defer cache.Close()

	puzzles := []puzzle.Puzzle{
		attempt("aaaaa", false, 1200, "e2e4").Puzzle,
		attempt("bbbbb", false, 1300, "d2d4").Puzzle,
	}
	p := newPipeline(t, config.NewConfig(), cache)

	var stats Stats
	_, err = p.Convert(context.Background(), puzzles, &stats)
	testutil.AssertNoError(t, err, "Convert")

	stats = Stats{}
	testutil.AssertNoError(t, p.Evict([]string{"aaaaa", "zzzzz"}, &stats), "Evict")
	testutil.AssertEqual(t, stats.Evicted, 2)

	_, err = p.Convert(context.Background(), puzzles, &stats)
	testutil.AssertNoError(t, err, "Convert after evict")
	testutil.AssertEqual(t, stats.Cached, 1, "only the kept chapter is served from the cache")
	testutil.AssertEqual(t, stats.CacheEntries, 2)

	var none Stats
	testutil.AssertNoError(t, newPipeline(t, config.NewConfig(), nil).Evict([]string{"aaaaa"}, &none), "Evict without cache")
	testutil.AssertEqual(t, none.Evicted, 0)
}

func TestConvert_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	puzzles := make([]puzzle.Puzzle, 50)
	for i := range puzzles {
		puzzles[i] = attempt(fmt.Sprintf("p%04d", i), false, 1500, "e2e4").Puzzle
	}

	var stats Stats
	_, err := newPipeline(t, config.NewConfigBuilder().WithWorkers(1).Build(), nil).Convert(ctx, puzzles, &stats)
	testutil.AssertError(t, err, "cancelled Convert")
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.ndjson")
	data := `{"date":2,"win":false,"puzzle":{"id":"aaaaa","fen":"` + engine.InitialFEN + `","rating":1200,"solution":["e2e4"],"themes":[]}}
garbage
{"date":1,"win":true,"puzzle":{"id":"bbbbb","fen":"` + engine.InitialFEN + `","rating":1300,"solution":["d2d4"],"themes":[]}}
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	p := newPipeline(t, config.NewConfig(), nil)

	var stats Stats
	attempts, err := p.ReadInputs([]string{path}, nil, &stats)
	testutil.AssertNoError(t, err, "ReadInputs")
	testutil.AssertEqual(t, len(attempts), 2)
	testutil.AssertEqual(t, stats.Attempts, 2)
	testutil.AssertEqual(t, stats.Skipped, 1)
	testutil.AssertEqual(t, stats.Before, int64(2), "date of the last failed attempt")

	stats = Stats{}
	attempts, err = p.ReadInputs(nil, strings.NewReader(data), &stats)
	testutil.AssertNoError(t, err, "ReadInputs stdin")
	testutil.AssertEqual(t, len(attempts), 2)

	missing := filepath.Join(dir, "missing")
	_, err = p.ReadInputs([]string{missing}, nil, &stats)
	testutil.AssertErrorIs(t, err, fs.ErrNotExist, "missing file")
	testutil.AssertContains(t, err.Error(), "opening "+missing)
}

func TestReadInputs_Direct(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "R0zaE.json")
	bad := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(good, []byte(directBody), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`{"game":{"pgn":"e4 e5 Qz9"},"puzzle":{"id":"abcde","solution":["a2a3"]}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := config.NewConfigBuilder().WithDirect(true).Build()
	p := newPipeline(t, cfg, nil)

	var stats Stats
	attempts, err := p.ReadInputs([]string{good, bad}, nil, &stats)
	testutil.AssertNoError(t, err, "ReadInputs")
	testutil.AssertEqual(t, len(attempts), 1)
	testutil.AssertEqual(t, stats.Attempts, 1)
	testutil.AssertEqual(t, stats.Skipped, 1)
	testutil.AssertEqual(t, stats.Before, int64(0))

	pz := attempts[0].Puzzle
	testutil.AssertFalse(t, attempts[0].Win, "direct puzzles count as failures")
	testutil.AssertTrue(t, pz.ImportedDirectly, "ImportedDirectly")
	testutil.AssertEqual(t, pz.FEN, "1n1qk2r/pQ3ppp/2p1p3/2bp4/2P1n1b1/5P2/PP1PP1BP/RNB1K1NR b KQkq - 0 1")

	selected := p.Select(attempts, &stats)
	chapters, err := p.Convert(context.Background(), selected, &stats)
	testutil.AssertNoError(t, err, "Convert")
	testutil.AssertEqual(t, len(chapters), 1)
	testutil.AssertContains(t, chapters[0].PGN, "{ Black to move }")

	stats = Stats{}
	attempts, err = p.ReadInputs(nil, strings.NewReader(directBody), &stats)
	testutil.AssertNoError(t, err, "ReadInputs stdin")
	testutil.AssertEqual(t, len(attempts), 1)
}
