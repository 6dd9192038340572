package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lgbarn/puzzle-study-go/internal/engine"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/testutil"
)

// noopProcessFunc echoes the item index back.
func noopProcessFunc() ProcessFunc {
	return func(item WorkItem) ProcessResult {
		return ProcessResult{Index: item.Index}
	}
}

// countingProcessFunc increments a counter per item.
func countingProcessFunc(counter *int32) ProcessFunc {
	return func(item WorkItem) ProcessResult {
		atomic.AddInt32(counter, 1)
		return ProcessResult{Index: item.Index}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

func referencePuzzles() []puzzle.Puzzle {
	openings := [][]string{
		{"e2e4", "e7e5", "g1f3"},
		{"d2d4", "d7d5", "c2c4"},
		{"g1f3", "g8f6", "b1c3"},
		{"e2e4", "c7c5", "g1f3"},
		{"c2c4", "e7e5", "b1c3"},
	}
	puzzles := make([]puzzle.Puzzle, len(openings))
	for i, moves := range openings {
		puzzles[i] = puzzle.Puzzle{
			ID:       fmt.Sprintf("open%d", i),
			Rating:   1000 + i,
			Solution: moves,
			Themes:   []string{"opening"},
			FEN:      engine.InitialFEN,
		}
	}
	return puzzles
}

func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPoolWithOptions(countingProcessFunc(&processed), WithWorkers(4), WithBufferSize(10))
	pool.Start()

	const numItems = 10
	for i := 0; i < numItems; i++ {
		pool.Submit(WorkItem{Puzzle: puzzle.Puzzle{ID: "p"}, Index: i})
	}

	go pool.Close()

	if got := collectResults(pool); got != numItems {
		t.Errorf("results = %d; want %d", got, numItems)
	}
	if got := atomic.LoadInt32(&processed); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

func TestPoolIsStopped(t *testing.T) {
	pool := NewPoolWithOptions(noopProcessFunc(), WithWorkers(2))
	pool.Start()

	if pool.IsStopped() {
		t.Error("pool should not be stopped initially")
	}
	pool.Stop()
	if !pool.IsStopped() {
		t.Error("pool should be stopped after Stop()")
	}
	pool.Close()
}

func TestNewPoolWithOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []PoolOption
		workers int
		buffer  int
	}{
		{"defaults", nil, 1, 10},
		{"with workers", []PoolOption{WithWorkers(4)}, 4, 10},
		{"with buffer size", []PoolOption{WithBufferSize(50)}, 1, 50},
		{"invalid values ignored", []PoolOption{WithWorkers(0), WithBufferSize(-5)}, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPoolWithOptions(noopProcessFunc(), tt.opts...)
			testutil.AssertEqual(t, pool.numWorkers, tt.workers)
			testutil.AssertEqual(t, pool.bufferSize, tt.buffer)
		})
	}
}

func TestRun_PreservesOrder(t *testing.T) {
	delayed := func(item WorkItem) ProcessResult {
		if item.Index%2 == 0 {
			time.Sleep(5 * time.Millisecond)
		}
		return ProcessResult{Index: item.Index}
	}

	puzzles := make([]puzzle.Puzzle, 20)
	results := Run(context.Background(), puzzles, delayed, WithWorkers(4))

	testutil.AssertEqual(t, len(results), len(puzzles))
	for i, r := range results {
		testutil.AssertEqual(t, r.Index, i)
		testutil.AssertNoError(t, r.Error, "result %d", i)
	}
}

func TestRun_Chapters(t *testing.T) {
	puzzles := referencePuzzles()
	for _, offset := range []bool{false, true} {
		t.Run(fmt.Sprintf("offset=%v", offset), func(t *testing.T) {
			results := Run(context.Background(), puzzles, ChapterFunc(offset), WithWorkers(3), WithBufferSize(2))
			first := 1
			if offset {
				first = 2
			}
			for i, r := range results {
				testutil.AssertNoError(t, r.Error, "puzzle %s", puzzles[i].ID)
				testutil.AssertEqual(t, r.Chapter.Number, i+first)
				testutil.AssertEqual(t, r.Chapter.PuzzleID, puzzles[i].ID)
			}
		})
	}
}

func TestRun_ReportsFailures(t *testing.T) {
	puzzles := referencePuzzles()[:3]
	puzzles[1].Solution = []string{"d4d5"}

	results := Run(context.Background(), puzzles, ChapterFunc(false), WithWorkers(2))

	testutil.AssertNoError(t, results[0].Error, "puzzle 0")
	testutil.AssertNoError(t, results[2].Error, "puzzle 2")
	testutil.AssertErrorIs(t, results[1].Error, pserrors.ErrMalformedPly, "puzzle 1")
	testutil.AssertEqual(t, results[2].Chapter.Number, 3)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, make([]puzzle.Puzzle, 100), noopProcessFunc(), WithWorkers(2), WithBufferSize(1))

	testutil.AssertEqual(t, len(results), 100)
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			if !errors.Is(r.Error, context.Canceled) {
				t.Fatalf("unexpected error %v", r.Error)
			}
			failed++
		}
	}
	if failed == 0 {
		t.Error("cancelled run converted every puzzle")
	}
}

func TestRun_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen int32
	fn := func(item WorkItem) ProcessResult {
		if atomic.AddInt32(&seen, 1) == 3 {
			cancel()
		}
		time.Sleep(time.Millisecond)
		return ProcessResult{Index: item.Index}
	}

	results := Run(ctx, make([]puzzle.Puzzle, 200), fn, WithWorkers(1), WithBufferSize(1))

	testutil.AssertEqual(t, len(results), 200)
	testutil.AssertNoError(t, results[0].Error, "first puzzle")
	testutil.AssertErrorIs(t, results[199].Error, context.Canceled, "last puzzle")
}
