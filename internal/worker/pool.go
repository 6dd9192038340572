// Package worker provides a worker pool for converting puzzles to
// chapters in parallel.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/study"
)

// WorkItem represents a puzzle to be converted.
type WorkItem struct {
	Puzzle puzzle.Puzzle
	Index  int // Position in the input, used to restore order
}

// ProcessResult represents the outcome of converting one puzzle.
type ProcessResult struct {
	Chapter study.Chapter
	Index   int
	Cached  bool // Chapter came from the cache rather than a fresh build
	Error   error
}

// ProcessFunc converts a single work item.
type ProcessFunc func(item WorkItem) ProcessResult

// ChapterFunc returns a ProcessFunc that builds chapters numbered from
// the document's first chapter number.
func ChapterFunc(offset bool) ProcessFunc {
	first := study.FirstNumber(offset)
	return func(item WorkItem) ProcessResult {
		c, err := study.BuildChapter(item.Puzzle, item.Index+first)
		return ProcessResult{Chapter: c, Index: item.Index, Error: err}
	}
}

// Pool manages a fixed set of workers reading from a shared channel.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan WorkItem
	resultChan  chan ProcessResult
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopFlag    int32 // Atomic flag for early termination
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPoolWithOptions creates a pool using functional options.
// Default: 1 worker, buffer size of 10.
func NewPoolWithOptions(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workChan = make(chan WorkItem, p.bufferSize)
	p.resultChan = make(chan ProcessResult, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker converts items until the work channel is closed.
func (p *Pool) worker() {
	defer p.wg.Done()

	for item := range p.workChan {
		if p.IsStopped() {
			continue // Drain channel without processing
		}
		p.resultChan <- p.processFunc(item)
	}
}

// Submit submits a work item, blocking while the buffer is full.
func (p *Pool) Submit(item WorkItem) {
	p.workChan <- item
}

// Stop signals workers to skip the items still queued.
func (p *Pool) Stop() {
	atomic.StoreInt32(&p.stopFlag, 1)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return atomic.LoadInt32(&p.stopFlag) != 0
}

// Close closes the work channel and waits for the workers. The result
// channel is closed once they are done.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel.
func (p *Pool) Results() <-chan ProcessResult {
	return p.resultChan
}

// Run converts every puzzle on a pool and returns the results in input
// order. Cancelling ctx stops the pool; puzzles not yet converted are
// reported with ctx's error.
func Run(ctx context.Context, puzzles []puzzle.Puzzle, processFunc ProcessFunc, opts ...PoolOption) []ProcessResult {
	pool := NewPoolWithOptions(processFunc, opts...)
	pool.Start()

	// Stopping makes the workers drain, which unblocks a pending Submit.
	release := context.AfterFunc(ctx, pool.Stop)
	defer release()

	go func() {
		defer pool.Close()
		for i, p := range puzzles {
			if ctx.Err() != nil || pool.IsStopped() {
				pool.Stop()
				return
			}
			pool.Submit(WorkItem{Puzzle: p, Index: i})
		}
	}()

	results := make([]ProcessResult, len(puzzles))
	done := make([]bool, len(puzzles))
	for r := range pool.Results() {
		results[r.Index] = r
		done[r.Index] = true
	}

	for i := range results {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = context.Canceled
			}
			results[i] = ProcessResult{Index: i, Error: err}
		}
	}
	return results
}
