// Package processing selects puzzles from activity input and converts
// them to chapters.
package processing

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/store"
	"github.com/lgbarn/puzzle-study-go/internal/study"
	"github.com/lgbarn/puzzle-study-go/internal/worker"
)

// Stats summarises one run.
type Stats struct {
	Attempts   int // activity lines or puzzle bodies decoded
	Skipped    int // inputs that could not be decoded
	Selected   int // puzzles passing selection
	Duplicates int
	Truncated  int // selected puzzles beyond the stage capacity
	Converted  int
	Cached     int // converted chapters served from the cache
	Failed     int
	Written    int // chapters accepted by the output writer

	// Before is the date of the oldest failed attempt read, the cursor for
	// the next page of activity. Zero when unknown.
	Before int64

	Evicted      int // cache entries removed before converting
	CacheEntries int // cache size after converting; -1 without a cache
}

// Pipeline runs selection and conversion with one configuration.
type Pipeline struct {
	cfg   *config.Config
	cache *store.Store // nil disables caching
	log   zerolog.Logger
}

// NewPipeline creates a pipeline. cache may be nil.
func NewPipeline(cfg *config.Config, cache *store.Store, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, cache: cache, log: log}
}

// ReadInputs decodes each named file, or stdin when no names are given.
// Inputs are activity lines, or single puzzle bodies in direct mode.
func (p *Pipeline) ReadInputs(names []string, stdin io.Reader, stats *Stats) ([]puzzle.Attempt, error) {
	read := p.readActivity
	if p.cfg.Direct {
		read = p.readDirect
	}

	var all []puzzle.Attempt
	if len(names) == 0 {
		attempts, err := read(stdin, "stdin", stats)
		if err != nil {
			return nil, err
		}
		all = attempts
	}
	for _, name := range names {
		f, err := os.Open(name) //nolint:gosec // G304: CLI tool opens user-specified files
		if err != nil {
			return nil, pserrors.Wrapf(err, "opening %s", name)
		}
		attempts, err := read(f, name, stats)
		f.Close() //nolint:errcheck,gosec // read-only
		if err != nil {
			return nil, err
		}
		all = append(all, attempts...)
	}

	if !p.cfg.Direct {
		if date, ok := puzzle.LastFailedDate(all); ok {
			stats.Before = date
		}
	}
	return all, nil
}

func (p *Pipeline) readActivity(r io.Reader, name string, stats *Stats) ([]puzzle.Attempt, error) {
	attempts, err := puzzle.ReadActivity(r, func(lineNum int, err error) {
		stats.Skipped++
		p.log.Warn().Str("file", name).Int("line", lineNum).Err(err).Msg("skipping activity line")
	})
	if err != nil {
		return nil, pserrors.Wrap(err, name)
	}
	stats.Attempts += len(attempts)
	p.log.Debug().Str("file", name).Int("attempts", len(attempts)).Msg("read activity")
	return attempts, nil
}

// readDirect decodes one puzzle body. Its start position comes from the
// game movetext, and it counts as a failed attempt.
func (p *Pipeline) readDirect(r io.Reader, name string, stats *Stats) ([]puzzle.Attempt, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pserrors.Wrapf(err, "reading %s", name)
	}
	pz, err := puzzle.ParseDirect(data)
	if err != nil {
		stats.Skipped++
		p.log.Warn().Str("file", name).Str("kind", pserrors.Kind(err)).Err(err).Msg("skipping puzzle")
		return nil, nil
	}
	stats.Attempts++
	p.log.Debug().Str("file", name).Str("puzzle", pz.ID).Msg("read puzzle")
	return []puzzle.Attempt{{Puzzle: pz}}, nil
}

// Select picks the failed attempts to convert and stages them. At most
// one study's worth of puzzles is returned.
func (p *Pipeline) Select(attempts []puzzle.Attempt, stats *Stats) []puzzle.Puzzle {
	sel := p.cfg.Selection

	var selected []puzzle.Puzzle
	for _, pz := range puzzle.Incorrect(attempts, sel.Incorrect) {
		if sel.Wants(pz.ID) && sel.Matches(pz.Rating, pz.Themes) {
			selected = append(selected, pz)
		}
	}

	if p.cfg.Duplicate.Suppress {
		var dropped int
		selected, dropped = puzzle.Unique(selected)
		stats.Duplicates += dropped
	}
	stats.Selected += len(selected)

	stage := study.NewStage()
	_, truncated, _ := stage.Add(selected...) // a fresh stage is never full
	if truncated > 0 {
		stats.Truncated += truncated
		p.log.Warn().Int("dropped", truncated).Int("capacity", study.Capacity).Msg("study is full")
	}
	return stage.Puzzles()
}

// Convert builds a chapter per puzzle. Puzzles that fail to convert are
// logged and dropped, and the survivors renumbered so the chapters stay
// consecutive.
func (p *Pipeline) Convert(ctx context.Context, puzzles []puzzle.Puzzle, stats *Stats) ([]study.Chapter, error) {
	results := p.run(ctx, puzzles)

	var survivors []puzzle.Puzzle
	for i, r := range results {
		if r.Error == nil {
			survivors = append(survivors, puzzles[i])
			continue
		}
		if errors.Is(r.Error, context.Canceled) || errors.Is(r.Error, context.DeadlineExceeded) {
			return nil, r.Error
		}
		stats.Failed++
		p.log.Warn().
			Str("puzzle", puzzles[i].ID).
			Str("kind", pserrors.Kind(r.Error)).
			Err(r.Error).
			Msg("skipping puzzle")
	}

	if len(survivors) < len(puzzles) {
		results = p.run(ctx, survivors)
	}

	chapters := make([]study.Chapter, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			return nil, r.Error
		}
		if r.Cached {
			stats.Cached++
		}
		chapters = append(chapters, r.Chapter)
	}
	stats.Converted += len(chapters)

	stats.CacheEntries = -1
	if p.cache != nil {
		n, err := p.cache.Len()
		if err != nil {
			p.log.Warn().Err(err).Msg("counting cache entries")
		} else {
			stats.CacheEntries = n
		}
	}
	return chapters, nil
}

// Evict removes cached chapters so they are rebuilt. It does nothing
// without a cache.
func (p *Pipeline) Evict(ids []string, stats *Stats) error {
	if p.cache == nil {
		return nil
	}
	for _, id := range ids {
		if err := p.cache.Delete(id); err != nil {
			return pserrors.Wrapf(err, "evicting %s", id)
		}
		stats.Evicted++
	}
	if len(ids) > 0 {
		p.log.Debug().Strs("puzzles", ids).Msg("evicted cached chapters")
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, puzzles []puzzle.Puzzle) []worker.ProcessResult {
	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return worker.Run(ctx, puzzles, CachedChapterFunc(p.cache, p.cfg.Output.Offset, p.log),
		worker.WithWorkers(workers),
		worker.WithBufferSize(workers*2))
}

// CachedChapterFunc builds chapters, consulting cache first. A cached
// chapter is reused only when it carries the number it would be built
// with now. cache may be nil.
func CachedChapterFunc(cache *store.Store, offset bool, log zerolog.Logger) worker.ProcessFunc {
	build := worker.ChapterFunc(offset)
	first := study.FirstNumber(offset)

	return func(item worker.WorkItem) worker.ProcessResult {
		if cache != nil {
			c, found, err := cache.Get(item.Puzzle.ID)
			if err != nil {
				log.Warn().Str("puzzle", item.Puzzle.ID).Err(err).Msg("cache read failed")
			} else if found && c.Number == item.Index+first {
				return worker.ProcessResult{Chapter: c, Index: item.Index, Cached: true}
			}
		}

		r := build(item)
		if r.Error == nil && cache != nil {
			if err := cache.Put(r.Chapter); err != nil {
				log.Warn().Str("puzzle", item.Puzzle.ID).Err(err).Msg("cache write failed")
			}
		}
		return r
	}
}

// Report logs the run summary.
func (p *Pipeline) Report(stats Stats) {
	ev := p.log.Info()
	if stats.Before > 0 {
		ev = ev.Int64("before", stats.Before)
	}
	if stats.CacheEntries >= 0 && p.cache != nil {
		ev = ev.Int("evicted", stats.Evicted).Int("cache_entries", stats.CacheEntries)
	}
	ev.Int("attempts", stats.Attempts).
		Int("skipped", stats.Skipped).
		Int("selected", stats.Selected).
		Int("duplicates", stats.Duplicates).
		Int("truncated", stats.Truncated).
		Int("converted", stats.Converted).
		Int("cached", stats.Cached).
		Int("failed", stats.Failed).
		Int("written", stats.Written).
		Msgf("%d chapter(s) built", stats.Converted)
}
