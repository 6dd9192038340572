// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"
	"io"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
)

// chaptersFlags holds the flags of the chapters command.
type chaptersFlags struct {
	configFile     string
	outputFile     string
	jsonOutput     bool
	jsonLines      bool
	parquetFile    string
	cacheDir       string
	evict          string
	workers        int
	offset         bool
	direct         bool
	incorrect      int
	minRating      int
	maxRating      int
	themes         string
	ids            string
	keepDuplicates bool
	verbosity      int
	quiet          bool
}

func newChaptersFlagSet(stderr io.Writer) (*flag.FlagSet, *chaptersFlags) {
	f := &chaptersFlags{}
	fs := flag.NewFlagSet("chapters", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Input/output
	fs.StringVar(&f.configFile, "config", "", "JSON configuration file")
	fs.StringVar(&f.outputFile, "o", "", "Output file (default: stdout)")
	fs.BoolVar(&f.jsonOutput, "json", false, "Output chapters as JSON")
	fs.BoolVar(&f.jsonLines, "json-lines", false, "Output one JSON chapter per line")
	fs.StringVar(&f.parquetFile, "parquet", "", "Also write one row per puzzle to this Parquet file")
	fs.StringVar(&f.cacheDir, "cache", "", "Chapter cache directory")
	fs.StringVar(&f.evict, "cache-evict", "", "Puzzle IDs to drop from the cache before converting")
	fs.BoolVar(&f.direct, "direct", false, "Inputs are single puzzle bodies (one per file) instead of activity")

	// Processing
	fs.IntVar(&f.workers, "workers", 0, "Number of conversion workers (0 = one per CPU)")
	fs.BoolVar(&f.offset, "offset", false, "Number chapters from 2 (the study already has a first chapter)")

	// Selection
	fs.IntVar(&f.incorrect, "incorrect", 0, "Convert the first N failed attempts (0 = all)")
	fs.IntVar(&f.minRating, "min-rating", 0, "Minimum puzzle rating")
	fs.IntVar(&f.maxRating, "max-rating", 0, "Maximum puzzle rating (0 = no limit)")
	fs.StringVar(&f.themes, "themes", "", "Comma-separated themes; keep puzzles with any of them")
	fs.StringVar(&f.ids, "ids", "", "Puzzle IDs to keep, separated by commas or spaces")
	fs.BoolVar(&f.keepDuplicates, "keep-duplicates", false, "Keep repeated attempts of the same puzzle")

	// Logging
	fs.IntVar(&f.verbosity, "v", 1, "Verbosity: 0=errors, 1=summary, 2=per puzzle")
	fs.BoolVar(&f.quiet, "s", false, "Silent mode (same as -v 0)")

	return fs, f
}

// applyFlags copies explicitly set flags over cfg, so values from a
// config file survive unless overridden.
func applyFlags(fs *flag.FlagSet, f *chaptersFlags, cfg *config.Config) {
	b := config.BuilderFor(cfg)
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "o":
			b.WithOutputFile(f.outputFile)
		case "json":
			b.WithJSONOutput(f.jsonOutput)
		case "json-lines":
			b.WithJSONLines(f.jsonLines)
		case "parquet":
			b.WithParquet(f.parquetFile)
		case "cache":
			b.WithCacheDir(f.cacheDir)
		case "workers":
			b.WithWorkers(f.workers)
		case "offset":
			b.WithOffset(f.offset)
		case "direct":
			b.WithDirect(f.direct)
		case "incorrect":
			b.WithIncorrect(f.incorrect)
		case "min-rating":
			b.WithMinRating(f.minRating)
		case "max-rating":
			b.WithMaxRating(f.maxRating)
		case "themes":
			b.WithThemes(splitList(f.themes)...)
		case "ids":
			b.WithIDs(puzzle.ExtractIDs(f.ids)...)
		case "keep-duplicates":
			b.WithDuplicateSuppression(!f.keepDuplicates)
		case "v":
			b.WithVerbosity(f.verbosity)
		}
	})
	if f.quiet {
		b.WithVerbosity(0)
	}
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
