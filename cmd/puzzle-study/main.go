// puzzle-study converts between coordinate moves and algebraic movetext,
// and turns failed puzzle attempts into gamebook study chapters.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/export"
	"github.com/lgbarn/puzzle-study-go/internal/notation"
	"github.com/lgbarn/puzzle-study-go/internal/output"
	"github.com/lgbarn/puzzle-study-go/internal/processing"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/store"
	"github.com/lgbarn/puzzle-study-go/internal/study"
)

const programVersion = "0.1.0"

// Exit codes.
const (
	exitOK         = 0
	exitConversion = 1
	exitUsage      = 2
	exitIO         = 3
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "encode":
		return runEncode(args[1:], stdout, stderr)
	case "decode":
		return runDecode(args[1:], stdout, stderr)
	case "chapters":
		return runChapters(ctx, args[1:], stdin, stdout, stderr)
	case "records":
		return runRecords(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		fmt.Fprintf(stdout, "puzzle-study version %s\n", programVersion)
		return exitOK
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return exitUsage
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch pserrors.Kind(err) {
	case "malformed_position", "unresolvable_origin", "malformed_ply", "invalid_puzzle", "stage_full":
		return exitConversion
	case "invalid_config":
		return exitUsage
	default:
		return exitIO
	}
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

func runEncode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", "", "Start position (required)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *fen == "" || fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: puzzle-study encode -fen FEN MOVE...")
		return exitUsage
	}

	tokens, err := notation.Encode(*fen, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "encode: %v\n", err)
		return exitCode(err)
	}
	fmt.Fprintln(stdout, strings.Join(tokens, " "))
	return exitOK
}

func runDecode(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fen := fs.String("fen", "", "Start position (default: standard initial position)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: puzzle-study decode [-fen FEN] MOVETEXT")
		return exitUsage
	}

	movetext := strings.Join(fs.Args(), " ")
	var (
		result string
		err    error
	)
	if *fen == "" {
		result, err = notation.Decode(movetext)
	} else {
		result, err = notation.DecodeFrom(*fen, movetext)
	}
	if err != nil {
		fmt.Fprintf(stderr, "decode: %v\n", err)
		return exitCode(err)
	}
	fmt.Fprintln(stdout, result)
	return exitOK
}

func runChapters(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs, f := newChaptersFlagSet(stderr)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := loadConfig(f.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "chapters: %v\n", err)
		return exitCode(err)
	}
	applyFlags(fs, f, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "chapters: %v\n", err)
		return exitUsage
	}
	cfg.SetOutput(stdout)
	cfg.LogFile = stderr

	log := newLogger(cfg.LogFile, cfg.Level())
	if err := convert(ctx, cfg, fs.Args(), puzzle.ExtractIDs(f.evict), stdin, log); err != nil {
		log.Error().Str("kind", pserrors.Kind(err)).Err(err).Msg("chapters failed")
		if errors.Is(err, context.Canceled) {
			return exitIO
		}
		return exitCode(err)
	}
	return exitOK
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.NewConfig(), nil
	}
	return config.LoadFile(path)
}

// convert runs the pipeline and writes its outputs. Chapters of the
// evicted puzzles are dropped from the cache first.
func convert(ctx context.Context, cfg *config.Config, inputs, evict []string, stdin io.Reader, log zerolog.Logger) error {
	var cache *store.Store
	if cfg.CacheDir != "" {
		var err error
		if cache, err = store.Open(cfg.CacheDir); err != nil {
			return err
		}
		defer cache.Close()
	} else if len(evict) > 0 {
		log.Warn().Msg("-cache-evict has no effect without -cache")
	}

	pipeline := processing.NewPipeline(cfg, cache, log)
	var stats processing.Stats

	if err := pipeline.Evict(evict, &stats); err != nil {
		return err
	}

	attempts, err := pipeline.ReadInputs(inputs, stdin, &stats)
	if err != nil {
		return err
	}
	puzzles := pipeline.Select(attempts, &stats)
	chapters, err := pipeline.Convert(ctx, puzzles, &stats)
	if err != nil {
		return err
	}

	if stats.Written, err = writeChapters(cfg, chapters); err != nil {
		return err
	}

	if cfg.Output.ParquetFile != "" {
		if err := writeParquet(cfg, puzzlesOf(chapters, puzzles), log); err != nil {
			return err
		}
	}

	pipeline.Report(stats)
	return nil
}

// writeChapters writes chapters in the configured format and returns
// how many the writer accepted.
func writeChapters(cfg *config.Config, chapters []study.Chapter) (int, error) {
	if cfg.Output.Filename == "" {
		return writeChaptersTo(cfg, cfg.OutputFile, chapters)
	}

	file, err := os.Create(cfg.Output.Filename)
	if err != nil {
		return 0, pserrors.Wrap(err, "creating output file")
	}
	n, err := writeChaptersTo(cfg, file, chapters)
	if cerr := file.Close(); err == nil && cerr != nil {
		err = pserrors.Wrap(cerr, "closing output file")
	}
	return n, err
}

func writeChaptersTo(cfg *config.Config, w io.Writer, chapters []study.Chapter) (int, error) {
	var cw output.ChapterWriter
	switch {
	case cfg.Output.JSONLines:
		cw = output.NewJSONWriterSingle(w)
	case cfg.Output.JSONFormat:
		cw = output.NewJSONWriter(w)
	default:
		cw = output.NewPGNWriter(w)
	}
	err := output.WriteAll(cw, chapters)
	return cw.Written(), err
}

// puzzlesOf returns the puzzles that made it into chapters, in chapter
// order.
func puzzlesOf(chapters []study.Chapter, selected []puzzle.Puzzle) []puzzle.Puzzle {
	byID := make(map[string]puzzle.Puzzle, len(selected))
	for _, p := range selected {
		byID[p.ID] = p
	}
	out := make([]puzzle.Puzzle, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, byID[c.PuzzleID])
	}
	return out
}

func writeParquet(cfg *config.Config, puzzles []puzzle.Puzzle, log zerolog.Logger) error {
	records := make([]export.Record, 0, len(puzzles))
	for _, p := range puzzles {
		r, err := export.NewRecord(p)
		if err != nil {
			return err
		}
		records = append(records, r)
	}
	if err := export.WriteParquet(cfg.Output.ParquetFile, records, int64(max(cfg.Workers, 1))); err != nil {
		return err
	}
	log.Info().Str("file", cfg.Output.ParquetFile).Int("rows", len(records)).Msg("wrote parquet")
	return nil
}

func runRecords(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("records", flag.ContinueOnError)
	fs.SetOutput(stderr)
	parallel := fs.Int64("parallel", 1, "Parquet reader parallelism")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: puzzle-study records [-parallel N] FILE.parquet")
		return exitUsage
	}

	records, err := export.ReadParquet(fs.Arg(0), *parallel)
	if err != nil {
		fmt.Fprintf(stderr, "records: %v\n", err)
		return exitIO
	}
	enc := json.NewEncoder(stdout)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			fmt.Fprintf(stderr, "records: %v\n", err)
			return exitIO
		}
	}
	return exitOK
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  puzzle-study encode -fen FEN MOVE...\n")
	fmt.Fprintf(w, "  puzzle-study decode [-fen FEN] MOVETEXT\n")
	fmt.Fprintf(w, "  puzzle-study chapters [options] [activity-files...]\n")
	fmt.Fprintf(w, "  puzzle-study records FILE.parquet\n\n")
	fmt.Fprintf(w, "encode prints one token per coordinate move (e2e4, e7e8q).\n")
	fmt.Fprintf(w, "decode prints the position after the movetext.\n")
	fmt.Fprintf(w, "chapters reads puzzle activity (one JSON attempt per line) and\n")
	fmt.Fprintf(w, "prints a gamebook study document. With -direct each file holds one\n")
	fmt.Fprintf(w, "puzzle body instead. Run 'puzzle-study chapters -h' for its options.\n")
	fmt.Fprintf(w, "records prints the rows of a Parquet export as JSON lines.\n")
}
