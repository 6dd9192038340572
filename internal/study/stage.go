package study

import (
	"fmt"
	"strings"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
)

// Capacity is the number of chapters a study holds.
const Capacity = 64

// Stage collects the puzzles destined for one study. It is not safe for
// concurrent use.
type Stage struct {
	puzzles []puzzle.Puzzle
}

// NewStage creates an empty stage.
func NewStage() *Stage {
	return &Stage{puzzles: make([]puzzle.Puzzle, 0, Capacity)}
}

// Add stages puzzles in order until the stage is full. It returns how
// many were staged and how many were dropped for lack of room. Adding to
// a full stage fails with ErrStageFull.
func (s *Stage) Add(puzzles ...puzzle.Puzzle) (added, truncated int, err error) {
	if s.Remaining() == 0 && len(puzzles) > 0 {
		return 0, len(puzzles), fmt.Errorf("%d/%d staged: %w", len(s.puzzles), Capacity, errors.ErrStageFull)
	}

	room := s.Remaining()
	if len(puzzles) > room {
		truncated = len(puzzles) - room
		puzzles = puzzles[:room]
	}
	s.puzzles = append(s.puzzles, puzzles...)
	return len(puzzles), truncated, nil
}

// Len returns the number of staged puzzles.
func (s *Stage) Len() int {
	return len(s.puzzles)
}

// Remaining returns the number of free slots.
func (s *Stage) Remaining() int {
	return Capacity - len(s.puzzles)
}

// Puzzles returns a copy of the staged puzzles.
func (s *Stage) Puzzles() []puzzle.Puzzle {
	out := make([]puzzle.Puzzle, len(s.puzzles))
	copy(out, s.puzzles)
	return out
}

// String summarises the stage for prompts.
func (s *Stage) String() string {
	return fmt.Sprintf("%d/%d puzzles staged", len(s.puzzles), Capacity)
}

// FirstNumber returns the number of the first chapter in a document.
// An offset document continues after a chapter that is already present.
func FirstNumber(offset bool) int {
	if offset {
		return 2
	}
	return 1
}

// Chapters builds every staged puzzle in order.
func (s *Stage) Chapters(offset bool) ([]Chapter, error) {
	return BuildChapters(s.puzzles, offset)
}

// Document builds every staged puzzle and joins the chapters.
func (s *Stage) Document(offset bool) (string, error) {
	chapters, err := s.Chapters(offset)
	if err != nil {
		return "", err
	}
	return Concatenate(chapters), nil
}

// BuildChapters renders puzzles as consecutively numbered chapters.
// The first failure aborts the build.
func BuildChapters(puzzles []puzzle.Puzzle, offset bool) ([]Chapter, error) {
	first := FirstNumber(offset)
	chapters := make([]Chapter, 0, len(puzzles))
	for i, p := range puzzles {
		c, err := BuildChapter(p, i+first)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, c)
	}
	return chapters, nil
}

// Concatenate joins chapter PGN with blank lines between chapters.
func Concatenate(chapters []Chapter) string {
	pgns := make([]string, len(chapters))
	for i, c := range chapters {
		pgns[i] = c.PGN
	}
	return strings.Join(pgns, "\n\n")
}
