package puzzle

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// maxLineSize bounds a single activity line.
const maxLineSize = 1024 * 1024

// Attempt is one line of puzzle activity.
type Attempt struct {
	Win    bool   `json:"win"`
	Puzzle Puzzle `json:"puzzle"`
	Date   int64  `json:"date"` // milliseconds since the epoch
}

// ParseAttempt decodes a single activity line.
func ParseAttempt(line []byte) (Attempt, error) {
	var a Attempt
	if err := json.Unmarshal(line, &a); err != nil {
		return Attempt{}, fmt.Errorf("decoding attempt: %v: %w", err, errors.ErrInvalidPuzzle)
	}
	// Activity puzzles always carry their own position.
	a.Puzzle.ImportedDirectly = false
	return a, nil
}

// SkipFunc is told about each activity line that could not be decoded.
// lineNum is 1-based.
type SkipFunc func(lineNum int, err error)

// ReadActivity decodes newline-delimited attempts. Blank lines are
// ignored; undecodable lines are passed to skip (if non-nil) and dropped.
// Only read errors are returned.
func ReadActivity(r io.Reader, skip SkipFunc) ([]Attempt, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var attempts []Attempt
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		a, err := ParseAttempt(line)
		if err != nil {
			if skip != nil {
				skip(lineNum, err)
			}
			continue
		}
		attempts = append(attempts, a)
	}
	if err := scanner.Err(); err != nil {
		return attempts, fmt.Errorf("reading activity: %w", err)
	}
	return attempts, nil
}

// Incorrect returns the puzzles of the first n failed attempts, in
// activity order. n <= 0 returns every failed attempt.
func Incorrect(attempts []Attempt, n int) []Puzzle {
	var puzzles []Puzzle
	for _, a := range attempts {
		if a.Win {
			continue
		}
		if n > 0 && len(puzzles) >= n {
			break
		}
		puzzles = append(puzzles, a.Puzzle)
	}
	return puzzles
}

// LastFailedDate returns the date of the last failed attempt, which is
// the cursor for requesting the next, older page of activity. It returns
// false if no attempt failed.
func LastFailedDate(attempts []Attempt) (int64, bool) {
	for i := len(attempts) - 1; i >= 0; i-- {
		if !attempts[i].Win {
			return attempts[i].Date, true
		}
	}
	return 0, false
}
