// Package output writes built chapters as a study import document or as
// JSON.
package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/puzzle-study-go/internal/study"
)

// ChapterWriter is the interface for writing chapters to output.
// Different implementations handle different output formats (PGN, JSON).
type ChapterWriter interface {
	// WriteChapter writes a single chapter to the output.
	WriteChapter(c study.Chapter) error

	// Flush flushes any buffered data to the underlying writer.
	Flush() error

	// Close closes the writer and releases any resources.
	// For batch writers (like JSON), this also writes any pending output.
	Close() error

	// Written returns the number of chapters accepted so far.
	Written() int
}

// PGNWriter writes chapters as one import document, separated by blank
// lines.
type PGNWriter struct {
	w       io.Writer
	written int
}

// NewPGNWriter creates a new PGN writer.
func NewPGNWriter(w io.Writer) *PGNWriter {
	return &PGNWriter{w: w}
}

// WriteChapter writes a chapter's PGN.
func (pw *PGNWriter) WriteChapter(c study.Chapter) error {
	if pw.written > 0 {
		if _, err := io.WriteString(pw.w, "\n\n"); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(pw.w, c.PGN); err != nil {
		return err
	}
	pw.written++
	return nil
}

// Written returns the number of chapters written so far.
func (pw *PGNWriter) Written() int {
	return pw.written
}

// Flush is a no-op; PGN is written immediately.
func (pw *PGNWriter) Flush() error {
	return nil
}

// Close terminates the document with a newline if anything was written.
func (pw *PGNWriter) Close() error {
	if pw.written == 0 {
		return nil
	}
	_, err := io.WriteString(pw.w, "\n")
	return err
}

// JSONWriter writes chapters in JSON format.
// It buffers chapters and writes them as a JSON array on Close or Flush.
type JSONWriter struct {
	w        io.Writer
	chapters []study.Chapter
	single   bool // If true, write each chapter immediately instead of batching
	written  int
}

// NewJSONWriter creates a new JSON writer.
// By default, it batches chapters and writes them as an array on Close().
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{
		w:        w,
		chapters: make([]study.Chapter, 0),
	}
}

// NewJSONWriterSingle creates a JSON writer that writes each chapter
// immediately, one object per line.
func NewJSONWriterSingle(w io.Writer) *JSONWriter {
	return &JSONWriter{
		w:      w,
		single: true,
	}
}

// WriteChapter buffers a chapter (or writes it immediately in single mode).
func (jw *JSONWriter) WriteChapter(c study.Chapter) error {
	if jw.single {
		if err := json.NewEncoder(jw.w).Encode(c); err != nil {
			return err
		}
	} else {
		jw.chapters = append(jw.chapters, c)
	}
	jw.written++
	return nil
}

// Written returns the number of chapters written or buffered so far.
func (jw *JSONWriter) Written() int {
	return jw.written
}

// Flush writes all buffered chapters as a JSON array.
func (jw *JSONWriter) Flush() error {
	if jw.single || len(jw.chapters) == 0 {
		return nil
	}

	err := EncodeChapters(jw.w, jw.chapters)

	// Clear buffer after writing
	jw.chapters = jw.chapters[:0]

	return err
}

// Close flushes and closes the JSON writer.
func (jw *JSONWriter) Close() error {
	return jw.Flush()
}
