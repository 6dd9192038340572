package output

import (
	"encoding/json"
	"io"

	"github.com/lgbarn/puzzle-study-go/internal/study"
)

// JSONOutput holds multiple chapters for array output.
type JSONOutput struct {
	Count    int             `json:"count"`
	Chapters []study.Chapter `json:"chapters"`
}

// EncodeChapters writes chapters as an indented JSONOutput document.
func EncodeChapters(w io.Writer, chapters []study.Chapter) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&JSONOutput{Count: len(chapters), Chapters: chapters})
}

// WriteAll writes chapters through cw and closes it.
func WriteAll(cw ChapterWriter, chapters []study.Chapter) error {
	for _, c := range chapters {
		if err := cw.WriteChapter(c); err != nil {
			return err
		}
	}
	return cw.Close()
}
