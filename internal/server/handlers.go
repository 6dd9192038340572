package server

import (
	"context"
	"runtime"

	"github.com/gofiber/fiber/v2"

	"github.com/lgbarn/puzzle-study-go/internal/notation"
	"github.com/lgbarn/puzzle-study-go/internal/processing"
	"github.com/lgbarn/puzzle-study-go/internal/puzzle"
	"github.com/lgbarn/puzzle-study-go/internal/study"
	"github.com/lgbarn/puzzle-study-go/internal/worker"
)

// EncodeRequest asks for the tokens of coordinate moves played from FEN.
type EncodeRequest struct {
	FEN   string   `json:"fen"`
	Moves []string `json:"moves"`
}

// EncodeResponse holds one token per move.
type EncodeResponse struct {
	Tokens []string `json:"tokens"`
}

// DecodeRequest asks for the position after movetext. An empty FEN
// means the standard initial position.
type DecodeRequest struct {
	Movetext string `json:"movetext"`
	FEN      string `json:"fen,omitempty"`
}

// DecodeResponse holds the resulting position.
type DecodeResponse struct {
	FEN string `json:"fen"`
}

// ChaptersRequest asks for a study document built from puzzles. Direct
// puzzles are single puzzle bodies whose position comes from the game
// movetext; they follow Puzzles in the document. Study and Token are
// only used to address the prepared import call.
type ChaptersRequest struct {
	Puzzles []puzzle.Puzzle     `json:"puzzles"`
	Direct  []puzzle.DirectData `json:"direct"`
	Offset  bool                `json:"offset"`
	Study   string              `json:"study,omitempty"`
	Token   string              `json:"token,omitempty"`
}

// ChaptersResponse holds the document and its import form fields.
type ChaptersResponse struct {
	PGN       string                `json:"pgn"`
	Chapters  int                   `json:"chapters"`
	Truncated int                   `json:"truncated"`
	Import    study.ImportRequest   `json:"import"`
	Upload    *study.PreparedImport `json:"upload,omitempty"`
}

func (s *Server) encode(c *fiber.Ctx) error {
	var req EncodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	tokens, err := notation.Encode(req.FEN, req.Moves)
	if err != nil {
		return err
	}
	return c.JSON(EncodeResponse{Tokens: tokens})
}

func (s *Server) decode(c *fiber.Ctx) error {
	var req DecodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var (
		fen string
		err error
	)
	if req.FEN == "" {
		fen, err = notation.Decode(req.Movetext)
	} else {
		fen, err = notation.DecodeFrom(req.FEN, req.Movetext)
	}
	if err != nil {
		return err
	}
	return c.JSON(DecodeResponse{FEN: fen})
}

func (s *Server) chapters(c *fiber.Ctx) error {
	var req ChaptersRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := checkCredentials(req.Study, req.Token); err != nil {
		return err
	}

	puzzles := req.Puzzles
	for _, d := range req.Direct {
		p, err := d.ToPuzzle()
		if err != nil {
			return err
		}
		puzzles = append(puzzles, p)
	}
	if len(puzzles) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no puzzles")
	}

	stage := study.NewStage()
	added, truncated, err := stage.Add(puzzles...)
	if err != nil {
		return err
	}

	var doc string
	if s.cache == nil {
		doc, err = stage.Document(req.Offset)
	} else {
		doc, err = s.cachedDocument(c.UserContext(), stage.Puzzles(), req.Offset)
	}
	if err != nil {
		return err
	}

	resp := ChaptersResponse{
		PGN:       doc,
		Chapters:  added,
		Truncated: truncated,
		Import:    study.NewImportRequest(doc, study.FirstNumber(req.Offset)),
	}
	if req.Study != "" {
		prepared := resp.Import.Prepare(req.Study, req.Token)
		resp.Upload = &prepared
	}
	return c.JSON(resp)
}

// checkCredentials validates the optional study ID and token. A token
// is only accepted together with a study.
func checkCredentials(studyID, token string) error {
	if studyID != "" && !puzzle.ValidStudyID(studyID) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid study id")
	}
	if token == "" {
		return nil
	}
	if studyID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "token given without a study")
	}
	if !puzzle.ValidToken(token) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid token")
	}
	return nil
}

// cachedDocument builds the chapters on a worker pool backed by the
// chapter cache. The first failure, in document order, fails the request.
func (s *Server) cachedDocument(ctx context.Context, puzzles []puzzle.Puzzle, offset bool) (string, error) {
	workers := s.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := worker.Run(ctx, puzzles, processing.CachedChapterFunc(s.cache, offset, s.log),
		worker.WithWorkers(workers))

	chapters := make([]study.Chapter, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			return "", r.Error
		}
		chapters = append(chapters, r.Chapter)
	}
	return study.Concatenate(chapters), nil
}
