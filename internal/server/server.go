// Package server exposes the notation codec and the chapter builder over
// HTTP.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	pserrors "github.com/lgbarn/puzzle-study-go/internal/errors"
	"github.com/lgbarn/puzzle-study-go/internal/store"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const localRequestID = "requestID"

// Server is the HTTP API.
type Server struct {
	app     *fiber.App
	cfg     config.ServerConfig
	workers int
	cache   *store.Store // nil builds every chapter afresh
	log     zerolog.Logger
}

// New builds the app and registers its routes. cache may be nil.
func New(c *config.Config, cache *store.Store, log zerolog.Logger) *Server {
	cfg := c.Server
	s := &Server{cfg: cfg, workers: c.Workers, cache: cache, log: log}

	s.app = fiber.New(fiber.Config{
		AppName:               "puzzle-study",
		BodyLimit:             cfg.BodyLimit,
		ReadTimeout:           cfg.ReadTimeout(),
		WriteTimeout:          cfg.WriteTimeout(),
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(s.requestID(), s.accessLog())

	s.app.Get("/healthz", s.health)

	api := s.app.Group("/api")
	api.Post("/encode", s.encode)
	api.Post("/decode", s.decode)
	api.Post("/chapters", s.chapters)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured address until Shutdown.
func (s *Server) Listen() error {
	s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
	return s.app.Listen(s.cfg.Addr)
}

// Shutdown stops the server, waiting up to timeout for open requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// requestID assigns each request an ID, keeping one the client sent.
func (s *Server) requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RequestIDHeader)
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Locals(localRequestID, rid)
		c.Set(RequestIDHeader, rid)
		return c.Next()
	}
}

func (s *Server) accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler write the status before logging it.
			if herr := s.handleError(c, err); herr != nil {
				return herr
			}
		}
		s.log.Info().
			Str("rid", RequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// RequestID returns the ID assigned to the request.
func RequestID(c *fiber.Ctx) string {
	rid, _ := c.Locals(localRequestID).(string)
	return rid
}

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// handleError maps an error to a status and a JSON body. Conversion
// errors are the caller's fault; anything unrecognised is a 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadRequest
	kind := pserrors.Kind(err)

	var ferr *fiber.Error
	switch {
	case errors.As(err, &ferr):
		status = ferr.Code
		kind = "request"
	case kind == "internal":
		status = fiber.StatusInternalServerError
		s.log.Error().Str("rid", RequestID(c)).Err(err).Msg("request failed")
	}

	return c.Status(status).JSON(errorResponse{Error: err.Error(), Kind: kind})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
