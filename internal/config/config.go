// Package config provides configuration for puzzle-study.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// Config holds all program configuration.
type Config struct {
	Verbosity int `json:"verbosity"` // 0=errors only, 1=progress, 2=per puzzle

	// Number of conversion workers. Zero means one per CPU.
	Workers int `json:"workers"`

	// CacheDir enables the chapter cache when non-empty.
	CacheDir string `json:"cacheDir"`

	// Direct inputs are single puzzle bodies, one per file, rather than
	// activity lines.
	Direct bool `json:"direct"`

	Output    OutputConfig    `json:"output"`
	Selection SelectionConfig `json:"selection"`
	Duplicate DuplicateConfig `json:"duplicate"`
	Server    ServerConfig    `json:"server"`

	// Output streams
	OutputFile io.Writer `json:"-"`
	LogFile    io.Writer `json:"-"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Verbosity:  1,
		Output:     *NewOutputConfig(),
		Selection:  *NewSelectionConfig(),
		Duplicate:  *NewDuplicateConfig(),
		Server:     *NewServerConfig(),
		OutputFile: os.Stdout,
		LogFile:    os.Stderr,
	}
}

// SetOutput sets the output writer.
func (c *Config) SetOutput(w io.Writer) {
	c.OutputFile = w
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity %d is negative: %w", c.Verbosity, errors.ErrInvalidConfig)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers %d is negative: %w", c.Workers, errors.ErrInvalidConfig)
	}
	if err := c.Selection.Validate(); err != nil {
		return err
	}
	return c.Server.Validate()
}

// Level maps Verbosity to a log level.
func (c *Config) Level() zerolog.Level {
	switch {
	case c.Verbosity <= 0:
		return zerolog.ErrorLevel
	case c.Verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}
