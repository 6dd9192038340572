package config

import (
	"fmt"
	"time"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr             string `json:"addr"`
	BodyLimit        int    `json:"bodyLimit"` // bytes
	ReadTimeoutSecs  int    `json:"readTimeoutSecs"`
	WriteTimeoutSecs int    `json:"writeTimeoutSecs"`

	// MemoryCache keeps built chapters in memory between requests when
	// no cache directory is configured.
	MemoryCache bool `json:"memoryCache"`
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:             ":8080",
		BodyLimit:        1 << 20,
		ReadTimeoutSecs:  10,
		WriteTimeoutSecs: 30,
	}
}

// ReadTimeout returns the request read timeout.
func (s *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the response write timeout.
func (s *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSecs) * time.Second
}

// Validate checks that the server configuration is valid.
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("empty listen address: %w", errors.ErrInvalidConfig)
	}
	if s.BodyLimit <= 0 {
		return fmt.Errorf("body limit %d must be positive: %w", s.BodyLimit, errors.ErrInvalidConfig)
	}
	if s.ReadTimeoutSecs < 0 || s.WriteTimeoutSecs < 0 {
		return fmt.Errorf("timeouts must not be negative: %w", errors.ErrInvalidConfig)
	}
	return nil
}
