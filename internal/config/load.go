package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lgbarn/puzzle-study-go/internal/errors"
)

// LoadFile reads a JSON configuration file over the defaults. Fields the
// file omits keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse decodes JSON configuration over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %v: %w", err, errors.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
