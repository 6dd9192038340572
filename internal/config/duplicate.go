package config

// DuplicateConfig holds settings for repeated puzzles. The activity
// stream lists a puzzle once per attempt.
type DuplicateConfig struct {
	// Suppress keeps only the first occurrence of each puzzle ID
	Suppress bool `json:"suppress"`
}

// NewDuplicateConfig creates a DuplicateConfig with default values.
func NewDuplicateConfig() *DuplicateConfig {
	return &DuplicateConfig{Suppress: true}
}
