package config

// OutputConfig holds settings related to output formatting.
type OutputConfig struct {
	// JSONFormat enables JSON output instead of PGN
	JSONFormat bool `json:"json"`

	// JSONLines writes one chapter object per line; it implies JSON
	JSONLines bool `json:"jsonLines"`

	// Filename is the output file; empty means standard output
	Filename string `json:"file"`

	// ParquetFile additionally writes one row per puzzle when set
	ParquetFile string `json:"parquet"`

	// Offset numbers chapters from 2 for a study that already has one
	Offset bool `json:"offset"`
}

// NewOutputConfig creates an OutputConfig with default values.
func NewOutputConfig() *OutputConfig {
	return &OutputConfig{}
}
