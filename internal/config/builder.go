package config

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return BuilderFor(NewConfig())
}

// BuilderFor returns a builder that modifies cfg in place, for layering
// command-line overrides over a loaded file.
func BuilderFor(cfg *Config) *ConfigBuilder {
	return &ConfigBuilder{cfg: cfg}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithJSONOutput enables JSON output.
func (b *ConfigBuilder) WithJSONOutput(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithJSONLines writes one JSON chapter per line instead of a batch.
func (b *ConfigBuilder) WithJSONLines(enabled bool) *ConfigBuilder {
	b.cfg.Output.JSONLines = enabled
	return b
}

// WithOutputFile sets the output filename.
func (b *ConfigBuilder) WithOutputFile(name string) *ConfigBuilder {
	b.cfg.Output.Filename = name
	return b
}

// WithParquet sets the Parquet export path.
func (b *ConfigBuilder) WithParquet(path string) *ConfigBuilder {
	b.cfg.Output.ParquetFile = path
	return b
}

// WithOffset numbers chapters from 2.
func (b *ConfigBuilder) WithOffset(enabled bool) *ConfigBuilder {
	b.cfg.Output.Offset = enabled
	return b
}

// WithIncorrect keeps the first n failed attempts.
func (b *ConfigBuilder) WithIncorrect(n int) *ConfigBuilder {
	b.cfg.Selection.Incorrect = n
	return b
}

// WithMinRating sets the lower rating bound.
func (b *ConfigBuilder) WithMinRating(rating int) *ConfigBuilder {
	b.cfg.Selection.MinRating = rating
	return b
}

// WithMaxRating sets the upper rating bound.
func (b *ConfigBuilder) WithMaxRating(rating int) *ConfigBuilder {
	b.cfg.Selection.MaxRating = rating
	return b
}

// WithThemes restricts puzzles to those carrying one of themes.
func (b *ConfigBuilder) WithThemes(themes ...string) *ConfigBuilder {
	b.cfg.Selection.Themes = themes
	return b
}

// WithIDs restricts puzzles to those with one of ids.
func (b *ConfigBuilder) WithIDs(ids ...string) *ConfigBuilder {
	b.cfg.Selection.IDs = ids
	return b
}

// WithDirect reads single puzzle bodies instead of activity.
func (b *ConfigBuilder) WithDirect(enabled bool) *ConfigBuilder {
	b.cfg.Direct = enabled
	return b
}

// WithDuplicateSuppression controls whether repeated puzzles are dropped.
func (b *ConfigBuilder) WithDuplicateSuppression(enabled bool) *ConfigBuilder {
	b.cfg.Duplicate.Suppress = enabled
	return b
}

// WithWorkers sets the number of conversion workers.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Workers = n
	return b
}

// WithCacheDir enables the chapter cache.
func (b *ConfigBuilder) WithCacheDir(dir string) *ConfigBuilder {
	b.cfg.CacheDir = dir
	return b
}

// WithAddr sets the server listen address.
func (b *ConfigBuilder) WithAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithVerbosity sets the verbosity level.
func (b *ConfigBuilder) WithVerbosity(level int) *ConfigBuilder {
	b.cfg.Verbosity = level
	return b
}
