// puzzle-study-server serves the notation codec and chapter builder over
// HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lgbarn/puzzle-study-go/internal/config"
	"github.com/lgbarn/puzzle-study-go/internal/server"
	"github.com/lgbarn/puzzle-study-go/internal/store"
)

var (
	configFile = flag.String("config", "", "JSON configuration file")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
	verbosity  = flag.Int("v", -1, "Verbosity: 0=errors, 1=requests, 2=debug (overrides config)")
	cacheDir   = flag.String("cache", "", "Chapter cache directory (overrides config)")
	memCache   = flag.Bool("memory-cache", false, "Cache chapters in memory when no cache directory is set")
)

func main() {
	flag.Parse()

	cfg := config.NewConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(2)
		}
	}
	b := config.BuilderFor(cfg)
	if *addr != "" {
		b.WithAddr(*addr)
	}
	if *verbosity >= 0 {
		b.WithVerbosity(*verbosity)
	}
	if *cacheDir != "" {
		b.WithCacheDir(*cacheDir)
	}
	if *memCache {
		cfg.Server.MemoryCache = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log := zerolog.New(os.Stderr).Level(cfg.Level()).With().Timestamp().Logger()

	cache, err := openCache(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("opening chapter cache")
	}
	if cache != nil {
		defer cache.Close()
	}
	srv := server.New(cfg, cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen() }()

	select {
	case err := <-errc:
		log.Error().Err(err).Msg("server stopped")
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := srv.Shutdown(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}
}

// openCache opens the configured chapter cache. It returns nil when
// caching is off.
func openCache(cfg *config.Config) (*store.Store, error) {
	switch {
	case cfg.CacheDir != "":
		return store.Open(cfg.CacheDir)
	case cfg.Server.MemoryCache:
		return store.OpenInMemory()
	default:
		return nil, nil
	}
}
