package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/musictrends-cli/internal/charts"
	cfgpkg "github.com/KaramelBytes/musictrends-cli/internal/config"
	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
	"github.com/KaramelBytes/musictrends-cli/internal/logging"
)

var (
	cfgFile string
	debug   bool
	// Source/HTTP flags (override config if set)
	flagTracks         string
	flagArtists        string
	flagHTTPTimeoutSec int
	flagSeed           int64

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "musictrends",
	Short: "Explore how the audio features of popular music changed over time",
	Long: `musictrends loads a track table (and optionally an artist table) from a file or URL,
falls back to deterministic synthetic tracks when loading fails, and computes
chart payloads: yearly trends, anomalies, decade stories, popularity correlations,
genre deep dives, hit blueprints, feature-space scatters, a what-if score simulator
and year-over-year insights.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.musictrends/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagTracks, "tracks", "", "tracks table: CSV/TSV path or http(s) URL (overrides config)")
	pf.StringVar(&flagArtists, "artists", "", "artists table: CSV/TSV path or http(s) URL; empty to skip (overrides config)")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.Int64Var(&flagSeed, "seed", 0, "seed for the synthetic fallback; 0 is a valid seed (overrides config)")
	addOutputFlags(pf)
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("tracks") {
		cfg.TracksPath = flagTracks
	}
	if f.Changed("artists") {
		cfg.ArtistsPath = flagArtists
	}
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("seed") {
		cfg.SyntheticSeed = flagSeed
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(logging.Options{Level: level, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v; using text logs\n", err)
		l, _ = logging.New(logging.Options{Level: level})
	}
	logger = l
}

// loadStore fetches the configured tables, or synthetic tracks when that fails.
func loadStore(ctx context.Context) *dataset.Store {
	loader := dataset.NewLoader(cfg.HTTPTimeout(), logger)
	loader.Fallback = dataset.GeneratorOptions{Count: cfg.FallbackCount, Seed: cfg.SyntheticSeed}
	st := loader.Load(ctx, dataset.Sources{Tracks: cfg.TracksPath, Artists: cfg.ArtistsPath})
	if st.Synthetic {
		fmt.Fprintf(os.Stderr, "⚠ Warning: using %d synthetic tracks (%v)\n", st.Len(), st.FallbackCause)
	}
	return st
}

// baseParams returns the default chart parameters adjusted by config.
func baseParams() charts.Params {
	p := charts.DefaultParams()
	if cfg == nil {
		return p
	}
	if cfg.DefaultSensitivity > 0 {
		p.Sensitivity = charts.SnapSensitivity(cfg.DefaultSensitivity)
	}
	if cfg.AnomalyCap > 0 {
		p.AnomalyCap = cfg.AnomalyCap
	}
	if cfg.SampleCeiling > 0 {
		p.SampleCeiling = cfg.SampleCeiling
	}
	if cfg.HitFraction > 0 && cfg.HitFraction <= 1 {
		p.HitFraction = cfg.HitFraction
	}
	return p
}
