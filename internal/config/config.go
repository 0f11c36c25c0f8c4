package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/musictrends-cli/internal/dataset"
)

// Default dataset locations: the public Spotify 1921-2020 tables.
const (
	DefaultTracksPath  = "https://raw.githubusercontent.com/yamaerenay/spotify-dataset-19212020-600k-tracks/master/tracks.csv"
	DefaultArtistsPath = "https://raw.githubusercontent.com/yamaerenay/spotify-dataset-19212020-600k-tracks/master/artists.csv"
)

// DirName is the per-user config directory under $HOME.
const DirName = ".musictrends"

// Global configuration structure.
type Global struct {
	// Data sources (local path or http(s) URL)
	TracksPath  string `mapstructure:"tracks_path" yaml:"tracks_path"`
	ArtistsPath string `mapstructure:"artists_path" yaml:"artists_path"`

	HTTPTimeoutSec int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Synthetic fallback
	FallbackCount int   `mapstructure:"fallback_count" yaml:"fallback_count"`
	SyntheticSeed int64 `mapstructure:"synthetic_seed" yaml:"synthetic_seed"`

	// Analysis limits
	AnomalyCap         int     `mapstructure:"anomaly_cap" yaml:"anomaly_cap"`
	SampleCeiling      int     `mapstructure:"sample_ceiling" yaml:"sample_ceiling"`
	HitFraction        float64 `mapstructure:"hit_fraction" yaml:"hit_fraction"`
	DefaultSensitivity float64 `mapstructure:"default_sensitivity" yaml:"default_sensitivity"`

	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
}

// Keys lists every configuration key in file order.
var Keys = []string{
	"tracks_path", "artists_path", "http_timeout_sec",
	"fallback_count", "synthetic_seed",
	"anomaly_cap", "sample_ceiling", "hit_fraction", "default_sensitivity",
	"log_level", "log_format", "output_format",
}

// Get returns the value of key formatted for display.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "tracks_path":
		return c.TracksPath, nil
	case "artists_path":
		return c.ArtistsPath, nil
	case "http_timeout_sec":
		return cast.ToString(c.HTTPTimeoutSec), nil
	case "fallback_count":
		return cast.ToString(c.FallbackCount), nil
	case "synthetic_seed":
		return cast.ToString(c.SyntheticSeed), nil
	case "anomaly_cap":
		return cast.ToString(c.AnomalyCap), nil
	case "sample_ceiling":
		return cast.ToString(c.SampleCeiling), nil
	case "hit_fraction":
		return cast.ToString(c.HitFraction), nil
	case "default_sensitivity":
		return cast.ToString(c.DefaultSensitivity), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	case "output_format":
		return c.OutputFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set parses val and stores it under key.
func (c *Global) Set(key, val string) error {
	val = strings.TrimSpace(val)
	switch key {
	case "tracks_path":
		c.TracksPath = val
	case "artists_path":
		c.ArtistsPath = val
	case "http_timeout_sec":
		return setPositiveInt(&c.HTTPTimeoutSec, key, val)
	case "fallback_count":
		return setPositiveInt(&c.FallbackCount, key, val)
	case "synthetic_seed":
		i, err := cast.ToInt64E(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		c.SyntheticSeed = i
	case "anomaly_cap":
		return setPositiveInt(&c.AnomalyCap, key, val)
	case "sample_ceiling":
		return setPositiveInt(&c.SampleCeiling, key, val)
	case "hit_fraction":
		f, err := cast.ToFloat64E(val)
		if err != nil || f <= 0 || f > 1 {
			return fmt.Errorf("invalid float for hit_fraction: %v (use 0 < f <= 1)", val)
		}
		c.HitFraction = f
	case "default_sensitivity":
		f, err := cast.ToFloat64E(val)
		if err != nil || f < 1 || f > 3 {
			return fmt.Errorf("invalid float for default_sensitivity: %v (use 1.0 to 3.0)", val)
		}
		c.DefaultSensitivity = f
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "output_format":
		switch strings.ToLower(val) {
		case "table", "json":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use table or json)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func setPositiveInt(dst *int, key, val string) error {
	i, err := cast.ToIntE(val)
	if err != nil || i <= 0 {
		return fmt.Errorf("invalid int for %s: %v", key, val)
	}
	*dst = i
	return nil
}

// HTTPTimeout returns the remote fetch timeout.
func (c *Global) HTTPTimeout() time.Duration {
	if c.HTTPTimeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// Dir returns ~/.musictrends.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.musictrends/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is read first; it never overrides
// variables already set in the environment.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MUSICTRENDS")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(cfgFile != "" && errors.Is(err, fs.ErrNotExist)) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tracks_path", DefaultTracksPath)
	v.SetDefault("artists_path", DefaultArtistsPath)
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("fallback_count", 5000)
	v.SetDefault("synthetic_seed", dataset.DefaultSeed)
	v.SetDefault("anomaly_cap", 100)
	v.SetDefault("sample_ceiling", 10000)
	v.SetDefault("hit_fraction", 0.25)
	v.SetDefault("default_sensitivity", 2.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", "table")
}
