// Package config loads runtime settings from .ls-astrodb.yaml, ASTRODB_* env
// vars and CLI flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/litescript/ls-astrodb/internal/astrodb"
	"github.com/litescript/ls-astrodb/internal/loader"
	"github.com/litescript/ls-astrodb/internal/logging"
	"github.com/litescript/ls-astrodb/internal/octree"
	"github.com/litescript/ls-astrodb/internal/watch"
)

// EnvPrefix prefixes every environment override, e.g. ASTRODB_DATA_DIR or
// ASTRODB_STAR_OCTREE_CAPACITY.
const EnvPrefix = "ASTRODB"

// OctreeConfig sizes one spatial index.
type OctreeConfig struct {
	Capacity int     `mapstructure:"capacity"`
	MaxDepth int     `mapstructure:"max_depth"`
	HalfSize float64 `mapstructure:"half_size"`
}

// WatchConfig controls reloading on data file changes.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config holds all runtime configuration.
type Config struct {
	DataDir         string       `mapstructure:"data_dir"`
	LogLevel        string       `mapstructure:"log_level"`
	Seed            bool         `mapstructure:"seed"`
	StarOctree      OctreeConfig `mapstructure:"star_octree"`
	DSOOctree       OctreeConfig `mapstructure:"dso_octree"`
	CompletionLimit int          `mapstructure:"completion_limit"`
	Watch           WatchConfig  `mapstructure:"watch"`
}

// Init points viper at cfgFile, or at .ls-astrodb.yaml in the working or home
// directory, and enables env overrides. A missing default file is not an
// error.
func Init(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".ls-astrodb")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// flagKeys maps persistent flag names to their config keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"log-level": "log_level",
	"seed":      "seed",
}

// BindFlags binds the flags of fs that override config keys. Flags not
// defined in fs are ignored.
func BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("data_dir", "")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("seed", true)
	viper.SetDefault("star_octree.capacity", octree.DefaultCapacity)
	viper.SetDefault("star_octree.max_depth", octree.DefaultMaxDepth)
	viper.SetDefault("star_octree.half_size", octree.DefaultHalfSize)
	viper.SetDefault("dso_octree.capacity", octree.DefaultCapacity)
	viper.SetDefault("dso_octree.max_depth", octree.DefaultMaxDepth)
	viper.SetDefault("dso_octree.half_size", astrodb.DefaultDSOHalfSize)
	viper.SetDefault("completion_limit", 20)
	viper.SetDefault("watch.debounce", 250*time.Millisecond)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the database cannot be built with.
func (c Config) Validate() error {
	var errs []error
	trees := []struct {
		name string
		o    OctreeConfig
	}{{"star_octree", c.StarOctree}, {"dso_octree", c.DSOOctree}}
	for _, t := range trees {
		name, o := t.name, t.o
		if o.Capacity < 1 {
			errs = append(errs, fmt.Errorf("%s.capacity must be positive, got %d", name, o.Capacity))
		}
		if o.MaxDepth < 0 {
			errs = append(errs, fmt.Errorf("%s.max_depth must not be negative, got %d", name, o.MaxDepth))
		}
		if !(o.HalfSize > 0) {
			errs = append(errs, fmt.Errorf("%s.half_size must be positive, got %v", name, o.HalfSize))
		}
	}
	if c.CompletionLimit < 0 {
		errs = append(errs, fmt.Errorf("completion_limit must not be negative, got %d", c.CompletionLimit))
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	} else if c.Watch.Debounce > 0 && c.Watch.Debounce < watch.MinDebounce {
		errs = append(errs, fmt.Errorf("watch.debounce must be 0 or at least %s, got %s", watch.MinDebounce, c.Watch.Debounce))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level.
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (o OctreeConfig) tree() octree.Config {
	return octree.Config{
		HalfSize: o.HalfSize,
		Capacity: o.Capacity,
		MaxDepth: o.MaxDepth,
	}
}

// DB returns the database configuration.
func (c Config) DB(log *logging.Logger) astrodb.Config {
	return astrodb.Config{
		StarOctree: c.StarOctree.tree(),
		DSOOctree:  c.DSOOctree.tree(),
		Logger:     log,
	}
}

// LoaderOptions returns the options for loader.Build.
func (c Config) LoaderOptions(log *logging.Logger) loader.Options {
	if log == nil {
		log = logging.Discard()
	}
	return loader.Options{
		DB:     c.DB(log.Named("astrodb")),
		Dir:    c.DataDir,
		Seed:   c.Seed,
		Logger: log.Named("loader"),
	}
}
