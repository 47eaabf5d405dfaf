// Package config loads runtime settings.  Sources are applied in order, each
// overriding the previous: built-in defaults, a YAML file, a .env file, the
// process environment.  Command-line flags are applied by the caller last.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/hyperpolymath/betlang/core"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "BETLANG_"

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Seed fixes the random generator.  Nil means seed from entropy.
	Seed *uint64 `yaml:"seed,omitempty"`

	// Workers is the number of sampling goroutines.  Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`

	// MaxConcurrency bounds the goroutines of one parallel block.  Zero
	// means GOMAXPROCS.
	MaxConcurrency int `yaml:"max_concurrency"`

	LogLevel string `yaml:"log_level"`
	Samples  int    `yaml:"samples"`
	Bins     int    `yaml:"bins"`

	// RateLimit caps sampling batches per second; zero disables the limit.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Samples:   10000,
		Bins:      20,
		RateBurst: 1,
	}
}

// Load builds a Config from defaults, the YAML file at path and the dotenv
// file at envFile, then the process environment.  Either path may be empty;
// a missing envFile is not an error.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}
	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			core.Debug("no dotenv file at %s", envFile)
		case err != nil:
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		default:
			core.Info("read %d settings from %s", len(m), envFile)
			dotenv = m
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to parse %s: %w: %w", path, err, ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides fields from BETLANG_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"WORKERS":         &c.Workers,
		"MAX_CONCURRENCY": &c.MaxConcurrency,
		"SAMPLES":         &c.Samples,
		"BINS":            &c.Bins,
		"RATE_BURST":      &c.RateBurst,
	}
	for name, field := range ints {
		if s, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, s, ErrInvalidConfig)
			}
			*field = n
		}
	}
	if s, ok := lookup(EnvPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED=%q: %w", EnvPrefix, s, ErrInvalidConfig)
		}
		c.Seed = &seed
	}
	if s, ok := lookup(EnvPrefix + "RATE_LIMIT"); ok {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%sRATE_LIMIT=%q: %w", EnvPrefix, s, ErrInvalidConfig)
		}
		c.RateLimit = r
	}
	if s, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = s
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	case c.MaxConcurrency < 0:
		return fmt.Errorf("max_concurrency %d: %w", c.MaxConcurrency, ErrInvalidConfig)
	case c.Samples <= 0:
		return fmt.Errorf("samples %d: %w", c.Samples, ErrInvalidConfig)
	case c.Bins <= 0:
		return fmt.Errorf("bins %d: %w", c.Bins, ErrInvalidConfig)
	case c.RateLimit < 0:
		return fmt.Errorf("rate_limit %v: %w", c.RateLimit, ErrInvalidConfig)
	case c.RateLimit > 0 && c.RateBurst <= 0:
		return fmt.Errorf("rate_burst %d: %w", c.RateBurst, ErrInvalidConfig)
	}
	if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", err, ErrInvalidConfig)
	}
	return nil
}

// Level is the parsed LogLevel.  Validate has already rejected bad names.
func (c *Config) Level() core.LogLevel {
	lvl, _ := core.ParseLogLevel(c.LogLevel)
	return lvl
}

// RNG returns a generator for the configured seed.
func (c *Config) RNG() *core.RNG {
	if c.Seed == nil {
		return core.NewRandomRNG()
	}
	return core.NewRNG(*c.Seed)
}
