package cli

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/pipeline"
	"github.com/matzehuels/tapegraph/pkg/tm"
)

const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
)

// Config holds defaults read from config.toml.
type Config struct {
	Blank    string `toml:"blank"`
	MaxSteps int    `toml:"max_steps"`
	Strategy string `toml:"strategy"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	TTL           time.Duration `toml:"ttl"`
	Scope         string        `toml:"scope"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	RedisPrefix   string        `toml:"redis_prefix"`
}

// ServerConfig configures "tapegraph serve".
type ServerConfig struct {
	Addr    string `toml:"addr"`
	Metrics bool   `toml:"metrics"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Blank:    string(tm.DefaultBlank),
		MaxSteps: pipeline.DefaultMaxSteps,
		Strategy: pebble.StrategyTime,
		Cache: CacheConfig{
			Backend:     backendFile,
			TTL:         pipeline.DefaultTTL,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "tapegraph:",
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Metrics: true,
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error
// unless required is set. Unknown keys are rejected.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Blank) != 1 {
		return fmt.Errorf("blank must be a single symbol, got %q", c.Blank)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max_steps must not be negative")
	}
	if c.MaxSteps > pipeline.MaxStepsLimit {
		return fmt.Errorf("max_steps %d exceeds limit %d", c.MaxSteps, pipeline.MaxStepsLimit)
	}
	if err := pipeline.ValidateStrategy(c.Strategy); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case backendFile, backendRedis, backendNone:
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// BlankSymbol returns the configured blank.
func (c *Config) BlankSymbol() tm.Symbol {
	r, _ := utf8.DecodeRuneInString(c.Blank)
	return r
}
