// Package config loads reelsync settings from a YAML file, applies
// REELSYNC_* environment overrides, and validates the result against an
// embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// EnvPrefix prefixes every environment override.
const EnvPrefix = "REELSYNC_"

// Config is the complete runtime configuration.
type Config struct {
	Database string `yaml:"database"`
	API      API    `yaml:"api"`
	Sync     Sync   `yaml:"sync"`
	Log      Log    `yaml:"log"`
}

// API configures the catalog gateway.
type API struct {
	BaseURL     string        `yaml:"base_url"`
	ClientID    string        `yaml:"client_id"`
	AccessToken string        `yaml:"access_token"`
	RateLimit   float64       `yaml:"rate_limit"`
	Burst       int           `yaml:"burst"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Sync configures the scheduler and paging.
type Sync struct {
	Username  string        `yaml:"username"`
	Interval  time.Duration `yaml:"interval"`
	PageLimit int           `yaml:"page_limit"`
	MaxPages  int           `yaml:"max_pages"`
}

// Log configures logging. An empty File logs to stderr only.
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Database: filepath.Join(dataDir(), "reelsync.db"),
		API: API{
			BaseURL:   "https://api.trakt.tv",
			RateLimit: 3,
			Burst:     5,
			Timeout:   30 * time.Second,
		},
		Sync: Sync{
			Interval:  15 * time.Minute,
			PageLimit: 100,
			MaxPages:  100,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "reelsync")
	}
	return "."
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(dataDir(), "config.yaml")
}

// ValidationError reports a configuration that parsed but breaks the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a schema violation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Load reads path, applies environment overrides and validates. An empty
// path means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode rejects unknown keys so typos fail loudly.
func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("DATABASE", &cfg.Database)
	str("API_URL", &cfg.API.BaseURL)
	str("CLIENT_ID", &cfg.API.ClientID)
	str("ACCESS_TOKEN", &cfg.API.AccessToken)
	str("USERNAME", &cfg.Sync.Username)
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FILE", &cfg.Log.File)

	if v, ok := lookup(EnvPrefix + "SYNC_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %sSYNC_INTERVAL: %w", EnvPrefix, err)
		}
		cfg.Sync.Interval = d
	}
	if v, ok := lookup(EnvPrefix + "PAGE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %sPAGE_LIMIT: %w", EnvPrefix, err)
		}
		cfg.Sync.PageLimit = n
	}
	return nil
}

// Validate checks c against the embedded schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.Unify(ctx.Encode(c.view()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// view is the schema-facing shape of c: durations in seconds, no secrets.
func (c Config) view() map[string]any {
	return map[string]any{
		"database": c.Database,
		"api": map[string]any{
			"base_url":        c.API.BaseURL,
			"client_id":       c.API.ClientID,
			"rate_limit":      c.API.RateLimit,
			"burst":           c.API.Burst,
			"timeout_seconds": c.API.Timeout.Seconds(),
		},
		"sync": map[string]any{
			"username":         c.Sync.Username,
			"interval_seconds": c.Sync.Interval.Seconds(),
			"page_limit":       c.Sync.PageLimit,
			"max_pages":        c.Sync.MaxPages,
		},
		"log": map[string]any{
			"level":       c.Log.Level,
			"file":        c.Log.File,
			"max_size_mb": c.Log.MaxSizeMB,
			"max_backups": c.Log.MaxBackups,
		},
	}
}
