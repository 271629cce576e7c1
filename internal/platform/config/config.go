// Package config builds the service configuration from environment
// variables, optionally overlaid on a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Log      Log      `yaml:"log"`
	Upstream Upstream `yaml:"upstream"`
	Dataset  Dataset  `yaml:"dataset"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr"`
	// CORSOrigins lists origins allowed to call the API from a browser.
	// Empty disables CORS handling.
	CORSOrigins []string `yaml:"cors_origins"`
}

// Log selects the slog handler.
type Log struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Upstream configures the REST Countries client.
type Upstream struct {
	BaseURL        string        `yaml:"base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
}

// Dataset points at an optional fixed country list in YAML. When set, the
// in-memory strategy searches it instead of the upstream /all listing.
type Dataset struct {
	Path string `yaml:"path"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Server: Server{Addr: ":8080", CORSOrigins: []string{"*"}},
		Log:    Log{Level: "info", Format: "json"},
		Upstream: Upstream{
			BaseURL:        "https://restcountries.com/v3.1",
			Timeout:        5 * time.Second,
			MaxConcurrency: 4,
		},
	}
}

// Load reads a YAML file over the defaults, expanding environment variables
// in it first.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config so main stays lean. COUNTRYSEARCH_CONFIG names an
// optional YAML file; individual environment variables override it.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("COUNTRYSEARCH_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	cfg.Server.Addr = getEnv("COUNTRYSEARCH_ADDR", cfg.Server.Addr)
	cfg.Log.Level = getEnv("COUNTRYSEARCH_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("COUNTRYSEARCH_LOG_FORMAT", cfg.Log.Format)
	cfg.Upstream.BaseURL = getEnv("RESTCOUNTRIES_BASE_URL", cfg.Upstream.BaseURL)
	cfg.Dataset.Path = getEnv("COUNTRYSEARCH_DATASET", cfg.Dataset.Path)
	cfg.Server.CORSOrigins = getEnvList("COUNTRYSEARCH_CORS_ORIGINS", cfg.Server.CORSOrigins)

	var err error
	if cfg.Upstream.Timeout, err = getEnvDuration("RESTCOUNTRIES_TIMEOUT", cfg.Upstream.Timeout); err != nil {
		return Config{}, err
	}
	if cfg.Upstream.MaxConcurrency, err = getEnvInt("RESTCOUNTRIES_MAX_CONCURRENCY", cfg.Upstream.MaxConcurrency); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Upstream.MaxConcurrency < 1 {
		return fmt.Errorf("upstream max concurrency must be at least 1, got %d", c.Upstream.MaxConcurrency)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
