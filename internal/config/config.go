package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config holds the mentordex service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Directory   DirectoryConfig   `yaml:"directory"`
	SearchIndex SearchIndexConfig `yaml:"search_index"`
	Search      SearchConfig      `yaml:"search"`
	Analytics   AnalyticsConfig   `yaml:"analytics"`
	Indexer     IndexerConfig     `yaml:"indexer"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DirectoryConfig holds the primary SQLite directory settings.
type DirectoryConfig struct {
	DSN string `yaml:"dsn"` // file path or "file::memory:?cache=shared"
}

// Search index drivers.
const (
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverNone   = "none"
)

// SearchIndexConfig holds the advanced full-text index settings.
type SearchIndexConfig struct {
	Driver           string   `yaml:"driver"` // redis, valkey, none (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	ProbeTimeoutMs   int      `yaml:"probe_timeout_ms"`
	ProbeCacheTTLSec int      `yaml:"probe_cache_ttl_sec"` // 0 = probe on every search
}

// Enabled reports whether an advanced index is configured.
func (c *SearchIndexConfig) Enabled() bool { return c.Driver != DriverNone }

// SearchConfig holds pagination settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// AnalyticsConfig holds analytics snapshot settings.
type AnalyticsConfig struct {
	CacheTTLSec *int `yaml:"cache_ttl_sec"` // nil = 60, 0 = no caching
}

// IndexerConfig holds reindex settings.
type IndexerConfig struct {
	Schedule  *string `yaml:"schedule"` // nil = "@every 10m", "" = disabled
	BatchSize int     `yaml:"batch_size"`
	Workers   int     `yaml:"workers"`
}

// maxProbeCacheTTLSec bounds how stale a cached probe result may get.
const maxProbeCacheTTLSec = 60

// Load reads configuration from a YAML file by environment name (local, dev, docker, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Directory.DSN == "" {
		c.Directory.DSN = "mentordex.db"
	}
	if c.SearchIndex.Driver == "" {
		c.SearchIndex.Driver = DriverRedis
	}
	if c.SearchIndex.KeyPrefix == "" {
		c.SearchIndex.KeyPrefix = "mentordex:"
	}
	if c.SearchIndex.ReadinessTimeout <= 0 {
		c.SearchIndex.ReadinessTimeout = 10
	}
	if c.SearchIndex.ProbeTimeoutMs <= 0 {
		c.SearchIndex.ProbeTimeoutMs = 500
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 10
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Analytics.CacheTTLSec == nil {
		ttl := 60
		c.Analytics.CacheTTLSec = &ttl
	}
	if c.Indexer.Schedule == nil {
		schedule := "@every 10m"
		c.Indexer.Schedule = &schedule
	}
	if c.Indexer.BatchSize <= 0 {
		c.Indexer.BatchSize = 100
	}
	if c.Indexer.Workers <= 0 {
		c.Indexer.Workers = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.SearchIndex.Driver {
	case DriverRedis, DriverValkey:
		if len(c.SearchIndex.Addrs) == 0 {
			return fmt.Errorf("search_index.addrs is required for driver %q", c.SearchIndex.Driver)
		}
	case DriverNone:
	default:
		return fmt.Errorf("search_index.driver must be redis, valkey or none, got %q", c.SearchIndex.Driver)
	}
	if c.SearchIndex.ProbeCacheTTLSec < 0 || c.SearchIndex.ProbeCacheTTLSec > maxProbeCacheTTLSec {
		return fmt.Errorf("search_index.probe_cache_ttl_sec must be between 0 and %d, got %d",
			maxProbeCacheTTLSec, c.SearchIndex.ProbeCacheTTLSec)
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Analytics.CacheTTLSec != nil && *c.Analytics.CacheTTLSec < 0 {
		return fmt.Errorf("analytics.cache_ttl_sec must not be negative")
	}
	if c.Indexer.Schedule != nil && *c.Indexer.Schedule != "" {
		if _, err := cron.ParseStandard(*c.Indexer.Schedule); err != nil {
			return fmt.Errorf("indexer.schedule: %w", err)
		}
	}
	return nil
}

// ProbeTimeout returns the capability probe timeout.
func (c *SearchIndexConfig) ProbeTimeout() time.Duration {
	return time.Duration(c.ProbeTimeoutMs) * time.Millisecond
}

// ProbeCacheTTL returns how long a probe result is reused.
func (c *SearchIndexConfig) ProbeCacheTTL() time.Duration {
	return time.Duration(c.ProbeCacheTTLSec) * time.Second
}

// CacheTTL returns the analytics snapshot cache TTL.
func (c *AnalyticsConfig) CacheTTL() time.Duration {
	if c.CacheTTLSec == nil {
		return 0
	}
	return time.Duration(*c.CacheTTLSec) * time.Second
}

// ScheduleSpec returns the reindex cron spec; empty disables scheduling.
func (c *IndexerConfig) ScheduleSpec() string {
	if c.Schedule == nil {
		return ""
	}
	return *c.Schedule
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
