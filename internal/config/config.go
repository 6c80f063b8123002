package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the cinematch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	TMDB     TMDBConfig     `yaml:"tmdb"`
	Engine   EngineConfig   `yaml:"engine"`
	Static   StaticConfig   `yaml:"static"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds poster cache connection settings. Optional: with no
// addrs the service runs without a poster cache.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether a poster cache is configured.
func (d DatabaseConfig) Enabled() bool { return len(d.Addrs) > 0 }

// TMDBConfig holds TMDb API settings.
type TMDBConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	ImageBase  string `yaml:"image_base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// EngineConfig holds recommendation engine settings.
type EngineConfig struct {
	SnapshotPath string                 `yaml:"snapshot_path"`
	Vectorizer   string                 `yaml:"vectorizer"` // tfidf, remote (default: tfidf)
	FusionFields []string               `yaml:"fusion_fields"`
	MatchCutoff  float64                `yaml:"match_cutoff"`
	TopK         int                    `yaml:"top_k"`
	PosterTTLSec int                    `yaml:"poster_cache_ttl_sec"`
	Remote       RemoteVectorizerConfig `yaml:"remote"`
}

// RemoteVectorizerConfig holds remote embedding provider settings.
type RemoteVectorizerConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// StaticConfig holds frontend asset settings.
type StaticConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
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
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.ImageBase == "" {
		c.TMDB.ImageBase = "https://image.tmdb.org/t/p/w500"
	}
	if c.TMDB.TimeoutSec <= 0 {
		c.TMDB.TimeoutSec = 5
	}
	if c.Engine.Vectorizer == "" {
		c.Engine.Vectorizer = "tfidf"
	}
	if c.Engine.MatchCutoff <= 0 {
		c.Engine.MatchCutoff = 0.6
	}
	if c.Engine.TopK <= 0 {
		c.Engine.TopK = 10
	}
	if c.Engine.PosterTTLSec <= 0 {
		c.Engine.PosterTTLSec = 86400
	}
	if c.Static.Dir == "" {
		c.Static.Dir = "static"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Engine.SnapshotPath == "" {
		return fmt.Errorf("engine.snapshot_path is required")
	}
	switch c.Engine.Vectorizer {
	case "tfidf", "remote":
		// ok
	default:
		return fmt.Errorf("engine.vectorizer must be \"tfidf\" or \"remote\", got %q", c.Engine.Vectorizer)
	}
	if c.Engine.Vectorizer == "remote" && c.Engine.Remote.APIKey == "" {
		return fmt.Errorf("engine.remote.api_key is required for the remote vectorizer")
	}
	if c.Engine.MatchCutoff > 1 {
		return fmt.Errorf("engine.match_cutoff must be at most 1, got %v", c.Engine.MatchCutoff)
	}
	return nil
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
