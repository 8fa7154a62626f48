// Package config handles configuration loading for cninsight.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"  yaml:"source"`
	Store   StoreConfig   `mapstructure:"store"   yaml:"store"`
	API     APIConfig     `mapstructure:"api"     yaml:"api"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig holds upstream data-source settings.
type SourceConfig struct {
	BaseURL        string        `mapstructure:"base_url"         yaml:"base_url"`
	ProfileBaseURL string        `mapstructure:"profile_base_url" yaml:"profile_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"          yaml:"timeout"`
	RateLimit      int           `mapstructure:"rate_limit"       yaml:"rate_limit"` // requests per window
	RateWindow     time.Duration `mapstructure:"rate_window"      yaml:"rate_window"`
	NameCacheTTL   time.Duration `mapstructure:"name_cache_ttl"   yaml:"name_cache_ttl"`
	UserAgent      string        `mapstructure:"user_agent"       yaml:"user_agent"`
}

// StoreConfig holds statement database settings.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// Addr returns the host:port listen address.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"` // console-friendly output
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.cninsight/config.yaml (home directory)
//  3. /etc/cninsight/config.yaml (system)
//
// Environment variables override config file values.
// Format: CNINSIGHT_<SECTION>_<KEY>, e.g., CNINSIGHT_STORE_PATH
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".cninsight"))
	v.AddConfigPath("/etc/cninsight")

	v.SetEnvPrefix("CNINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("CNINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.base_url", "http://money.finance.sina.com.cn")
	v.SetDefault("source.profile_base_url", "https://vip.stock.finance.sina.com.cn")
	v.SetDefault("source.timeout", "30s")
	v.SetDefault("source.rate_limit", 5)
	v.SetDefault("source.rate_window", "1s")
	v.SetDefault("source.name_cache_ttl", "24h")
	v.SetDefault("source.user_agent", "")

	// Store defaults
	v.SetDefault("store.path", filepath.Join(homeDir(), ".cninsight", "statements.db"))

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.pretty", false)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
