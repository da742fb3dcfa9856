// Package config loads service configuration from defaults, an optional
// config file and VALIDATIONSIM_* environment variables, in increasing
// precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the service binary needs to start.
type Config struct {
	ListenAddr       string   `mapstructure:"listen_addr"`
	CORSAllowOrigins []string `mapstructure:"cors_allow_origins"`
	PersonaFile      string   `mapstructure:"persona_file"`

	// Provider selects the model backend: "openai" or "anthropic".
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`

	// Scheme selects the status vocabulary: "todo" or "hypothesis".
	Scheme string `mapstructure:"scheme"`

	MaxConcurrentRuns int `mapstructure:"max_concurrent_runs"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration. path optionally names a config file; a missing
// file is only an error when explicitly requested.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("provider", "openai")
	v.SetDefault("scheme", "todo")
	v.SetDefault("max_concurrent_runs", 0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvPrefix("VALIDATIONSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	switch c.Scheme {
	case "todo", "hypothesis":
	default:
		return fmt.Errorf("unknown scheme %q", c.Scheme)
	}
	if c.MaxConcurrentRuns < 0 {
		return fmt.Errorf("max_concurrent_runs must not be negative")
	}
	return nil
}
