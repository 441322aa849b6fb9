package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ALGOHOST_SERVER_ADDR.
const EnvPrefix = "ALGOHOST"

// Config is the process configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Manifest  ManifestConfig  `mapstructure:"manifest"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// RateLimit uses the limiter format "<limit>-<period>", e.g. "100-M".
	// Empty disables rate limiting.
	RateLimit   string   `mapstructure:"rate_limit"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ManifestConfig struct {
	Path string `mapstructure:"path"`
}

type TelemetryConfig struct {
	Tracing bool `mapstructure:"tracing"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit", "")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("manifest.path", "manifest.yaml")
	v.SetDefault("telemetry.tracing", false)
}

// Load reads configuration from file (explicit path, or algohost.yaml in
// the working directory or /etc/algohost), then environment variables.
// A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("algohost")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/algohost")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("configuration validation failed: server.addr is empty")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("configuration validation failed: server.shutdown_timeout is negative")
	}
	if c.Manifest.Path == "" {
		return fmt.Errorf("configuration validation failed: manifest.path is empty")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("configuration validation failed: unknown log.format %q", c.Log.Format)
	}
	return nil
}
