package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// HTTP service
	ListenAddr      string   `mapstructure:"listen_addr" yaml:"listen_addr"`
	AllowedOrigins  []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxUploadMB     int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	RateLimitPerMin int      `mapstructure:"rate_limit_per_min" yaml:"rate_limit_per_min"`
	ReadTimeoutSec  int      `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`

	// Honor X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool `mapstructure:"trust_proxy_headers" yaml:"trust_proxy_headers"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	LogFile   string `mapstructure:"log_file" yaml:"log_file"`

	// CLI output
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		ListenAddr:      ":8000",
		AllowedOrigins:  []string{"*"},
		MaxUploadMB:     25,
		RateLimitPerMin: 120,
		ReadTimeoutSec:  15,
		WriteTimeoutSec: 30,
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultFormat:   "json",
	}
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Global) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Validate rejects values the service cannot run with.
func (c *Global) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.RateLimitPerMin < 0 {
		return fmt.Errorf("rate_limit_per_min must not be negative, got %d", c.RateLimitPerMin)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (use text or json)", c.LogFormat)
	}
	switch c.DefaultFormat {
	case "json", "yaml", "markdown":
	default:
		return fmt.Errorf("invalid default_format: %s (use json, yaml or markdown)", c.DefaultFormat)
	}
	return nil
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tablelens"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tablelens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLELENS")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("max_upload_mb", d.MaxUploadMB)
	v.SetDefault("rate_limit_per_min", d.RateLimitPerMin)
	v.SetDefault("read_timeout_sec", d.ReadTimeoutSec)
	v.SetDefault("write_timeout_sec", d.WriteTimeoutSec)
	v.SetDefault("trust_proxy_headers", d.TrustProxyHeaders)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	v.SetDefault("log_file", "")
	v.SetDefault("default_format", d.DefaultFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
