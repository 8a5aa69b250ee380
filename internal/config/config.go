package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
)

// Config holds the entire application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Docker  DockerConfig  `mapstructure:"docker" yaml:"docker"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for each console log level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// BrowserConfig holds settings for the CDP browser connection.
type BrowserConfig struct {
	// Endpoint is the ws:// or wss:// DevTools endpoint of an already running
	// browser. Required unless docker bootstrap is enabled.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Debug enables verbose connection logging (existing target counts etc.).
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// Options are passed through to the underlying connect call.
	Options schemas.ConnectOptions `mapstructure:"options" yaml:"options"`
	// NavigationTimeout bounds individual navigations on the session.
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// DockerConfig controls the optional headless-Chrome container bootstrap.
type DockerConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	Image          string        `mapstructure:"image" yaml:"image"`
	ContainerName  string        `mapstructure:"container_name" yaml:"container_name"`
	Port           int           `mapstructure:"port" yaml:"port"`
	StartupTimeout time.Duration `mapstructure:"startup_timeout" yaml:"startup_timeout"`
}

// StoreConfig holds the artifact database connection details.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
}

// SetDefaults initializes default values for all configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "hyperagent")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Browser --
	v.SetDefault("browser.endpoint", "")
	v.SetDefault("browser.debug", false)
	v.SetDefault("browser.options.timeout", "30s")
	v.SetDefault("browser.options.slow_mo", "0s")
	v.SetDefault("browser.navigation_timeout", "60s")

	// -- Docker bootstrap --
	v.SetDefault("docker.enabled", false)
	v.SetDefault("docker.image", "chromedp/headless-shell:latest")
	v.SetDefault("docker.container_name", "")
	v.SetDefault("docker.port", 9222)
	v.SetDefault("docker.startup_timeout", "60s")

	// -- Artifact store --
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.url", "")
}

// NewDefaultConfig creates a configuration populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with static defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a validated configuration from a viper instance.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	// Sensitive values come from the environment, never the config file.
	v.BindEnv("store.url", "HYPERAGENT_STORE_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Browser.Endpoint != "" &&
		!strings.HasPrefix(c.Browser.Endpoint, "ws://") &&
		!strings.HasPrefix(c.Browser.Endpoint, "wss://") {
		return fmt.Errorf("browser.endpoint must use a ws:// or wss:// scheme, got %q", c.Browser.Endpoint)
	}
	if c.Browser.Options.Timeout < 0 {
		return fmt.Errorf("browser.options.timeout must not be negative")
	}
	if err := c.Docker.Validate(); err != nil {
		return fmt.Errorf("docker configuration invalid: %w", err)
	}
	if c.Store.Enabled && c.Store.URL == "" {
		return fmt.Errorf("store.url is required when the artifact store is enabled (set HYPERAGENT_STORE_URL)")
	}
	return nil
}

// Validate checks the docker bootstrap settings.
func (d *DockerConfig) Validate() error {
	if !d.Enabled {
		return nil
	}
	if d.Image == "" {
		return fmt.Errorf("image is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535], got %d", d.Port)
	}
	if d.StartupTimeout <= 0 {
		return fmt.Errorf("startup_timeout must be a positive duration")
	}
	return nil
}

// DefaultConfigDir resolves the per-user configuration directory
// (~/.hyperagent). Falls back to the current directory when the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".hyperagent")
}
