package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TransportType identifies how the host bridge reaches the backend
type TransportType string

const (
	TransportHTTP      TransportType = "http"
	TransportWebSocket TransportType = "ws"
)

// Config holds all application configuration
type Config struct {
	Backend  BackendConfig  `mapstructure:"backend"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Store    StoreConfig    `mapstructure:"store"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// BackendConfig holds host bridge configuration
type BackendConfig struct {
	Transport TransportType `mapstructure:"transport"` // "http" or "ws"
	URL       string        `mapstructure:"url"`       // Bridge endpoint
	Plugin    string        `mapstructure:"plugin"`    // Plugin name passed with every call
	Timeout   time.Duration `mapstructure:"timeout"`   // Per-call timeout
}

// WorkflowConfig holds controller timing
type WorkflowConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	HideDelay    time.Duration `mapstructure:"hide_delay"` // Delay before progress hides after done
}

// StoreConfig holds history store configuration
type StoreConfig struct {
	Path string `mapstructure:"path"` // Empty = memory only
}

// MetricsConfig holds metrics exposition configuration
type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Empty = disabled
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File    string `mapstructure:"file"`
	Level   string `mapstructure:"level"`
	Forward bool   `mapstructure:"forward"` // Forward warnings to the backend log
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Transport: TransportHTTP,
			URL:       "http://127.0.0.1:12039",
			Plugin:    "reverig-tool",
			Timeout:   10 * time.Second,
		},
		Workflow: WorkflowConfig{
			PollInterval: 300 * time.Millisecond,
			HideDelay:    300 * time.Millisecond,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Logging: LoggingConfig{
			File:    defaultLogPath(),
			Level:   "INFO",
			Forward: true,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reverig", "reverig.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reverig", "reverig.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reverig")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reverig")
	}
}

// defaultStorePath returns the default history database directory
func defaultStorePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reverig", "history")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reverig", "history")
	}
}

// LoadConfig loads configuration from file and environment.
// An explicit path overrides the search locations.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(viper.GetViper(), path)
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (REVERIG_BACKEND_URL, ...)
	v.SetEnvPrefix("REVERIG")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// bindEnvKeys registers every key so AutomaticEnv reaches Unmarshal
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"backend.transport", "backend.url", "backend.plugin", "backend.timeout",
		"workflow.poll_interval", "workflow.hide_delay",
		"store.path", "metrics.addr",
		"logging.file", "logging.level", "logging.forward",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch c.Backend.Transport {
	case TransportHTTP, TransportWebSocket:
	default:
		return fmt.Errorf("unknown backend transport: %q", c.Backend.Transport)
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if c.Backend.Plugin == "" {
		return fmt.Errorf("backend plugin name is required")
	}
	if c.Workflow.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Workflow.PollInterval)
	}
	if c.Workflow.HideDelay < 0 {
		return fmt.Errorf("hide delay must not be negative, got %s", c.Workflow.HideDelay)
	}
	return nil
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) (string, error) {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	return configFile, writeConfig(viper.GetViper(), cfg, configFile)
}

func writeConfig(v *viper.Viper, cfg *Config, configFile string) error {
	// Set fields individually to ensure correct key names (snake_case)
	v.Set("backend.transport", string(cfg.Backend.Transport))
	v.Set("backend.url", cfg.Backend.URL)
	v.Set("backend.plugin", cfg.Backend.Plugin)
	v.Set("backend.timeout", cfg.Backend.Timeout.String())

	v.Set("workflow.poll_interval", cfg.Workflow.PollInterval.String())
	v.Set("workflow.hide_delay", cfg.Workflow.HideDelay.String())

	v.Set("store.path", cfg.Store.Path)
	v.Set("metrics.addr", cfg.Metrics.Addr)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.forward", cfg.Logging.Forward)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
