package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds library backend configuration
type ServerConfig struct {
	URL     string        `mapstructure:"url"`     // Backend base URL
	Timeout time.Duration `mapstructure:"timeout"` // Per-request timeout
}

// StorageConfig holds where the session store lives
type StorageConfig struct {
	Dir      string `mapstructure:"dir"`       // Session database directory
	InMemory bool   `mapstructure:"in_memory"` // Keep the session for this process only
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme        string `mapstructure:"theme"`
	ShowCovers   bool   `mapstructure:"show_covers"` // Show cover reference in the inspector
	NoticeTTLSec int    `mapstructure:"notice_ttl_sec"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "",
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		UI: UIConfig{
			Theme:        "default",
			ShowCovers:   false,
			NoticeTTLSec: 4,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "shelf.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// LoadConfig loads configuration from file and environment.
// A non-empty path overrides the config file search.
func LoadConfig(path string) (*Config, error) {
	return load(viper.GetViper(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (SHELF_SERVER_URL, ...)
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigNotFound(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.timeout", cfg.Server.Timeout.String())

	viper.Set("storage.dir", cfg.Storage.Dir)
	viper.Set("storage.in_memory", cfg.Storage.InMemory)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.show_covers", cfg.UI.ShowCovers)
	viper.Set("ui.notice_ttl_sec", cfg.UI.NoticeTTLSec)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// SessionDir returns the session store directory, or "" for memory-only
func (c *Config) SessionDir() string {
	if c.Storage.InMemory {
		return ""
	}
	return c.Storage.Dir
}

// NoticeTTL returns how long notices stay in the footer
func (c *Config) NoticeTTL() time.Duration {
	if c.UI.NoticeTTLSec <= 0 {
		return 4 * time.Second
	}
	return time.Duration(c.UI.NoticeTTLSec) * time.Second
}
