package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Adapter kinds selectable in the daemon configuration.
const (
	AdapterFile   = "file"
	AdapterSQLite = "sqlite"
	AdapterHTTP   = "http"
)

// ServerConfig holds the companion HTTP server settings.
type ServerConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// StorageConfig selects and configures the persistence adapter.
type StorageConfig struct {
	// Adapter is one of "file", "sqlite", "http".
	Adapter  string `mapstructure:"adapter" yaml:"adapter"`
	DataFile string `mapstructure:"data_file" yaml:"data_file"`
	DBPath   string `mapstructure:"db_path" yaml:"db_path"`
	// ServerURL is the base URL of a companion server, used when the
	// adapter is "http".
	ServerURL  string `mapstructure:"server_url" yaml:"server_url"`
	DebounceMS int    `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// SyncConfig holds background sync defaults.
type SyncConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// NotifyConfig holds notification scheduler settings.
type NotifyConfig struct {
	CheckIntervalSec int `mapstructure:"check_interval_sec" yaml:"check_interval_sec"`
}

// Config is the top-level daemon configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Sync    SyncConfig    `mapstructure:"sync" yaml:"sync"`
	Notify  NotifyConfig  `mapstructure:"notify" yaml:"notify"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/gtd/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "gtd", "config.yaml")
}

// DefaultDataDir returns the default directory for data files.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "gtd")
}

func defaultConfig() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Server: ServerConfig{
			Enabled:    true,
			ListenAddr: "127.0.0.1:3001",
		},
		Storage: StorageConfig{
			Adapter:    AdapterFile,
			DataFile:   filepath.Join(dataDir, "data.json"),
			DBPath:     filepath.Join(dataDir, "gtd.db"),
			ServerURL:  "http://127.0.0.1:3001",
			DebounceMS: 1000,
		},
		Sync: SyncConfig{
			IntervalSec: 300,
		},
		Notify: NotifyConfig{
			CheckIntervalSec: 15,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := defaultConfig()
	v.SetDefault("server.enabled", def.Server.Enabled)
	v.SetDefault("server.listen_addr", def.Server.ListenAddr)
	v.SetDefault("storage.adapter", def.Storage.Adapter)
	v.SetDefault("storage.data_file", def.Storage.DataFile)
	v.SetDefault("storage.db_path", def.Storage.DBPath)
	v.SetDefault("storage.server_url", def.Storage.ServerURL)
	v.SetDefault("storage.debounce_ms", def.Storage.DebounceMS)
	v.SetDefault("sync.interval_sec", def.Sync.IntervalSec)
	v.SetDefault("notify.check_interval_sec", def.Notify.CheckIntervalSec)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Storage.Adapter {
	case AdapterFile, AdapterSQLite, AdapterHTTP:
	default:
		return nil, fmt.Errorf("unknown storage adapter %q", cfg.Storage.Adapter)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("server", cfg.Server)
	v.Set("storage", cfg.Storage)
	v.Set("sync", cfg.Sync)
	v.Set("notify", cfg.Notify)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
