package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/apitester/internal/core/kv"
	"github.com/sadopc/apitester/internal/core/tls"
)

// Config holds the application configuration.
type Config struct {
	Theme          string        `yaml:"theme"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`

	Proxy   string     `yaml:"proxy"`
	NoProxy string     `yaml:"no_proxy"`
	TLS     tls.Config `yaml:"tls"`

	HistoryBackend string `yaml:"history_backend"`
	HistoryPath    string `yaml:"history_path"`

	DropStaleResponses bool   `yaml:"drop_stale_responses"`
	LogFile            string `yaml:"log_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:          "catppuccin-mocha",
		HistoryBackend: kv.BackendSQLite,
	}
}

// DataDir is where history and logs live: ~/.local/share/apitester.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "apitester")
	}
	return filepath.Join(home, ".local", "share", "apitester")
}

// StoragePath returns the history location for the configured backend.
func (c Config) StoragePath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	switch c.HistoryBackend {
	case kv.BackendFile:
		return DataDir()
	case kv.BackendMemory:
		return ""
	default:
		return filepath.Join(DataDir(), "history.db")
	}
}

// LogPath returns the file the interactive UI logs to.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(DataDir(), "apitester.log")
}
