package config

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Path returns the config file location: ~/.config/apitester/config.yaml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "apitester", "config.yaml"), nil
}

// Load loads configuration from ~/.config/apitester/config.yaml. Missing or
// unreadable files yield the defaults; fields absent from the file keep
// their defaults.
func Load() Config {
	path, err := Path()
	if err != nil {
		return DefaultConfig()
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, falling back to defaults.
func LoadFile(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	loaded := cfg
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		log.Printf("config: ignoring %s: %v", path, err)
		return cfg
	}
	return loaded
}
