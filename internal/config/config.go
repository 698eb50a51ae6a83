// Package config handles repository configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .citemap/config.json.
type Config struct {
	CanvasWidth  int `json:"canvas_width,omitempty"`  // Layout canvas width in pixels
	CanvasHeight int `json:"canvas_height,omitempty"` // Layout canvas height in pixels
	FanOut       int `json:"fan_out,omitempty"`       // Neighbors expanded per hop
}

const (
	CitemapDir = ".citemap"
	ConfigFile = "config.json"
	PapersFile = "papers.jsonl"
	CacheDir   = "cache"
	DBFile     = "papers.db"
)

// CitemapPath returns the path to the .citemap directory from a root path.
func CitemapPath(root string) string {
	return filepath.Join(root, CitemapDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, CitemapDir, ConfigFile)
}

// PapersPath returns the path to papers.jsonl from a root path.
func PapersPath(root string) string {
	return filepath.Join(root, CitemapDir, PapersFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, CitemapDir, CacheDir)
}

// DBPath returns the path to papers.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, CitemapDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a citemap repository.
func IsRepository(root string) bool {
	info, err := os.Stat(CitemapPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a citemap repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a citemap repository (no .citemap directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
// A missing config file yields the zero Config rather than an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.CanvasWidth < 0 || c.CanvasHeight < 0 {
		return fmt.Errorf("canvas dimensions must be positive")
	}
	if c.FanOut < 0 {
		return fmt.Errorf("fan_out must be positive")
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
