// Package config handles repository and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/citemap/config.yml.
type GlobalConfig struct {
	S2APIKey    string `yaml:"s2_api_key,omitempty"`
	PapersPath  string `yaml:"papers_path,omitempty"`
	HTMLOffline bool   `yaml:"html_offline,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "citemap"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/citemap/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.PapersPath != "" {
		cfg.PapersPath = ExpandPath(cfg.PapersPath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetS2APIKey returns the Semantic Scholar API key from global config.
// The SEMANTIC_SCHOLAR_API_KEY environment variable takes precedence.
func GetS2APIKey() string {
	if key := os.Getenv("SEMANTIC_SCHOLAR_API_KEY"); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.S2APIKey
}

// GetPapersPath returns the configured default papers path from global config.
func GetPapersPath() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.PapersPath
}

// HelpfulConfigMessage returns guidance shown when no repository is found.
func HelpfulConfigMessage() string {
	configPath := GlobalConfigPath()
	return fmt.Sprintf(`No citemap repository found.

Tip: run 'citemap init' in your papers directory, or create %s
to point at a default library:
  mkdir -p %s
  echo 'papers_path: /path/to/your/papers' > %s`,
		configPath,
		filepath.Dir(configPath),
		configPath)
}
