package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// AppName names the config directory.
const AppName = "teamkit"

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/teamkit/config.toml
//  2. ~/.config/teamkit/config.toml
//
// If no file exists, returns Default() with environment overrides.
func Load() (*Config, error) {
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := Default()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// LoadFromFile reads configuration from path. A missing file yields the
// defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes TOML over the defaults, applies environment
// overrides and validates the result.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys %v", undecoded)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TEAMKIT_THEME"); v != "" {
		cfg.Theme.Name = v
	}
	if v := os.Getenv("TEAMKIT_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("TEAMKIT_GRAPHICS"); v != "" {
		cfg.Preview.Protocol = v
	}
}

// SearchPaths returns the ordered list of config file paths to try.
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	fallback := filepath.Join(home, ".config")
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		xdg = fallback
	}
	paths := []string{filepath.Join(xdg, AppName, "config.toml")}
	if xdg != fallback {
		paths = append(paths, filepath.Join(fallback, AppName, "config.toml"))
	}
	return paths
}
