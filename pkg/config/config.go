// Package config provides TOML-based configuration for teamkit.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"gitlab.com/tinyland/lab/teamkit/pkg/imageupload"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

// DefaultTeamImage is the image a new team starts with.
const DefaultTeamImage = "https://sprint-fe-project.s3.ap-northeast-2.amazonaws.com/Coworkers/user/2324/image_default.png"

// Config is the root configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Theme   ThemeConfig   `toml:"theme"`
	Upload  UploadConfig  `toml:"upload"`
	Select  SelectConfig  `toml:"select"`
	Modal   ModalConfig   `toml:"modal"`
	Preview PreviewConfig `toml:"preview"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`  // debug, info, warn, error
	LogFormat string `toml:"log_format"` // text or json
	LogFile   string `toml:"log_file"`   // empty logs to stderr
}

// ThemeConfig selects the color theme.
type ThemeConfig struct {
	Name       string `toml:"name"`
	TokensFile string `toml:"tokens_file"` // optional TOML or YAML token overlay
}

// UploadConfig configures the team image field.
type UploadConfig struct {
	MaxFiles      int      `toml:"max_files"`
	Accept        string   `toml:"accept"`
	Multiple      bool     `toml:"multiple"`
	Mode          string   `toml:"mode"`
	InitialImages []string `toml:"initial_images"`
	StartDir      string   `toml:"start_dir"`
}

// SelectConfig configures the category select.
type SelectConfig struct {
	Placeholder string   `toml:"placeholder"`
	Categories  []string `toml:"categories"`
	Typeahead   bool     `toml:"typeahead"`
}

// ModalConfig configures the dialog manager.
type ModalConfig struct {
	AppRoot string `toml:"app_root"`
}

// PreviewConfig configures image previews.
type PreviewConfig struct {
	Protocol string `toml:"protocol"` // auto, kitty, iterm2, sixel, halfblocks, none
	CacheMB  int    `toml:"cache_mb"`
	Width    int    `toml:"width"`
	Height   int    `toml:"height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		General: GeneralConfig{LogLevel: "info", LogFormat: "text"},
		Theme:   ThemeConfig{Name: "default"},
		Upload: UploadConfig{
			MaxFiles:      1,
			Accept:        imageupload.DefaultAccept,
			Mode:          imageupload.Replace.String(),
			InitialImages: []string{DefaultTeamImage},
		},
		Select: SelectConfig{
			Placeholder: "Select a category",
			Categories:  []string{"Design", "Engineering", "Marketing", "Operations", "Sales"},
			Typeahead:   true,
		},
		Modal:   ModalConfig{AppRoot: "root"},
		Preview: PreviewConfig{Protocol: "auto", CacheMB: 16, Width: 16, Height: 8},
	}
}

// Level parses General.LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.General.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// UploadMode parses Upload.Mode.
func (c *Config) UploadMode() (imageupload.Mode, error) {
	return imageupload.ParseMode(c.Upload.Mode)
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	switch c.General.LogFormat {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: log_format %q: want text or json", c.General.LogFormat))
	}
	if _, ok := theme.Lookup(c.Theme.Name); !ok && c.Theme.TokensFile == "" {
		errs = append(errs, fmt.Errorf("config: unknown theme %q", c.Theme.Name))
	}
	if c.Upload.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("config: upload.max_files %d is negative", c.Upload.MaxFiles))
	}
	if _, err := c.UploadMode(); err != nil {
		errs = append(errs, fmt.Errorf("config: upload.mode: %w", err))
	}
	if _, _, err := terminal.ParseProtocol(c.Preview.Protocol); err != nil {
		errs = append(errs, fmt.Errorf("config: preview.protocol: %w", err))
	}
	if c.Modal.AppRoot == "" {
		errs = append(errs, errors.New("config: modal.app_root is empty"))
	}
	return errors.Join(errs...)
}
