package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/teamkit/pkg/config"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

var (
	tokensFormat string
	tokensTheme  string
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Print the design tokens of a theme",
	Long: `Print a theme's color and type tokens as YAML or TOML. The output can be
edited and pointed to with theme.tokens_file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		t, err := tokensFor(cfg, tokensTheme)
		if err != nil {
			return err
		}

		var out []byte
		switch tokensFormat {
		case "yaml", "yml":
			out, err = theme.SaveToYAML(t)
		case "toml":
			out, err = theme.SaveToTOML(t)
		default:
			return fmt.Errorf("unknown format %q (supported: yaml, toml)", tokensFormat)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.Default()
		if !configDefault {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		}
		out, err := config.Encode(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var configDefault bool

func init() {
	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", "yaml", "output format (yaml|toml)")
	tokensCmd.Flags().StringVar(&tokensTheme, "theme", "", "theme name (default: from config)")
	configCmd.Flags().BoolVar(&configDefault, "default", false, "print the built-in defaults instead")
	rootCmd.AddCommand(tokensCmd, configCmd)
}

// tokensFor picks the named theme, or the configured one. Token files are
// honoured only when no name is given.
func tokensFor(cfg *config.Config, name string) (theme.Theme, error) {
	if name != "" {
		t, ok := theme.Lookup(name)
		if !ok {
			return theme.Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, theme.Names())
		}
		return t, nil
	}
	if cfg.Theme.TokensFile != "" {
		return theme.LoadFile(cfg.Theme.TokensFile)
	}
	return theme.Get(cfg.Theme.Name), nil
}
