package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/teamkit/pkg/app"
	"gitlab.com/tinyland/lab/teamkit/pkg/config"
	"gitlab.com/tinyland/lab/teamkit/pkg/preview"
	"gitlab.com/tinyland/lab/teamkit/pkg/terminal"
	"gitlab.com/tinyland/lab/teamkit/pkg/theme"
)

var (
	demoLogJSON  bool
	demoGraphics string

	// interactive reports whether stdout can host the full-screen program.
	interactive = func() bool { return terminal.IsTerminal(os.Stdout) }
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive create-team form",
	Long: `Run the create-team form: an image field, a name, a category select and
a confirmation dialog. The submitted team is printed on exit.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().BoolVar(&demoLogJSON, "log-json", false, "write logs as JSON")
	demoCmd.Flags().StringVar(&demoGraphics, "graphics", "", "image protocol override (auto, kitty, iterm2, sixel, halfblocks, none)")
	rootCmd.AddCommand(demoCmd)
}

// themeFor returns the configured theme, preferring a token file, adapted
// to the terminal's color profile.
func themeFor(cfg *config.Config) (theme.Theme, error) {
	t := theme.Get(cfg.Theme.Name)
	if path := cfg.Theme.TokensFile; path != "" {
		loaded, err := theme.LoadFile(path)
		if err != nil {
			return theme.Theme{}, err
		}
		t = loaded
	}
	return theme.Adapt(t, lipgloss.ColorProfile()), nil
}

// demoLogOutput returns where the demo logs when log_file is unset. The
// alt screen owns stderr while the program runs, so logs go to
// <user cache dir>/teamkit/demo.log instead.
func demoLogOutput(cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.General.LogFile != "" {
		return io.Discard, func() error { return nil }, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, nil, fmt.Errorf("locate log directory: %w", err)
	}
	dir = filepath.Join(dir, config.AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := tea.LogToFile(filepath.Join(dir, "demo.log"), config.AppName)
	if err != nil {
		return nil, nil, fmt.Errorf("open demo log: %w", err)
	}
	return f, f.Close, nil
}

func runDemo(cmd *cobra.Command, _ []string) error {
	if !interactive() {
		return errors.New("demo needs an interactive terminal")
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if demoGraphics != "" {
		cfg.Preview.Protocol = demoGraphics
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logw, closeDemoLog, err := demoLogOutput(cfg)
	if err != nil {
		return err
	}
	defer closeDemoLog()
	logger, closeLog, err := newLogger(cfg, logw, demoLogJSON)
	if err != nil {
		return err
	}
	defer closeLog()

	proto, err := terminal.Resolve(cfg.Preview.Protocol, nil)
	if err != nil {
		return err
	}
	size := terminal.GetSize(os.Stdout)
	logger.Debug("terminal", "kind", terminal.Detect(nil), "protocol", proto,
		"cols", size.Cols, "rows", size.Rows, "cell_w", size.CellW, "cell_h", size.CellH)

	th, err := themeFor(cfg)
	if err != nil {
		return err
	}
	renderer := preview.New(proto,
		preview.WithCellSize(size.CellW, size.CellH),
		preview.WithCache(preview.NewCache(cfg.Preview.CacheMB)),
		preview.WithLogger(logger),
	)
	model, err := app.New(cfg, app.WithLogger(logger), app.WithRenderer(renderer), app.WithTheme(th))
	if err != nil {
		return err
	}
	defer model.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run demo: %w", err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Info("received shutdown signal")
	}

	res := model.Result()
	if res == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No team created.")
		return nil
	}
	category := res.Category
	if category == "" {
		category = "(none)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created team %q\n  category: %s\n  image:    %s\n", res.Name, category, res.Image)
	return nil
}
