package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sadopc/apitester/internal/app"
	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/ui/theme"
)

// Set with -ldflags at release time.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "apitester",
		Short: "Compose, send and inspect HTTP requests",
		Long: `apitester builds one HTTP request at a time, sends it and shows the
status, timing, size and JSON body of the response. The last 10 requests
are kept in a persisted history.

Run without a command to start the interactive terminal UI.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), loadConfig(configPath))
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/apitester/config.yaml)")

	cfg := func() config.Config { return loadConfig(configPath) }
	root.AddCommand(newSendCmd(cfg))
	root.AddCommand(newHistoryCmd(cfg))
	root.AddCommand(newVersionCmd())
	return root
}

func loadConfig(path string) config.Config {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func runTUI(ctx context.Context, cfg config.Config) error {
	logPath := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}
	f, err := tea.LogToFile(logPath, "apitester")
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := app.New(ctx, sess.store, theme.Resolve(cfg.Theme))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		log.Printf("tui: %v", err)
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "apitester %s (%s) built %s\n", version, commit, buildDate)
		},
	}
}
