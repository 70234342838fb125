package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/tui"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Service failures were already printed as notices
		if !errors.As(err, new(*reportedError)) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// reportedError marks a failure the user has already seen
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

var rootCmd = &cobra.Command{
	Use:   "shelf",
	Short: "Shelf - browse and borrow from your library",
	Long: `Shelf is a terminal client for a library lending service.

Run without arguments to open the interactive catalog. The subcommands
do the same operations one at a time, for scripts.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("shelf version %s\nCommit: %s\n", Version, Commit))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/shelf/config.yaml)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shelf %s (%s)\n", Version, Commit)
	},
}

func runTUI() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	notifier := tui.NewChannelNotifier(64)
	a, err := newApp(cfg, logger, notifier)
	if err != nil {
		return err
	}
	defer a.Close()

	model := tui.NewModel(a.services(), notifier.Notices(), tui.Options{
		NoticeTTL:  a.cfg.NoticeTTL(),
		ShowCovers: a.cfg.UI.ShowCovers,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
