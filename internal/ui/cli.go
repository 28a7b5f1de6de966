// Package ui provides the trainerdesk command line.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/db"
	"github.com/javiermolinar/trainerdesk/internal/logging"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   session.Repository
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
	now    func() time.Time
}

// NewApp creates a new CLI application. A nil repo is opened lazily from
// the configured database path by the commands that need it.
func NewApp(repo session.Repository, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{repo: repo, config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "trainerdesk",
		Short: "A calendar for personal trainers",
		Long: `trainerdesk keeps a personal trainer's sessions with clients.

Run it without arguments to open the month calendar. Subcommands add,
list and summarize sessions from the shell.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			logger, closeLog, err := logging.New(logging.Options{Debug: a.debug})
			if err != nil {
				return err
			}
			defer closeLog()
			return tui.Run(a.repo, a.config, logger)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (TUI logs to "+logging.DefaultDebugPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.clientCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.gridCmd())
	a.root.AddCommand(a.proposeCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.serveCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trainerdesk %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository, if one was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path, err := resolvePath(a.config.Storage.DBPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// newView builds a calendar view from the configuration.
func (a *App) newView(opts ...schedule.Option) *schedule.View {
	timeout, err := a.config.FetchTimeout()
	if err != nil {
		timeout = schedule.DefaultFetchTimeout
	}
	base := []schedule.Option{
		schedule.WithClock(a.now),
		schedule.WithWorkingHours(a.config.WorkingHours()),
		schedule.WithSessionLength(a.config.SessionLength()),
		schedule.WithFetchTimeout(timeout),
		schedule.WithMode(a.config.ViewMode()),
	}
	return schedule.New(append(base, opts...)...)
}
