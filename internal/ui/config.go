package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  trainerdesk config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "Config file (default: "+config.DefaultConfigPath()+")")
	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.StartHour = promptInt(reader, out, "Working hours start (0-23)", cfg.Schedule.StartHour)
	cfg.Schedule.EndHour = promptInt(reader, out, "Working hours end (1-24)", cfg.Schedule.EndHour)
	cfg.Schedule.SessionMinutes = promptInt(reader, out, "Default session minutes", cfg.Schedule.SessionMinutes)
	cfg.Schedule.DefaultView = promptMode(reader, out, cfg.Schedule.DefaultView)
	cfg.Sync.FetchTimeout = promptValue(reader, out, "Fetch timeout (e.g. 10s, empty to disable)", cfg.Sync.FetchTimeout)
	cfg.LLM.Provider = promptValue(reader, out, "LLM provider", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, out, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, out, "LLM base URL (empty for the provider default)", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Server.Addr = promptValue(reader, out, "API listen address", cfg.Server.Addr)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  start_hour       = %d\n", cfg.Schedule.StartHour)
	fmt.Fprintf(out, "  end_hour         = %d\n", cfg.Schedule.EndHour)
	fmt.Fprintf(out, "  session_minutes  = %d\n", cfg.Schedule.SessionMinutes)
	fmt.Fprintf(out, "  default_view     = %s\n", cfg.Schedule.DefaultView)
	fmt.Fprintln(out, "\n[sync]")
	fmt.Fprintf(out, "  fetch_timeout    = %s\n", cfg.Sync.FetchTimeout)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  %q is not a number\n", value)
	}
}

func promptMode(reader *bufio.Reader, out io.Writer, current string) string {
	for {
		value := strings.ToLower(promptValue(reader, out, "Default view (month, week)", current))
		if _, err := calendar.ParseMode(value); err == nil {
			return value
		}
		fmt.Fprintf(out, "  Invalid view %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
