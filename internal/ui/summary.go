package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/summary"
)

func (a *App) summaryCmd() *cobra.Command {
	var (
		date    string
		week    bool
		insight bool
		model   string
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize a month or week of sessions",
		Long: `Display the sessions of the month (or week) containing --date with
per-client totals, the busiest day and any overlapping bookings.

With --insight the period is also reviewed by the configured LLM.`,
		Example: `  trainerdesk summary
  trainerdesk summary --week --insight`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ref, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			mode := calendar.ModeMonth
			if week {
				mode = calendar.ModeWeek
			}
			llmConfig := a.config.LLM
			if model != "" {
				llmConfig.Model = model
			}

			s, err := summary.Build(cmd.Context(), a.repo, summary.BuildOptions{
				Window:         calendar.NewWindow(ref, mode),
				IncludeInsight: insight,
				LLM:            llmConfig,
				WorkingHours:   a.config.WorkingHours(),
			})
			if err != nil {
				return fmt.Errorf("building summary: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(s.Sessions) == 0 {
				fmt.Fprintln(out, "No sessions booked in this period.")
				return nil
			}

			names := make(clientNames, len(s.Participants))
			for _, p := range s.Participants {
				names[p.ParticipantID] = p.Name
			}

			fmt.Fprintf(out, "\n  %s\n", formatHeader(strings.ToUpper(periodTitle(s.Window))))
			fmt.Fprintln(out, strings.Repeat("─", 74))

			opts := PrintOpts{Verbose: verbose, ShowDuration: true}
			PrintSessionsByDay(out, s.Sessions, names, opts)

			fmt.Fprintln(out, strings.Repeat("─", 74))
			PrintSummary(out, s, names)

			hours := a.config.WorkingHours()
			days := int(s.End.Sub(s.Start).Hours()/24 + 0.5)
			available := days * (hours.EndHour - hours.StartHour) * 60
			fmt.Fprintf(out, "  Load: %s\n", LoadBar(s.TotalMinutes, available, 20))

			if insight && s.Insight != "" {
				fmt.Fprintln(out)
				fmt.Fprintf(out, "  %s\n", formatHeader("INSIGHT"))
				fmt.Fprintln(out, strings.Repeat("─", 74))
				PrintInsightWrapped(out, s.Insight, 72)
			}

			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day in the period (default: today)")
	cmd.Flags().BoolVar(&week, "week", false, "Summarize the week instead of the month")
	cmd.Flags().BoolVar(&insight, "insight", false, "Ask the LLM to review the period")
	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show IDs and notes")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
