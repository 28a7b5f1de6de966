package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
)

func (a *App) gridCmd() *cobra.Command {
	var (
		date string
		week bool
	)

	cmd := &cobra.Command{
		Use:     "grid",
		Aliases: []string{"cal"},
		Short:   "Print the calendar grid",
		Long: `Print the month (or week) containing --date with the number of
sessions booked on each day. Days outside the period are dimmed.`,
		Example: `  trainerdesk grid
  trainerdesk grid --date=2025-02-01
  trainerdesk grid --week --date=next-monday`,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			v := a.newView(schedule.WithMode(mode), schedule.WithReferenceDate(ref))
			defer v.Close()

			res := v.Fetch(v.Start(), a.repo)
			if res.Err != nil {
				return res.Err
			}
			v.Apply(res)

			out := cmd.OutOrStdout()
			w := v.Window()
			fmt.Fprintln(out, formatHeader(periodTitle(w)))
			PrintGrid(out, v.Cells(), termWidth())

			total := len(v.Sessions())
			booked := 0
			for _, s := range v.Sessions() {
				booked += s.Minutes()
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%d sessions, %s booked\n", total, FormatDuration(booked))
			if notice, ok := v.Notice(); ok {
				fmt.Fprintln(out, formatOverlap(notice.String()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day in the period (default: today)")
	cmd.Flags().BoolVar(&week, "week", false, "Show the week instead of the month")

	return cmd
}

// periodTitle names the period shown by w.
func periodTitle(w calendar.Window) string {
	if w.Mode == calendar.ModeWeek {
		start, end := w.Range()
		last := dateutil.AddDays(end, -1)
		return fmt.Sprintf("Week of %s - %s", start.Format("Jan 2"), last.Format("Jan 2, 2006"))
	}
	return w.ReferenceDate.Format("January 2006")
}
