package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
)

func (a *App) addCmd() *cobra.Command {
	var (
		client  string
		date    string
		start   string
		minutes int
		notes   string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Book a session",
		Long: `Book a session with a client.

Without --start the current hour, clamped to working hours, is proposed
as when adding from the calendar. With --date the session always stays on
that date: after working hours it opens the day instead.`,
		Example: `  trainerdesk add "Strength" --client=Ana --date=2025-01-10 --start=09:00
  trainerdesk add "Mobility" --client=Ana --date=tomorrow --minutes=45`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			p, err := a.findClient(ctx, client)
			if err != nil {
				return err
			}

			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}

			v := a.newView(schedule.WithReferenceDate(day))
			defer v.Close()

			draft := v.SelectCell(day)
			s := draft.Session
			if date != "" && !dateutil.SameDay(s.Start, day) {
				s.Start = dateutil.At(day, a.config.WorkingHours().StartHour, 0)
			}
			if start != "" {
				hour, minute, err := dateutil.ParseClock(start)
				if err != nil {
					return err
				}
				s.Start = dateutil.At(day, hour, minute)
			}
			length := a.config.SessionLength()
			if minutes > 0 {
				length = time.Duration(minutes) * time.Minute
			}
			s.End = s.Start.Add(length)
			s.ParticipantID = p.ID
			s.Title = args[0]
			s.Notes = notes

			m := v.Save(ctx, a.repo, s)
			if m.Err != nil {
				return m.Err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s with %s on %s %s-%s (%s)\n",
				s.Title,
				p.Name,
				s.Start.Format("Mon Jan 2"),
				s.Start.Format("15:04"),
				s.End.Format("15:04"),
				m.ID,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "Client name or ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, today, tomorrow, monday, next-friday...)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, default: proposed)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Length in minutes (default: session_minutes)")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")

	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			v := a.newView()
			defer v.Close()

			if m := v.Delete(cmd.Context(), a.repo, args[0]); m.Err != nil {
				return m.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}

func (a *App) proposeCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "propose",
		Short: "Show the slot a new session would get",
		Long: `Show the start a new session would be proposed at.

The candidate is truncated to the hour. Before working hours it moves to
the opening hour, at or after closing it moves to the next day.`,
		Example: `  trainerdesk propose
  trainerdesk propose --at="2025-01-10 22:30"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidate := a.now()
			if at != "" {
				parsed, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
				if err != nil {
					return fmt.Errorf("--at must look like \"2006-01-02 15:04\": %w", err)
				}
				candidate = parsed
			}

			start := calendar.ProposeSlot(candidate, a.config.WorkingHours())
			end := start.Add(a.config.SessionLength())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s-%s\n",
				start.Format("Mon Jan 2"), start.Format("15:04"), end.Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Candidate time (YYYY-MM-DD HH:MM, default: now)")
	return cmd
}
