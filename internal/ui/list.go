package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		client    string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List sessions in a date range",
		Long: `List all sessions within a date range.

If no dates are specified, lists today's sessions.
If only --start is specified, lists sessions for that single day.
If both --start and --end are specified, lists sessions in that range (inclusive).
Overlapping sessions are marked with "!".`,
		Example: `  trainerdesk list
  trainerdesk list --start=2025-01-15
  trainerdesk list --start=2025-01-15 --end=2025-01-20 --client=Ana`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()

			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}
			start, end := dateRange.Start, dateutil.AddDays(dateRange.End, 1)

			var sessions []*session.Session
			if client != "" {
				p, err := a.findClient(ctx, client)
				if err != nil {
					return err
				}
				sessions, err = a.sessionsFor(cmd, p.ID, start, end)
				if err != nil {
					return err
				}
			} else {
				sessions, err = a.repo.FetchSessions(ctx, start, end)
				if err != nil {
					return fmt.Errorf("listing sessions: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found in the specified date range.")
				return nil
			}

			participants, err := a.repo.ListParticipants(ctx)
			if err != nil {
				return fmt.Errorf("listing clients: %w", err)
			}
			PrintSessionsByDay(out, sessions, newClientNames(participants), PrintOpts{Verbose: verbose, ShowDuration: true})
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().StringVar(&client, "client", "", "Only sessions with this client (name or ID)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show IDs and notes")

	return cmd
}

// clientLister is implemented by stores that can filter by participant.
type clientLister interface {
	ListSessionsByParticipant(ctx context.Context, participantID string, start, end time.Time) ([]*session.Session, error)
}

// sessionsFor returns the sessions of one client in [start, end).
func (a *App) sessionsFor(cmd *cobra.Command, participantID string, start, end time.Time) ([]*session.Session, error) {
	ctx := cmd.Context()
	if l, ok := a.repo.(clientLister); ok {
		sessions, err := l.ListSessionsByParticipant(ctx, participantID, start, end)
		if err != nil {
			return nil, fmt.Errorf("listing sessions: %w", err)
		}
		return sessions, nil
	}

	all, err := a.repo.FetchSessions(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	var sessions []*session.Session
	for _, s := range all {
		if s.ParticipantID == participantID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
