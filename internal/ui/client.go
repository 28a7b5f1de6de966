package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/trainerdesk/internal/session"
)

var errAmbiguousClient = errors.New("client name is ambiguous, use the ID")

func (a *App) clientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"clients"},
		Short:   "Manage clients",
	}
	cmd.AddCommand(a.clientAddCmd())
	cmd.AddCommand(a.clientListCmd())
	return cmd
}

func (a *App) clientAddCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a client",
		Example: `  trainerdesk client add "Ana Ruiz"
  trainerdesk client add "Bea" --email=bea@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			p, err := session.NewParticipant(args[0], email)
			if err != nil {
				return err
			}
			p.CreatedAt = a.now()
			if err := a.repo.CreateParticipant(cmd.Context(), p); err != nil {
				return fmt.Errorf("creating client: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	return cmd
}

func (a *App) clientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			participants, err := a.repo.ListParticipants(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing clients: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(participants) == 0 {
				fmt.Fprintln(out, "No clients yet. Add one with: trainerdesk client add NAME")
				return nil
			}
			for _, p := range participants {
				line := fmt.Sprintf("  %-20s %s", p.Name, formatMuted(p.ID))
				if p.Email != "" {
					line += "  " + p.Email
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

// findClient resolves ref as a participant ID or a case-insensitive name.
func (a *App) findClient(ctx context.Context, ref string) (*session.Participant, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, session.ErrMissingParticipant
	}

	if p, err := a.repo.GetParticipant(ctx, ref); err == nil {
		return p, nil
	} else if !errors.Is(err, session.ErrParticipantNotFound) {
		return nil, err
	}

	participants, err := a.repo.ListParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	var found *session.Participant
	for _, p := range participants {
		if !strings.EqualFold(p.Name, ref) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s", errAmbiguousClient, ref)
		}
		found = p
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", session.ErrParticipantNotFound, ref)
	}
	return found, nil
}
