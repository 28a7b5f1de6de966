// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/summary"
)

// FetchedMsg carries a fetch result back to the event loop.
type FetchedMsg struct {
	Result schedule.Result
}

// MutationMsg carries the outcome of a save or delete.
type MutationMsg struct {
	Mutation schedule.Mutation
}

// ParticipantsLoadedMsg is sent when the participant list is loaded.
type ParticipantsLoadedMsg struct {
	Participants []*session.Participant
}

// ParticipantAddedMsg is sent after a participant is created.
type ParticipantAddedMsg struct {
	Participant  *session.Participant
	Participants []*session.Participant
}

// SummaryMsg is sent when the period summary is ready.
type SummaryMsg struct {
	Summary *summary.Summary
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Fetch runs req against src off the event loop.
func Fetch(v *schedule.View, req schedule.Request, src session.Source) tea.Cmd {
	return func() tea.Msg {
		return FetchedMsg{Result: v.Fetch(req, src)}
	}
}

// Save writes s to store. The view refreshes once the result is settled.
func Save(v *schedule.View, store session.Store, s *session.Session) tea.Cmd {
	return func() tea.Msg {
		return MutationMsg{Mutation: v.Save(context.Background(), store, s)}
	}
}

// Delete removes the session with id from store.
func Delete(v *schedule.View, store session.Store, id string) tea.Cmd {
	return func() tea.Msg {
		return MutationMsg{Mutation: v.Delete(context.Background(), store, id)}
	}
}

// LoadParticipants lists participants for the session form.
func LoadParticipants(repo session.Repository) tea.Cmd {
	return func() tea.Msg {
		participants, err := repo.ListParticipants(context.Background())
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("listing clients: %w", err)}
		}
		return ParticipantsLoadedMsg{Participants: participants}
	}
}

// AddParticipant creates a participant named name and reloads the list.
func AddParticipant(repo session.Repository, name string) tea.Cmd {
	return func() tea.Msg {
		p, err := session.NewParticipant(name, "")
		if err != nil {
			return ErrMsg{Err: err}
		}
		ctx := context.Background()
		if err := repo.CreateParticipant(ctx, p); err != nil {
			return ErrMsg{Err: fmt.Errorf("adding client: %w", err)}
		}
		participants, err := repo.ListParticipants(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("listing clients: %w", err)}
		}
		return ParticipantAddedMsg{Participant: p, Participants: participants}
	}
}

// Summary builds the summary of the visible period. The LLM insight is only
// requested when withInsight is set.
func Summary(cfg *config.Config, repo session.Repository, v *schedule.View, withInsight bool) tea.Cmd {
	window := v.Window()
	return func() tea.Msg {
		s, err := summary.Build(context.Background(), repo, summary.BuildOptions{
			Window:         window,
			IncludeInsight: withInsight,
			LLM:            cfg.LLM,
			WorkingHours:   cfg.WorkingHours(),
		})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Summary: s}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, label string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return StatusMsgCmd{Msg: "Nothing to copy"}
		}
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying %s: %w", label, err)}
		}
		return StatusMsgCmd{Msg: "Copied " + label}
	}
}

// Status shows msg in the footer.
func Status(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusMsgCmd{Msg: msg}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
