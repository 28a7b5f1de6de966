package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/tui/view"
)

// Form fields, in tab order.
const (
	fieldClient = iota
	fieldTitle
	fieldDate
	fieldStart
	fieldMinutes
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Client", "Title", "Date", "Start", "Minutes", "Notes"}

var errNoClients = errors.New("add a client first: trainerdesk client add NAME")

// sessionForm edits a draft. The client field is a selector over the loaded
// participants; every other field is free text validated on submit.
type sessionForm struct {
	base         *session.Session
	isNew        bool
	participants []*session.Participant
	client       int
	inputs       [fieldCount]textinput.Model
	focus        int
	err          string
}

func newSessionForm(d schedule.Draft, participants []*session.Participant, styles *Styles) sessionForm {
	f := sessionForm{
		base:         d.Session.Clone(),
		isNew:        d.IsNew,
		participants: participants,
	}
	if f.base == nil {
		f.base = &session.Session{}
	}

	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		ti.Width = 32
		ti.PlaceholderStyle = styles.PlaceholderStyle
		ti.TextStyle = styles.InputTextStyle
		ti.PromptStyle = styles.InputTextStyle
		ti.Cursor.Style = styles.InputCursorStyle
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].Placeholder = "Strength, mobility, ..."
	f.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	f.inputs[fieldDate].CharLimit = 10
	f.inputs[fieldStart].Placeholder = "HH:MM"
	f.inputs[fieldStart].CharLimit = 5
	f.inputs[fieldMinutes].CharLimit = 4
	f.inputs[fieldNotes].Placeholder = "optional"

	s := f.base
	f.inputs[fieldTitle].SetValue(s.Title)
	f.inputs[fieldNotes].SetValue(s.Notes)
	if !s.Start.IsZero() {
		f.inputs[fieldDate].SetValue(s.Start.Format("2006-01-02"))
		f.inputs[fieldStart].SetValue(s.Start.Format("15:04"))
	}
	if !s.End.IsZero() && s.End.After(s.Start) {
		f.inputs[fieldMinutes].SetValue(strconv.Itoa(s.Minutes()))
	}

	for i, p := range participants {
		if p.ID == s.ParticipantID {
			f.client = i
			break
		}
	}

	f.focus = fieldTitle
	if d.IsNew && len(participants) > 1 {
		f.focus = fieldClient
	}
	f.inputs[f.focus].Focus()
	return f
}

func (f sessionForm) title() string {
	if f.isNew {
		return "New session"
	}
	return "Edit session"
}

// move shifts focus by delta fields, wrapping around.
func (f sessionForm) move(delta int) sessionForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	return f
}

// cycleClient picks the previous or next participant.
func (f sessionForm) cycleClient(delta int) sessionForm {
	if len(f.participants) == 0 {
		return f
	}
	f.client = (f.client + delta + len(f.participants)) % len(f.participants)
	return f
}

func (f sessionForm) update(msg tea.Msg) (sessionForm, tea.Cmd) {
	if f.focus == fieldClient {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.err = ""
	return f, cmd
}

func (f sessionForm) clientName() string {
	if len(f.participants) == 0 {
		return "(no clients)"
	}
	return f.participants[f.client].Name
}

// build turns the form into a session. Times are read in the location of
// the draft's start so editing never shifts a session across zones.
func (f sessionForm) build() (*session.Session, error) {
	if len(f.participants) == 0 {
		return nil, errNoClients
	}

	loc := time.Local
	if !f.base.Start.IsZero() {
		loc = f.base.Start.Location()
	}

	dateValue := strings.TrimSpace(f.inputs[fieldDate].Value())
	day, err := time.ParseInLocation("2006-01-02", dateValue, loc)
	if err != nil {
		return nil, fmt.Errorf("date: %w", dateutil.ErrInvalidDateFormat)
	}
	hour, minute, err := dateutil.ParseClock(strings.TrimSpace(f.inputs[fieldStart].Value()))
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldMinutes].Value()))
	if err != nil || minutes <= 0 {
		return nil, errors.New("minutes must be a positive number")
	}

	s := f.base.Clone()
	s.ParticipantID = f.participants[f.client].ID
	s.Title = strings.TrimSpace(f.inputs[fieldTitle].Value())
	s.Notes = strings.TrimSpace(f.inputs[fieldNotes].Value())
	s.Start = dateutil.At(day, hour, minute)
	s.End = s.Start.Add(time.Duration(minutes) * time.Minute)

	if s.Title == "" {
		return nil, session.ErrEmptyTitle
	}
	return s, nil
}

func (f sessionForm) fields() []view.FormField {
	fields := make([]view.FormField, fieldCount)
	for i := range fields {
		value := f.inputs[i].View()
		if i == fieldClient {
			value = "‹ " + f.clientName() + " ›"
		}
		fields[i] = view.FormField{Label: fieldLabels[i], Value: value, Focused: i == f.focus}
	}
	return fields
}
