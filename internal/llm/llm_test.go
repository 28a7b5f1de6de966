package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"theme": "Recovery"}`,
			expected: `{"theme": "Recovery"}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the review: {"observations": ["Ana trains 3 days straight"]}`,
			expected: `{"observations": ["Ana trains 3 days straight"]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"theme\": \"\"}\n```",
			expected: `{"theme": ""}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"theme\": \"\"}\n```",
			expected: `{"theme": ""}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "nested json",
			input:    `{"outer": {"inner": {"deep": true}}}`,
			expected: `{"outer": {"inner": {"deep": true}}}`,
		},
		{
			name:     "no json",
			input:    `sorry, I cannot help`,
			expected: `sorry, I cannot help`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// fakeClient records prompts and replies with a canned response.
type fakeClient struct {
	reply    string
	err      error
	messages []Message
}

func (f *fakeClient) Chat(_ context.Context, messages []Message) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := f.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}

func testSchedule() (calendar.Window, []*session.Session, []*session.Participant) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	ana := &session.Participant{ID: "p-ana", Name: "Ana"}
	ben := &session.Participant{ID: "p-ben", Name: "Ben"}

	sessions := []*session.Session{
		{ID: "3", ParticipantID: ben.ID, Title: "Late", Start: day.Add(21*time.Hour + 30*time.Minute), End: day.Add(22 * time.Hour)},
		{ID: "1", ParticipantID: ana.ID, Title: "Strength", Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)},
		{ID: "2", ParticipantID: ben.ID, Title: "Mobility", Start: day.Add(10*time.Hour + 5*time.Minute), End: day.Add(10*time.Hour + 50*time.Minute)},
		{ID: "4", ParticipantID: "p-unknown", Title: "Trial", Start: day.Add(26 * time.Hour), End: day.Add(27 * time.Hour)},
	}
	return calendar.NewWindow(day, calendar.ModeWeek), sessions, []*session.Participant{ana, ben}
}

func TestFormatWindowData(t *testing.T) {
	window, sessions, participants := testSchedule()
	e := NewEvaluatorWithOpts(&fakeClient{}, EvalOpts{WorkingHours: calendar.WorkingHours{StartHour: 8, EndHour: 21}})

	out := e.formatWindowData(window, sessions, participants)

	for _, want := range []string{
		"Period (week): Mon Jun 10 - Sun Jun 16, 2024",
		"09:00-10:00  Ana  Strength  1h",
		"⏱  10:05-10:50  Ben  Mobility  45m",
		"☾  21:30-22:00  Ben  Late  30m",
		"Tue Jun 11",
		"p-unknown  Trial",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Index(out, "Strength") > strings.Index(out, "Late") {
		t.Error("sessions should be listed in start order")
	}
}

func TestFormatWindowData_MarksOverlap(t *testing.T) {
	day := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	sessions := []*session.Session{
		{ID: "a", ParticipantID: "x", Title: "A", Start: day, End: day.Add(time.Hour)},
		{ID: "b", ParticipantID: "y", Title: "B", Start: day.Add(30 * time.Minute), End: day.Add(90 * time.Minute)},
	}
	e := NewEvaluator(&fakeClient{})

	out := e.formatWindowData(calendar.NewWindow(day, calendar.ModeMonth), sessions, nil)
	if strings.Count(out, "⚠") != 2 {
		t.Errorf("expected both sessions marked as overlapping:\n%s", out)
	}
}

func TestEvaluateWindow(t *testing.T) {
	window, sessions, participants := testSchedule()
	client := &fakeClient{reply: "```json\n{\"theme\": \"Evening creep\", \"observations\": [\"Ben trains after hours\"], \"next_steps\": [\"Move Ben to mornings\"]}\n```"}

	insight, err := NewEvaluator(client).EvaluateWindow(context.Background(), window, sessions, participants)
	if err != nil {
		t.Fatalf("EvaluateWindow failed: %v", err)
	}
	if insight.Theme != "Evening creep" || len(insight.Observations) != 1 || len(insight.NextSteps) != 1 {
		t.Errorf("unexpected insight: %+v", insight)
	}
	if len(client.messages) != 2 || client.messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", client.messages)
	}
	if !strings.Contains(client.messages[1].Content, "08:00-21:00") {
		t.Error("prompt should include working hours")
	}

	rendered := insight.String()
	for _, want := range []string{"THEME: Evening creep", "•  Ben trains after hours", "➜  Move Ben to mornings"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered insight missing %q:\n%s", want, rendered)
		}
	}
}

func TestEvaluateWindow_Errors(t *testing.T) {
	window, sessions, participants := testSchedule()

	if _, err := NewEvaluator(&fakeClient{}).EvaluateWindow(context.Background(), window, nil, participants); !errors.Is(err, ErrNoSessions) {
		t.Errorf("error = %v, want %v", err, ErrNoSessions)
	}

	boom := errors.New("rate limited")
	if _, err := NewEvaluator(&fakeClient{err: boom}).EvaluateWindow(context.Background(), window, sessions, participants); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}

	if _, err := NewEvaluator(&fakeClient{reply: "not json"}).EvaluateWindow(context.Background(), window, sessions, participants); err == nil {
		t.Error("expected an error for a non-JSON reply")
	}
}

func TestExchangeToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Token gh-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("bad credentials"))
			return
		}
		_, _ = w.Write([]byte(`{"token": "bearer-123", "expires_at": 1}`))
	}))
	defer srv.Close()

	token, err := exchangeToken(srv.Client(), srv.URL, "gh-secret")
	if err != nil {
		t.Fatalf("exchangeToken failed: %v", err)
	}
	if token != "bearer-123" {
		t.Errorf("token = %q, want bearer-123", token)
	}

	if _, err := exchangeToken(srv.Client(), srv.URL, "wrong"); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{0: "0m", 45: "45m", 60: "1h", 90: "1h30m"}
	for in, want := range tests {
		if got := formatDuration(in); got != want {
			t.Errorf("formatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
