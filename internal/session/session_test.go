package session

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	s, err := New("client-1", "  Leg day  ", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" {
		t.Error("expected ID to be assigned")
	}
	if s.Title != "Leg day" {
		t.Errorf("Title = %q, want %q", s.Title, "Leg day")
	}
	if s.Minutes() != 60 {
		t.Errorf("Minutes() = %d, want 60", s.Minutes())
	}
}

func TestNew_UniqueIDs(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	a, _ := New("client-1", "A", start, start.Add(time.Hour))
	b, _ := New("client-1", "B", start, start.Add(time.Hour))
	if a.ID == b.ID {
		t.Errorf("expected unique IDs, both were %q", a.ID)
	}
}

func TestValidate(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	valid := Session{ID: "s1", ParticipantID: "c1", Title: "Mobility", Start: start, End: start.Add(30 * time.Minute)}

	tests := []struct {
		name    string
		mutate  func(s *Session)
		wantErr error
	}{
		{name: "valid", mutate: func(*Session) {}},
		{name: "missing id", mutate: func(s *Session) { s.ID = "" }, wantErr: ErrMissingID},
		{name: "missing participant", mutate: func(s *Session) { s.ParticipantID = "" }, wantErr: ErrMissingParticipant},
		{name: "blank title", mutate: func(s *Session) { s.Title = "   " }, wantErr: ErrEmptyTitle},
		{name: "zero start", mutate: func(s *Session) { s.Start = time.Time{} }, wantErr: ErrMissingTime},
		{name: "end equals start", mutate: func(s *Session) { s.End = s.Start }, wantErr: ErrEndBeforeStart},
		{name: "end before start", mutate: func(s *Session) { s.End = s.Start.Add(-time.Minute) }, wantErr: ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestOverlapsWith(t *testing.T) {
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	a := &Session{ID: "a", Start: base, End: base.Add(time.Hour)}

	tests := []struct {
		name  string
		other *Session
		want  bool
	}{
		{name: "nil", other: nil, want: false},
		{name: "same session", other: &Session{ID: "a", Start: base, End: base.Add(time.Hour)}, want: false},
		{name: "partial overlap", other: &Session{ID: "b", Start: base.Add(30 * time.Minute), End: base.Add(90 * time.Minute)}, want: true},
		{name: "touching", other: &Session{ID: "b", Start: base.Add(time.Hour), End: base.Add(2 * time.Hour)}, want: false},
		{name: "contained", other: &Session{ID: "b", Start: base.Add(10 * time.Minute), End: base.Add(20 * time.Minute)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.OverlapsWith(tt.other); got != tt.want {
				t.Errorf("OverlapsWith() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	s := &Session{ID: "a", Title: "Original"}
	c := s.Clone()
	c.Title = "Edited"
	if s.Title != "Original" {
		t.Errorf("clone mutated original: %q", s.Title)
	}
	if (*Session)(nil).Clone() != nil {
		t.Error("expected nil clone of nil session")
	}
}

func TestNewParticipant(t *testing.T) {
	p, err := NewParticipant(" Ana Ruiz ", "ana@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Ana Ruiz" || p.ID == "" {
		t.Errorf("unexpected participant: %+v", p)
	}

	if _, err := NewParticipant("  ", ""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("error = %v, want %v", err, ErrEmptyName)
	}
}
