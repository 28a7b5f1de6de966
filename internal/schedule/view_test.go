package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/session"
	"github.com/javiermolinar/trainerdesk/internal/testfixtures"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func mkSession(id string, start time.Time) *session.Session {
	return &session.Session{ID: id, ParticipantID: "client-1", Title: "Session " + id, Start: start, End: start.Add(time.Hour)}
}

// newTestView returns a month view anchored on Monday 2024-06-10 14:37 UTC.
func newTestView(t *testing.T, opts ...Option) (*View, *testfixtures.Clock) {
	t.Helper()
	clock := testfixtures.NewClock(time.Time{})
	opts = append([]Option{WithClock(clock.NowFunc())}, opts...)
	v := New(opts...)
	t.Cleanup(v.Close)
	return v, clock
}

func load(t *testing.T, v *View, req Request, src session.Source) Result {
	t.Helper()
	res := v.Fetch(req, src)
	if !v.Apply(res) {
		t.Fatalf("result for seq %d was dropped", res.Seq)
	}
	return res
}

func sessionIDs(sessions []*session.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestView_StartFetchesCurrentMonth(t *testing.T) {
	repo := testfixtures.NewRepository(
		mkSession("june", at(2024, 6, 10, 9, 0)),
		mkSession("july", at(2024, 7, 1, 9, 0)),
	)
	v, _ := newTestView(t)

	req := v.Start()
	if !req.Start.Equal(at(2024, 6, 1, 0, 0)) || !req.End.Equal(at(2024, 7, 1, 0, 0)) {
		t.Fatalf("range = %v..%v", req.Start, req.End)
	}
	if !v.Loading() {
		t.Error("expected Loading after Start")
	}

	load(t, v, req, repo)
	if v.Loading() {
		t.Error("expected Loading cleared after Apply")
	}
	if got := sessionIDs(v.Sessions()); len(got) != 1 || got[0] != "june" {
		t.Errorf("sessions = %v, want [june]", got)
	}
}

func TestView_Navigation(t *testing.T) {
	tests := []struct {
		name      string
		action    func(v *View) Request
		wantStart time.Time
		wantEnd   time.Time
		wantMode  calendar.Mode
	}{
		{name: "next month", action: (*View).Next, wantStart: at(2024, 7, 1, 0, 0), wantEnd: at(2024, 8, 1, 0, 0), wantMode: calendar.ModeMonth},
		{name: "previous month", action: (*View).Previous, wantStart: at(2024, 5, 1, 0, 0), wantEnd: at(2024, 6, 1, 0, 0), wantMode: calendar.ModeMonth},
		{
			name:      "switch to week",
			action:    func(v *View) Request { return v.SetMode(calendar.ModeWeek) },
			wantStart: at(2024, 6, 10, 0, 0),
			wantEnd:   at(2024, 6, 17, 0, 0),
			wantMode:  calendar.ModeWeek,
		},
		{
			name: "next week",
			action: func(v *View) Request {
				v.SetMode(calendar.ModeWeek)
				return v.Next()
			},
			wantStart: at(2024, 6, 17, 0, 0),
			wantEnd:   at(2024, 6, 24, 0, 0),
			wantMode:  calendar.ModeWeek,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := newTestView(t)
			v.Start()
			req := tt.action(v)
			if !req.Start.Equal(tt.wantStart) || !req.End.Equal(tt.wantEnd) {
				t.Errorf("range = %v..%v, want %v..%v", req.Start, req.End, tt.wantStart, tt.wantEnd)
			}
			if req.Window.Mode != tt.wantMode || v.Window().Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", req.Window.Mode, tt.wantMode)
			}
		})
	}
}

func TestView_NextPreviousReturnsToOrigin(t *testing.T) {
	for _, mode := range []calendar.Mode{calendar.ModeMonth, calendar.ModeWeek} {
		v, _ := newTestView(t, WithMode(mode), WithReferenceDate(at(2024, 1, 31, 0, 0)))
		origin := v.Window()
		v.Next()
		v.Previous()
		if !v.Window().Equal(origin) {
			t.Errorf("%s: window = %v, want %v", mode, v.Window().ReferenceDate, origin.ReferenceDate)
		}
	}
}

func TestView_StaleFetchDoesNotOverwrite(t *testing.T) {
	repo := testfixtures.NewRepository(
		mkSession("june", at(2024, 6, 10, 9, 0)),
		mkSession("july", at(2024, 7, 3, 9, 0)),
	)
	v, _ := newTestView(t)

	reqJune := v.Start()
	reqJuly := v.Next()

	// July resolves first.
	load(t, v, reqJuly, repo)

	// June arrives late and must be ignored.
	late := v.Fetch(reqJune, repo)
	if v.Apply(late) {
		t.Fatal("stale result was applied")
	}
	if got := sessionIDs(v.Sessions()); len(got) != 1 || got[0] != "july" {
		t.Errorf("sessions = %v, want [july]", got)
	}
	if v.Window().ReferenceDate.Month() != time.July {
		t.Errorf("window moved back to %v", v.Window().ReferenceDate)
	}
}

func TestView_StaleResultArrivingBeforeCurrentIsIgnored(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("june", at(2024, 6, 10, 9, 0)))
	v, _ := newTestView(t)

	reqJune := v.Start()
	v.Next()

	if v.Apply(v.Fetch(reqJune, repo)) {
		t.Fatal("stale result was applied")
	}
	if !v.Loading() {
		t.Error("stale result must not clear Loading for the current request")
	}
	if len(v.Sessions()) != 0 {
		t.Errorf("sessions = %v, want none", sessionIDs(v.Sessions()))
	}
}

func TestView_SupersededRequestIsCancelled(t *testing.T) {
	repo := testfixtures.NewRepository()
	started := make(chan struct{})
	repo.OnFetch = func(ctx context.Context, start, _ time.Time) error {
		if start.Month() != time.June {
			return nil
		}
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
	v, _ := newTestView(t)

	reqJune := v.Start()
	done := make(chan Result, 1)
	go func() { done <- v.Fetch(reqJune, repo) }()
	<-started

	v.Next()

	select {
	case res := <-done:
		if !IsCanceled(res.Err) {
			t.Fatalf("error = %v, want cancellation", res.Err)
		}
		if v.Apply(res) {
			t.Error("cancelled result was applied")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
}

func TestView_FetchTimeout(t *testing.T) {
	repo := testfixtures.NewRepository()
	repo.OnFetch = func(ctx context.Context, _, _ time.Time) error {
		<-ctx.Done()
		return ctx.Err()
	}
	v, _ := newTestView(t, WithFetchTimeout(20*time.Millisecond))

	res := v.Fetch(v.Start(), repo)
	if !errors.Is(res.Err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want %v", res.Err, context.DeadlineExceeded)
	}
	if !v.Apply(res) {
		t.Fatal("current result was dropped")
	}
	if _, ok := v.Notice(); !ok {
		t.Error("expected a notice after timeout")
	}
}

func TestView_FetchFailureKeepsSessions(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("a", at(2024, 6, 10, 9, 0)))
	v, _ := newTestView(t)
	load(t, v, v.Start(), repo)

	repo.FetchErr = errors.New("offline")
	res := load(t, v, v.Refresh(), repo)
	if res.Err == nil {
		t.Fatal("expected fetch error")
	}

	if got := sessionIDs(v.Sessions()); len(got) != 1 || got[0] != "a" {
		t.Errorf("sessions = %v, want [a]", got)
	}
	n, ok := v.Notice()
	if !ok || !errors.Is(n.Err, repo.FetchErr) {
		t.Fatalf("notice = %+v, %v", n, ok)
	}
	if v.Loading() {
		t.Error("Loading should clear after a failed fetch")
	}

	v.DismissNotice()
	if _, ok := v.Notice(); ok {
		t.Error("notice still present after dismiss")
	}
}

func TestView_RejectsMalformedSessions(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("good", at(2024, 6, 10, 9, 0)))
	repo.Raw = []*session.Session{
		{ID: "no-participant", Title: "x", Start: at(2024, 6, 11, 9, 0), End: at(2024, 6, 11, 10, 0)},
		{ID: "backwards", ParticipantID: "c", Title: "x", Start: at(2024, 6, 12, 10, 0), End: at(2024, 6, 12, 9, 0)},
		nil,
	}
	v, _ := newTestView(t)

	res := load(t, v, v.Start(), repo)
	if res.Rejected != 3 {
		t.Errorf("Rejected = %d, want 3", res.Rejected)
	}
	if got := sessionIDs(v.Sessions()); len(got) != 1 || got[0] != "good" {
		t.Errorf("sessions = %v, want [good]", got)
	}
	if _, ok := v.Notice(); !ok {
		t.Error("expected a notice about skipped sessions")
	}
}

func TestView_Cells(t *testing.T) {
	repo := testfixtures.NewRepository(
		mkSession("a", at(2024, 6, 10, 9, 0)),
		mkSession("b", at(2024, 6, 10, 23, 50)),
		mkSession("c", at(2024, 6, 11, 0, 10)),
	)
	v, _ := newTestView(t)
	load(t, v, v.Start(), repo)

	cells := v.Cells()
	if len(cells) != calendar.MonthGridCells {
		t.Fatalf("got %d cells", len(cells))
	}
	for _, c := range cells {
		switch c.Date.Day() {
		case 10:
			if c.InCurrentPeriod && len(c.Sessions) != 2 {
				t.Errorf("June 10 has %d sessions, want 2", len(c.Sessions))
			}
		case 11:
			if c.InCurrentPeriod && len(c.Sessions) != 1 {
				t.Errorf("June 11 has %d sessions, want 1", len(c.Sessions))
			}
		}
	}
	if got := v.SessionsOn(at(2024, 6, 10, 0, 0)); len(got) != 2 {
		t.Errorf("SessionsOn = %v", sessionIDs(got))
	}
}

func TestView_Select(t *testing.T) {
	v, _ := newTestView(t)
	v.Start()

	if _, fetch := v.MoveSelection(5); fetch {
		t.Error("moving inside June should not fetch")
	}
	if !v.Window().ReferenceDate.Equal(at(2024, 6, 15, 0, 0)) {
		t.Errorf("reference = %v", v.Window().ReferenceDate)
	}

	req, fetch := v.MoveSelection(21)
	if !fetch {
		t.Fatal("moving into July should fetch")
	}
	if !req.Start.Equal(at(2024, 7, 1, 0, 0)) {
		t.Errorf("range start = %v", req.Start)
	}
}

func TestView_Today(t *testing.T) {
	v, clock := newTestView(t, WithReferenceDate(at(2023, 1, 5, 0, 0)))
	clock.Set(at(2024, 9, 3, 10, 0))

	req := v.Today()
	if !v.Window().ReferenceDate.Equal(at(2024, 9, 3, 0, 0)) {
		t.Errorf("reference = %v", v.Window().ReferenceDate)
	}
	if !req.Start.Equal(at(2024, 9, 1, 0, 0)) {
		t.Errorf("range start = %v", req.Start)
	}
}

func TestView_SelectCellProposesSlot(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		day       time.Time
		wantStart time.Time
	}{
		{name: "afternoon", now: at(2024, 6, 10, 14, 37), day: at(2024, 6, 12, 0, 0), wantStart: at(2024, 6, 12, 14, 0)},
		{name: "early morning", now: at(2024, 6, 10, 6, 30), day: at(2024, 6, 12, 0, 0), wantStart: at(2024, 6, 12, 8, 0)},
		{name: "late evening rolls over", now: at(2024, 6, 10, 22, 0), day: at(2024, 6, 12, 0, 0), wantStart: at(2024, 6, 13, 8, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, clock := newTestView(t, WithSessionLength(45*time.Minute))
			clock.Set(tt.now)

			draft := v.SelectCell(tt.day)
			if !draft.IsNew || draft.Session.ID != "" {
				t.Errorf("expected a new draft, got %+v", draft)
			}
			if !draft.Session.Start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", draft.Session.Start, tt.wantStart)
			}
			if got := draft.Session.Duration(); got != 45*time.Minute {
				t.Errorf("duration = %v, want 45m", got)
			}
		})
	}
}

func TestView_SelectSessionReturnsCopy(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("a", at(2024, 6, 10, 9, 0)))
	v, _ := newTestView(t)
	load(t, v, v.Start(), repo)

	draft, ok := v.SelectSession("a")
	if !ok || draft.IsNew {
		t.Fatalf("SelectSession = %+v, %v", draft, ok)
	}
	draft.Session.Title = "Edited"
	if v.Sessions()[0].Title == "Edited" {
		t.Error("editing the draft changed the loaded session")
	}

	if _, ok := v.SelectSession("missing"); ok {
		t.Error("expected no draft for unknown id")
	}
}

func TestView_SaveTriggersRefresh(t *testing.T) {
	repo := testfixtures.NewRepository()
	v, _ := newTestView(t)
	first := v.Start()
	load(t, v, first, repo)

	draft := v.SelectCell(at(2024, 6, 12, 0, 0))
	draft.Session.ParticipantID = "client-1"
	draft.Session.Title = "Strength"

	m := v.Save(context.Background(), repo, draft.Session)
	if m.Err != nil {
		t.Fatalf("save failed: %v", m.Err)
	}
	if m.ID == "" || draft.Session.ID != "" {
		t.Errorf("expected ID on mutation only, got mutation %q draft %q", m.ID, draft.Session.ID)
	}
	if len(v.Sessions()) != 0 {
		t.Error("Save must not patch local state")
	}

	req, ok := v.Settle(m)
	if !ok || req.Seq <= first.Seq {
		t.Fatalf("expected refresh request, got %+v %v", req, ok)
	}
	load(t, v, req, repo)
	if got := sessionIDs(v.Sessions()); len(got) != 1 || got[0] != m.ID {
		t.Errorf("sessions = %v, want [%s]", got, m.ID)
	}
}

func TestView_SaveRejectsInvalid(t *testing.T) {
	repo := testfixtures.NewRepository()
	v, _ := newTestView(t)

	draft := v.SelectCell(at(2024, 6, 12, 0, 0))
	m := v.Save(context.Background(), repo, draft.Session)
	if !errors.Is(m.Err, session.ErrMalformed) {
		t.Fatalf("error = %v, want ErrMalformed", m.Err)
	}
	if repo.Saves() != 0 {
		t.Error("invalid session reached the store")
	}

	if _, ok := v.Settle(m); ok {
		t.Error("failed mutation should not refresh")
	}
	n, ok := v.Notice()
	if !ok || n.Message != "Could not save session" {
		t.Errorf("notice = %+v", n)
	}
}

func TestView_MutationFailureKeepsGrid(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("a", at(2024, 6, 10, 9, 0)))
	v, _ := newTestView(t)
	load(t, v, v.Start(), repo)

	repo.DeleteErr = errors.New("permission denied")
	m := v.Delete(context.Background(), repo, "a")
	if _, ok := v.Settle(m); ok {
		t.Fatal("failed delete should not refresh")
	}
	if len(v.Sessions()) != 1 {
		t.Errorf("sessions changed after failed delete: %v", sessionIDs(v.Sessions()))
	}
	if n, _ := v.Notice(); !errors.Is(n.Err, repo.DeleteErr) {
		t.Errorf("notice = %+v", n)
	}
}

func TestView_Delete(t *testing.T) {
	repo := testfixtures.NewRepository(mkSession("a", at(2024, 6, 10, 9, 0)))
	v, _ := newTestView(t)
	load(t, v, v.Start(), repo)

	req, ok := v.Settle(v.Delete(context.Background(), repo, "a"))
	if !ok {
		t.Fatal("expected refresh after delete")
	}
	load(t, v, req, repo)
	if len(v.Sessions()) != 0 {
		t.Errorf("sessions = %v, want none", sessionIDs(v.Sessions()))
	}

	m := v.Delete(context.Background(), repo, "a")
	if !errors.Is(m.Err, session.ErrSessionNotFound) {
		t.Errorf("error = %v, want %v", m.Err, session.ErrSessionNotFound)
	}
}
