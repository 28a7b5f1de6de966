// Package schedule holds the calendar view state: the visible window, the
// last known sessions, and the fetch and mutation round trips that keep them
// in sync with a session store.
//
// A View is owned by a single event loop. Methods that block (Fetch, Save,
// Delete) only read configuration fixed at construction, so they can run on
// another goroutine; their results are handed back to the owner through
// Apply and Settle.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// Defaults used when no option overrides them.
const (
	DefaultSessionLength = time.Hour
	DefaultFetchTimeout  = 10 * time.Second
)

// DefaultWorkingHours is the proposal window used when none is configured.
var DefaultWorkingHours = calendar.WorkingHours{StartHour: 8, EndHour: 21}

// Request is a fetch the View wants performed for its current window.
type Request struct {
	Seq    uint64
	Window calendar.Window
	Start  time.Time
	End    time.Time

	ctx context.Context
}

// Context returns the context bound to the request. It is cancelled as soon
// as the View issues a newer request.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Result is the outcome of Fetch.
type Result struct {
	Seq      uint64
	Window   calendar.Window
	Sessions []*session.Session
	Rejected int
	Err      error
}

// Op names a mutation.
type Op string

const (
	OpSave   Op = "save"
	OpDelete Op = "delete"
)

// Mutation is the outcome of Save or Delete.
type Mutation struct {
	Op  Op
	ID  string
	Err error
}

// Notice is a dismissible message for the user.
type Notice struct {
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err == nil {
		return n.Message
	}
	return fmt.Sprintf("%s: %v", n.Message, n.Err)
}

// Draft is a session opened for editing. New drafts have an empty ID.
type Draft struct {
	Session *session.Session
	IsNew   bool
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock overrides the time source used for "today" and slot proposals.
func WithClock(now func() time.Time) Option {
	return func(v *View) {
		if now != nil {
			v.now = now
		}
	}
}

// WithWorkingHours sets the slot proposal policy.
func WithWorkingHours(hours calendar.WorkingHours) Option {
	return func(v *View) { v.hours = hours }
}

// WithSessionLength sets the length of newly proposed sessions.
func WithSessionLength(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.sessionLength = d
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero disables the timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(v *View) { v.fetchTimeout = d }
}

// WithMode sets the initial view mode.
func WithMode(mode calendar.Mode) Option {
	return func(v *View) { v.window = v.window.WithMode(mode) }
}

// WithReferenceDate sets the initial reference date instead of today.
func WithReferenceDate(ref time.Time) Option {
	return func(v *View) { v.reference = ref }
}

// View is the calendar view state machine.
type View struct {
	logger        *zap.Logger
	now           func() time.Time
	hours         calendar.WorkingHours
	sessionLength time.Duration
	fetchTimeout  time.Duration
	reference     time.Time

	window   calendar.Window
	sessions []*session.Session
	seq      uint64
	cancel   context.CancelFunc
	loading  bool
	notice   *Notice
}

// New creates a View anchored at today.
func New(opts ...Option) *View {
	v := &View{
		logger:        zap.NewNop(),
		now:           time.Now,
		hours:         DefaultWorkingHours,
		sessionLength: DefaultSessionLength,
		fetchTimeout:  DefaultFetchTimeout,
		window:        calendar.Window{Mode: calendar.ModeMonth},
	}
	for _, opt := range opts {
		opt(v)
	}

	ref := v.reference
	if ref.IsZero() {
		ref = v.now()
	}
	v.window = calendar.NewWindow(ref, v.window.Mode)
	return v
}

// Start issues the initial fetch for the current window.
func (v *View) Start() Request {
	return v.issue("start")
}

// Refresh re-fetches the current window.
func (v *View) Refresh() Request {
	return v.issue("refresh")
}

// Next moves forward one period and fetches it.
func (v *View) Next() Request {
	v.window = v.window.Next()
	return v.issue("next")
}

// Previous moves back one period and fetches it.
func (v *View) Previous() Request {
	v.window = v.window.Previous()
	return v.issue("previous")
}

// SetMode switches between month and week, keeping the reference date.
func (v *View) SetMode(mode calendar.Mode) Request {
	v.window = v.window.WithMode(mode)
	return v.issue("mode")
}

// Today jumps to the period containing the current date.
func (v *View) Today() Request {
	v.window = v.window.Today(v.now())
	return v.issue("today")
}

// Select moves the reference date to day. A fetch is issued only when the
// fetch range changes, so moving inside the visible period costs nothing.
func (v *View) Select(day time.Time) (Request, bool) {
	prevStart, prevEnd := v.window.Range()
	v.window = v.window.Focus(day)
	start, end := v.window.Range()
	if start.Equal(prevStart) && end.Equal(prevEnd) {
		return Request{}, false
	}
	return v.issue("select"), true
}

// MoveSelection shifts the reference date by days.
func (v *View) MoveSelection(days int) (Request, bool) {
	return v.Select(dateutil.AddDays(v.window.ReferenceDate, days))
}

func (v *View) issue(reason string) Request {
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.seq++
	v.loading = true

	start, end := v.window.Range()
	v.logger.Debug("fetch issued",
		zap.String("reason", reason),
		zap.Uint64("seq", v.seq),
		zap.String("mode", string(v.window.Mode)),
		zap.Time("start", start),
		zap.Time("end", end),
	)
	return Request{Seq: v.seq, Window: v.window, Start: start, End: end, ctx: ctx}
}

// Fetch performs req against src. It blocks and is safe to call off the
// owning goroutine. Sessions that fail validation are dropped and counted.
func (v *View) Fetch(req Request, src session.Source) Result {
	ctx := req.Context()
	if v.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.fetchTimeout)
		defer cancel()
	}

	res := Result{Seq: req.Seq, Window: req.Window}
	fetched, err := src.FetchSessions(ctx, req.Start, req.End)
	if err != nil {
		res.Err = fmt.Errorf("fetching sessions: %w", err)
		return res
	}

	res.Sessions = make([]*session.Session, 0, len(fetched))
	for _, s := range fetched {
		if err := s.Validate(); err != nil {
			res.Rejected++
			v.logger.Warn("rejecting malformed session", zap.Uint64("seq", req.Seq), zap.Error(err))
			continue
		}
		res.Sessions = append(res.Sessions, s)
	}
	return res
}

// Apply installs a fetch result. Results from superseded requests are
// dropped and Apply returns false. A failed fetch keeps the sessions already
// on screen and raises a notice.
func (v *View) Apply(res Result) bool {
	if res.Seq != v.seq {
		v.logger.Debug("dropping stale fetch", zap.Uint64("seq", res.Seq), zap.Uint64("current", v.seq))
		return false
	}

	v.loading = false
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}

	if res.Err != nil {
		v.logger.Warn("fetch failed", zap.Uint64("seq", res.Seq), zap.Error(res.Err))
		v.notice = &Notice{Message: "Could not load sessions", Err: res.Err}
		return true
	}

	v.sessions = res.Sessions
	if res.Rejected > 0 {
		v.notice = &Notice{Message: fmt.Sprintf("Skipped %d malformed session(s)", res.Rejected)}
	}
	v.logger.Debug("fetch applied", zap.Uint64("seq", res.Seq), zap.Int("sessions", len(res.Sessions)))
	return true
}

// Cells returns the current grid with sessions attached to each day.
func (v *View) Cells() []calendar.DayCell {
	return calendar.Bucket(v.window.Cells(), v.sessions)
}

// SessionsOn returns the loaded sessions starting on day.
func (v *View) SessionsOn(day time.Time) []*session.Session {
	return calendar.SessionsOnDay(v.sessions, day)
}

// SelectCell opens a new-session draft on day. The current time of day is
// moved onto day and clamped to working hours.
func (v *View) SelectCell(day time.Time) Draft {
	now := v.now().In(day.Location())
	candidate := dateutil.At(day, now.Hour(), now.Minute())
	start := calendar.ProposeSlot(candidate, v.hours)
	return Draft{
		Session: &session.Session{Start: start, End: start.Add(v.sessionLength)},
		IsNew:   true,
	}
}

// SelectSession opens an edit draft for a loaded session.
func (v *View) SelectSession(id string) (Draft, bool) {
	for _, s := range v.sessions {
		if s.ID == id {
			return Draft{Session: s.Clone()}, true
		}
	}
	return Draft{}, false
}

// Save validates s and writes it to store. New sessions get an ID. Local
// state is not touched; pass the result to Settle.
func (v *View) Save(ctx context.Context, store session.Store, s *session.Session) Mutation {
	s = s.Clone()
	if s == nil {
		return Mutation{Op: OpSave, Err: session.ErrMalformed}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
		s.CreatedAt = v.now()
	}
	if err := s.Validate(); err != nil {
		return Mutation{Op: OpSave, ID: s.ID, Err: err}
	}
	if err := store.SaveSession(ctx, s); err != nil {
		return Mutation{Op: OpSave, ID: s.ID, Err: fmt.Errorf("saving session: %w", err)}
	}
	return Mutation{Op: OpSave, ID: s.ID}
}

// Delete removes a session from store. Local state is not touched; pass the
// result to Settle.
func (v *View) Delete(ctx context.Context, store session.Store, id string) Mutation {
	if id == "" {
		return Mutation{Op: OpDelete, Err: session.ErrMissingID}
	}
	if err := store.DeleteSession(ctx, id); err != nil {
		return Mutation{Op: OpDelete, ID: id, Err: fmt.Errorf("deleting session: %w", err)}
	}
	return Mutation{Op: OpDelete, ID: id}
}

// Settle records a mutation outcome. On success it returns a refresh request
// for the current window; on failure it raises a notice and leaves the grid as is.
func (v *View) Settle(m Mutation) (Request, bool) {
	if m.Err != nil {
		v.logger.Warn("mutation failed", zap.String("op", string(m.Op)), zap.String("id", m.ID), zap.Error(m.Err))
		msg := "Could not save session"
		if m.Op == OpDelete {
			msg = "Could not delete session"
		}
		v.notice = &Notice{Message: msg, Err: m.Err}
		return Request{}, false
	}
	v.logger.Debug("mutation applied", zap.String("op", string(m.Op)), zap.String("id", m.ID))
	return v.issue(string(m.Op)), true
}

// Notice returns the pending notice, if any.
func (v *View) Notice() (Notice, bool) {
	if v.notice == nil {
		return Notice{}, false
	}
	return *v.notice, true
}

// DismissNotice clears the pending notice.
func (v *View) DismissNotice() {
	v.notice = nil
}

// Loading reports whether the current window's fetch is outstanding.
func (v *View) Loading() bool { return v.loading }

// Sessions returns the last successfully loaded sessions.
func (v *View) Sessions() []*session.Session { return v.sessions }

// Window returns the visible window.
func (v *View) Window() calendar.Window { return v.window }

// WorkingHours returns the slot proposal policy.
func (v *View) WorkingHours() calendar.WorkingHours { return v.hours }

// Close cancels any in-flight fetch.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// IsCanceled reports whether err came from a superseded or timed-out fetch.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
