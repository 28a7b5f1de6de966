package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/dateutil"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

// errBadRequest marks client errors that are not domain validation failures.
var errBadRequest = errors.New("bad request")

type sessionJSON struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Minutes       int       `json:"minutes"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type participantJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type cellJSON struct {
	Date            string        `json:"date"`
	InCurrentPeriod bool          `json:"in_current_period"`
	Sessions        []sessionJSON `json:"sessions"`
}

type calendarJSON struct {
	Mode          string     `json:"mode"`
	ReferenceDate string     `json:"reference_date"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
	Cells         []cellJSON `json:"cells"`
	Rejected      int        `json:"rejected,omitempty"`
}

// sessionInput is the body of POST and PUT /sessions. End may be replaced by
// Minutes.
type sessionInput struct {
	ParticipantID string    `json:"participant_id"`
	Title         string    `json:"title"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Minutes       int       `json:"minutes"`
	Notes         string    `json:"notes"`
}

type participantInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toSessionJSON(s *session.Session) sessionJSON {
	return sessionJSON{
		ID:            s.ID,
		ParticipantID: s.ParticipantID,
		Title:         s.Title,
		Start:         s.Start,
		End:           s.End,
		Minutes:       s.Minutes(),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt,
	}
}

func toSessionsJSON(sessions []*session.Session) []sessionJSON {
	out := make([]sessionJSON, len(sessions))
	for i, s := range sessions {
		out[i] = toSessionJSON(s)
	}
	return out
}

func toParticipantJSON(p *session.Participant) participantJSON {
	return participantJSON{ID: p.ID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}

// apply copies the input onto s.
func (in sessionInput) apply(s *session.Session) {
	s.ParticipantID = strings.TrimSpace(in.ParticipantID)
	s.Title = strings.TrimSpace(in.Title)
	s.Notes = strings.TrimSpace(in.Notes)
	s.Start = in.Start
	s.End = in.End
	if s.End.IsZero() && in.Minutes > 0 {
		s.End = in.Start.Add(time.Duration(in.Minutes) * time.Minute)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

// handleCalendar returns the grid for ?date=YYYY-MM-DD&mode=month|week with
// sessions bucketed into cells.
func (s *Server) handleCalendar(c *gin.Context) {
	ref, err := s.queryDate(c, "date")
	if err != nil {
		s.fail(c, err)
		return
	}
	mode := calendar.ModeMonth
	if raw := c.Query("mode"); raw != "" {
		if mode, err = calendar.ParseMode(raw); err != nil {
			s.fail(c, err)
			return
		}
	}

	v := s.newView(ref, mode)
	defer v.Close()

	res := v.Fetch(v.Start(), s.repo)
	if res.Err != nil {
		s.fail(c, res.Err)
		return
	}
	v.Apply(res)

	w := v.Window()
	start, end := w.Range()
	cells := v.Cells()
	out := calendarJSON{
		Mode:          string(w.Mode),
		ReferenceDate: w.ReferenceDate.Format(time.DateOnly),
		Start:         start,
		End:           end,
		Cells:         make([]cellJSON, len(cells)),
		Rejected:      res.Rejected,
	}
	for i, cell := range cells {
		out.Cells[i] = cellJSON{
			Date:            cell.Date.Format(time.DateOnly),
			InCurrentPeriod: cell.InCurrentPeriod,
			Sessions:        toSessionsJSON(cell.Sessions),
		}
	}
	c.JSON(http.StatusOK, out)
}

// handlePropose returns the slot proposed for ?at=RFC3339 (default now).
func (s *Server) handlePropose(c *gin.Context) {
	at := s.now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.fail(c, fmt.Errorf("%w: at must be RFC3339", errBadRequest))
			return
		}
		at = parsed
	}

	start := calendar.ProposeSlot(at, s.hours)
	c.JSON(http.StatusOK, gin.H{
		"start":   start,
		"end":     start.Add(s.length),
		"minutes": int(s.length.Minutes()),
	})
}

// handleListSessions returns sessions starting in [start, end). Both are
// dates; the default is the seven days from today.
func (s *Server) handleListSessions(c *gin.Context) {
	start, err := s.queryDate(c, "start")
	if err != nil {
		s.fail(c, err)
		return
	}
	end := dateutil.AddDays(start, 7)
	if c.Query("end") != "" {
		if end, err = s.queryDate(c, "end"); err != nil {
			s.fail(c, err)
			return
		}
	}
	if !end.After(start) {
		s.fail(c, fmt.Errorf("%w: end must be after start", errBadRequest))
		return
	}

	ctx, cancel := s.fetchContext(c)
	defer cancel()
	sessions, err := s.repo.FetchSessions(ctx, start, end)
	if err != nil {
		s.fail(c, fmt.Errorf("fetching sessions: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": toSessionsJSON(sessions)})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var in sessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	sess := &session.Session{}
	in.apply(sess)
	s.saveSession(c, sess, http.StatusCreated)
}

func (s *Server) handleUpdateSession(c *gin.Context) {
	var in sessionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	existing, err := s.repo.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	in.apply(existing)
	s.saveSession(c, existing, http.StatusOK)
}

// saveSession checks the participant and writes sess through a view so the
// same validation applies as in the TUI.
func (s *Server) saveSession(c *gin.Context, sess *session.Session, status int) {
	ctx := c.Request.Context()
	if sess.ParticipantID != "" {
		if _, err := s.repo.GetParticipant(ctx, sess.ParticipantID); err != nil {
			if errors.Is(err, session.ErrParticipantNotFound) {
				err = fmt.Errorf("%w: unknown participant %s", errBadRequest, sess.ParticipantID)
			}
			s.fail(c, err)
			return
		}
	}

	v := s.newView(sess.Start, calendar.ModeWeek)
	defer v.Close()
	m := v.Save(ctx, s.repo, sess)
	if m.Err != nil {
		s.fail(c, m.Err)
		return
	}

	saved, err := s.repo.GetSession(ctx, m.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(status, toSessionJSON(saved))
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	v := s.newView(s.now(), calendar.ModeWeek)
	defer v.Close()

	m := v.Delete(c.Request.Context(), s.repo, c.Param("id"))
	if m.Err != nil {
		s.fail(c, m.Err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleListParticipants(c *gin.Context) {
	participants, err := s.repo.ListParticipants(c.Request.Context())
	if err != nil {
		s.fail(c, fmt.Errorf("listing participants: %w", err))
		return
	}
	out := make([]participantJSON, len(participants))
	for i, p := range participants {
		out[i] = toParticipantJSON(p)
	}
	c.JSON(http.StatusOK, gin.H{"participants": out})
}

func (s *Server) handleCreateParticipant(c *gin.Context) {
	var in participantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	p, err := session.NewParticipant(in.Name, in.Email)
	if err != nil {
		s.fail(c, err)
		return
	}
	p.CreatedAt = s.now()
	if err := s.repo.CreateParticipant(c.Request.Context(), p); err != nil {
		s.fail(c, fmt.Errorf("creating participant: %w", err))
		return
	}
	c.JSON(http.StatusCreated, toParticipantJSON(p))
}

// queryDate reads a YYYY-MM-DD query parameter in local time. A missing
// parameter means today.
func (s *Server) queryDate(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return dateutil.TruncateToDay(s.now()), nil
	}
	d, err := dateutil.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func (s *Server) fetchContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

// fail maps err to a status code and writes a JSON error body.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, session.ErrMalformed),
		errors.Is(err, session.ErrEmptyName),
		errors.Is(err, calendar.ErrInvalidMode),
		errors.Is(err, dateutil.ErrInvalidDateFormat):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrParticipantNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
