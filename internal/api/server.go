// Package api serves the calendar as a JSON API for dashboards.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/calendar"
	"github.com/javiermolinar/trainerdesk/internal/config"
	"github.com/javiermolinar/trainerdesk/internal/schedule"
	"github.com/javiermolinar/trainerdesk/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Server exposes the session repository over HTTP.
type Server struct {
	repo    session.Repository
	logger  *zap.Logger
	hours   calendar.WorkingHours
	length  time.Duration
	timeout time.Duration
	now     func() time.Time
	router  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the wall clock used for "today" and new session timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a server over repo. Working hours, session length and fetch
// timeout come from cfg.
func New(repo session.Repository, cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout, err := cfg.FetchTimeout()
	if err != nil {
		timeout = schedule.DefaultFetchTimeout
	}

	s := &Server{
		repo:    repo,
		logger:  logger,
		hours:   cfg.WorkingHours(),
		length:  cfg.SessionLength(),
		timeout: timeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	s.routes(r)
	s.router = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	v1 := r.Group("/api/v1")
	v1.GET("/health", s.handleHealth)
	v1.GET("/calendar", s.handleCalendar)
	v1.GET("/propose", s.handlePropose)

	v1.GET("/sessions", s.handleListSessions)
	v1.POST("/sessions", s.handleCreateSession)
	v1.PUT("/sessions/:id", s.handleUpdateSession)
	v1.DELETE("/sessions/:id", s.handleDeleteSession)

	v1.GET("/participants", s.handleListParticipants)
	v1.POST("/participants", s.handleCreateParticipant)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("starting HTTP server", zap.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newView builds a per-request calendar view anchored on ref.
func (s *Server) newView(ref time.Time, mode calendar.Mode) *schedule.View {
	return schedule.New(
		schedule.WithLogger(s.logger),
		schedule.WithClock(s.now),
		schedule.WithWorkingHours(s.hours),
		schedule.WithSessionLength(s.length),
		schedule.WithFetchTimeout(s.timeout),
		schedule.WithMode(mode),
		schedule.WithReferenceDate(ref),
	)
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
