package ui

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/trainerdesk/internal/api"
	"github.com/javiermolinar/trainerdesk/internal/logging"
)

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar as a JSON API",
		Long: `Serve the calendar over HTTP for dashboards and booking widgets.

Endpoints live under /api/v1: health, calendar, propose, sessions and
participants. The server stops cleanly on SIGINT or SIGTERM.`,
		Example: `  trainerdesk serve
  trainerdesk serve --addr=:9090 --debug`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}

			if !a.debug {
				gin.SetMode(gin.ReleaseMode)
			}
			logger, err := logging.NewServer(a.debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger = logger.With(zap.String("version", Version))
			return api.New(a.repo, a.config, logger, api.WithClock(a.now)).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
