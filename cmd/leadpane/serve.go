package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/export"
	"github.com/AngelCh415/leadpane/internal/httpx"
	"github.com/AngelCh415/leadpane/internal/utils"
)

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the snapshot scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, *envFile)
			if err != nil {
				return err
			}
			defer a.close(context.Background())
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	svc := a.service()

	exporter := export.NewExporter(export.NewHTTPClient(a.cfg.HTTPTimeout),
		a.cfg.SinkURL, a.cfg.SinkSecret, utils.NewBackoff(time.Second, 3), a.log)
	if a.cfg.SnapshotSchedule != "" {
		c := cron.New()
		if _, err := export.NewJob(svc, exporter, a.log).Schedule(c, a.cfg.SnapshotSchedule); err != nil {
			return err
		}
		c.Start()
		defer c.Stop()
		a.log.Info("snapshot job scheduled",
			zap.String("schedule", a.cfg.SnapshotSchedule), zap.Bool("export", exporter.Enabled()))
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           httpx.NewRouter(a.log, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("starting server", zap.String("port", a.cfg.Port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
