package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"EconDashboard/internal/scheduler"
	"EconDashboard/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := setup(flagQuiet)
	if err != nil {
		return err
	}
	defer rt.Close()

	sched := scheduler.NewScheduler(rt.cache, rt.metrics, rt.logger)
	if err := sched.RegisterAll(rt.cfg.Cache.PurgeCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	app, err := web.NewApp(rt.collector, rt.metrics, rt.logger)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              rt.cfg.Server.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: rt.cfg.Server.ReadTimeout,
		ReadTimeout:       rt.cfg.Server.ReadTimeout,
		WriteTimeout:      rt.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("dashboard listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
		rt.logger.Info("shutdown signal received, stopping...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	rt.logger.Info("dashboard stopped")
	return nil
}
