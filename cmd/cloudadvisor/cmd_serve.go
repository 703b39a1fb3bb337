package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/cloudadvisor/internal/advisor"
	"github.com/HerbHall/cloudadvisor/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := buildSource(ctx, a.cfg.Catalog, a.logger)
	if err != nil {
		return err
	}
	defer closeSource()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc, err := buildService(source, a.cfg, reg, a.logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:           a.cfg.Server.Addr(),
		RateLimitRPS:   a.cfg.Server.RateLimit.RPS,
		RateLimitBurst: a.cfg.Server.RateLimit.Burst,
	}, a.logger.Named("http"), reg, advisor.NewHandler(svc, nil, a.logger.Named("api")))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	a.logger.Info("cloudadvisor server ready",
		zap.String("addr", a.cfg.Server.Addr()),
		zap.String("catalog_source", a.cfg.Catalog.Source),
		zap.Bool("diagrams", a.cfg.Diagram.Enabled),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.logger.Error("server shutdown error", zap.Error(err))
	}
	if err := <-errCh; err != nil {
		return err
	}
	a.logger.Info("cloudadvisor server stopped")
	return nil
}
