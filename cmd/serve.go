package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"userservice/internal/api"
	"userservice/internal/api/handler/v1handler"
	"userservice/internal/config"
	"userservice/internal/users"
	"userservice/internal/worker"
	"userservice/pkg/logger"
	"userservice/pkg/storage/postgres"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func setupServer(ctx context.Context, cfg *config.Config, svc users.Service) func(ctx context.Context) {
	server, err := api.NewServer(ctx, api.Deps{
		Deps: v1handler.Deps{Users: svc},
	}, api.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func setupWorker(ctx context.Context, cfg *config.Config, pgsql *postgres.PgSQL, cache worker.Warmer) func(ctx context.Context) {
	riverClient, err := worker.Start(ctx, pgsql.Pool, cache, worker.Options{
		MaxWorkers: cfg.Worker.MaxWorkers,
	})
	if err != nil {
		logger.Fatal(ctx, "could not start workers", zap.Error(err))
	}

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping workers...")
		if err := riverClient.Stop(ctx); err != nil {
			logger.Error(ctx, "could not stop workers", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts API server and background workers",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			pgsql, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			client, closeRedis := getRedis(ctx, cfg)
			defer closeRedis()

			svc, cache, err := buildService(cfg, pgsql, client)
			if err != nil {
				logger.Fatal(ctx, "could not build user service", zap.Error(err))
			}

			// workers must not inherit the signal context, river drains them on Stop
			stopWorker := setupWorker(context.WithoutCancel(ctx), cfg, pgsql, cache)
			stopWebserver := setupServer(ctx, cfg, svc)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			stopWorker(shutdownCtx)
		},
	}

	return cmd
}
