// Package server boots the application: configuration, storage, log
// shipping, background workers and the HTTP listener, with graceful
// shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/medicore/app/jobs"
	"github.com/shashiranjanraj/medicore/app/routes"
	"github.com/shashiranjanraj/medicore/app/services"
	"github.com/shashiranjanraj/medicore/config"
	"github.com/shashiranjanraj/medicore/pkg/broadcast"
	"github.com/shashiranjanraj/medicore/pkg/cache"
	"github.com/shashiranjanraj/medicore/pkg/database"
	"github.com/shashiranjanraj/medicore/pkg/logger"
	"github.com/shashiranjanraj/medicore/pkg/migration"
	"github.com/shashiranjanraj/medicore/pkg/payment"
	"github.com/shashiranjanraj/medicore/pkg/queue"
	"github.com/shashiranjanraj/medicore/pkg/ws"
)

const (
	queueWorkers    = 5
	shutdownTimeout = 15 * time.Second
)

// Start boots everything and blocks until shutdown completes.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := migration.New(database.DB).Run(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// Cache is optional: a missing Redis degrades to uncached reads.
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, running without it", "error", err)
	}

	// Ship logs to Mongo when configured.
	var mongoHandler *logger.MongoHandler
	if uri := config.MongoLogURI(); uri != "" {
		h, err := logger.NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
		if err != nil {
			logger.Warn("mongo log shipping disabled", "error", err)
		} else {
			mongoHandler = h
			logger.AttachHandler(h)
		}
	}

	// Queue: Redis-backed when the cache connection is up.
	jobs.RegisterJobs()
	jobs.RegisterListeners()
	queue.UseDB(database.DB)
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, queueWorkers)

	// Stream hubs and the outbox dispatcher.
	hub := broadcast.Default
	wsHub := ws.NewHub()
	go wsHub.Run()
	go services.NewOutboxDispatcher(hub, wsHub).Run(ctx)

	r := NewRouter(routes.Deps{
		Gateway: payment.NewClient(),
		Hub:     hub,
		WSHub:   wsHub,
	})

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("medicore listening", "addr", addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if mongoHandler != nil {
		mongoHandler.Close()
	}

	logger.Info("bye")
	return nil
}
