package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/romariotrain/transcription-platform/internal/app"
	pg "github.com/romariotrain/transcription-platform/internal/storage/postgres"
	rediscache "github.com/romariotrain/transcription-platform/internal/storage/redis"
	"github.com/romariotrain/transcription-platform/internal/transcription/command"
	"github.com/romariotrain/transcription-platform/internal/transcription/domain"
	"github.com/romariotrain/transcription-platform/internal/transcription/event"
	"github.com/romariotrain/transcription-platform/internal/transcription/httpapi"
	"github.com/romariotrain/transcription-platform/internal/transcription/query"
	"github.com/romariotrain/transcription-platform/internal/transcription/repository"
)

func run(logger zerolog.Logger) app.Runner {
	return func(ctx context.Context) error {
		_ = godotenv.Load()

		repo, cleanup, err := buildRepository(ctx, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		cache, cacheCleanup, err := buildCache(ctx, logger)
		if err != nil {
			return err
		}
		defer cacheCleanup()

		dispatcher := event.NewDispatcher(logger)
		notifications := event.NewNotificationSubscriber(logger)
		stats := event.NewStatsSubscriber()
		for _, eventType := range []string{
			"TranscriptionCreated", "TranscriptionStartedProcessing",
			"TranscriptionCompleted", "TranscriptionFailed",
			"TranscriptionCancelled", "TranscriptionRetried",
		} {
			dispatcher.Subscribe(eventType, notifications)
			dispatcher.Subscribe(eventType, stats)
		}

		pricing := domain.NewStandardPricing()

		commandBus := command.NewBus(logger)
		// Providers (downloader, transcriber) are deployment concerns; the
		// create handler rejects youtube commands until one is configured.
		if err := commandBus.Register(command.NewCreateHandler(repo, dispatcher, nil, pricing)); err != nil {
			return err
		}
		if err := commandBus.Register(command.NewLifecycleHandler(repo, dispatcher)); err != nil {
			return err
		}

		queryBus := query.NewBus(cache, logger)
		if err := queryBus.Register(query.NewTranscriptionHandler(repo)); err != nil {
			return err
		}

		router := httpapi.NewRouter(httpapi.New(commandBus, queryBus, logger))

		addr := os.Getenv("HTTP_ADDR")
		if addr == "" {
			addr = ":8080"
		}
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", addr).Msg("http server listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil

		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("listen and serve: %w", err)
		}
	}
}

// buildRepository prefers postgres, falling back to the in-memory store
// when DATABASE_URL is unset so the service runs without infrastructure.
func buildRepository(ctx context.Context, logger zerolog.Logger) (repository.TranscriptionRepository, func(), error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory repository")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	db, err := pg.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := pg.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}

	repo := pg.NewTranscriptionRepo(db, pg.NewOutboxRepo(db))
	return repo, func() { db.Close() }, nil
}

func buildCache(ctx context.Context, logger zerolog.Logger) (query.Cache, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Warn().Msg("REDIS_ADDR not set, using in-memory query cache")
		return query.NewMemoryCache(), func() {}, nil
	}

	cache, err := rediscache.NewCache(ctx, rediscache.Config{
		Addr:   addr,
		Prefix: "transcription:query:",
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { _ = cache.Close() }, nil
}
