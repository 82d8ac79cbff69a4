package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/romariotrain/transcription-platform/internal/app"
	pg "github.com/romariotrain/transcription-platform/internal/storage/postgres"
	"github.com/romariotrain/transcription-platform/internal/transcription/kafka"
	"github.com/romariotrain/transcription-platform/internal/transcription/outbox"
)

func run(logger zerolog.Logger) app.Runner {
	return func(ctx context.Context) error {
		_ = godotenv.Load()

		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL is empty")
		}
		brokers := os.Getenv("KAFKA_BROKERS")
		if brokers == "" {
			return fmt.Errorf("KAFKA_BROKERS is empty")
		}
		topic := os.Getenv("KAFKA_TOPIC")
		if topic == "" {
			topic = "transcription.events"
		}

		db, err := pg.Connect(ctx, dsn)
		if err != nil {
			return fmt.Errorf("db connect: %w", err)
		}
		defer db.Close()

		if err := pg.EnsureSchema(ctx, db); err != nil {
			return err
		}

		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   topic,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		defer producer.Close()

		publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
			OutboxRepo: pg.NewOutboxRepo(db),
			Producer:   producer,
			Interval:   time.Second,
			BatchSize:  100,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		return publisher.Start(ctx)
	}
}
