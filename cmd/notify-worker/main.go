package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/avrele/storefront/internal/notification"
	"github.com/avrele/storefront/internal/notification/stream"
	"github.com/avrele/storefront/pkg/idempotency"
	"github.com/avrele/storefront/pkg/logging"
	"github.com/avrele/storefront/pkg/shutdown"
	"github.com/avrele/storefront/pkg/tracing"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	log := logging.New()

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	kafkaBrokers := []string{env("KAFKA_ADDR", "localhost:9092")}
	redisAddr := env("REDIS_ADDR", "localhost:6379")
	otlpURL := env("OTLP_URL", "http://localhost:4318")
	topic := env("OUTBOX_TOPIC", "order.events")
	group := env("CONSUMER_GROUP", "notify-worker")

	tp, err := tracing.Init(ctx, "notify-worker", otlpURL, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	rdb := goredis.NewClient(&goredis.Options{Addr: redisAddr})
	defer rdb.Close()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	email := notification.NewEmailSender(log,
		env("EMAIL_HOST", ""), env("EMAIL_PORT", "587"),
		env("EMAIL_USER", ""), env("EMAIL_PASS", ""), env("EMAIL_FROM", "orders@storefront.local"))
	sms := notification.NewSMSSender(log, nil, env("SMS_PROVIDER_URL", ""), env("SMS_PROVIDER_API_KEY", ""))
	notifier := notification.NewNotifier(notification.NewProviderDispatcher(email, sms))

	consumer := stream.NewConsumer(log, kafkaBrokers, topic, group, notifier, idem)

	log.Info("notify-worker consuming", "topic", topic, "group", group)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("notify-worker shutdown complete")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
