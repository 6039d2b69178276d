package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avrele/storefront/internal/notification"
	orderdomain "github.com/avrele/storefront/internal/order/domain"
	"github.com/avrele/storefront/pkg/idempotency"
	"github.com/avrele/storefront/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Fetcher is the slice of kafka.Reader the consumer needs.
type Fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Deduper suppresses repeat deliveries of the same order event.
type Deduper interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// Consumer turns OrderConfirmed events into buyer notifications. Sends are
// best-effort: a failed send is logged and the offset committed anyway, so
// a flaky SMTP server cannot wedge the stream. Duplicate deliveries are
// suppressed per order id through the idempotency store.
type Consumer struct {
	log      *slog.Logger
	reader   Fetcher
	notifier *notification.Notifier
	idem     Deduper
	tracer   trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, notifier *notification.Notifier, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return newConsumer(log, r, notifier, idem)
}

func newConsumer(log *slog.Logger, reader Fetcher, notifier *notification.Notifier, idem Deduper) *Consumer {
	return &Consumer{
		log:      log,
		reader:   reader,
		notifier: notifier,
		idem:     idem,
		tracer:   otel.Tracer("notify-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		c.handle(ctx, msg)
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	if et := headerValue(msg.Headers, "event_type"); et != "" && et != orderdomain.EventOrderConfirmed {
		return
	}

	var event orderdomain.OrderConfirmed
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.log.Error("unmarshal order event failed", "err", err)
		return
	}

	key := fmt.Sprintf("notify:order:%s", event.OrderID)
	seen, err := c.idem.Seen(ctx, key)
	if err != nil {
		c.log.Error("idempotency check failed", "order_id", event.OrderID, "err", err)
		// Fall through: a duplicate notification beats a silently lost one.
	}
	if seen {
		c.log.Info("duplicate notification skipped", "order_id", event.OrderID)
		return
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "NotifyOrderConfirmed")
	defer span.End()

	o := orderdomain.Order{
		ID:      event.OrderID,
		BuyerID: event.BuyerID,
		Lines:   event.Lines,
		Total:   event.Total,
	}
	if err := c.notifier.OrderConfirmed(msgCtx, o, event.BuyerEmail, event.BuyerPhone); err != nil {
		c.log.Error("notification send failed", "order_id", event.OrderID, "err", err)
		return
	}
	c.log.Info("order confirmation sent", "order_id", event.OrderID)
}

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
