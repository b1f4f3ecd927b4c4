package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
)

// SubmittedHandler processes one audit-submitted event.  Returning an error
// leaves the message uncommitted so it is redelivered.
type SubmittedHandler func(ctx context.Context, ev AuditSubmittedEvent) error

// Consumer reads audit-submitted events and dispatches them to a handler.
type Consumer struct {
	reader *kafkago.Reader
	log    logging.Logger
}

// NewConsumer constructs a group consumer on the audit-submitted topic.
func NewConsumer(cfg config.KafkaConfig, log logging.Logger) *Consumer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Consumer{
		reader: kafkago.NewReader(kafkago.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    TopicAuditSubmitted,
			MinBytes: cfg.MinBytes,
			MaxBytes: cfg.MaxBytes,
		}),
		log: log,
	}
}

// Run consumes until ctx is cancelled or the reader is closed.  Malformed
// messages are committed and skipped; handler failures leave the message
// uncommitted for redelivery.
func (c *Consumer) Run(ctx context.Context, handler SubmittedHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return apperrors.Wrap(err, apperrors.ErrCodeMessageConsumeFailed, "failed to fetch message")
		}

		var ev AuditSubmittedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			c.log.Warn("skipping malformed event",
				logging.String("topic", msg.Topic),
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := handler(ctx, ev); err != nil {
			c.log.Error("event handling failed, leaving uncommitted",
				logging.String("audit_id", string(ev.AuditID)),
				logging.Err(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Warn("offset commit failed", logging.Err(err))
		}
	}
}

// Close releases the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
