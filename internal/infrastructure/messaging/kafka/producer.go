package kafka

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// Producer publishes audit lifecycle events.  It is safe for concurrent use.
type Producer struct {
	writer  *kafkago.Writer
	log     logging.Logger
	observe func(topic string, err error)
}

// SetPublishObserver installs a per-publish callback, used to feed the
// events_published metrics.  Must be called before the producer is shared.
func (p *Producer) SetPublishObserver(fn func(topic string, err error)) {
	p.observe = fn
}

// NewProducer constructs a Producer over the configured brokers.  Topics are
// addressed per message so one writer serves all of them.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) *Producer {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Balancer:     &kafkago.Hash{},
			MaxAttempts:  cfg.ProducerRetries + 1,
			BatchTimeout: cfg.BatchTimeout,
			RequiredAcks: kafkago.RequireOne,
		},
		log: log,
	}
}

// PublishSubmitted enqueues an audit for asynchronous analysis.
func (p *Producer) PublishSubmitted(ctx context.Context, auditID common.ID) error {
	ev := AuditSubmittedEvent{AuditID: auditID, SubmittedAt: time.Now().UTC()}
	return p.publish(ctx, TopicAuditSubmitted, auditID, ev)
}

// PublishAnalyzed announces a completed analysis.
func (p *Producer) PublishAnalyzed(ctx context.Context, res *audittypes.AnalysisResult) error {
	ev := AuditAnalyzedEvent{
		AuditID:          res.AuditID,
		OverallScore:     res.EfficiencyReport.OverallScore,
		Interpretation:   res.EfficiencyReport.Interpretation,
		Recommendations:  len(res.Recommendations),
		ScoreSubstituted: res.EfficiencyReport.ScoreSubstituted,
		AnalyzedAt:       res.AnalyzedAt,
	}
	return p.publish(ctx, TopicAuditAnalyzed, res.AuditID, ev)
}

func (p *Producer) publish(ctx context.Context, topic string, key common.ID, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal event")
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if p.observe != nil {
		p.observe(topic, err)
	}
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeMessagePublishFailed, "failed to publish event").
			WithDetail(topic)
	}

	p.log.Debug("event published",
		logging.String("topic", topic),
		logging.String("key", string(key)))
	return nil
}

// Close flushes and releases the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
