package repository

import (
	"context"

	"WalletScope/internal/domain/models"
	pkgkafka "WalletScope/pkg/kafka"
	applogger "WalletScope/pkg/logger"
)

// KafkaTracePublisher implements TracePublisher over a Kafka topic. Messages
// are keyed by the traced address so all findings for one wallet land on the
// same partition, in order.
type KafkaTracePublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaTracePublisher(producer *pkgkafka.Producer, topic string) *KafkaTracePublisher {
	if topic == "" {
		topic = "walletscope.traces"
	}
	return &KafkaTracePublisher{producer: producer, topic: topic}
}

// SetLogger injects a structured logger.
func (p *KafkaTracePublisher) SetLogger(l *applogger.Logger) { p.l = l }

// Publish emits one completed trace result.
func (p *KafkaTracePublisher) Publish(ctx context.Context, r *models.TraceResult) error {
	err := p.producer.Publish(ctx, p.topic, []byte(r.Address), r)
	if err != nil {
		if p.l != nil {
			p.l.Error("trace publish failed",
				applogger.String("topic", p.topic),
				applogger.String("address", r.Address),
				applogger.Error(err),
			)
		}
		return err
	}
	if p.l != nil {
		p.l.Debug("trace published",
			applogger.String("topic", p.topic),
			applogger.String("address", r.Address),
		)
	}
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaTracePublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher is used when the findings topic is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.TraceResult) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
