package events

import (
	"context"

	"sor/internal/adapters/config"
	"sor/internal/adapters/kafka"
	"sor/internal/engine"
	"sor/pkg/logger"
)

// KafkaPublisher mirrors stage-run events onto a Kafka topic keyed by
// project, giving downstream consumers an audit trail of every run.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

type stageEvent struct {
	ProjectID string       `json:"project_id"`
	Event     engine.Event `json:"event"`
}

// NewKafkaPublisher creates a publisher for the configured stage-events
// topic. Returns nil when Kafka is not configured, which the orchestrator
// treats as a disabled audit stream.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	if !cfg.Enabled() {
		return nil
	}

	return &KafkaPublisher{
		producer: kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Brokers}),
		topic:    cfg.Topic,
		log:      logger.Get().With("component", "stage_event_publisher"),
	}
}

// PublishEvent sends one event to the audit topic. Failures are logged and
// swallowed so the audit stream never affects a running stage.
func (p *KafkaPublisher) PublishEvent(ctx context.Context, projectID string, ev engine.Event) {
	payload := stageEvent{ProjectID: projectID, Event: ev}
	if err := p.producer.Publish(ctx, p.topic, projectID, payload); err != nil {
		p.log.Warnw("Failed to publish stage event",
			"project_id", projectID, "event_type", ev.Type, "error", err)
	}
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
