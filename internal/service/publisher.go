package service

import (
	"context"
	"encoding/json"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/metrics"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/models"

	"github.com/sirupsen/logrus"
)

// Producer hands a serialized record to the broker. Implementations are
// expected to dispatch asynchronously; the pipeline never awaits broker
// acknowledgment.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// Publisher serializes canonical messages and hands them to the broker,
// keyed by chat id so messages of one chat keep their relative order.
// Publishing is fire-and-forget: failures are logged and counted, never
// retried and never surfaced to the caller.
type Publisher struct {
	producer Producer
	logger   *logrus.Logger
}

func NewPublisher(producer Producer, logger *logrus.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   logger,
	}
}

// Publish serializes msg and submits it to the broker.
func (p *Publisher) Publish(ctx context.Context, msg *models.CanonicalMessage) {
	value, err := json.Marshal(msg)
	if err != nil {
		// Unreachable for well-formed messages; counted rather than fatal.
		p.logger.WithError(err).WithField("message_id", msg.ID).Error("Failed to serialize message")
		metrics.IncrementCounter("publish_failures", nil, "Messages that failed to publish")
		return
	}

	if err := p.producer.Produce(ctx, []byte(msg.Chat.ID), value); err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"message_id": msg.ID,
			"chat_id":    msg.Chat.ID,
		}).Error("Failed to submit message to broker")
		metrics.IncrementCounter("publish_failures", nil, "Messages that failed to publish")
		return
	}

	metrics.IncrementCounter("messages_published", nil, "Messages handed to the broker")
}
