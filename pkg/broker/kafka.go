package broker

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// KafkaProducer writes canonical messages to a single topic. Writes are
// asynchronous: Produce hands the record to the writer's batcher and returns,
// delivery failures surface through the completion callback as log lines.
type KafkaProducer struct {
	writer *kafka.Writer
	logger *logrus.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger *logrus.Logger) *KafkaProducer {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	writer.Completion = func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		logger.WithError(err).WithFields(logrus.Fields{
			"topic": topic,
			"count": len(messages),
		}).Error("Broker delivery failed")
	}

	return &KafkaProducer{
		writer: writer,
		logger: logger,
	}
}

func (p *KafkaProducer) Produce(ctx context.Context, key, value []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue message: %w", err)
	}
	return nil
}

// Close flushes buffered records and releases broker connections.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
