package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	brokers   []string
	mu        sync.Mutex
	writers   map[string]MessageWriter
	newWriter func(topic string) MessageWriter
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	p := &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]MessageWriter),
	}
	p.newWriter = func(topic string) MessageWriter {
		return &kafka.Writer{
			Addr:                   kafka.TCP(p.brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			MaxAttempts:            3,
			WriteTimeout:           5 * time.Second,
			Async:                  true,
			Completion:             logCompletion(topic),
		}
	}
	return p
}

// logCompletion reports async delivery failures, which WriteMessages
// no longer returns.
func logCompletion(topic string) func([]kafka.Message, error) {
	return func(messages []kafka.Message, err error) {
		if err != nil {
			slog.Error("kafka delivery failed", "topic", topic, "messages", len(messages), "error", err)
		}
	}
}

// GetWriter returns the writer for topic, creating it on first use.
func (kp *KafkaProducer) GetWriter(topic string) MessageWriter {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := kp.newWriter(topic)
	kp.writers[topic] = writer
	return writer
}

// SendMessage writes value as JSON. Messages with the same key land on the
// same partition, which keeps one cart's events in order.
func (kp *KafkaProducer) SendMessage(ctx context.Context, topic, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	if err := kp.GetWriter(topic).WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}
	return nil
}

func (kp *KafkaProducer) Close() error {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	var firstErr error
	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close writer %s: %w", topic, err)
		}
	}
	kp.writers = make(map[string]MessageWriter)
	return firstErr
}
