package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/stefantagarski/event-service/internal/logger"
	"github.com/stefantagarski/event-service/internal/models"
)

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	Writer MessageWriter
	Topic  string
	Logger *logger.Logger
}

// EventSeededMessage announces one event inserted by a seed run.
type EventSeededMessage struct {
	RunID    string       `json:"run_id"`
	EventID  string       `json:"event_id"`
	Event    models.Event `json:"event"`
	SeededAt time.Time    `json:"seeded_at"`
}

func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Topic:    topic,
		Balancer: &kafka.Hash{},
	})
	return &Producer{Writer: writer, Topic: topic, Logger: log}
}

// PublishEventsSeeded streams one message per event, keyed by event ID so
// repeated seeds of the same document land on the same partition.
func (p *Producer) PublishEventsSeeded(ctx context.Context, runID string, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		msg, err := buildEventSeededMessage(runID, e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.Writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.Topic, err)
	}
	p.Logger.LogKafka("PUBLISH", p.Topic, fmt.Sprintf("%d events_seeded messages for run %s", len(msgs), runID))
	return nil
}

func buildEventSeededMessage(runID string, e models.Event) (kafka.Message, error) {
	eventID := e.ID.Hex()
	value, err := json.Marshal(EventSeededMessage{
		RunID:    runID,
		EventID:  eventID,
		Event:    e,
		SeededAt: e.CreatedAt,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event %s: %w", eventID, err)
	}

	return kafka.Message{
		Key:   []byte(eventID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("events_seeded")},
			{Key: "run_id", Value: []byte(runID)},
		},
	}, nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
