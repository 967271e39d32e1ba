package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/date-venue-service/internal/config"
	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// EventVenueSuggested is the event_type header of suggestion messages.
const EventVenueSuggested = "venue_suggested"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes venue suggestion events to a Kafka topic.
// It implements suggest.Publisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured suggestion topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSuggestionTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSuggestion writes one suggestion keyed by match id, so every
// suggestion for a match lands on the same partition.
func (w *Writer) PublishSuggestion(ctx context.Context, s domain.Suggestion) error {
	msg, err := serializeToMessage(s)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish suggestion %s: %w", s.ID, err)
	}
	w.logger.Debug("suggestion published", "suggestion_id", s.ID, "match_id", s.MatchID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Suggestion into a Kafka message.
func serializeToMessage(s domain.Suggestion) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize suggestion: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.MatchID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventVenueSuggested)},
			{Key: "created_at", Value: []byte(s.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
