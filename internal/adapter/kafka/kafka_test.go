package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

var testSuggestion = domain.Suggestion{
	ID:         uuid.MustParse("8f14e45f-ceea-467a-9575-2f6a5b6a3a10"),
	MatchID:    "match-1",
	ProposedBy: "user-1",
	Venue:      domain.Venue{ID: "lucali", Name: "Lucali", Provider: domain.ProviderYelp},
	CreatedAt:  time.Date(2024, 2, 14, 19, 30, 0, 0, time.UTC),
}

func TestSerializeToMessage(t *testing.T) {
	msg, err := serializeToMessage(testSuggestion)
	require.NoError(t, err)

	assert.Equal(t, []byte("match-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"proposed_by":"user-1"`)
	assert.Contains(t, string(msg.Value), `"name":"Lucali"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(EventVenueSuggested), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-02-14T19:30:00Z"), msg.Headers[1].Value)
}

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestWriter_PublishSuggestion(t *testing.T) {
	fake := &fakeWriter{}
	w := &Writer{writer: fake, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	require.NoError(t, w.PublishSuggestion(context.Background(), testSuggestion))
	require.Len(t, fake.msgs, 1)
	assert.Equal(t, []byte("match-1"), fake.msgs[0].Key)

	require.NoError(t, w.Close())
	assert.True(t, fake.closed)
}

func TestWriter_PublishSuggestion_Error(t *testing.T) {
	w := &Writer{writer: &fakeWriter{err: errors.New("leader not available")}, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := w.PublishSuggestion(context.Background(), testSuggestion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Contains(t, err.Error(), testSuggestion.ID.String())
}
