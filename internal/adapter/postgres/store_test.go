package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

type execCall struct {
	sql  string
	args []any
}

type fakeDB struct {
	calls []execCall
	err   error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, execCall{sql: sql, args: args})
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func newTestStore(db DBTX) *Store {
	return NewStore(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestStore_UpsertSuggestion(t *testing.T) {
	db := &fakeDB{}
	store := newTestStore(db)

	created := time.Date(2024, 2, 14, 19, 30, 0, 0, time.UTC)
	sg := domain.Suggestion{
		ID:         uuid.MustParse("8f14e45f-ceea-467a-9575-2f6a5b6a3a10"),
		MatchID:    "match-1",
		ProposedBy: "user-1",
		Venue:      domain.Venue{ID: "lucali", Name: "Lucali", PriceLevel: 2, Provider: domain.ProviderYelp},
		CreatedAt:  created,
	}

	require.NoError(t, store.UpsertSuggestion(context.Background(), sg))
	require.Len(t, db.calls, 1)

	call := db.calls[0]
	assert.Contains(t, call.sql, "INSERT INTO venue_suggestions")
	assert.Contains(t, call.sql, "ON CONFLICT (match_id, proposed_by, venue_id) DO UPDATE")
	require.Len(t, call.args, 7)
	assert.Equal(t, sg.ID, call.args[0])
	assert.Equal(t, "match-1", call.args[1])
	assert.Equal(t, "user-1", call.args[2])
	assert.Equal(t, "lucali", call.args[3])
	assert.Equal(t, "yelp", call.args[4])
	assert.Equal(t, created, call.args[6])

	var stored domain.Venue
	require.NoError(t, json.Unmarshal(call.args[5].([]byte), &stored))
	assert.Equal(t, "Lucali", stored.Name)
}

func TestStore_UpsertSuggestion_Error(t *testing.T) {
	store := newTestStore(&fakeDB{err: errors.New("connection refused")})

	err := store.UpsertSuggestion(context.Background(), domain.Suggestion{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert suggestion")
}

func TestStore_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, newTestStore(db).EnsureSchema(context.Background()))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "CREATE TABLE IF NOT EXISTS venue_suggestions")
	assert.Contains(t, db.calls[0].sql, "UNIQUE (match_id, proposed_by, venue_id)")
}
