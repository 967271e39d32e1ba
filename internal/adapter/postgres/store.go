// Package postgres persists venue suggestions.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/date-venue-service/internal/domain"
)

// DefaultTable is the suggestions table name.
const DefaultTable = "venue_suggestions"

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CreateConnectionPool opens and pings a pgx pool. Pooler connections on
// port 6543 fall back to describe-only statement caching.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Store writes suggestions to Postgres.
type Store struct {
	db     DBTX
	table  string
	logger *slog.Logger
}

// NewStore creates a store writing to DefaultTable.
func NewStore(db DBTX, logger *slog.Logger) *Store {
	return &Store{db: db, table: DefaultTable, logger: logger}
}

// EnsureSchema creates the suggestions table when it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          UUID PRIMARY KEY,
			match_id    TEXT NOT NULL,
			proposed_by TEXT NOT NULL,
			venue_id    TEXT NOT NULL,
			provider    TEXT NOT NULL,
			venue       JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			UNIQUE (match_id, proposed_by, venue_id)
		)`, s.table)

	if _, err := s.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// UpsertSuggestion inserts the suggestion, or refreshes the stored venue
// when the same member already proposed it for the match.
func (s *Store) UpsertSuggestion(ctx context.Context, sg domain.Suggestion) error {
	venue, err := json.Marshal(sg.Venue)
	if err != nil {
		return fmt.Errorf("encode venue: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, match_id, proposed_by, venue_id, provider, venue, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (match_id, proposed_by, venue_id) DO UPDATE SET
			provider = EXCLUDED.provider,
			venue = EXCLUDED.venue,
			updated_at = EXCLUDED.updated_at
	`, s.table)

	tag, err := s.db.Exec(ctx, query,
		sg.ID,
		sg.MatchID,
		sg.ProposedBy,
		sg.Venue.ID,
		string(sg.Venue.Provider),
		venue,
		sg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert suggestion: %w", err)
	}

	s.logger.Debug("suggestion upserted", "suggestion_id", sg.ID, "rows", tag.RowsAffected())
	return nil
}
