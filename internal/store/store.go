package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/hyperbrowserai/hyperagent-go/api/schemas"
)

// DBPool abstracts pgxpool.Pool so the store can be tested with pgxmock.
type DBPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store persists session artifacts to PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

var _ schemas.ArtifactStore = (*Store)(nil)

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// EnsureSchema creates the artifact table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS session_artifacts (
			session_id  TEXT        NOT NULL,
			endpoint    TEXT        NOT NULL,
			final_url   TEXT        NOT NULL,
			title       TEXT        NOT NULL,
			html        TEXT        NOT NULL,
			screenshot  BYTEA,
			captured_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (session_id, captured_at)
		)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure artifact schema: %w", err)
	}
	return nil
}

// SaveArtifacts inserts one artifact bundle.
func (s *Store) SaveArtifacts(ctx context.Context, artifacts *schemas.SessionArtifacts) error {
	const insert = `
		INSERT INTO session_artifacts
			(session_id, endpoint, final_url, title, html, screenshot, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	capturedAt := artifacts.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, insert,
		artifacts.SessionID,
		artifacts.Endpoint,
		artifacts.FinalURL,
		artifacts.Title,
		artifacts.HTML,
		artifacts.Screenshot,
		capturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to persist artifacts for session %s: %w", artifacts.SessionID, err)
	}

	s.log.Debug("Session artifacts persisted",
		zap.String("session_id", artifacts.SessionID),
		zap.String("final_url", artifacts.FinalURL))
	return nil
}

// ArtifactRecord is a summary row returned by ListRecent. The HTML and
// screenshot payloads are intentionally omitted.
type ArtifactRecord struct {
	SessionID  string
	Endpoint   string
	FinalURL   string
	Title      string
	CapturedAt time.Time
}

// ListRecent returns summaries of the most recently captured artifacts.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]ArtifactRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
		SELECT session_id, endpoint, final_url, title, captured_at
		FROM session_artifacts
		ORDER BY captured_at DESC
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		var r ArtifactRecord
		if err := rows.Scan(&r.SessionID, &r.Endpoint, &r.FinalURL, &r.Title, &r.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifact rows: %w", err)
	}
	return records, nil
}
