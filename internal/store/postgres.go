package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS matchmaker_sessions (
	session_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	phase      TEXT        NOT NULL,
	question   INTEGER     NOT NULL DEFAULT 0,
	state      JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	stateJSON, err := json.Marshal(sess.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return s.pool.QueryRow(ctx, `
		INSERT INTO matchmaker_sessions (phase, question, state)
		VALUES ($1, $2, $3)
		RETURNING session_id, created_at, updated_at`,
		string(sess.State.CurrentPhase()), sess.State.Question, stateJSON,
	).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt)
}

func (s *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess := &Session{}
	var stateJSON []byte
	err := s.pool.QueryRow(ctx, `
		SELECT session_id, state, created_at, updated_at
		FROM matchmaker_sessions WHERE session_id = $1`, id,
	).Scan(&sess.ID, &stateJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stateJSON, &sess.State); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) UpdateSession(ctx context.Context, sess *Session) error {
	stateJSON, err := json.Marshal(sess.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	err = s.pool.QueryRow(ctx, `
		UPDATE matchmaker_sessions
		SET phase = $2, question = $3, state = $4, updated_at = now()
		WHERE session_id = $1
		RETURNING created_at, updated_at`,
		sess.ID, string(sess.State.CurrentPhase()), sess.State.Question, stateJSON,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err == pgx.ErrNoRows {
		return ErrNotFound
	}
	return err
}

func (s *PostgresStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM matchmaker_sessions WHERE session_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*SessionStats, error) {
	rows, err := s.pool.Query(ctx, `SELECT phase, count(*) FROM matchmaker_sessions GROUP BY phase`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &SessionStats{}
	for rows.Next() {
		var phase string
		var n int
		if err := rows.Scan(&phase, &n); err != nil {
			return nil, err
		}
		stats.add(session.Phase(phase), n)
	}
	return stats, rows.Err()
}
