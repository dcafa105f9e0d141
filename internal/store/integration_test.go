//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
)

func setupPostgres(t *testing.T) Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.pool.Exec(ctx, "TRUNCATE matchmaker_sessions")
		s.Close()
	})
	return s
}

func setupRedis(t *testing.T) Store {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisOptions{Addr: addr, TTL: time.Minute})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() {
		iter := s.rdb.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			s.rdb.Del(ctx, iter.Val())
		}
		s.Close()
	})
	return s
}

func TestPostgresSessionLifecycle(t *testing.T) { exerciseStore(t, setupPostgres(t)) }

func TestRedisSessionLifecycle(t *testing.T) { exerciseStore(t, setupRedis(t)) }

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	sess := &Session{State: session.State{Phase: session.PhaseNotStarted}}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.ID == uuid.Nil {
		t.Fatal("expected non-nil session ID after create")
	}

	sess.State = session.State{
		Phase:       session.PhaseInProgress,
		Question:    1,
		Preferences: []float64{1.5, -0.5},
		Answers:     []session.AnswerRecord{{Scenario: 0, Side: "a", Multiplier: 0.5, Description: "Prefer: x"}},
	}
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession failed: %v", err)
	}

	got, err := s.GetSession(ctx, sess.ID)
	if err != nil || got == nil {
		t.Fatalf("GetSession: %v %v", got, err)
	}
	if got.State.Question != 1 || got.State.Preferences[0] != 1.5 || len(got.State.Answers) != 1 {
		t.Errorf("state not round-tripped: %+v", got.State)
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.InProgress != 1 {
		t.Errorf("expected 1 in progress, got %+v", stats)
	}

	if err := s.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := s.UpdateSession(ctx, sess); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
