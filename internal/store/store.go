package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
)

var ErrNotFound = errors.New("session not found")

// Session is a persisted accumulator state.
type Session struct {
	ID        uuid.UUID     `json:"session_id"`
	State     session.State `json:"state"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type SessionStats struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Complete   int `json:"complete"`
	Total      int `json:"total"`
}

func (s *SessionStats) add(p session.Phase, n int) {
	switch p {
	case session.PhaseInProgress:
		s.InProgress += n
	case session.PhaseComplete:
		s.Complete += n
	default:
		s.NotStarted += n
	}
	s.Total += n
}

// Store persists sessions. GetSession returns (nil, nil) for an unknown id.
type Store interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateSession(ctx context.Context, s *Session) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context) (*SessionStats, error)
	Close() error
}

func cloneState(s session.State) session.State {
	out := s
	if s.Preferences != nil {
		out.Preferences = append([]float64(nil), s.Preferences...)
	}
	if s.Answers != nil {
		out.Answers = append([]session.AnswerRecord(nil), s.Answers...)
	}
	return out
}
