// Package assessment runs accumulator sessions on top of a session store and
// turns completed sessions into rankings.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Matchmaker/internal/hermes"
	"github.com/MikeSquared-Agency/Matchmaker/internal/metrics"
	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
	"github.com/MikeSquared-Agency/Matchmaker/internal/scoring"
	"github.com/MikeSquared-Agency/Matchmaker/internal/session"
	"github.com/MikeSquared-Agency/Matchmaker/internal/store"
	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

var ErrSessionNotFound = errors.New("session not found")

const lockStripes = 64

type Options struct {
	// TopN is the number of matches included in completion events.
	TopN int
	// ProfileThreshold is the magnitude above which a preference is significant.
	ProfileThreshold float64
	// ProfileTopK is the number of key traits reported in a profile.
	ProfileTopK int
}

// Service owns the shared read-only dataset and deck and applies events to
// stored sessions. Events for one session are applied one at a time.
type Service struct {
	store   store.Store
	hermes  hermes.Publisher
	data    *traits.Normalized
	deck    *scenario.CompiledDeck
	machine *session.Machine
	metrics *metrics.Metrics
	opts    Options
	logger  *slog.Logger

	locks [lockStripes]sync.Mutex
}

func New(s store.Store, h hermes.Publisher, data *traits.Normalized, deck *scenario.CompiledDeck, m *metrics.Metrics, opts Options, logger *slog.Logger) *Service {
	return &Service{
		store:   s,
		hermes:  h,
		data:    data,
		deck:    deck,
		machine: session.NewMachine(deck, data.Registry.Len()),
		metrics: m,
		opts:    opts,
		logger:  logger,
	}
}

func (s *Service) lock(id uuid.UUID) func() {
	mu := &s.locks[int(id[0])%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// Create stores a new not-started session.
func (s *Service) Create(ctx context.Context) (*store.Session, error) {
	sess := &store.Session{State: s.machine.Reset()}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.metrics.SessionsCreated.Inc()
	s.logger.Info("session created", "session_id", sess.ID)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := s.lock(id)
	defer unlock()
	if err := s.store.DeleteSession(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Begin applies the Begin event.
func (s *Service) Begin(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.machine.Begin(sess.State)
	if err != nil {
		s.metrics.TransitionErrors.WithLabelValues("begin").Inc()
		return nil, err
	}
	if err := s.save(ctx, sess, next); err != nil {
		return nil, err
	}

	s.publish(hermes.SubjectSessionStarted(id.String()), hermes.SessionStartedEvent{
		SessionID: id.String(),
		Scenarios: s.machine.Len(),
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info("session started", "session_id", id)
	return sess, nil
}

// Answer applies one Answer event and returns the updated session with the
// emitted record.
func (s *Service) Answer(ctx context.Context, id uuid.UUID, side scenario.Side, multiplier float64) (*store.Session, session.AnswerRecord, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, session.AnswerRecord{}, err
	}
	next, rec, err := s.machine.Answer(sess.State, side, multiplier)
	if err != nil {
		s.metrics.TransitionErrors.WithLabelValues("answer").Inc()
		return nil, session.AnswerRecord{}, err
	}
	if err := s.save(ctx, sess, next); err != nil {
		return nil, session.AnswerRecord{}, err
	}

	s.metrics.AnswersTotal.WithLabelValues(string(side)).Inc()
	s.publish(hermes.SubjectSessionAnswered(id.String()), hermes.AnswerRecordedEvent{
		SessionID:   id.String(),
		Scenario:    rec.Scenario,
		Side:        string(rec.Side),
		Multiplier:  rec.Multiplier,
		Description: rec.Description,
		Timestamp:   time.Now().UTC(),
	})

	if next.Phase == session.PhaseComplete {
		s.complete(id, next)
	}
	return sess, rec, nil
}

func (s *Service) complete(id uuid.UUID, st session.State) {
	s.metrics.SessionsCompleted.Inc()

	evt := hermes.SessionCompletedEvent{
		SessionID:   id.String(),
		Preferences: s.named(st.Preferences),
		Timestamp:   time.Now().UTC(),
	}
	ranking, err := s.rank(st)
	if err != nil {
		s.logger.Warn("ranking failed on completion", "session_id", id, "error", err)
	} else {
		for _, m := range ranking.Top(s.opts.TopN) {
			evt.TopMatches = append(evt.TopMatches, hermes.MatchSummary{
				Name:       m.Name,
				Score:      m.Score,
				Percentage: m.Percentage,
			})
		}
	}
	s.publish(hermes.SubjectSessionCompleted(id.String()), evt)
	s.logger.Info("session complete", "session_id", id, "answers", len(st.Answers))
}

// Reset applies the Reset event; it is accepted in every phase.
func (s *Service) Reset(ctx context.Context, id uuid.UUID) (*store.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cleared := len(sess.State.Answers)
	if err := s.save(ctx, sess, s.machine.Reset()); err != nil {
		return nil, err
	}

	s.metrics.SessionsReset.Inc()
	s.publish(hermes.SubjectSessionReset(id.String()), hermes.SessionResetEvent{
		SessionID:      id.String(),
		AnswersCleared: cleared,
		Timestamp:      time.Now().UTC(),
	})
	return sess, nil
}

// Current returns the scenario awaiting an answer and its index.
func (s *Service) Current(ctx context.Context, id uuid.UUID) (scenario.Scenario, int, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return scenario.Scenario{}, 0, err
	}
	c, err := s.machine.Current(sess.State)
	if err != nil {
		return scenario.Scenario{}, 0, err
	}
	return c.Scenario, sess.State.Question, nil
}

// Matches ranks every candidate against a complete session.
func (s *Service) Matches(ctx context.Context, id uuid.UUID) (*scoring.Ranking, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.rank(sess.State)
}

// Profile summarises the preference vector of a complete session.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (scoring.Profile, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return scoring.Profile{}, err
	}
	prefs, err := sess.State.Final()
	if err != nil {
		return scoring.Profile{}, err
	}
	return scoring.BuildProfile(s.data.Registry, prefs, s.opts.ProfileThreshold, s.opts.ProfileTopK), nil
}

func (s *Service) Stats(ctx context.Context) (*store.SessionStats, error) {
	return s.store.GetStats(ctx)
}

func (s *Service) rank(st session.State) (*scoring.Ranking, error) {
	prefs, err := st.Final()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	ranking, err := scoring.Rank(s.data, prefs)
	s.metrics.RankingDuration.Observe(time.Since(start).Seconds())
	return ranking, err
}

func (s *Service) save(ctx context.Context, sess *store.Session, next session.State) error {
	sess.State = next
	if err := s.store.UpdateSession(ctx, sess); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (s *Service) publish(subject string, evt interface{}) {
	if s.hermes == nil {
		return
	}
	if err := s.hermes.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

func (s *Service) named(prefs []float64) map[string]float64 {
	out := make(map[string]float64, len(prefs))
	for i, v := range prefs {
		out[s.data.Registry.Name(traits.ID(i))] = v
	}
	return out
}
