// Package session implements the preference accumulator as a pure state
// machine: every transition takes a State value and returns a new one, leaving
// its input untouched.
package session

import (
	"errors"
	"fmt"

	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
)

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseComplete   Phase = "complete"
)

var (
	ErrInvalidSide       = errors.New("side must be a, b or neutral")
	ErrInvalidMultiplier = errors.New("multiplier must be 0, 0.5 or 1")
	ErrCorruptState      = errors.New("state does not match deck or trait universe")
)

// TransitionError is returned when an event is not accepted in the current phase.
type TransitionError struct {
	Event string
	Phase Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s not accepted in phase %s", e.Event, e.Phase)
}

// IsTransitionError reports whether err wraps a *TransitionError.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

// AnswerRecord is one immutable entry of the answer log.
type AnswerRecord struct {
	Scenario    int           `json:"scenario"`
	Question    string        `json:"question"`
	Side        scenario.Side `json:"side"`
	Multiplier  float64       `json:"multiplier"`
	Description string        `json:"description"`
}

// State is the accumulator value. Question is the index of the next scenario
// to answer and always equals len(Answers).
type State struct {
	Phase       Phase          `json:"phase"`
	Question    int            `json:"question"`
	Preferences []float64      `json:"preferences,omitempty"`
	Answers     []AnswerRecord `json:"answers,omitempty"`
}

// CurrentPhase treats the zero State as not started.
func (s State) CurrentPhase() Phase {
	if s.Phase == "" {
		return PhaseNotStarted
	}
	return s.Phase
}

// Final returns a copy of the preference vector of a complete state.
func (s State) Final() ([]float64, error) {
	if s.CurrentPhase() != PhaseComplete {
		return nil, &TransitionError{Event: "final", Phase: s.CurrentPhase()}
	}
	return cloneFloats(s.Preferences), nil
}

// Progress returns the answered fraction of a deck of size k.
func (s State) Progress(k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(len(s.Answers)) / float64(k)
}

// Machine applies events against one compiled deck and trait universe.
type Machine struct {
	deck   *scenario.CompiledDeck
	traits int
}

func NewMachine(deck *scenario.CompiledDeck, traitCount int) *Machine {
	return &Machine{deck: deck, traits: traitCount}
}

// Len returns the deck size K.
func (m *Machine) Len() int { return m.deck.Len() }

// Begin moves a not-started state to the first question with a zero
// preference vector and an empty log.
func (m *Machine) Begin(s State) (State, error) {
	if p := s.CurrentPhase(); p != PhaseNotStarted {
		return s, &TransitionError{Event: "begin", Phase: p}
	}
	return State{
		Phase:       PhaseInProgress,
		Question:    0,
		Preferences: make([]float64, m.traits),
		Answers:     []AnswerRecord{},
	}, nil
}

// Answer records a choice for the current scenario. A non-neutral side with a
// positive multiplier adds weight*multiplier to each trait of the chosen
// option. The returned record is also the last entry of the new state's log.
func (m *Machine) Answer(s State, side scenario.Side, multiplier float64) (State, AnswerRecord, error) {
	if p := s.CurrentPhase(); p != PhaseInProgress {
		return s, AnswerRecord{}, &TransitionError{Event: "answer", Phase: p}
	}
	if !side.Valid() {
		return s, AnswerRecord{}, ErrInvalidSide
	}
	if !validMultiplier(multiplier) {
		return s, AnswerRecord{}, ErrInvalidMultiplier
	}
	if err := m.check(s); err != nil {
		return s, AnswerRecord{}, err
	}

	sc, err := m.deck.At(s.Question)
	if err != nil {
		return s, AnswerRecord{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	prefs := cloneFloats(s.Preferences)
	if side != scenario.SideNeutral && multiplier > 0 {
		for _, w := range sc.Weights(side) {
			prefs[w.Trait] += w.Value * multiplier
		}
	}

	rec := AnswerRecord{
		Scenario:    s.Question,
		Question:    sc.Question,
		Side:        side,
		Multiplier:  multiplier,
		Description: describe(sc, side, multiplier),
	}

	answers := make([]AnswerRecord, len(s.Answers), len(s.Answers)+1)
	copy(answers, s.Answers)
	answers = append(answers, rec)

	next := State{
		Phase:       PhaseInProgress,
		Question:    s.Question + 1,
		Preferences: prefs,
		Answers:     answers,
	}
	if next.Question >= m.deck.Len() {
		next.Phase = PhaseComplete
	}
	return next, rec, nil
}

// Reset discards everything and returns a not-started state.
func (m *Machine) Reset() State {
	return State{Phase: PhaseNotStarted}
}

// Current returns the scenario awaiting an answer.
func (m *Machine) Current(s State) (scenario.Compiled, error) {
	if p := s.CurrentPhase(); p != PhaseInProgress {
		return scenario.Compiled{}, &TransitionError{Event: "current", Phase: p}
	}
	return m.deck.At(s.Question)
}

func (m *Machine) check(s State) error {
	if len(s.Preferences) != m.traits {
		return fmt.Errorf("%w: %d preferences for %d traits", ErrCorruptState, len(s.Preferences), m.traits)
	}
	if len(s.Answers) != s.Question {
		return fmt.Errorf("%w: %d answers at question %d", ErrCorruptState, len(s.Answers), s.Question)
	}
	return nil
}

func validMultiplier(m float64) bool {
	return m == 0 || m == 0.5 || m == 1.0
}

func describe(sc scenario.Compiled, side scenario.Side, multiplier float64) string {
	if side == scenario.SideNeutral || multiplier == 0 {
		return "No strong preference either way"
	}
	if multiplier == 1.0 {
		return "Strongly prefer: " + sc.Option(side)
	}
	return "Prefer: " + sc.Option(side)
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
