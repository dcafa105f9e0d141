package session

import (
	"testing"

	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
)

func TestAccumulatorLifecycle(t *testing.T) {
	m, _ := newMachine(t, twoX, "X", "Y")
	acc := NewAccumulator(m)
	if acc.Len() != 2 {
		t.Fatalf("expected 2 scenarios, got %d", acc.Len())
	}

	if _, err := acc.Answer(scenario.SideA, 1.0); !IsTransitionError(err) {
		t.Fatalf("expected transition error before begin, got %v", err)
	}
	if err := acc.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	c, err := acc.Current()
	if err != nil || c.Question != "Q1" {
		t.Fatalf("current: %v %q", err, c.Question)
	}

	snapshot := acc.State()
	if _, err := acc.Answer(scenario.SideA, 0.5); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if snapshot.Preferences[0] != 0 {
		t.Error("earlier snapshot changed by later answer")
	}
	if _, err := acc.Answer(scenario.SideB, 1.0); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if acc.State().Phase != PhaseComplete {
		t.Fatalf("expected complete, got %s", acc.State().Phase)
	}

	acc.Reset()
	if acc.State().CurrentPhase() != PhaseNotStarted || len(acc.State().Answers) != 0 {
		t.Errorf("reset left state %+v", acc.State())
	}
}
