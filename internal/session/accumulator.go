package session

import "github.com/MikeSquared-Agency/Matchmaker/internal/scenario"

// Accumulator owns one State and applies events to it in order. It is not
// safe for concurrent use.
type Accumulator struct {
	machine *Machine
	state   State
}

func NewAccumulator(m *Machine) *Accumulator {
	return &Accumulator{machine: m, state: m.Reset()}
}

// Len is the number of scenarios in the deck.
func (a *Accumulator) Len() int { return a.machine.Len() }

func (a *Accumulator) Begin() error {
	next, err := a.machine.Begin(a.state)
	if err != nil {
		return err
	}
	a.state = next
	return nil
}

func (a *Accumulator) Answer(side scenario.Side, multiplier float64) (AnswerRecord, error) {
	next, rec, err := a.machine.Answer(a.state, side, multiplier)
	if err != nil {
		return AnswerRecord{}, err
	}
	a.state = next
	return rec, nil
}

func (a *Accumulator) Reset() {
	a.state = a.machine.Reset()
}

// State returns the current state. The returned value shares no memory that
// later events mutate.
func (a *Accumulator) State() State { return a.state }

// Current returns the scenario awaiting an answer.
func (a *Accumulator) Current() (scenario.Compiled, error) {
	return a.machine.Current(a.state)
}
