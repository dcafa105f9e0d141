package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

// Side identifies which option of a scenario was chosen.
type Side string

const (
	SideA       Side = "a"
	SideB       Side = "b"
	SideNeutral Side = "neutral"
)

// Valid reports whether s is one of the known sides.
func (s Side) Valid() bool {
	switch s {
	case SideA, SideB, SideNeutral:
		return true
	}
	return false
}

// Weight is one resolved entry of a partial trait vector.
type Weight struct {
	Trait traits.ID
	Value float64
}

// Compiled is a scenario whose partial vectors reference registry IDs.
type Compiled struct {
	Scenario
	WeightsA []Weight
	WeightsB []Weight
}

// Weights returns the resolved weights for side, or nil for neutral.
func (c Compiled) Weights(side Side) []Weight {
	switch side {
	case SideA:
		return c.WeightsA
	case SideB:
		return c.WeightsB
	}
	return nil
}

// Option returns the option text for side.
func (c Compiled) Option(side Side) string {
	switch side {
	case SideA:
		return c.OptionA
	case SideB:
		return c.OptionB
	}
	return ""
}

// UnknownTraitError lists scenario trait names absent from the registry.
type UnknownTraitError struct {
	Refs []UnknownRef
}

// UnknownRef locates one unresolved trait name.
type UnknownRef struct {
	Scenario int
	Side     Side
	Trait    string
}

func (e *UnknownTraitError) Error() string {
	parts := make([]string, len(e.Refs))
	for i, r := range e.Refs {
		parts[i] = fmt.Sprintf("scenario %d option %s: %q", r.Scenario, r.Side, r.Trait)
	}
	return "unknown traits: " + strings.Join(parts, "; ")
}

// CompiledDeck is a deck resolved against one trait registry.
type CompiledDeck struct {
	scenarios []Compiled
	unknown   []UnknownRef
}

// Compile resolves every partial vector of deck against reg. Unknown trait
// names are dropped and reported by Unknown, or rejected with an
// *UnknownTraitError when strict is set.
func Compile(deck *Deck, reg *traits.Registry, strict bool) (*CompiledDeck, error) {
	cd := &CompiledDeck{scenarios: make([]Compiled, 0, deck.Len())}
	for i, s := range deck.Scenarios() {
		c := Compiled{Scenario: s}
		c.WeightsA = cd.resolve(i, SideA, s.VectorA, reg)
		c.WeightsB = cd.resolve(i, SideB, s.VectorB, reg)
		cd.scenarios = append(cd.scenarios, c)
	}
	if strict && len(cd.unknown) > 0 {
		return nil, &UnknownTraitError{Refs: cd.Unknown()}
	}
	return cd, nil
}

// resolve walks names in sorted order so accumulation order is stable.
func (cd *CompiledDeck) resolve(idx int, side Side, vec map[string]float64, reg *traits.Registry) []Weight {
	names := make([]string, 0, len(vec))
	for n := range vec {
		names = append(names, n)
	}
	sort.Strings(names)

	weights := make([]Weight, 0, len(names))
	for _, n := range names {
		id, ok := reg.Lookup(n)
		if !ok {
			cd.unknown = append(cd.unknown, UnknownRef{Scenario: idx, Side: side, Trait: n})
			continue
		}
		weights = append(weights, Weight{Trait: id, Value: vec[n]})
	}
	return weights
}

func (cd *CompiledDeck) Len() int { return len(cd.scenarios) }

// At returns the compiled scenario at position i.
func (cd *CompiledDeck) At(i int) (Compiled, error) {
	if i < 0 || i >= len(cd.scenarios) {
		return Compiled{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(cd.scenarios))
	}
	return cd.scenarios[i], nil
}

// Scenarios returns the plain scenarios in deck order.
func (cd *CompiledDeck) Scenarios() []Scenario {
	out := make([]Scenario, len(cd.scenarios))
	for i, c := range cd.scenarios {
		out[i] = c.Scenario.clone()
	}
	return out
}

// Unknown returns the trait references dropped during compilation.
func (cd *CompiledDeck) Unknown() []UnknownRef {
	out := make([]UnknownRef, len(cd.unknown))
	copy(out, cd.unknown)
	return out
}
