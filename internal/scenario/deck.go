// Package scenario holds the ordered catalogue of forced-choice questions and
// resolves their trait weights against a trait registry.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed deck.yaml
var defaultDeck []byte

// Scenario is one forced-choice question. VectorA and VectorB are sparse
// trait weights applied when the matching option is chosen.
type Scenario struct {
	Question string             `yaml:"question" json:"question"`
	OptionA  string             `yaml:"option_a" json:"option_a"`
	OptionB  string             `yaml:"option_b" json:"option_b"`
	VectorA  map[string]float64 `yaml:"vector_a" json:"vector_a"`
	VectorB  map[string]float64 `yaml:"vector_b" json:"vector_b"`
}

// Deck is an immutable ordered list of scenarios.
type Deck struct {
	scenarios []Scenario
}

var ErrIndexOutOfRange = errors.New("scenario index out of range")

// Default returns the built-in deck. Every call yields the same content in the
// same order.
func Default() *Deck {
	d, err := Parse(defaultDeck)
	if err != nil {
		panic(fmt.Sprintf("embedded scenario deck: %v", err))
	}
	return d
}

// LoadFile reads a deck from a YAML file.
func LoadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of scenarios.
func Parse(data []byte) (*Deck, error) {
	var scenarios []Scenario
	if err := yaml.Unmarshal(data, &scenarios); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if len(scenarios) == 0 {
		return nil, errors.New("parse deck: no scenarios")
	}
	for i, s := range scenarios {
		if strings.TrimSpace(s.Question) == "" {
			return nil, fmt.Errorf("parse deck: scenario %d: question required", i)
		}
		if strings.TrimSpace(s.OptionA) == "" || strings.TrimSpace(s.OptionB) == "" {
			return nil, fmt.Errorf("parse deck: scenario %d: both options required", i)
		}
	}
	return &Deck{scenarios: scenarios}, nil
}

func (d *Deck) Len() int { return len(d.scenarios) }

// At returns a copy of the scenario at position i.
func (d *Deck) At(i int) (Scenario, error) {
	if i < 0 || i >= len(d.scenarios) {
		return Scenario{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(d.scenarios))
	}
	return d.scenarios[i].clone(), nil
}

// Scenarios returns a copy of every scenario in order.
func (d *Deck) Scenarios() []Scenario {
	out := make([]Scenario, len(d.scenarios))
	for i, s := range d.scenarios {
		out[i] = s.clone()
	}
	return out
}

func (s Scenario) clone() Scenario {
	s.VectorA = cloneVector(s.VectorA)
	s.VectorB = cloneVector(s.VectorB)
	return s
}

func cloneVector(v map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(v))
	for k, w := range v {
		out[k] = w
	}
	return out
}
