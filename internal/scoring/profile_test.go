package scoring

import (
	"math"
	"testing"

	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

func TestBuildProfile(t *testing.T) {
	reg := traits.NewRegistry([]string{"Intellect", "Empathy", "Cynicism", "Optimism"})
	prefs := []float64{2.0, 0.05, -3.5, 0}

	p := BuildProfile(reg, prefs, 0.1, 1)

	if p.TotalTraits != 4 || p.ActiveTraits != 3 {
		t.Errorf("expected 3/4 active, got %d/%d", p.ActiveTraits, p.TotalTraits)
	}
	if len(p.Significant) != 2 || p.Significant[0].Trait != "Intellect" || p.Significant[1].Trait != "Cynicism" {
		t.Fatalf("unexpected significant traits: %+v", p.Significant)
	}
	if len(p.KeyTraits) != 1 || p.KeyTraits[0].Trait != "Cynicism" || p.KeyTraits[0].Direction != "avoids" {
		t.Errorf("unexpected key traits: %+v", p.KeyTraits)
	}
	if p.Strongest != 3.5 {
		t.Errorf("expected strongest 3.5, got %f", p.Strongest)
	}
	want := (2.0 + 0.05 + 3.5) / 4
	if math.Abs(p.MeanStrength-want) > 1e-12 {
		t.Errorf("expected mean %f, got %f", want, p.MeanStrength)
	}
}

func TestBuildProfileAllTraits(t *testing.T) {
	reg := traits.NewRegistry([]string{"Intellect", "Empathy", "Cynicism", "Optimism", "Loyalty"})
	prefs := []float64{0.5, 0.05, -3.5, 0.005, -0.05}

	p := BuildProfile(reg, prefs, 0.1, 5)

	want := []string{"Cynicism", "Intellect", "Empathy", "Loyalty"}
	if len(p.All) != len(want) {
		t.Fatalf("expected %d traits in full analysis, got %+v", len(want), p.All)
	}
	for i, name := range want {
		if p.All[i].Trait != name {
			t.Errorf("position %d: got %s, want %s", i, p.All[i].Trait, name)
		}
	}
	if p.All[3].Direction != "avoids" {
		t.Errorf("expected Loyalty to be avoided, got %s", p.All[3].Direction)
	}
	if len(p.Significant) != 2 {
		t.Errorf("threshold should still limit significant traits, got %+v", p.Significant)
	}
}

func TestBuildProfileEmpty(t *testing.T) {
	p := BuildProfile(traits.NewRegistry(nil), nil, 0.1, 5)
	if p.MeanStrength != 0 || len(p.Significant) != 0 || p.KeyTraits == nil || p.All == nil {
		t.Errorf("unexpected profile for empty vector: %+v", p)
	}
}
