package scoring

import (
	"math"
	"sort"

	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

// TraitPreference is one named entry of a preference vector.
type TraitPreference struct {
	Trait     string  `json:"trait"`
	Score     float64 `json:"score"`
	Direction string  `json:"direction"`
}

// Profile summarises a final preference vector for display.
type Profile struct {
	Significant  []TraitPreference `json:"significant"`
	KeyTraits    []TraitPreference `json:"key_traits"`
	All          []TraitPreference `json:"all"`
	ActiveTraits int               `json:"active_traits"`
	TotalTraits  int               `json:"total_traits"`
	Strongest    float64           `json:"strongest"`
	MeanStrength float64           `json:"mean_strength"`
}

// AnalysisFloor is the magnitude below which a trait is left out of the
// full analysis list.
const AnalysisFloor = 0.01

// BuildProfile keeps traits whose magnitude exceeds threshold (in registry
// order) and the topK of those by magnitude. All lists every trait above
// AnalysisFloor, strongest first.
func BuildProfile(reg *traits.Registry, prefs []float64, threshold float64, topK int) Profile {
	p := Profile{
		TotalTraits: len(prefs),
		Significant: []TraitPreference{},
		KeyTraits:   []TraitPreference{},
		All:         []TraitPreference{},
	}

	var sum float64
	for i, v := range prefs {
		mag := math.Abs(v)
		sum += mag
		if v != 0 {
			p.ActiveTraits++
		}
		if mag > p.Strongest {
			p.Strongest = mag
		}
		tp := TraitPreference{
			Trait:     reg.Name(traits.ID(i)),
			Score:     v,
			Direction: direction(v),
		}
		if mag > AnalysisFloor {
			p.All = append(p.All, tp)
		}
		if mag > threshold {
			p.Significant = append(p.Significant, tp)
		}
	}
	byMagnitude(p.All)
	if len(prefs) > 0 {
		p.MeanStrength = sum / float64(len(prefs))
	}

	key := make([]TraitPreference, len(p.Significant))
	copy(key, p.Significant)
	byMagnitude(key)
	if topK > 0 && len(key) > topK {
		key = key[:topK]
	}
	p.KeyTraits = key
	return p
}

// byMagnitude orders by |score| descending, keeping registry order on ties.
func byMagnitude(tps []TraitPreference) {
	sort.SliceStable(tps, func(a, b int) bool {
		return math.Abs(tps[a].Score) > math.Abs(tps[b].Score)
	})
}

func direction(v float64) string {
	if v > 0 {
		return "prefers"
	}
	return "avoids"
}
