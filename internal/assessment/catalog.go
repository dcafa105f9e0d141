package assessment

import (
	"github.com/MikeSquared-Agency/Matchmaker/internal/scenario"
)

// CandidateView is a candidate with both raw and normalized trait values,
// keyed by trait name.
type CandidateView struct {
	Index       int                `json:"index"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Raw         map[string]float64 `json:"raw"`
	Normalized  map[string]float64 `json:"normalized"`
}

// Traits returns the trait universe in order.
func (s *Service) Traits() []string {
	return s.data.Registry.Names()
}

func (s *Service) Candidates() []CandidateView {
	names := s.data.Registry.Names()
	out := make([]CandidateView, len(s.data.Candidates))
	for i, c := range s.data.Candidates {
		v := CandidateView{
			Index:       i,
			Name:        c.Name,
			Description: c.Description,
			Raw:         make(map[string]float64, len(names)),
			Normalized:  make(map[string]float64, len(names)),
		}
		for j, n := range names {
			v.Raw[n] = c.Traits[j]
			v.Normalized[n] = s.data.Rows[i][j]
		}
		out[i] = v
	}
	return out
}

func (s *Service) Scenarios() []scenario.Scenario {
	return s.deck.Scenarios()
}
