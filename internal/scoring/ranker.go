package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

// RankingError reports inputs that cannot be ranked.
type RankingError struct {
	Reason string
}

func (e *RankingError) Error() string { return "ranking: " + e.Reason }

// ErrNoCandidates is returned when the dataset has no rows.
var ErrNoCandidates = &RankingError{Reason: "no candidates"}

// IsRankingError reports whether err wraps a *RankingError.
func IsRankingError(err error) bool {
	var re *RankingError
	return errors.As(err, &re)
}

// Match is one ranked candidate.
type Match struct {
	Rank        int     `json:"rank"`
	Index       int     `json:"index"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"match_score"`
	Percentage  float64 `json:"percentage"`
}

// Ranking is the full ordered result. Top and All slice the same matches.
type Ranking struct {
	matches []Match
}

// Rank scores every candidate as the dot product of its normalized traits and
// prefs, then orders by score descending with ties broken by load order.
func Rank(n *traits.Normalized, prefs []float64) (*Ranking, error) {
	if n == nil || n.Len() == 0 {
		return nil, ErrNoCandidates
	}
	if len(prefs) != n.Registry.Len() {
		return nil, &RankingError{Reason: fmt.Sprintf("preference vector has %d traits, dataset has %d", len(prefs), n.Registry.Len())}
	}

	scores := make([]float64, n.Len())
	for i, row := range n.Rows {
		scores[i] = dot(row, prefs)
	}

	order := make([]int, n.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if scores[ia] != scores[ib] {
			return scores[ia] > scores[ib]
		}
		return ia < ib
	})

	matches := make([]Match, len(order))
	for r, idx := range order {
		c := n.Candidates[idx]
		matches[r] = Match{
			Rank:        r,
			Index:       idx,
			Name:        c.Name,
			Description: c.Description,
			Score:       scores[idx],
			Percentage:  Percentage(r, len(order)),
		}
	}
	return &Ranking{matches: matches}, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Percentage is the display value for rank r of n: 100 for the best, falling
// linearly to exactly 20 for the last, never below 20.
func Percentage(r, n int) float64 {
	if n <= 1 {
		return 100
	}
	if r >= n-1 {
		return 20
	}
	p := 100 - float64(r)*(80/float64(n-1))
	if p < 20 {
		return 20
	}
	return p
}

// Len returns the number of ranked candidates.
func (r *Ranking) Len() int { return len(r.matches) }

// All returns every match in rank order.
func (r *Ranking) All() []Match {
	out := make([]Match, len(r.matches))
	copy(out, r.matches)
	return out
}

// Top returns the first k matches, or all of them when k <= 0 or k exceeds
// the ranking.
func (r *Ranking) Top(k int) []Match {
	if k <= 0 || k > len(r.matches) {
		k = len(r.matches)
	}
	out := make([]Match, k)
	copy(out, r.matches[:k])
	return out
}
