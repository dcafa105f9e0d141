package scoring

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Matchmaker/internal/traits"
)

func normalized(t *testing.T, csv string) *traits.Normalized {
	t.Helper()
	ds, err := traits.Load(strings.NewReader(csv), traits.LoadOptions{})
	require.NoError(t, err)
	return traits.Normalize(ds)
}

func TestRankThreeCandidates(t *testing.T) {
	n := normalized(t, "name,summary,X\ncandidate1,one,0\ncandidate2,two,5\ncandidate3,three,10\n")

	r, err := Rank(n, []float64{1.0})
	require.NoError(t, err)

	all := r.All()
	require.Len(t, all, 3)
	names := []string{all[0].Name, all[1].Name, all[2].Name}
	assert.Equal(t, []string{"candidate3", "candidate2", "candidate1"}, names)
	assert.Equal(t, []float64{0.5, 0.0, -0.5}, []float64{all[0].Score, all[1].Score, all[2].Score})
	assert.Equal(t, []float64{100, 60, 20}, []float64{all[0].Percentage, all[1].Percentage, all[2].Percentage})
	assert.Equal(t, "three", all[0].Description)
	assert.Equal(t, 2, all[0].Index)
	assert.Equal(t, 0, all[0].Rank)
}

func TestRankTiesKeepLoadOrder(t *testing.T) {
	n := normalized(t, "name,summary,X,Y\na,,0,1\nb,,10,1\nc,,0,2\nd,,10,2\n")

	r, err := Rank(n, []float64{0, 0})
	require.NoError(t, err)
	for i, m := range r.All() {
		assert.Equal(t, i, m.Index)
	}

	r, err = Rank(n, []float64{1, 0})
	require.NoError(t, err)
	got := []int{}
	for _, m := range r.All() {
		got = append(got, m.Index)
	}
	assert.Equal(t, []int{1, 3, 0, 2}, got)
}

func TestRankDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	ds := &traits.Dataset{Registry: traits.NewRegistry([]string{"A", "B", "C"})}
	for i := 0; i < 40; i++ {
		ds.Candidates = append(ds.Candidates, traits.Candidate{
			Name:   "c",
			Traits: []float64{float64(rng.Intn(5)), float64(rng.Intn(5)), float64(rng.Intn(5))},
		})
	}
	n := traits.Normalize(ds)
	prefs := []float64{1.5, -0.5, 2.0}

	a, err := Rank(n, prefs)
	require.NoError(t, err)
	b, err := Rank(n, prefs)
	require.NoError(t, err)
	assert.Equal(t, a.All(), b.All())
}

func TestRankErrors(t *testing.T) {
	_, err := Rank(&traits.Normalized{Registry: traits.NewRegistry([]string{"X"})}, []float64{1})
	assert.True(t, errors.Is(err, ErrNoCandidates))
	assert.True(t, IsRankingError(err))

	n := normalized(t, "name,summary,X\na,,1\n")
	_, err = Rank(n, []float64{1, 2})
	assert.True(t, IsRankingError(err))
	assert.False(t, errors.Is(err, ErrNoCandidates))
}

func TestRankSingleCandidate(t *testing.T) {
	r, err := Rank(traits.Normalize(traits.Placeholder()), []float64{3, -1})
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())
	assert.Equal(t, 100.0, r.All()[0].Percentage)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 100.0, Percentage(0, 1))
	for n := 2; n <= 60; n++ {
		assert.Equal(t, 100.0, Percentage(0, n), "n=%d", n)
		assert.Equal(t, 20.0, Percentage(n-1, n), "n=%d", n)
		for r := 1; r < n; r++ {
			assert.LessOrEqual(t, Percentage(r, n), Percentage(r-1, n))
		}
	}
	assert.Equal(t, 20.0, Percentage(50, 5))
	assert.Equal(t, 60.0, Percentage(1, 3))
}

func TestTopSlicesSameRanking(t *testing.T) {
	n := normalized(t, "name,summary,X\na,,1\nb,,2\nc,,3\nd,,4\ne,,5\nf,,6\n")
	r, err := Rank(n, []float64{1})
	require.NoError(t, err)

	all := r.All()
	top := r.Top(5)
	require.Len(t, top, 5)
	assert.Equal(t, all[:5], top)
	assert.Len(t, r.Top(0), 6)
	assert.Len(t, r.Top(100), 6)

	top[0].Name = "mutated"
	assert.NotEqual(t, "mutated", r.All()[0].Name)
}
