package traits

import "math"

// Normalized is the min-max scaled trait matrix of a dataset, centred at zero.
// Rows follow candidate load order. It is never mutated after Normalize
// returns, so one value may be shared by every reader.
type Normalized struct {
	Registry   *Registry
	Candidates []Candidate
	Rows       [][]float64
}

// Normalize rescales each trait so the minimum maps to -0.5 and the maximum
// to +0.5. Constant traits normalize to 0 for every candidate.
func Normalize(ds *Dataset) *Normalized {
	t := ds.Registry.Len()
	n := len(ds.Candidates)

	mins := make([]float64, t)
	maxs := make([]float64, t)
	for j := 0; j < t; j++ {
		for i, c := range ds.Candidates {
			v := c.Traits[j]
			if i == 0 || v < mins[j] {
				mins[j] = v
			}
			if i == 0 || v > maxs[j] {
				maxs[j] = v
			}
		}
	}

	rows := make([][]float64, n)
	for i, c := range ds.Candidates {
		row := make([]float64, t)
		for j := 0; j < t; j++ {
			row[j] = scale(c.Traits[j], mins[j], maxs[j])
		}
		rows[i] = row
	}

	return &Normalized{
		Registry:   ds.Registry,
		Candidates: ds.Candidates,
		Rows:       rows,
	}
}

// scale maps v from [lo, hi] onto [-0.5, 0.5]. Spans too wide for float64
// are computed on halved operands, which is exact for normal values.
func scale(v, lo, hi float64) float64 {
	span := hi - lo
	if span == 0 {
		return 0
	}
	if math.IsInf(span, 0) {
		return (v/2-lo/2)/(hi/2-lo/2) - 0.5
	}
	return (v-lo)/span - 0.5
}

// Len returns the number of candidates.
func (n *Normalized) Len() int { return len(n.Rows) }
