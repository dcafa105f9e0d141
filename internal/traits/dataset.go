package traits

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// DataError reports a dataset that cannot produce a trait universe.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "dataset: " + e.Reason
}

// IsDataError reports whether err wraps a *DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}

// Candidate is one row of the dataset. Traits is dense, in registry order.
type Candidate struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Traits      []float64 `json:"traits"`
}

// Dataset is the loaded candidate table.
type Dataset struct {
	Registry   *Registry
	Candidates []Candidate
}

// LoadOptions names the non-trait columns of the input table.
type LoadOptions struct {
	NameColumn        string
	DescriptionColumn string
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.NameColumn == "" {
		o.NameColumn = "name"
	}
	if o.DescriptionColumn == "" {
		o.DescriptionColumn = "summary"
	}
	return o
}

// LoadFile reads a CSV dataset from path.
func LoadFile(path string, opts LoadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f, opts)
}

// Load reads a CSV table with a header row. Every column other than the name
// and description columns whose cells all parse as finite numbers becomes a
// trait, in header order. Columns with any blank or non-numeric cell are not
// traits; missing values are never inferred.
func Load(r io.Reader, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &DataError{Reason: pe.Error()}
		}
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, &DataError{Reason: "no header row"}
	}

	header := records[0]
	rows := records[1:]
	if len(rows) == 0 {
		return nil, &DataError{Reason: "no candidate rows"}
	}

	nameCol, descCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case opts.NameColumn:
			nameCol = i
		case opts.DescriptionColumn:
			descCol = i
		}
	}
	if nameCol < 0 {
		return nil, &DataError{Reason: fmt.Sprintf("missing identity column %q", opts.NameColumn)}
	}

	var traitCols []int
	var names []string
	for i, h := range header {
		if i == nameCol || i == descCol {
			continue
		}
		if numericColumn(rows, i) {
			traitCols = append(traitCols, i)
			names = append(names, strings.TrimSpace(h))
		}
	}
	if len(traitCols) == 0 {
		return nil, &DataError{Reason: "no numeric trait columns"}
	}

	ds := &Dataset{
		Registry:   NewRegistry(names),
		Candidates: make([]Candidate, 0, len(rows)),
	}
	if ds.Registry.Len() != len(traitCols) {
		return nil, &DataError{Reason: "duplicate trait column names"}
	}

	for _, row := range rows {
		c := Candidate{
			Name:   strings.TrimSpace(row[nameCol]),
			Traits: make([]float64, len(traitCols)),
		}
		if descCol >= 0 {
			c.Description = strings.TrimSpace(row[descCol])
		}
		for j, col := range traitCols {
			// already validated by numericColumn
			c.Traits[j], _ = strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		}
		ds.Candidates = append(ds.Candidates, c)
	}
	return ds, nil
}

func numericColumn(rows [][]string, col int) bool {
	for _, row := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Placeholder is the single-candidate dataset used when the real dataset
// cannot be loaded, so the pipeline stays operable.
func Placeholder() *Dataset {
	return &Dataset{
		Registry: NewRegistry([]string{"Trait1", "Trait2"}),
		Candidates: []Candidate{
			{Name: "Dummy", Description: "Dummy summary", Traits: []float64{50, 50}},
		},
	}
}
