package feature

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Data pairs a feature label with its observed column values.
type Data struct {
	F    Feature
	Data []float64
}

// Set maps feature labels to their column data, keyed by the label's string
// form. Column ordering is always the lexicographic order of the labels so
// matrices and coefficient slices line up deterministically.
type Set map[string]Data

func NewSet() Set {
	return make(Set)
}

// Set stores the column data for a feature label.
func (s Set) Set(f Feature, data []float64) {
	s[f.String()] = Data{F: f, Data: data}
}

// Get returns the column data for a feature label.
func (s Set) Get(f Feature) ([]float64, bool) {
	d, exists := s[f.String()]
	if !exists {
		return nil, false
	}
	return d.Data, true
}

// Update merges all columns from src into this set.
func (s Set) Update(src Set) {
	for label, d := range src {
		s[label] = d
	}
}

// Labels returns the lexicographically ordered labels of the set.
func (s Set) Labels() *Labels {
	if s == nil {
		return NewLabels(nil)
	}

	labels := make([]Feature, 0, len(s))
	for _, d := range s {
		labels = append(labels, d.F)
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].String() < labels[j].String()
	})
	return NewLabels(labels)
}

// Matrix materializes the set as an observations-by-features dense matrix
// in label order. Returns nil for an empty set.
func (s Set) Matrix() *mat.Dense {
	labels := s.Labels()
	if labels.Len() == 0 {
		return nil
	}

	ordered := labels.Labels()
	m := len(s[ordered[0].String()].Data)
	n := labels.Len()

	obs := make([]float64, m*n)
	for j, label := range ordered {
		col := s[label.String()].Data
		for i := 0; i < len(col); i++ {
			obs[n*i+j] = col[i]
		}
	}
	return mat.NewDense(m, n, obs)
}
