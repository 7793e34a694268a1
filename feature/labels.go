package feature

// Labels tracks an ordered slice of features along with their index
// positions, matching the ordering of fitted coefficients.
type Labels struct {
	idx    map[string]int
	labels []Feature
}

func NewLabels(labels []Feature) *Labels {
	idx := make(map[string]int, len(labels))
	for i := range labels {
		idx[labels[i].String()] = i
	}
	return &Labels{idx: idx, labels: labels}
}

func (l *Labels) Len() int {
	return len(l.labels)
}

// Labels returns a copy of the ordered feature slice.
func (l *Labels) Labels() []Feature {
	labels := make([]Feature, len(l.labels))
	copy(labels, l.labels)
	return labels
}

// Index returns the coefficient position of the given feature label.
func (l *Labels) Index(label Feature) (int, bool) {
	if idx, exists := l.idx[label.String()]; exists {
		return idx, true
	}
	return -1, false
}
