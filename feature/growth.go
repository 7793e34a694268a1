package feature

import (
	"fmt"
	"strings"
)

const GrowthLinear = "linear"

// Growth labels the base trend regressor. The linear growth column is time
// scaled to [0, 1] over the training window so its coefficient reads as the
// total rise over the history.
type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

// Linear returns the base linear growth feature.
func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

func (g Growth) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return g.Name, true
	}
	return "", false
}

func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

func (g Growth) Decode() map[string]string {
	return map[string]string{"name": g.Name}
}
