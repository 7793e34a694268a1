package feature

import (
	"fmt"
	"strings"
)

// Event labels a binary regressor that is active inside a known calendar
// window, e.g. an observed holiday.
type Event struct {
	Name string `json:"name"`
}

func NewEvent(name string) *Event {
	return &Event{name}
}

func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

func (e Event) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

func (e Event) Decode() map[string]string {
	return map[string]string{"name": e.Name}
}
