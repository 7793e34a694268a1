// Package event models calendar windows, such as holidays, that are fed to
// a forecast fit as binary regressors.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var ErrInvalidWindow = errors.New("event window end must be after start")

// Event is a named time window. A fit treats each event as its own
// regressor, active for observations falling inside [Start, End).
type Event struct {
	Name  string
	Start time.Time
	End   time.Time
}

func New(name string, start, end time.Time) Event {
	return Event{Name: name, Start: start, End: end}
}

func (e Event) Valid() error {
	if !e.End.After(e.Start) {
		return ErrInvalidWindow
	}
	return nil
}

// Active reports whether t falls inside the event window.
func (e Event) Active(t time.Time) bool {
	return !t.Before(e.Start) && t.Before(e.End)
}

// Holiday expands a calendar holiday into one event per observed
// occurrence between start and end. durBefore and durAfter widen each
// window around the observed day.
func Holiday(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Event {
	if hol == nil || !end.After(start) {
		return nil
	}

	name := slugify(hol.Name)
	var events []Event
	for year := start.Year(); year <= end.Year(); year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		evtStart := observed.Add(-durBefore)
		evtEnd := observed.Add(24*time.Hour + durAfter)
		if evtEnd.Before(start) || evtStart.After(end) {
			continue
		}
		events = append(events, New(name, evtStart, evtEnd))
	}
	return events
}

// USFederalHolidays expands the major US federal holidays observed
// between start and end, each as a single day window.
func USFederalHolidays(start, end time.Time) []Event {
	holidays := []*cal.Holiday{
		us.NewYear,
		us.MemorialDay,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	}

	var events []Event
	for _, hol := range holidays {
		events = append(events, Holiday(hol, start, end, 0, 0)...)
	}
	return events
}

func slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "'", "")
	return strings.ReplaceAll(s, " ", "_")
}
