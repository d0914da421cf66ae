package parking

import (
	"fmt"
	"strings"
	"time"
)

var timeOfDayLayouts = []string{"3:04 PM", "3:04PM"}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts twelve-hour times such as "08:00 AM" or "1:30 pm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q, expected hh:mm AM/PM", ErrInvalidTimeFormat, s)
}

// On places the time of day on the calendar date of d, in d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, t.Hour, t.Minute, 0, 0, d.Location())
}

// OnOrAfter places the time of day on ref's date, rolling forward one
// calendar day when that instant would fall before ref.
func (t TimeOfDay) OnOrAfter(ref time.Time) time.Time {
	ts := t.On(ref)
	if ts.Before(ref) {
		ts = ts.AddDate(0, 0, 1)
	}
	return ts
}

func (t TimeOfDay) String() string {
	return time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC).Format("03:04 PM")
}
