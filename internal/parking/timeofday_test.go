package parking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input  string
		hour   int
		minute int
	}{
		{"08:00 AM", 8, 0},
		{"8:05 am", 8, 5},
		{"12:00 AM", 0, 0},
		{"12:30 PM", 12, 30},
		{"11:59 PM", 23, 59},
		{" 01:15  pm ", 13, 15},
		{"10:00AM", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tod, err := ParseTimeOfDay(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, tod.Hour)
			assert.Equal(t, tt.minute, tod.Minute)
		})
	}
}

func TestParseTimeOfDayInvalid(t *testing.T) {
	for _, input := range []string{"25:99", "25:99 PM", "", "noon", "08:00", "13:00 PM", "08:61 AM"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTimeOfDay(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTimeFormat))
		})
	}
}

func TestTimeOfDayOn(t *testing.T) {
	day := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
	ts := TimeOfDay{Hour: 8, Minute: 30}.On(day)

	assert.Equal(t, time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC), ts)
}

func TestTimeOfDayOnOrAfter(t *testing.T) {
	entry := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)

	sameDay := TimeOfDay{Hour: 23, Minute: 30}.OnOrAfter(entry)
	assert.Equal(t, time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC), sameDay)

	nextDay := TimeOfDay{Hour: 1, Minute: 0}.OnOrAfter(entry)
	assert.Equal(t, time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC), nextDay)

	equal := TimeOfDay{Hour: 23, Minute: 0}.OnOrAfter(entry)
	assert.Equal(t, entry, equal)
}

func TestTimeOfDayOnOrAfterMonthEnd(t *testing.T) {
	entry := time.Date(2026, 12, 31, 22, 0, 0, 0, time.UTC)
	ts := TimeOfDay{Hour: 0, Minute: 15}.OnOrAfter(entry)

	assert.Equal(t, time.Date(2027, 1, 1, 0, 15, 0, 0, time.UTC), ts)
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "08:05 AM", TimeOfDay{Hour: 8, Minute: 5}.String())
	assert.Equal(t, "11:00 PM", TimeOfDay{Hour: 23}.String())
}
