package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-10-17")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.October, 17), d)
	assert.Equal(t, "2026-10-17", d.String())

	_, err = ParseDate("17/10/2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateCompare(t *testing.T) {
	a := NewDate(2026, time.January, 31)
	b := a.AddDays(1)

	assert.Equal(t, NewDate(2026, time.February, 1), b)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(NewDate(2026, time.January, 31)))
	assert.True(t, Date{}.IsZero())
	assert.False(t, a.IsZero())
}

func TestYearsSince(t *testing.T) {
	born := NewDate(2010, time.May, 10)

	tests := []struct {
		name string
		on   Date
		want int
	}{
		{"day before birthday", NewDate(2026, time.May, 9), 15},
		{"on birthday", NewDate(2026, time.May, 10), 16},
		{"later that year", NewDate(2026, time.October, 16), 16},
		{"before birth", NewDate(2009, time.January, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, born.YearsSince(tt.on))
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	midnight, err := ParseTimeOfDay("00:00")
	require.NoError(t, err)
	assert.False(t, midnight.IsZero(), "midnight is a set value")
	assert.True(t, TimeOfDay{}.IsZero())

	nine := MustTime(9, 0)
	assert.Equal(t, "09:00", nine.String())
	assert.Equal(t, -1, midnight.Compare(nine))

	_, err = NewTimeOfDay(24, 0)
	assert.ErrorIs(t, err, ErrInvalidTime)
	_, err = ParseTimeOfDay("9am")
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestJSONRoundTripsThroughText(t *testing.T) {
	type slot struct {
		Date Date      `json:"date"`
		Time TimeOfDay `json:"time"`
	}

	var s slot
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2026-10-17","time":"14:30"}`), &s))
	assert.Equal(t, NewDate(2026, time.October, 17), s.Date)
	assert.Equal(t, MustTime(14, 30), s.Time)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-10-17","time":"14:30"}`, string(out))
}

func TestFixedClock(t *testing.T) {
	start := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)
	c := NewFixedClock(start)
	assert.Equal(t, NewDate(2026, time.October, 16), Today(c))

	c.Advance(time.Hour)
	assert.Equal(t, NewDate(2026, time.October, 17), Today(c))
}
