package itinerary_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voya/internal/itinerary"
)

func TestGenerateDays_ThreeDays(t *testing.T) {
	days, err := itinerary.GenerateDays("2024-06-01", "2024-06-03")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01", "2024-06-02", "2024-06-03"}, days)
}

func TestGenerateDays_SingleDay(t *testing.T) {
	days, err := itinerary.GenerateDays("2024-06-01", "2024-06-01")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-01"}, days)
}

func TestGenerateDays_CrossesMonthAndLeapDay(t *testing.T) {
	days, err := itinerary.GenerateDays("2024-02-27", "2024-03-02")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, days)
}

func TestGenerateDays_CrossesYear(t *testing.T) {
	days, err := itinerary.GenerateDays("2024-12-30", "2025-01-02")

	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, days)
}

// Departure before arrival yields an empty, non-nil sequence rather than an error.
func TestGenerateDays_DepartureBeforeArrival(t *testing.T) {
	for _, dep := range []string{"2024-06-09", "2024-06-01", "2023-01-01"} {
		days, err := itinerary.GenerateDays("2024-06-10", dep)

		require.NoError(t, err)
		require.NotNil(t, days)
		assert.Empty(t, days, "departure %s", dep)
	}
}

func TestGenerateDays_LengthMatchesDayDifference(t *testing.T) {
	arrival := time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)
	for span := 0; span < 800; span += 37 {
		departure := arrival.AddDate(0, 0, span)

		days, err := itinerary.GenerateDays(arrival.Format(itinerary.DateLayout), departure.Format(itinerary.DateLayout))

		require.NoError(t, err)
		require.Len(t, days, span+1)
		assert.Equal(t, arrival.Format(itinerary.DateLayout), days[0])
		assert.Equal(t, departure.Format(itinerary.DateLayout), days[len(days)-1])
		for i := 1; i < len(days); i++ {
			prev, _ := time.Parse(itinerary.DateLayout, days[i-1])
			cur, _ := time.Parse(itinerary.DateLayout, days[i])
			require.Equal(t, prev.AddDate(0, 0, 1), cur, "gap between %s and %s", days[i-1], days[i])
		}
	}
}

func TestGenerateDays_ParseError(t *testing.T) {
	tests := []struct {
		name      string
		arrival   string
		departure string
		field     string
		value     string
	}{
		{name: "bad arrival", arrival: "06/01/2024", departure: "2024-06-03", field: "arrival date", value: "06/01/2024"},
		{name: "bad departure", arrival: "2024-06-01", departure: "2024-06-31", field: "departure date", value: "2024-06-31"},
		{name: "empty arrival", arrival: "", departure: "2024-06-03", field: "arrival date", value: ""},
		{name: "datetime", arrival: "2024-06-01T10:00:00Z", departure: "2024-06-03", field: "arrival date", value: "2024-06-01T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := itinerary.GenerateDays(tt.arrival, tt.departure)

			require.Error(t, err)
			assert.Nil(t, days)

			var pe *itinerary.ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.field, pe.Field)
			assert.Equal(t, tt.value, pe.Value)
			assert.ErrorContains(t, err, tt.field)
		})
	}
}

func TestDayCount(t *testing.T) {
	tests := []struct {
		arrival, departure string
		want               int
	}{
		{"2024-06-01", "2024-06-03", 3},
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-03", "2024-06-01", 0},
		{"0001-01-01", "9999-12-31", 3652059},
	}
	for _, tt := range tests {
		t.Run(tt.arrival+"_"+tt.departure, func(t *testing.T) {
			n, err := itinerary.DayCount(tt.arrival, tt.departure)

			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestDayCount_ParseError(t *testing.T) {
	_, err := itinerary.DayCount("2024-06-01", "soon")

	var pe *itinerary.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestInRange(t *testing.T) {
	tests := []struct {
		day  string
		want bool
	}{
		{"2024-06-01", true},
		{"2024-06-02", true},
		{"2024-06-03", true},
		{"2024-05-31", false},
		{"2024-06-04", false},
		{"not-a-date", false},
		{"2024-6-2", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			ok, err := itinerary.InRange("2024-06-01", "2024-06-03", tt.day)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

// TestInRange_HugeTrip checks a day against a range far too long to list.
func TestInRange_HugeTrip(t *testing.T) {
	ok, err := itinerary.InRange("0001-01-01", "9999-12-31", "5000-07-14")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInRange_EmptyTrip(t *testing.T) {
	ok, err := itinerary.InRange("2024-06-03", "2024-06-01", "2024-06-02")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInRange_ParseError(t *testing.T) {
	_, err := itinerary.InRange("garbage", "2024-06-03", "2024-06-02")

	var pe *itinerary.ParseError
	assert.ErrorAs(t, err, &pe)
}
