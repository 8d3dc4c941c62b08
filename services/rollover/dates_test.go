package rollover

import (
	"testing"
	"time"

	"keyscal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextWeek(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2024-01-01", "2024-01-08"},
		{"2024-12-28", "2025-01-04"},
		{"2024-01-31", "2024-02-07"},
		{"2024-02-26", "2024-03-04"},
		{"2023-02-25", "2023-03-04"},
		{"2024-10-25", "2024-11-01"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NextWeek(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNextWeek_InvalidDate(t *testing.T) {
	for _, in := range []string{"", "2024-1-1", "2024-13-01", "01/01/2024"} {
		_, err := NextWeek(in)
		assert.Error(t, err, in)
	}
}

func TestNextWeek_RoundTripsOverTwoYears(t *testing.T) {
	d := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	for ; d.Before(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)
		next, err := NextWeek(date)
		require.NoError(t, err)

		parsed, err := time.Parse(models.DateLayout, next)
		require.NoError(t, err)
		require.Equal(t, date, parsed.AddDate(0, 0, -7).Format(models.DateLayout))
		require.Greater(t, next, date, "string order must follow calendar order")
	}
}
