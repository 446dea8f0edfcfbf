package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklog/internal/errors"
)

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2024-03-01", "2024-03-07")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), r.EndDate)
	assert.Equal(t, time.Date(2024, 3, 7, 23, 59, 59, 999999999, time.UTC), r.To)
}

func TestParseDateRange_RFC3339EndIsExact(t *testing.T) {
	r, err := ParseDateRange("2024-03-01T08:00:00Z", "2024-03-01T17:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC), r.To)
}

func TestParseDateRange_SameDay(t *testing.T) {
	r, err := ParseDateRange("2024-03-05", "2024-03-05")
	require.NoError(t, err)
	assert.True(t, r.To.After(r.From))
}

func TestParseDateRange_Errors(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		msg   string
	}{
		{"missing start", "", "2024-03-01", "Start date and end date are required"},
		{"missing end", "2024-03-01", " ", "Start date and end date are required"},
		{"bad start", "03/01/2024", "2024-03-02", "Invalid start date"},
		{"bad end", "2024-03-01", "tomorrow", "Invalid end date"},
		{"reversed", "2024-03-09", "2024-03-01", "Start date must not be after end date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDateRange(tt.start, tt.end)
			require.Error(t, err)
			assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
			assert.Equal(t, tt.msg, errors.PublicMessage(err))
		})
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("2024-12-24")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 24, d.Day())

	_, err = ParseOptionalDate("not a date")
	assert.Error(t, err)
}
