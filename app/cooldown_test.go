package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCooldownGate_Check(t *testing.T) {
	now := fixedNow
	day := 24 * time.Hour

	tests := []struct {
		name         string
		last         *time.Time
		wantEligible bool
		wantDaysLeft int
	}{
		{"never generated", nil, true, 0},
		{"exactly ten days", timePtr(now.Add(-10 * day)), true, 0},
		{"just under ten days", timePtr(now.Add(-10*day + time.Millisecond)), false, 1},
		{"three days ago", timePtr(now.Add(-3 * day)), false, 7},
		{"three and a half days ago", timePtr(now.Add(-3*day - 12*time.Hour)), false, 7},
		{"moments ago", timePtr(now.Add(-time.Minute)), false, 10},
		{"long ago", timePtr(now.Add(-400 * day)), true, 0},
		{"in the future", timePtr(now.Add(5 * day)), false, 10},
	}

	gate := NewCooldownGate(10, clock(now))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := gate.Check(tt.last)
			assert.Equal(t, tt.wantEligible, status.Eligible)
			assert.Equal(t, tt.wantDaysLeft, status.DaysLeft)
			assert.GreaterOrEqual(t, status.DaysLeft, 0)
			if !status.Eligible {
				assert.NotNil(t, status.NextEligibleAt)
			}
		})
	}
}

func TestCooldownGate_ZeroIntervalAlwaysEligible(t *testing.T) {
	gate := NewCooldownGate(0, clock(fixedNow))
	status := gate.Check(timePtr(fixedNow))
	assert.True(t, status.Eligible)
}
