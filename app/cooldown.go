package app

import (
	"math"
	"time"
)

// CooldownStatus tells a user whether a new report may be generated
type CooldownStatus struct {
	Eligible       bool       `json:"eligible"`
	DaysLeft       int        `json:"daysLeft"`
	NextEligibleAt *time.Time `json:"nextEligibleAt,omitempty"`
}

// CooldownGate allows one report generation per interval
type CooldownGate struct {
	interval time.Duration
	now      func() time.Time
}

// NewCooldownGate creates a gate with an interval of the given number of days
func NewCooldownGate(days int, now func() time.Time) *CooldownGate {
	if now == nil {
		now = time.Now
	}
	return &CooldownGate{
		interval: time.Duration(days) * 24 * time.Hour,
		now:      now,
	}
}

// Interval returns the configured cooldown
func (g *CooldownGate) Interval() time.Duration {
	return g.interval
}

// Check evaluates eligibility given the last generation time (nil when the
// user never generated a report).
func (g *CooldownGate) Check(last *time.Time) CooldownStatus {
	if last == nil {
		return CooldownStatus{Eligible: true}
	}

	elapsed := g.now().Sub(*last)
	if elapsed >= g.interval {
		return CooldownStatus{Eligible: true}
	}

	remaining := g.interval - elapsed
	if remaining > g.interval {
		// last lies in the future; never ask for more than one interval
		remaining = g.interval
	}
	next := last.Add(g.interval)
	return CooldownStatus{
		Eligible:       false,
		DaysLeft:       int(math.Ceil(remaining.Hours() / 24)),
		NextEligibleAt: &next,
	}
}
