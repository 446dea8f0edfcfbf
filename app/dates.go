package app

import (
	"strings"
	"time"

	"worklog/internal/errors"
)

const dateLayout = "2006-01-02"

// DateRange is an inclusive window. From/To are the query bounds;
// StartDate/EndDate are what gets recorded on a report.
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
	From      time.Time
	To        time.Time
}

// ParseDateRange accepts YYYY-MM-DD or RFC3339 for both ends. A date-only
// end is widened to the last instant of that day so the whole day counts.
func ParseDateRange(start, end string) (DateRange, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return DateRange{}, errors.ValidationError("Start date and end date are required")
	}

	startAt, _, err := parseDate(start)
	if err != nil {
		return DateRange{}, errors.ValidationError("Invalid start date")
	}
	endAt, endDateOnly, err := parseDate(end)
	if err != nil {
		return DateRange{}, errors.ValidationError("Invalid end date")
	}

	to := endAt
	if endDateOnly {
		to = endAt.Add(24*time.Hour - time.Nanosecond)
	}
	if startAt.After(to) {
		return DateRange{}, errors.ValidationError("Start date must not be after end date")
	}

	return DateRange{
		StartDate: startAt,
		EndDate:   endAt,
		From:      startAt,
		To:        to,
	}, nil
}

// ParseOptionalDate parses a date or returns nil for an empty string
func ParseOptionalDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, _, err := parseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDate(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
