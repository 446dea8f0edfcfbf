package app

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"worklog/models"
)

// ComputeDurationStats summarises the durations of entries that carry one.
// Entries without a duration only count towards Count.
func ComputeDurationStats(entries []models.LogEntry) (*models.DurationStats, error) {
	result := &models.DurationStats{
		Count:             len(entries),
		MinutesByCategory: make(map[string]float64),
	}

	data := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.Duration == nil {
			continue
		}
		minutes := float64(*e.Duration)
		data = append(data, minutes)

		category := string(e.Category)
		if category == "" {
			category = "Uncategorized"
		}
		result.MinutesByCategory[category] += minutes
	}

	result.WithDuration = len(data)
	if len(data) == 0 {
		return result, nil
	}

	result.TotalMinutes = floats.Sum(data)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return nil, err
	}

	result.MeanMinutes = mean
	result.MedianMinutes = median
	result.P90Minutes = p90
	if len(data) > 1 {
		// sample standard deviation
		result.StdDevMinutes = stat.StdDev(data, nil)
	}

	return result, nil
}
