package dataset

import (
	"sort"

	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

// CountByType tallies events per canonical event type.
func CountByType(events []domain.WeatherEvent) map[string]int {
	counts := make(map[string]int)
	for i := range events {
		counts[events[i].EventType]++
	}
	return counts
}

// CountBySeverity tallies events per severity label, including UNK and Other.
func CountBySeverity(events []domain.WeatherEvent) map[domain.Severity]int {
	counts := make(map[domain.Severity]int)
	for i := range events {
		counts[events[i].Severity]++
	}
	return counts
}

// StateCount is one row of a per-state tally.
type StateCount struct {
	State string
	Count int
}

// TopStates tallies joined events per station state and returns the n
// largest, ordered by count descending then state ascending.
func TopStates(joined []JoinedEvent, n int) []StateCount {
	counts := make(map[string]int)
	for i := range joined {
		if s := joined[i].Station.State; s != "" {
			counts[s]++
		}
	}

	rows := make([]StateCount, 0, len(counts))
	for state, count := range counts {
		rows = append(rows, StateCount{State: state, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].State < rows[j].State
	})

	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// FilterBySeverity returns the events carrying the given severity label.
func FilterBySeverity(events []domain.WeatherEvent, severity domain.Severity) []domain.WeatherEvent {
	var out []domain.WeatherEvent
	for i := range events {
		if events[i].Severity == severity {
			out = append(out, events[i])
		}
	}
	return out
}

// FilterByType returns the events of the given canonical type.
func FilterByType(events []domain.WeatherEvent, eventType string) []domain.WeatherEvent {
	var out []domain.WeatherEvent
	for i := range events {
		if events[i].EventType == eventType {
			out = append(out, events[i])
		}
	}
	return out
}

// DurationsHours extracts event durations in fractional hours.
func DurationsHours(events []domain.WeatherEvent) []float64 {
	out := make([]float64, 0, len(events))
	for i := range events {
		out = append(out, events[i].Duration.Hours())
	}
	return out
}
