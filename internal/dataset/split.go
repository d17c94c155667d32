package dataset

import (
	"fmt"
	"sort"

	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

// SplitResult holds the deduplicated station table plus bookkeeping about
// the rows that were folded into it.
type SplitResult struct {
	Stations []domain.Station

	// Duplicates counts rows beyond the first per station key.
	Duplicates int
	// Conflicts counts duplicate rows whose geography disagreed with the
	// first occurrence of their key. First occurrence wins.
	Conflicts int
}

// SplitStations reduces per-row station data to one row per station key,
// keeping the first occurrence of each key. The result is sorted by ID so
// output is deterministic regardless of input order.
func SplitStations(rows []domain.Station) SplitResult {
	byID := make(map[string]domain.Station, len(rows))
	var res SplitResult

	for _, row := range rows {
		first, seen := byID[row.ID]
		if !seen {
			byID[row.ID] = row
			continue
		}
		res.Duplicates++
		if !sameStation(first, row) {
			res.Conflicts++
		}
	}

	res.Stations = make([]domain.Station, 0, len(byID))
	for _, st := range byID {
		res.Stations = append(res.Stations, st)
	}
	sort.Slice(res.Stations, func(i, j int) bool { return res.Stations[i].ID < res.Stations[j].ID })
	return res
}

// VerifyUniqueStations checks the station-table invariant by comparing
// cardinalities: the number of rows must equal the number of distinct keys.
func VerifyUniqueStations(stations []domain.Station) error {
	distinct := make(map[string]struct{}, len(stations))
	for _, st := range stations {
		distinct[st.ID] = struct{}{}
	}
	if len(distinct) != len(stations) {
		return fmt.Errorf("station table not unique: %d rows, %d distinct keys", len(stations), len(distinct))
	}
	return nil
}

func sameStation(a, b domain.Station) bool {
	return a.Geo == b.Geo &&
		a.City == b.City &&
		a.County == b.County &&
		a.State == b.State &&
		a.ZipCode == b.ZipCode
}

// JoinedEvent is an event with its station attributes attached.
type JoinedEvent struct {
	domain.WeatherEvent
	Station domain.Station
}

// Join attaches station attributes onto events by station key. Events
// referencing a key absent from the station table are dropped; the count of
// dropped events is returned alongside the joined rows.
func Join(events []domain.WeatherEvent, stations []domain.Station) ([]JoinedEvent, int) {
	byID := make(map[string]domain.Station, len(stations))
	for _, st := range stations {
		byID[st.ID] = st
	}

	joined := make([]JoinedEvent, 0, len(events))
	dropped := 0
	for _, ev := range events {
		st, ok := byID[ev.StationID]
		if !ok {
			dropped++
			continue
		}
		joined = append(joined, JoinedEvent{WeatherEvent: ev, Station: st})
	}
	return joined, dropped
}
