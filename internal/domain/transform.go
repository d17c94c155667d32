package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayout is the timestamp format used by StartTime(UTC) and EndTime(UTC).
const timeLayout = "2006-01-02 15:04:05"

// canonicalTypes maps lowercased source values to their canonical labels.
var canonicalTypes = map[string]string{
	"rain":          TypeRain,
	"snow":          TypeSnow,
	"fog":           TypeFog,
	"cold":          TypeCold,
	"storm":         TypeStorm,
	"hail":          TypeHail,
	"precipitation": TypePrecipitation,
}

// canonicalZones maps lowercased source values to the four US zone labels.
var canonicalZones = map[string]string{
	"us/eastern":  "US/Eastern",
	"us/central":  "US/Central",
	"us/mountain": "US/Mountain",
	"us/pacific":  "US/Pacific",
}

// CleanRecord parses and recodes one raw CSV row into its event and station
// halves. It validates the event type, recodes severity and time zone to
// canonical categorical values, parses the UTC timestamps, renames the
// LocationLat/LocationLng columns into the station's Geo pair, and normalizes
// the zip code. Rows with an unknown type, an unparseable timestamp, or an end
// time before the start time are rejected.
func CleanRecord(rec RawEventRecord) (WeatherEvent, Station, error) {
	eventType, err := normalizeEventType(rec.Type)
	if err != nil {
		return WeatherEvent{}, Station{}, err
	}

	start, err := parseTimestamp(rec.StartTime)
	if err != nil {
		return WeatherEvent{}, Station{}, fmt.Errorf("start time: %w", err)
	}
	end, err := parseTimestamp(rec.EndTime)
	if err != nil {
		return WeatherEvent{}, Station{}, fmt.Errorf("end time: %w", err)
	}
	if end.Before(start) {
		return WeatherEvent{}, Station{}, fmt.Errorf("end time %s before start time %s", rec.EndTime, rec.StartTime)
	}

	stationID := strings.ToUpper(strings.TrimSpace(rec.AirportCode))
	if stationID == "" {
		return WeatherEvent{}, Station{}, fmt.Errorf("missing airport code")
	}

	event := WeatherEvent{
		ID:          normalizeID(rec.EventID, eventType, stationID, start),
		EventType:   eventType,
		Severity:    normalizeSeverity(rec.Severity),
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
		TimeZone:    normalizeTimeZone(rec.TimeZone),
		StationID:   stationID,
		ProcessedAt: clock.Now(),
	}

	station := Station{
		ID: stationID,
		Geo: Geo{
			Lat: parseFloatOrZero(rec.LocationLat),
			Lng: parseFloatOrZero(rec.LocationLng),
		},
		City:    strings.TrimSpace(rec.City),
		County:  strings.TrimSpace(rec.County),
		State:   strings.ToUpper(strings.TrimSpace(rec.State)),
		ZipCode: normalizeZip(rec.ZipCode),
	}

	return event, station, nil
}

// normalizeEventType recodes the type column to its canonical label.
func normalizeEventType(value string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	if t, ok := canonicalTypes[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown event type %q", value)
}

// normalizeSeverity recodes the severity column. Unrecognized values fall
// back to UNK rather than failing the row: severity is a label, not a key.
func normalizeSeverity(value string) Severity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "light":
		return SeverityLight
	case "moderate":
		return SeverityModerate
	case "heavy":
		return SeverityHeavy
	case "severe":
		return SeveritySevere
	case "other":
		return SeverityOther
	default:
		return SeverityUnknown
	}
}

// normalizeTimeZone recodes the time zone column to one of the four US zone
// labels, returning "" for anything else.
func normalizeTimeZone(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	return canonicalZones[key]
}

func parseTimestamp(value string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", value, err)
	}
	return t, nil
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// normalizeZip cleans a zip code. Some exports render zips as floats
// ("36303.0"); the decimal suffix is stripped and short zips are left-padded
// to five digits. Non-numeric values become "".
func normalizeZip(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	if value == "" {
		return ""
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return ""
		}
	}
	if len(value) > 5 {
		return ""
	}
	return strings.Repeat("0", 5-len(value)) + value
}

// normalizeID keeps the source identifier when present and otherwise derives
// a deterministic one, so re-cleaning the same file yields the same IDs.
func normalizeID(sourceID, eventType, stationID string, start time.Time) string {
	sourceID = strings.TrimSpace(sourceID)
	if sourceID != "" {
		return sourceID
	}
	input := fmt.Sprintf("%s|%s|%s", eventType, stationID, start.UTC().Format(time.RFC3339))
	hash := sha256.Sum256([]byte(input))
	return strings.ToLower(eventType) + "-" + hex.EncodeToString(hash[:8])
}
