package domain

import "time"

// RawEventRecord mirrors one row of the source CSV file. All fields are kept
// as strings; parsing and recoding happen in CleanRecord.
type RawEventRecord struct {
	EventID     string `csv:"EventId"`
	Type        string `csv:"Type"`
	Severity    string `csv:"Severity"`
	StartTime   string `csv:"StartTime(UTC)"`
	EndTime     string `csv:"EndTime(UTC)"`
	TimeZone    string `csv:"TimeZone"`
	AirportCode string `csv:"AirportCode"`
	LocationLat string `csv:"LocationLat"`
	LocationLng string `csv:"LocationLng"`
	City        string `csv:"City"`
	County      string `csv:"County"`
	State       string `csv:"State"`
	ZipCode     string `csv:"ZipCode"`
}

// Severity is an ordered categorical label. The order is
// Light < Moderate < Heavy < Severe; UNK and Other carry no rank.
type Severity string

const (
	SeverityLight    Severity = "Light"
	SeverityModerate Severity = "Moderate"
	SeverityHeavy    Severity = "Heavy"
	SeveritySevere   Severity = "Severe"
	SeverityUnknown  Severity = "UNK"
	SeverityOther    Severity = "Other"
)

// severityRanks maps ranked severities to their position in the order.
var severityRanks = map[Severity]int{
	SeverityLight:    1,
	SeverityModerate: 2,
	SeverityHeavy:    3,
	SeveritySevere:   4,
}

// Rank returns the severity's position in the ordered scale, or 0 for
// unranked labels (UNK, Other, empty).
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Ranked reports whether the severity participates in ordered comparisons.
func (s Severity) Ranked() bool {
	_, ok := severityRanks[s]
	return ok
}

// RankedSeverities lists the ranked labels in ascending order.
func RankedSeverities() []Severity {
	return []Severity{SeverityLight, SeverityModerate, SeverityHeavy, SeveritySevere}
}

// Canonical event types accepted by cleaning.
const (
	TypeRain          = "Rain"
	TypeSnow          = "Snow"
	TypeFog           = "Fog"
	TypeCold          = "Cold"
	TypeStorm         = "Storm"
	TypeHail          = "Hail"
	TypePrecipitation = "Precipitation"
)

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat,omitempty"`
	Lng float64 `json:"lng,omitempty"`
}

// WeatherEvent is the cleaned representation of one event row.
type WeatherEvent struct {
	ID          string        `json:"id"`
	EventType   string        `json:"type"`
	Severity    Severity      `json:"severity,omitempty"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Duration    time.Duration `json:"duration"`
	TimeZone    string        `json:"time_zone,omitempty"`
	StationID   string        `json:"station_id"`
	ProcessedAt time.Time     `json:"processed_at"`
}

// Station holds the geographic attributes of a reporting station. One row of
// the source file contributes one Station; deduplication by ID happens in the
// dataset package.
type Station struct {
	ID      string `json:"id"`
	Geo     Geo    `json:"geo,omitempty"`
	City    string `json:"city,omitempty"`
	County  string `json:"county,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"` // "reverse", "original", "failed"
}
