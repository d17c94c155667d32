// Package domain models US weather event records and their reporting stations.
//
// # Data Source
//
// Records come from a flat CSV export of airport-station weather events
// (rain, snow, fog, storms, and similar), one row per event. Each row carries
// both the event itself and the geographic attributes of the station that
// reported it, so a single file flattens what is logically two tables.
//
// # Column Conventions
//
// Timestamps:
//
//	StartTime(UTC) and EndTime(UTC) use "2006-01-02 15:04:05" in UTC.
//	Rows whose end precedes their start, or whose timestamps do not parse,
//	are rejected during cleaning.
//
// Severity (ordered categorical):
//
//	Light < Moderate < Heavy < Severe.
//	"UNK" and "Other" appear in the source data but carry no rank; they are
//	kept as labels and excluded from ordered comparisons.
//
// Event types:
//
//	Rain, Snow, Fog, Cold, Storm, Hail, Precipitation. Matching is
//	case-insensitive; anything else is rejected during cleaning.
//
// Time zones:
//
//	One of the four US/* zone labels (Eastern, Central, Mountain, Pacific).
//	Matching is case-insensitive on the region part.
//
// Zip codes:
//
//	Some exports render zip codes as floats ("36303.0"). Cleaning strips the
//	decimal suffix and left-pads to five digits; non-numeric values become "".
//
// # ID Generation
//
// Rows normally carry a source identifier (e.g. "W-3821"). When it is missing,
// a deterministic SHA-256 hash of type|station|start is substituted so that
// re-cleaning the same file yields the same IDs.
package domain
