package domain

import (
	"context"
	"log/slog"
)

// EnrichStationWithGeocoding fills in missing place details on a station by
// reverse geocoding its coordinates. If geocoder is nil, the station already
// has both city and zip, or coordinates are missing, the station is returned
// unchanged. Failures degrade gracefully: GeoSource records the outcome and
// the original attributes are kept.
func EnrichStationWithGeocoding(ctx context.Context, station Station, geocoder Geocoder, logger *slog.Logger) Station {
	if geocoder == nil {
		return station
	}

	hasCoords := station.Geo.Lat != 0 || station.Geo.Lng != 0
	complete := station.City != "" && station.ZipCode != ""
	if !hasCoords || complete {
		return station
	}

	result, err := geocoder.ReverseGeocode(ctx, station.Geo.Lat, station.Geo.Lng)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"station_id", station.ID,
			"lat", station.Geo.Lat,
			"lng", station.Geo.Lng,
			"error", err,
		)
		station.GeoSource = "failed"
		return station
	}

	if result.FormattedAddress == "" {
		station.GeoSource = "original"
		return station
	}

	station.FormattedAddress = result.FormattedAddress
	station.GeoConfidence = result.Confidence
	station.GeoSource = "reverse"
	if station.City == "" && result.PlaceName != "" {
		station.City = result.PlaceName
	}
	if station.ZipCode == "" && result.ZipCode != "" {
		station.ZipCode = result.ZipCode
	}
	return station
}
