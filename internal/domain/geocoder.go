package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lng              float64
	FormattedAddress string
	PlaceName        string
	ZipCode          string
	Confidence       float64 // 0.0–1.0 provider confidence score
}

// Geocoder enriches stations with geolocation data.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place details.
	ReverseGeocode(ctx context.Context, lat, lng float64) (GeocodingResult, error)
}
