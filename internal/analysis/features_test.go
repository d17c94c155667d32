package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-events-insights/internal/dataset"
	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

func TestSeveritySamples(t *testing.T) {
	joined := []dataset.JoinedEvent{
		{
			WeatherEvent: domain.WeatherEvent{
				EventType: domain.TypeRain,
				Severity:  domain.SeverityHeavy,
				StartTime: time.Date(2023, 7, 4, 12, 0, 0, 0, time.UTC),
				TimeZone:  "US/Central",
			},
			Station: domain.Station{ID: "KDFW", State: "TX"},
		},
		{
			WeatherEvent: domain.WeatherEvent{
				EventType: domain.TypeFog,
				Severity:  domain.SeverityUnknown, // unranked, excluded
				StartTime: time.Date(2023, 1, 10, 6, 0, 0, 0, time.UTC),
				TimeZone:  "US/Eastern",
			},
			Station: domain.Station{ID: "KATL", State: "GA"},
		},
	}

	samples := SeveritySamples(joined)
	require.Len(t, samples, 1)

	require.Len(t, samples[0].Features, len(FeatureNames))
	assert.Equal(t, []string{"Rain", "US/Central", "TX", "7"}, samples[0].Features)
	assert.Equal(t, "Heavy", samples[0].Label)
}
