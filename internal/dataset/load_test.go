package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Fixture(t *testing.T) {
	records, err := LoadFile("testdata/events_sample.csv")
	require.NoError(t, err)
	require.Len(t, records, 12)

	first := records[0]
	assert.Equal(t, "W-1", first.EventID)
	assert.Equal(t, "Rain", first.Type)
	assert.Equal(t, "Light", first.Severity)
	assert.Equal(t, "2023-01-04 06:15:00", first.StartTime)
	assert.Equal(t, "US/Eastern", first.TimeZone)
	assert.Equal(t, "KATL", first.AirportCode)
	assert.Equal(t, "33.6407", first.LocationLat)
	assert.Equal(t, "GA", first.State)
}

func TestLoad_IgnoresExtraColumns(t *testing.T) {
	csv := "EventId,Type,Severity,StartTime(UTC),EndTime(UTC),Precipitation(in),TimeZone,AirportCode,LocationLat,LocationLng,City,County,State,ZipCode\n" +
		"W-1,Rain,Light,2023-01-04 06:15:00,2023-01-04 07:45:00,0.25,US/Eastern,KATL,33.6407,-84.4277,Atlanta,Fulton,GA,30320\n"

	records, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "W-1", records[0].EventID)
	assert.Equal(t, "KATL", records[0].AirportCode)
}

func TestLoad_HeaderOnly(t *testing.T) {
	csv := "EventId,Type,Severity,StartTime(UTC),EndTime(UTC),TimeZone,AirportCode,LocationLat,LocationLng,City,County,State,ZipCode\n"

	_, err := Load(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile("testdata/does_not_exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}

func TestFileSource_Extract(t *testing.T) {
	src := FileSource{Path: "testdata/events_sample.csv"}

	records, err := src.Extract(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 12)
}

func TestFileSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FileSource{Path: "testdata/events_sample.csv"}.Extract(ctx)
	require.Error(t, err)
}
