package mapbox

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-events-insights/internal/domain"
)

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (g *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	g.calls++
	return g.result, g.err
}

func TestCachedGeocoder(t *testing.T) {
	t.Run("repeat lookups hit the cache", func(t *testing.T) {
		inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "Atlanta"}}
		cached := NewCachedGeocoder(inner, 10)

		for i := 0; i < 5; i++ {
			result, err := cached.ReverseGeocode(context.Background(), 33.6407, -84.4277)
			require.NoError(t, err)
			assert.Equal(t, "Atlanta", result.FormattedAddress)
		}
		assert.Equal(t, 1, inner.calls)
	})

	t.Run("distinct coordinates miss", func(t *testing.T) {
		inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "somewhere"}}
		cached := NewCachedGeocoder(inner, 10)

		_, err := cached.ReverseGeocode(context.Background(), 33.6407, -84.4277)
		require.NoError(t, err)
		_, err = cached.ReverseGeocode(context.Background(), 41.9786, -87.9048)
		require.NoError(t, err)

		assert.Equal(t, 2, inner.calls)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		inner := &countingGeocoder{err: errors.New("rate limited")}
		cached := NewCachedGeocoder(inner, 10)

		_, err := cached.ReverseGeocode(context.Background(), 1, 1)
		require.Error(t, err)
		_, err = cached.ReverseGeocode(context.Background(), 1, 1)
		require.Error(t, err)

		assert.Equal(t, 2, inner.calls)
	})

	t.Run("empty results are not cached", func(t *testing.T) {
		inner := &countingGeocoder{}
		cached := NewCachedGeocoder(inner, 10)

		_, err := cached.ReverseGeocode(context.Background(), 1, 1)
		require.NoError(t, err)
		_, err = cached.ReverseGeocode(context.Background(), 1, 1)
		require.NoError(t, err)

		assert.Equal(t, 2, inner.calls)
	})
}

func TestLRUCache(t *testing.T) {
	t.Run("evicts least recently used", func(t *testing.T) {
		c := newLRUCache(2)
		c.put("a", domain.GeocodingResult{FormattedAddress: "A"})
		c.put("b", domain.GeocodingResult{FormattedAddress: "B"})

		// Touch "a" so "b" becomes the eviction candidate.
		_, ok := c.get("a")
		require.True(t, ok)

		c.put("c", domain.GeocodingResult{FormattedAddress: "C"})

		_, ok = c.get("b")
		assert.False(t, ok, "b was least recently used")
		_, ok = c.get("a")
		assert.True(t, ok)
		_, ok = c.get("c")
		assert.True(t, ok)
	})

	t.Run("put updates existing entry", func(t *testing.T) {
		c := newLRUCache(2)
		c.put("a", domain.GeocodingResult{FormattedAddress: "old"})
		c.put("a", domain.GeocodingResult{FormattedAddress: "new"})

		got, ok := c.get("a")
		require.True(t, ok)
		assert.Equal(t, "new", got.FormattedAddress)
	})

	t.Run("unbounded when max is zero", func(t *testing.T) {
		c := newLRUCache(0)
		for i := 0; i < 50; i++ {
			c.put(fmt.Sprintf("k%d", i), domain.GeocodingResult{FormattedAddress: "x"})
		}
		_, ok := c.get("k0")
		assert.True(t, ok)
	})
}
