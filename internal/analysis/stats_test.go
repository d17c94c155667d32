package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Run("known sample", func(t *testing.T) {
		s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		assert.Equal(t, 8, s.N)
		assert.InDelta(t, 5.0, s.Mean, 1e-9)
		assert.InDelta(t, 2.13809, s.StdDev, 1e-4) // corrected sample sd
	})

	t.Run("single observation has zero spread", func(t *testing.T) {
		s := Describe([]float64{3.5})
		assert.Equal(t, 1, s.N)
		assert.InDelta(t, 3.5, s.Mean, 1e-9)
		assert.Zero(t, s.StdDev)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, SummaryStats{}, Describe(nil))
	})
}

func TestZTest(t *testing.T) {
	t.Run("known sample", func(t *testing.T) {
		// xs has mean 3, sd sqrt(2.5); against mu0=2.5,
		// z = 0.5 / (sqrt(2.5)/sqrt(5)) = sqrt(0.5).
		res, err := ZTest([]float64{1, 2, 3, 4, 5}, 2.5)
		require.NoError(t, err)

		assert.Equal(t, 5, res.N)
		assert.InDelta(t, 3.0, res.Mean, 1e-9)
		assert.InDelta(t, 0.70711, res.Z, 1e-4)
		assert.InDelta(t, 0.23975, res.PValue, 1e-4)
	})

	t.Run("mean equal to mu0 gives p of one half", func(t *testing.T) {
		res, err := ZTest([]float64{1, 2, 3}, 2)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, res.Z, 1e-9)
		assert.InDelta(t, 0.5, res.PValue, 1e-9)
	})

	t.Run("too few observations", func(t *testing.T) {
		_, err := ZTest([]float64{1}, 0)
		require.Error(t, err)
	})

	t.Run("zero spread", func(t *testing.T) {
		_, err := ZTest([]float64{2, 2, 2}, 1)
		require.Error(t, err)
	})
}

func TestTailProbability(t *testing.T) {
	t.Run("threshold at the mean", func(t *testing.T) {
		p, err := TailProbability([]float64{1, 2, 3, 4, 5}, 3)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, p, 1e-9)
	})

	t.Run("one sd above the mean", func(t *testing.T) {
		// Sample mean 3, sd sqrt(2.5); threshold mean+sd ≈ upper ~15.87%.
		p, err := TailProbability([]float64{1, 2, 3, 4, 5}, 3+1.5811388300841898)
		require.NoError(t, err)
		assert.InDelta(t, 0.15866, p, 1e-4)
	})

	t.Run("too few observations", func(t *testing.T) {
		_, err := TailProbability([]float64{1}, 0)
		require.Error(t, err)
	})

	t.Run("zero spread", func(t *testing.T) {
		_, err := TailProbability([]float64{4, 4}, 3)
		require.Error(t, err)
	})
}
