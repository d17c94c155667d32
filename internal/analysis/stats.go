// Package analysis computes the summary statistics, the one hypothesis test,
// and the severity classifier the report is built from.
package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// stdNormal is the standard normal used for z-based tail probabilities.
var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// SummaryStats holds the sample moments of one variable.
type SummaryStats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Describe computes the sample mean and (corrected) standard deviation.
func Describe(xs []float64) SummaryStats {
	if len(xs) == 0 {
		return SummaryStats{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return SummaryStats{N: len(xs), Mean: mean, StdDev: std}
}

// ZTestResult holds a one-sample z-test against a fixed population mean.
type ZTestResult struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Mu0    float64 `json:"mu0"`
	StdDev float64 `json:"std_dev"`
	Z      float64 `json:"z"`
	// PValue is the upper-tail probability P(Z >= z) under H0.
	PValue float64 `json:"p_value"`
}

// ZTest runs a one-sample z-test of H0: mean(xs) == mu0 against the
// upper-tail alternative, using the sample standard deviation as the normal
// approximation's sigma. At least two observations with nonzero spread are
// required.
func ZTest(xs []float64, mu0 float64) (ZTestResult, error) {
	if len(xs) < 2 {
		return ZTestResult{}, errors.New("z-test needs at least two observations")
	}
	s := Describe(xs)
	if s.StdDev == 0 {
		return ZTestResult{}, errors.New("z-test needs nonzero sample spread")
	}

	z := (s.Mean - mu0) / (s.StdDev / math.Sqrt(float64(s.N)))
	return ZTestResult{
		N:      s.N,
		Mean:   s.Mean,
		Mu0:    mu0,
		StdDev: s.StdDev,
		Z:      z,
		PValue: stdNormal.Survival(z),
	}, nil
}

// TailProbability estimates P(X > threshold) under a normal approximation
// fitted to the sample mean and standard deviation.
func TailProbability(xs []float64, threshold float64) (float64, error) {
	if len(xs) < 2 {
		return 0, errors.New("tail probability needs at least two observations")
	}
	s := Describe(xs)
	if s.StdDev == 0 {
		return 0, errors.New("tail probability needs nonzero sample spread")
	}
	return distuv.Normal{Mu: s.Mean, Sigma: s.StdDev}.Survival(threshold), nil
}
