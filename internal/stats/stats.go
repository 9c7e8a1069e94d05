// Package stats holds the small statistical kernel shared by the
// classifier, decomposer, simulator and summarizer. Everything runs in
// float64; money values convert at the boundary and convert back once
// a result is final.
package stats

import (
	"math"
	"sort"
)

// Mean of a sample, zero for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev is the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

// CoefficientOfVariation is StdDev/|Mean|, zero when the mean is zero.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / math.Abs(mean)
}

// Pearson computes the linear correlation between two equal-length
// samples. Zero when either sample is degenerate.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}
	meanX := Mean(xs)
	meanY := Mean(ys)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// Linear is an ordinary least squares fit y = Intercept + Slope*x.
type Linear struct {
	Slope     float64
	Intercept float64
	R2        float64
}

// FitLinear runs OLS of ys on xs. The fit is unusable (ok=false) when
// fewer than two points exist or all xs coincide.
func FitLinear(xs, ys []float64) (Linear, bool) {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return Linear{}, false
	}
	meanX := Mean(xs)
	meanY := Mean(ys)
	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}
	if sxx == 0 {
		return Linear{}, false
	}
	slope := sxy / sxx
	intercept := meanY - slope*meanX

	// R² = 1 - SSres/SStot; a constant series fits trivially.
	var ssRes, ssTot float64
	for i := 0; i < n; i++ {
		pred := intercept + slope*xs[i]
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	if r2 < 0 {
		r2 = 0
	}
	return Linear{Slope: slope, Intercept: intercept, R2: r2}, true
}

// Median of a sample. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Percentile returns the value at the given fraction of a sorted
// sample using direct index lookup, no interpolation.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// Min returns the smallest element, zero for an empty slice.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest element, zero for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
