package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 3.0, Mean([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.InDelta(t, 0.0, StdDev([]float64{7, 7, 7}), 1e-12)
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))
	assert.InDelta(t, 0.0, CoefficientOfVariation([]float64{5, 5, 5}), 1e-12)

	cv := CoefficientOfVariation([]float64{100, 200, 300})
	assert.Greater(t, cv, 0.3)
}

func TestPearson(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	perfect := []float64{10, 20, 30, 40, 50}
	inverse := []float64{50, 40, 30, 20, 10}
	flat := []float64{7, 7, 7, 7, 7}

	assert.InDelta(t, 1.0, Pearson(xs, perfect), 1e-12)
	assert.InDelta(t, -1.0, Pearson(xs, inverse), 1e-12)
	assert.Equal(t, 0.0, Pearson(xs, flat), "Degenerate series should correlate at zero")
	assert.Equal(t, 0.0, Pearson(xs, []float64{1, 2}), "Mismatched lengths should correlate at zero")
}

func TestFitLinear_RecoversLine(t *testing.T) {
	xs := []float64{100, 200, 300, 400, 500, 600}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 50 + 0.25*x
	}

	fit, ok := FitLinear(xs, ys)
	require.True(t, ok)
	assert.InDelta(t, 0.25, fit.Slope, 1e-9)
	assert.InDelta(t, 50.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 1.0, fit.R2, 1e-9)
}

func TestFitLinear_Degenerate(t *testing.T) {
	_, ok := FitLinear([]float64{5, 5, 5}, []float64{1, 2, 3})
	assert.False(t, ok, "Constant x should not fit")

	_, ok = FitLinear([]float64{1}, []float64{2})
	assert.False(t, ok, "Single point should not fit")
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.InDelta(t, 3.0, Median([]float64{5, 1, 3}), 1e-12)
	assert.InDelta(t, 2.5, Median([]float64{4, 1, 2, 3}), 1e-12)

	// Input must not be reordered.
	values := []float64{9, 1, 5}
	Median(values)
	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestPercentile_NoInterpolation(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	assert.Equal(t, 20.0, Percentile(sorted, 0.10))
	assert.Equal(t, 100.0, Percentile(sorted, 0.90))
	assert.Equal(t, 10.0, Percentile(sorted, 0))
	assert.Equal(t, 100.0, Percentile(sorted, 1))
	assert.Equal(t, 0.0, Percentile(nil, 0.5))
}

func TestMinMax(t *testing.T) {
	values := []float64{3, -1, 7, 2}
	assert.Equal(t, -1.0, Min(values))
	assert.Equal(t, 7.0, Max(values))
	assert.Equal(t, 0.0, Min(nil))
	assert.Equal(t, 0.0, Max(nil))
}
