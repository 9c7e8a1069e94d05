package decompose

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// buildDataset creates a 12-period dataset with the given activity
// levels and a single cost account following cost = fixed + rate×activity.
func buildDataset(code string, fixed, rate float64, activities []float64) (*domain.Account, *domain.Dataset) {
	acct := &domain.Account{
		Code:          code,
		Name:          "energia electrica",
		MonthlyValues: map[string]decimal.Decimal{},
	}
	dataset := &domain.Dataset{
		PeriodRevenue: map[string]decimal.Decimal{},
	}
	annual := decimal.Zero
	for i, activity := range activities {
		period := fmt.Sprintf("2024-%02d", i+1)
		rev := decimal.NewFromFloat(activity)
		dataset.PeriodRevenue[period] = rev
		annual = annual.Add(rev)
		acct.MonthlyValues[period] = decimal.NewFromFloat(fixed + rate*activity)
	}
	dataset.AnnualRevenue = annual
	dataset.Accounts = []domain.Account{*acct}
	return acct, dataset
}

func variedActivities() []float64 {
	return []float64{
		8000, 9500, 11000, 10200, 12500, 9800,
		13000, 11500, 10800, 12000, 9000, 14000,
	}
}

func TestDecompose_RegressionRecoversKnownSplit(t *testing.T) {
	acct, dataset := buildDataset("5.3.1", 1000, 0.05, variedActivities())

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	assert.Equal(t, domain.MethodRegression, bd.Method)
	assert.True(t, bd.GoodnessOfFit.GreaterThanOrEqual(decimal.NewFromFloat(0.99)),
		"Noise-free series should fit almost perfectly, got %s", bd.GoodnessOfFit)

	// The fixed component is stored annual-equivalent: 1000 × 12.
	expectedFixed := decimal.NewFromInt(12000)
	diff := bd.FixedComponent.Sub(expectedFixed).Abs().Div(expectedFixed)
	assert.True(t, diff.LessThan(decimal.NewFromFloat(0.01)),
		"Fixed component should be within 1%%, got %s", bd.FixedComponent)

	expectedRate := decimal.NewFromFloat(0.05)
	rateDiff := bd.VariableRate.Sub(expectedRate).Abs().Div(expectedRate)
	assert.True(t, rateDiff.LessThan(decimal.NewFromFloat(0.01)),
		"Variable rate should be within 1%%, got %s", bd.VariableRate)

	assert.Equal(t, domain.ConfidenceHigh, bd.Confidence)
}

func TestDecompose_TooFewPointsFallsBack(t *testing.T) {
	acct, dataset := buildDataset("5.1.4", 500, 0.02, []float64{10000, 11000})

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	assert.Equal(t, domain.MethodFallback, bd.Method)
	assert.Equal(t, domain.ConfidenceLow, bd.Confidence)
	// The 5.1 branch defaults to 90% variable.
	annual := acct.AnnualValue().Abs()
	expectedFixed := annual.Mul(decimal.NewFromFloat(0.10))
	assert.True(t, bd.FixedComponent.Sub(expectedFixed).Abs().LessThan(decimal.NewFromFloat(0.01)),
		"5.1 branch fallback should be 10%% fixed, got %s of %s", bd.FixedComponent, annual)
	assert.Equal(t, domain.RoleVariableCost, bd.RecommendedRole)
}

func TestDecompose_FixedBranchFallback(t *testing.T) {
	acct, dataset := buildDataset("5.2.9", 800, 0, []float64{10000})

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	assert.Equal(t, domain.MethodFallback, bd.Method)
	assert.Equal(t, domain.RoleFixedCost, bd.RecommendedRole, "90%% fixed exceeds the 80%% recommendation cutoff")
}

func TestDecompose_UncorrelatedSeriesIsFullyFixed(t *testing.T) {
	// Constant cost regardless of activity: regression is rejected
	// (slope below range) and correlation treats it as fully fixed.
	acct, dataset := buildDataset("5.3.2", 2000, 0, variedActivities())

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	require.NotEqual(t, domain.MethodRegression, bd.Method)
	assert.True(t, bd.VariableRate.IsZero(), "Uncorrelated cost should carry no variable rate")
	assert.Equal(t, domain.RoleFixedCost, bd.RecommendedRole)
}

func TestDecompose_RecommendationStaysMixed(t *testing.T) {
	// 50/50 split: neither component crosses the 80% cutoff.
	acct, dataset := buildDataset("5.3.3", 550, 0.05, variedActivities())

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	assert.Equal(t, domain.RoleMixed, bd.RecommendedRole)
}

func TestDecompose_SkipsZeroActivityPeriods(t *testing.T) {
	acct, dataset := buildDataset("5.3.4", 1000, 0.05, variedActivities())
	dataset.PeriodRevenue["2024-13"] = decimal.Zero
	acct.MonthlyValues["2024-13"] = decimal.NewFromInt(999999)

	d := NewDecomposer(DefaultConfig())
	bd := d.Decompose(acct, dataset)

	assert.Equal(t, domain.MethodRegression, bd.Method,
		"A zero-activity outlier period must not poison the regression")
}
