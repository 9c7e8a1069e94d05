package summary

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avillarreal/equilibrio/internal/calculation"
	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
)

// seriesInput builds a twelve-month dataset from per-month revenue,
// variable and fixed amounts. A single value is repeated; twelve values
// map one per month.
func seriesInput(t *testing.T, revenue, variable, fixed []int64) calculation.Input {
	t.Helper()
	pick := func(values []int64, i int) decimal.Decimal {
		if len(values) == 1 {
			return decimal.NewFromInt(values[0])
		}
		require.Len(t, values, 12)
		return decimal.NewFromInt(values[i])
	}

	accounts := []domain.Account{
		{Code: "4.1", Name: "Ventas", MonthlyValues: map[string]decimal.Decimal{}},
		{Code: "5.1.1", Name: "Materia prima", MonthlyValues: map[string]decimal.Decimal{}},
		{Code: "5.2.1", Name: "Alquiler local", MonthlyValues: map[string]decimal.Decimal{}},
	}
	dataset := &domain.Dataset{PeriodRevenue: map[string]decimal.Decimal{}}
	for i := 0; i < 12; i++ {
		period := fmt.Sprintf("2024-%02d", i+1)
		rev := pick(revenue, i)
		accounts[0].MonthlyValues[period] = rev
		accounts[1].MonthlyValues[period] = pick(variable, i)
		accounts[2].MonthlyValues[period] = pick(fixed, i)
		dataset.PeriodRevenue[period] = rev
		dataset.AnnualRevenue = dataset.AnnualRevenue.Add(rev)
	}
	dataset.Accounts = accounts

	return calculation.Input{
		Dataset: dataset,
		Tree:    hierarchy.Resolve(accounts),
		Roles: map[string]domain.Role{
			"4.1":   domain.RoleRevenue,
			"5.1.1": domain.RoleVariableCost,
			"5.2.1": domain.RoleFixedCost,
		},
	}
}

func alternating(low, high int64) []int64 {
	values := make([]int64, 12)
	for i := range values {
		if i%2 == 0 {
			values[i] = low
		} else {
			values[i] = high
		}
	}
	return values
}

func TestSummarize_StableBusiness(t *testing.T) {
	in := seriesInput(t, []int64{10000}, []int64{6000}, []int64{3000})
	s := NewSummarizer(calculation.NewEngine(nil, nil), nil)

	report, err := s.Summarize(in)
	require.NoError(t, err)

	assert.Len(t, report.Periods, 12)
	assert.Equal(t, domain.ConfidenceHigh, report.Confidence)
	assert.True(t, report.ConfidenceScore.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, StrategyOptimizeGrowth, report.Strategy)

	// With zero dispersion both ideal estimates coincide at 7500.
	assert.InDelta(t, 7500, report.IdealBreakEven.InexactFloat64(), 1e-9)

	be := report.PerPerspective[report.MostStable][MetricBreakEvenRevenue]
	assert.InDelta(t, 7500, be.Mean.InexactFloat64(), 1e-9)
	assert.True(t, be.StdDev.IsZero())
	assert.Equal(t, 12, be.Count)
}

func TestSummarize_RevenueBelowIdealIsStructural(t *testing.T) {
	// Break-even at 7500 with only 5000 of revenue per month.
	in := seriesInput(t, []int64{5000}, []int64{3000}, []int64{3000})
	s := NewSummarizer(calculation.NewEngine(nil, nil), nil)

	report, err := s.Summarize(in)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfidenceHigh, report.Confidence)
	assert.InDelta(t, 7500, report.IdealBreakEven.InexactFloat64(), 1e-9)
	assert.Equal(t, StrategyStructuralAlert, report.Strategy)
}

func TestSummarize_VolatileRevenue(t *testing.T) {
	// Revenue swings between 4000 and 16000 (CV 0.6); costs track the
	// 60% variable rate so the margin ratio stays flat.
	revenue := alternating(4000, 16000)
	variable := alternating(2400, 9600)
	in := seriesInput(t, revenue, variable, []int64{1000})
	s := NewSummarizer(calculation.NewEngine(nil, nil), nil)

	report, err := s.Summarize(in)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfidenceLow, report.Confidence)
	assert.InDelta(t, 0.4, report.ConfidenceScore.InexactFloat64(), 1e-9)
	assert.Equal(t, StrategyStabilizeRevenue, report.Strategy)
}

func TestSummarize_UnstableFixedCosts(t *testing.T) {
	// Stable revenue, fixed costs swinging 1200/2800 (CV 0.4).
	in := seriesInput(t, []int64{10000}, []int64{6000}, alternating(1200, 2800))
	s := NewSummarizer(calculation.NewEngine(nil, nil), nil)

	report, err := s.Summarize(in)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfidenceHigh, report.Confidence)
	assert.Equal(t, StrategyControlCosts, report.Strategy)
	// Median fixed 2000 over the flat 0.4 ratio.
	assert.InDelta(t, 5000, report.IdealBreakEven.InexactFloat64(), 1e-9)
}

func TestSummarize_MostStableRanksByBreakEvenDispersion(t *testing.T) {
	in := seriesInput(t, []int64{10000}, []int64{6000}, []int64{3000})
	// A depreciation account that swings makes the accounting and
	// operating break-even series noisier than the cash one.
	dep := domain.Account{Code: "5.2.2", Name: "Depreciación maquinaria", MonthlyValues: map[string]decimal.Decimal{}}
	for i := 0; i < 12; i++ {
		amount := int64(200)
		if i%2 == 0 {
			amount = 1800
		}
		dep.MonthlyValues[fmt.Sprintf("2024-%02d", i+1)] = decimal.NewFromInt(amount)
	}
	in.Dataset.Accounts = append(in.Dataset.Accounts, dep)
	in.Tree = hierarchy.Resolve(in.Dataset.Accounts)
	in.Roles["5.2.2"] = domain.RoleFixedCost

	s := NewSummarizer(calculation.NewEngine(nil, nil), nil)
	report, err := s.Summarize(in)
	require.NoError(t, err)

	assert.Equal(t, domain.PerspectiveCash, report.MostStable)
}
