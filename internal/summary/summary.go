// Package summary runs the break-even calculator across every
// historical period and condenses the series into robust statistics, a
// stability-ranked perspective choice, an ideal break-even target and
// a recommended strategy.
package summary

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avillarreal/equilibrio/internal/calculation"
	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/stats"
)

// Metric names summarized per perspective.
const (
	MetricRevenue          = "revenue"
	MetricVariableCosts    = "variableCosts"
	MetricFixedCosts       = "fixedCosts"
	MetricBreakEvenRevenue = "breakEvenRevenue"
	MetricNetIncome        = "netIncome"
	MetricMarginRatio      = "contributionMarginRatio"
)

var trackedMetrics = []string{
	MetricRevenue, MetricVariableCosts, MetricFixedCosts,
	MetricBreakEvenRevenue, MetricNetIncome, MetricMarginRatio,
}

// Strategy is the threshold-driven recommendation attached to a
// summary.
type Strategy string

const (
	StrategyStructuralAlert  Strategy = "structural_alert"
	StrategyStabilizeRevenue Strategy = "stabilize_revenue"
	StrategyControlCosts     Strategy = "control_costs"
	StrategyOptimizeGrowth   Strategy = "optimize_growth"
)

// Report is the cross-period statistical summary.
type Report struct {
	Periods         []string                                                    `json:"periods"`
	PerPerspective  map[domain.Perspective]map[string]domain.StatisticalSummary `json:"perPerspective"`
	MostStable      domain.Perspective                                          `json:"mostStable"`
	Confidence      domain.ConfidenceLevel                                      `json:"confidence"`
	ConfidenceScore decimal.Decimal                                             `json:"confidenceScore"`
	IdealBreakEven  decimal.Decimal                                             `json:"idealBreakEven"`
	Strategy        Strategy                                                    `json:"strategy"`
	Recommendation  string                                                      `json:"recommendation"`
}

// Summarizer drives the calculation engine once per period.
type Summarizer struct {
	engine *calculation.Engine
	logger *zap.Logger
}

// NewSummarizer creates a summarizer over the given engine.
func NewSummarizer(engine *calculation.Engine, logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{engine: engine, logger: logger}
}

// Summarize runs the calculator for every specific historical period
// (aggregate pseudo-periods excluded) and derives the report. With no
// usable periods the report degrades to zero values rather than
// failing.
func (s *Summarizer) Summarize(in calculation.Input) (*Report, error) {
	periods := in.Dataset.Periods()
	series := make(map[domain.Perspective]map[string][]float64, len(domain.AllPerspectives))
	for _, p := range domain.AllPerspectives {
		series[p] = make(map[string][]float64, len(trackedMetrics))
	}

	for _, period := range periods {
		set, err := s.engine.Calculate(in, domain.Month(period))
		if err != nil {
			return nil, fmt.Errorf("summarize period %s: %w", period, err)
		}
		for _, p := range domain.AllPerspectives {
			r := set.Results[p]
			series[p][MetricRevenue] = append(series[p][MetricRevenue], r.Revenue.InexactFloat64())
			series[p][MetricVariableCosts] = append(series[p][MetricVariableCosts], r.VariableCosts.InexactFloat64())
			series[p][MetricFixedCosts] = append(series[p][MetricFixedCosts], r.FixedCosts.InexactFloat64())
			series[p][MetricBreakEvenRevenue] = append(series[p][MetricBreakEvenRevenue], r.BreakEvenRevenue.InexactFloat64())
			series[p][MetricNetIncome] = append(series[p][MetricNetIncome], r.NetIncome.InexactFloat64())
			series[p][MetricMarginRatio] = append(series[p][MetricMarginRatio], r.ContributionMarginRatio.InexactFloat64())
		}
	}

	report := &Report{
		Periods:        periods,
		PerPerspective: make(map[domain.Perspective]map[string]domain.StatisticalSummary, len(domain.AllPerspectives)),
	}
	for _, p := range domain.AllPerspectives {
		report.PerPerspective[p] = make(map[string]domain.StatisticalSummary, len(trackedMetrics))
		for _, m := range trackedMetrics {
			report.PerPerspective[p][m] = summarizeSeries(series[p][m])
		}
	}

	report.MostStable = mostStablePerspective(series)
	stable := series[report.MostStable]

	revenueCV := stats.CoefficientOfVariation(stable[MetricRevenue])
	score := 1 - revenueCV
	if score < 0 {
		score = 0
	}
	report.ConfidenceScore = decimal.NewFromFloat(score)
	switch {
	case score > 0.8:
		report.Confidence = domain.ConfidenceHigh
	case score > 0.5:
		report.Confidence = domain.ConfidenceMedium
	default:
		report.Confidence = domain.ConfidenceLow
	}

	report.IdealBreakEven = idealBreakEven(stable, report.Confidence)
	report.Strategy, report.Recommendation = recommend(stable, revenueCV, report.IdealBreakEven)

	s.logger.Info("period summary complete",
		zap.Int("periods", len(periods)),
		zap.String("mostStable", string(report.MostStable)),
		zap.String("confidence", string(report.Confidence)),
		zap.String("strategy", string(report.Strategy)))
	return report, nil
}

func summarizeSeries(values []float64) domain.StatisticalSummary {
	return domain.StatisticalSummary{
		Mean:   decimal.NewFromFloat(stats.Mean(values)),
		Median: decimal.NewFromFloat(stats.Median(values)),
		StdDev: decimal.NewFromFloat(stats.StdDev(values)),
		Min:    decimal.NewFromFloat(stats.Min(values)),
		Max:    decimal.NewFromFloat(stats.Max(values)),
		Count:  len(values),
	}
}

// mostStablePerspective picks the perspective with the lowest
// coefficient of variation of break-even revenue.
func mostStablePerspective(series map[domain.Perspective]map[string][]float64) domain.Perspective {
	best := domain.PerspectiveAccounting
	bestCV := -1.0
	for _, p := range domain.AllPerspectives {
		cv := stats.CoefficientOfVariation(series[p][MetricBreakEvenRevenue])
		if bestCV < 0 || cv < bestCV {
			best = p
			bestCV = cv
		}
	}
	return best
}

// idealBreakEven blends two estimates. The plain estimate divides the
// median fixed costs by the median margin ratio; the
// stability-weighted estimate discounts the mean margin ratio by its
// own dispersion before dividing. High confidence blends them 0.7/0.3
// in favor of the stability-weighted figure; otherwise the plain
// estimate stands alone.
func idealBreakEven(series map[string][]float64, confidence domain.ConfidenceLevel) decimal.Decimal {
	medianFixed := stats.Median(series[MetricFixedCosts])
	medianRatio := stats.Median(series[MetricMarginRatio])

	plain := 0.0
	if medianRatio > 0 {
		plain = medianFixed / medianRatio
	}
	if confidence != domain.ConfidenceHigh {
		return decimal.NewFromFloat(plain)
	}

	ratios := series[MetricMarginRatio]
	weightedRatio := stats.Mean(ratios) * (1 - stats.CoefficientOfVariation(ratios))
	stabilityEstimate := plain
	if weightedRatio > 0 {
		stabilityEstimate = medianFixed / weightedRatio
	}
	return decimal.NewFromFloat(0.7*stabilityEstimate + 0.3*plain)
}

// recommend classifies the business's position against the thresholds:
// median revenue under the ideal target is a structural problem,
// revenue dispersion over 0.5 calls for stabilization, fixed-cost
// dispersion over 0.3 calls for cost control, anything else is
// healthy.
func recommend(series map[string][]float64, revenueCV float64, ideal decimal.Decimal) (Strategy, string) {
	medianRevenue := stats.Median(series[MetricRevenue])
	fixedCV := stats.CoefficientOfVariation(series[MetricFixedCosts])

	switch {
	case decimal.NewFromFloat(medianRevenue).LessThan(ideal):
		return StrategyStructuralAlert,
			"typical revenue sits below the ideal break-even target; the cost structure needs restructuring before growth initiatives"
	case revenueCV > 0.5:
		return StrategyStabilizeRevenue,
			"revenue is highly volatile across periods; prioritize stabilizing sales before optimizing costs"
	case fixedCV > 0.3:
		return StrategyControlCosts,
			"fixed costs fluctuate more than expected for committed spending; review recurring contracts and discretionary fixed items"
	default:
		return StrategyOptimizeGrowth,
			"the operation is stable and above break-even; focus on margin optimization and growth"
	}
}
