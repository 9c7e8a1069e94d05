package simulate

import (
	"context"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/stats"
)

// Iteration bounds for stochastic runs; requests outside the range are
// clamped rather than rejected.
const (
	MinIterations = 100
	MaxIterations = 10000
)

// Metric names collected per iteration.
const (
	MetricBreakEvenRevenue        = "breakEvenRevenue"
	MetricContributionMarginRatio = "contributionMarginRatio"
	MetricNetIncome               = "netIncome"
	MetricEBITDA                  = "ebitda"
)

var allMetrics = []string{
	MetricBreakEvenRevenue,
	MetricContributionMarginRatio,
	MetricNetIncome,
	MetricEBITDA,
}

// StochasticInputs chooses a distribution per shock input.
type StochasticInputs struct {
	PricePct        Distribution
	FixedCostDelta  Distribution
	VariableRatePct Distribution
}

// MonteCarloConfig bounds the stochastic run. Seed zero means
// time-based seeding; Workers zero means one worker per CPU.
type MonteCarloConfig struct {
	Iterations int
	Seed       int64
	Workers    int
}

// MetricSummary aggregates one metric across every draw. Percentiles
// use sorted-array index lookup without interpolation.
type MetricSummary struct {
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	StdDev decimal.Decimal `json:"standardDeviation"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	P10    decimal.Decimal `json:"p10"`
	P90    decimal.Decimal `json:"p90"`
}

// StochasticResult is the aggregated outcome of one Monte Carlo run.
type StochasticResult struct {
	RunID      uuid.UUID                `json:"runId"`
	Iterations int                      `json:"iterations"`
	Metrics    map[string]MetricSummary `json:"metrics"`
}

// RunMonteCarlo draws N independent samples per input, applies the
// deterministic shock transformation each iteration, and aggregates
// the collected metrics. Iterations fan out across workers; each
// worker accumulates into its own slices and the merge happens after
// every worker returns, so no accumulator is shared mid-run.
func RunMonteCarlo(ctx context.Context, base *domain.BreakEvenResult, inputs StochasticInputs, config MonteCarloConfig) (*StochasticResult, error) {
	iterations := config.Iterations
	if iterations < MinIterations {
		iterations = MinIterations
	}
	if iterations > MaxIterations {
		iterations = MaxIterations
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > iterations {
		workers = iterations
	}

	type sample struct {
		values map[string][]float64
	}
	perWorker := make([]sample, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		count := iterations / workers
		if w < iterations%workers {
			count++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed + int64(w)))
			values := make(map[string][]float64, len(allMetrics))
			for _, m := range allMetrics {
				values[m] = make([]float64, 0, count)
			}
			for i := 0; i < count; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				shock := Shock{
					PricePct:        decimal.NewFromFloat(inputs.PricePct.Sample(rng)),
					FixedCostDelta:  decimal.NewFromFloat(inputs.FixedCostDelta.Sample(rng)),
					VariableRatePct: decimal.NewFromFloat(inputs.VariableRatePct.Sample(rng)),
				}
				result := Apply(base, shock)
				values[MetricBreakEvenRevenue] = append(values[MetricBreakEvenRevenue], result.BreakEvenRevenue.InexactFloat64())
				values[MetricContributionMarginRatio] = append(values[MetricContributionMarginRatio], result.ContributionMarginRatio.InexactFloat64())
				values[MetricNetIncome] = append(values[MetricNetIncome], result.NetIncome.InexactFloat64())
				values[MetricEBITDA] = append(values[MetricEBITDA], result.EBITDA.InexactFloat64())
			}
			perWorker[w] = sample{values: values}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string][]float64, len(allMetrics))
	for _, s := range perWorker {
		for _, m := range allMetrics {
			merged[m] = append(merged[m], s.values[m]...)
		}
	}

	result := &StochasticResult{
		RunID:      uuid.New(),
		Iterations: iterations,
		Metrics:    make(map[string]MetricSummary, len(allMetrics)),
	}
	for _, m := range allMetrics {
		result.Metrics[m] = summarize(merged[m])
	}
	return result, nil
}

func summarize(values []float64) MetricSummary {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return MetricSummary{
		Mean:   decimal.NewFromFloat(stats.Mean(values)),
		Median: decimal.NewFromFloat(stats.Median(values)),
		StdDev: decimal.NewFromFloat(stats.StdDev(values)),
		Min:    decimal.NewFromFloat(stats.Min(values)),
		Max:    decimal.NewFromFloat(stats.Max(values)),
		P10:    decimal.NewFromFloat(stats.Percentile(sorted, 0.10)),
		P90:    decimal.NewFromFloat(stats.Percentile(sorted, 0.90)),
	}
}
