package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avillarreal/equilibrio/internal/calculation"
	"github.com/avillarreal/equilibrio/internal/classify"
	"github.com/avillarreal/equilibrio/internal/config"
	"github.com/avillarreal/equilibrio/internal/decompose"
	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
	"github.com/avillarreal/equilibrio/internal/output"
	"github.com/avillarreal/equilibrio/internal/simulate"
	"github.com/avillarreal/equilibrio/internal/store"
	"github.com/avillarreal/equilibrio/internal/summary"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagInput     string
	flagOverrides string
	flagMixed     string
	flagFormat    string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "equilibrio",
	Short: "Multi-perspective break-even analysis engine",
	Long:  "Classifies chart-of-accounts data, decomposes mixed costs and computes accounting/operating/cash break-even points with what-if simulation",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagInput, "input", "", "dataset yaml file (required)")
	rootCmd.PersistentFlags().StringVar(&flagOverrides, "overrides", "", "classification override store (yaml)")
	rootCmd.PersistentFlags().StringVar(&flagMixed, "mixed", "", "mixed-cost settings store (yaml)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "table", "output format: table or json")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(breakevenCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *zap.Logger {
	if flagVerbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

// session loads the dataset, resolves the hierarchy and runs the full
// classification pass with any persisted overrides applied.
type session struct {
	dataset   *domain.Dataset
	tree      *hierarchy.Tree
	overrides map[string]domain.Role
	batch     *classify.BatchResult
	engine    *calculation.Engine
	logger    *zap.Logger
}

func loadSession() (*session, error) {
	if flagInput == "" {
		return nil, fmt.Errorf("--input is required")
	}
	logger := newLogger()

	parser := config.NewInputParser()
	dataset, err := parser.LoadFromFile(flagInput)
	if err != nil {
		return nil, err
	}
	tree := hierarchy.Resolve(dataset.Accounts)

	overrides := map[string]domain.Role{}
	if flagOverrides != "" {
		overrides, err = store.NewOverrideStore(flagOverrides).Load()
		if err != nil {
			return nil, err
		}
	}

	decomposer := decompose.NewDecomposer(decompose.DefaultConfig())
	classifier := classify.NewClassifier(classify.DefaultConfig(), decomposer, logger)
	batch := classifier.ClassifyAll(dataset, tree, overrides)

	// Persisted manual settings win over auto-analysis breakdowns.
	if flagMixed != "" {
		settings, err := store.NewMixedSettingsStore(flagMixed).Load()
		if err != nil {
			return nil, err
		}
		for code, s := range settings {
			batch.Breakdowns[code] = domain.MixedCostBreakdown{
				AccountCode:    code,
				FixedComponent: s.FixedComponent,
				VariableRate:   s.VariableRate,
				Confidence:     domain.ConfidenceHigh,
				Method:         domain.MethodFallback,
			}
		}
	}

	return &session{
		dataset:   dataset,
		tree:      tree,
		overrides: overrides,
		batch:     batch,
		engine:    calculation.NewEngine(calculation.NewResultCache(), logger),
		logger:    logger,
	}, nil
}

func (s *session) input() calculation.Input {
	return calculation.Input{
		Dataset:    s.dataset,
		Tree:       s.tree,
		Roles:      s.batch.EffectiveRoles(),
		Breakdowns: s.batch.Breakdowns,
	}
}

func parsePeriod(arg string) domain.PeriodSelection {
	switch arg {
	case "", "annual":
		return domain.Annual()
	case "monthly-average":
		return domain.MonthlyAverage()
	default:
		return domain.Month(arg)
	}
}

func emit(table string, v interface{}) error {
	if flagFormat == "json" {
		jf := &output.JSONFormatter{Pretty: true}
		s, err := jf.Format(v)
		if err != nil {
			return err
		}
		fmt.Println(s)
		return nil
	}
	fmt.Print(table)
	return nil
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify every leaf account and report pending confirmations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession()
			if err != nil {
				return err
			}
			tf := &output.TableFormatter{}
			return emit(tf.FormatBatch(s.batch), s.batch)
		},
	}
}

func breakevenCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Compute the three-perspective break-even for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession()
			if err != nil {
				return err
			}
			set, err := s.engine.Calculate(s.input(), parsePeriod(period))
			if err != nil {
				return err
			}
			tf := &output.TableFormatter{}
			return emit(tf.FormatPerspectives(set), set)
		},
	}
	cmd.Flags().StringVar(&period, "period", "annual", "annual, monthly-average, or a month label")
	return cmd
}

func simulateCmd() *cobra.Command {
	var (
		period      string
		perspective string
		pricePct    float64
		fixedDelta  float64
		varRatePct  float64
		monteCarlo  bool
		iterations  int
		seed        int64
		priceDist   string
		fixedDist   string
		varDist     string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a deterministic or stochastic what-if over the break-even result",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession()
			if err != nil {
				return err
			}
			set, err := s.engine.Calculate(s.input(), parsePeriod(period))
			if err != nil {
				return err
			}
			base, ok := set.Results[domain.Perspective(perspective)]
			if !ok {
				return fmt.Errorf("unknown perspective %q", perspective)
			}

			if !monteCarlo {
				shocked := simulate.Apply(base, simulate.Shock{
					PricePct:        decimal.NewFromFloat(pricePct),
					FixedCostDelta:  decimal.NewFromFloat(fixedDelta),
					VariableRatePct: decimal.NewFromFloat(varRatePct),
				})
				single := &domain.PerspectiveSet{
					PeriodLabel: set.PeriodLabel,
					Results:     map[domain.Perspective]*domain.BreakEvenResult{base.Perspective: shocked},
				}
				return emit(formatSingle(shocked, set.PeriodLabel), single)
			}

			inputs := simulate.StochasticInputs{
				PricePct:        mustParseDist(priceDist, pricePct),
				FixedCostDelta:  mustParseDist(fixedDist, fixedDelta),
				VariableRatePct: mustParseDist(varDist, varRatePct),
			}
			result, err := simulate.RunMonteCarlo(context.Background(), base, inputs, simulate.MonteCarloConfig{
				Iterations: iterations,
				Seed:       seed,
			})
			if err != nil {
				return err
			}
			tf := &output.TableFormatter{}
			return emit(tf.FormatStochastic(result), result)
		},
	}
	cmd.Flags().StringVar(&period, "period", "annual", "period selection")
	cmd.Flags().StringVar(&perspective, "perspective", "accounting", "accounting, operating or cash")
	cmd.Flags().Float64Var(&pricePct, "price-pct", 0, "price change percent")
	cmd.Flags().Float64Var(&fixedDelta, "fixed-delta", 0, "fixed cost change amount")
	cmd.Flags().Float64Var(&varRatePct, "varrate-pct", 0, "variable cost rate change percent")
	cmd.Flags().BoolVar(&monteCarlo, "monte-carlo", false, "run stochastic simulation")
	cmd.Flags().IntVar(&iterations, "iterations", 1000, "stochastic iterations (100-10000)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().StringVar(&priceDist, "price-dist", "", "price distribution, e.g. normal:0,2 triangular:-5,5,0 uniform:-3,3")
	cmd.Flags().StringVar(&fixedDist, "fixed-dist", "", "fixed-cost-delta distribution")
	cmd.Flags().StringVar(&varDist, "varrate-dist", "", "variable-rate distribution")
	return cmd
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Cross-period statistics, stability ranking and strategy recommendation",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession()
			if err != nil {
				return err
			}
			sum := summary.NewSummarizer(s.engine, s.logger)
			report, err := sum.Summarize(s.input())
			if err != nil {
				return err
			}
			tf := &output.TableFormatter{}
			return emit(tf.FormatSummary(report), report)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "equilibrio %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Version)
			}
		},
	}
}

func formatSingle(r *domain.BreakEvenResult, period string) string {
	var sb strings.Builder
	sb.WriteString("SIMULATED BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	sb.WriteString(fmt.Sprintf("Period: %s  Perspective: %s\n\n", period, r.Perspective))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Revenue", r.Revenue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Variable costs", r.VariableCosts.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Fixed costs", r.FixedCosts.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Margin ratio", r.ContributionMarginRatio.StringFixed(4)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Break-even revenue", r.BreakEvenRevenue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "Net income", r.NetIncome.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("%-26s %18s\n", "EBITDA", r.EBITDA.StringFixed(2)))
	return sb.String()
}

// mustParseDist parses "kind:a,b[,c]" distribution specs; an empty
// spec degrades to a fixed value so deterministic and stochastic flags
// can mix freely.
func mustParseDist(spec string, fallback float64) simulate.Distribution {
	if spec == "" {
		return simulate.Fixed{Value: fallback}
	}
	kind, rest, found := strings.Cut(spec, ":")
	if !found {
		return simulate.Fixed{Value: fallback}
	}
	parts := strings.Split(rest, ",")
	nums := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return simulate.Fixed{Value: fallback}
		}
		nums = append(nums, f)
	}
	switch {
	case kind == "normal" && len(nums) == 2:
		return simulate.Normal{Mean: nums[0], StdDev: nums[1]}
	case kind == "triangular" && len(nums) == 3:
		return simulate.Triangular{Min: nums[0], Max: nums[1], Mode: nums[2]}
	case kind == "uniform" && len(nums) == 2:
		return simulate.Uniform{Min: nums[0], Max: nums[1]}
	default:
		return simulate.Fixed{Value: fallback}
	}
}
