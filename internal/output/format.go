// Package output renders engine results for the CLI as console tables
// or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/avillarreal/equilibrio/internal/classify"
	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/simulate"
	"github.com/avillarreal/equilibrio/internal/summary"
)

// JSONFormatter renders any result value as JSON.
type JSONFormatter struct {
	Pretty bool
}

// Format marshals v, optionally indented.
func (jf *JSONFormatter) Format(v interface{}) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// TableFormatter renders results as console tables.
type TableFormatter struct{}

// FormatPerspectives renders the three-perspective break-even table.
func (tf *TableFormatter) FormatPerspectives(set *domain.PerspectiveSet) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("Period: %s\n\n", set.PeriodLabel))

	nameWidth := 26
	numWidth := 16
	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
		nameWidth, "Metric",
		numWidth, "Accounting",
		numWidth, "Operating",
		numWidth, "Cash"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")

	rows := []struct {
		label string
		pick  func(*domain.BreakEvenResult) decimal.Decimal
	}{
		{"Revenue", func(r *domain.BreakEvenResult) decimal.Decimal { return r.Revenue }},
		{"Variable costs", func(r *domain.BreakEvenResult) decimal.Decimal { return r.VariableCosts }},
		{"Fixed costs (adjusted)", func(r *domain.BreakEvenResult) decimal.Decimal { return r.FixedCosts }},
		{"Contribution margin", func(r *domain.BreakEvenResult) decimal.Decimal { return r.ContributionMargin }},
		{"Margin ratio", func(r *domain.BreakEvenResult) decimal.Decimal { return r.ContributionMarginRatio }},
		{"Break-even revenue", func(r *domain.BreakEvenResult) decimal.Decimal { return r.BreakEvenRevenue }},
		{"Net income", func(r *domain.BreakEvenResult) decimal.Decimal { return r.NetIncome }},
		{"EBIT", func(r *domain.BreakEvenResult) decimal.Decimal { return r.EBIT }},
		{"EBITDA", func(r *domain.BreakEvenResult) decimal.Decimal { return r.EBITDA }},
	}

	acc := set.Results[domain.PerspectiveAccounting]
	op := set.Results[domain.PerspectiveOperating]
	cash := set.Results[domain.PerspectiveCash]
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s\n",
			nameWidth, row.label,
			numWidth, row.pick(acc).StringFixed(2),
			numWidth, row.pick(op).StringFixed(2),
			numWidth, row.pick(cash).StringFixed(2)))
	}
	sb.WriteString(strings.Repeat("=", 78) + "\n")

	if len(set.Diagnostics) > 0 {
		sb.WriteString("\nDIAGNOSTICS\n")
		for _, d := range set.Diagnostics {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", d.Kind, d.Message))
		}
	}
	return sb.String()
}

// FormatBatch renders a classification batch: applied decisions first,
// then the pending queue awaiting confirmation.
func (tf *TableFormatter) FormatBatch(batch *classify.BatchResult) string {
	var sb strings.Builder

	sb.WriteString("ACCOUNT CLASSIFICATION\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("%-12s %-15s %12s  %s\n", "Code", "Role", "Confidence", "Evidence"))
	sb.WriteString(strings.Repeat("-", 78) + "\n")

	for _, code := range sortedCodes(batch.Applied) {
		cls := batch.Applied[code]
		sb.WriteString(fmt.Sprintf("%-12s %-15s %12s  %s\n",
			cls.Code, cls.Role, cls.Confidence.StringFixed(2), firstReason(cls.Reasons)))
	}

	if len(batch.Pending) > 0 {
		sb.WriteString("\nPENDING CONFIRMATION (aggregated as fixed cost until confirmed)\n")
		sb.WriteString(strings.Repeat("-", 78) + "\n")
		for _, p := range batch.Pending {
			sb.WriteString(fmt.Sprintf("%-12s %-15s %12s  %s\n",
				p.Suggested.Code, p.Suggested.Role, p.Suggested.Confidence.StringFixed(2), firstReason(p.Suggested.Reasons)))
		}
	}

	if len(batch.Breakdowns) > 0 {
		sb.WriteString("\nMIXED-COST BREAKDOWNS\n")
		sb.WriteString(strings.Repeat("-", 78) + "\n")
		sb.WriteString(fmt.Sprintf("%-12s %14s %12s %12s %-8s %s\n",
			"Code", "Fixed (annual)", "Var. rate", "Fit", "Method", "Confidence"))
		for _, code := range sortedCodes(batch.Breakdowns) {
			bd := batch.Breakdowns[code]
			sb.WriteString(fmt.Sprintf("%-12s %14s %12s %12s %-8s %s\n",
				bd.AccountCode, bd.FixedComponent.StringFixed(2), bd.VariableRate.StringFixed(4),
				bd.GoodnessOfFit.StringFixed(2), bd.Method, bd.Confidence))
		}
	}
	return sb.String()
}

// FormatStochastic renders the per-metric statistics of a Monte Carlo
// run.
func (tf *TableFormatter) FormatStochastic(result *simulate.StochasticResult) string {
	var sb strings.Builder

	sb.WriteString("STOCHASTIC SIMULATION\n")
	sb.WriteString(strings.Repeat("=", 98) + "\n")
	sb.WriteString(fmt.Sprintf("Run: %s  Iterations: %d\n\n", result.RunID, result.Iterations))
	sb.WriteString(fmt.Sprintf("%-26s %12s %12s %10s %12s %12s %12s %12s\n",
		"Metric", "Mean", "Median", "StdDev", "Min", "Max", "P10", "P90"))
	sb.WriteString(strings.Repeat("-", 98) + "\n")

	for _, m := range sortedCodes(result.Metrics) {
		s := result.Metrics[m]
		sb.WriteString(fmt.Sprintf("%-26s %12s %12s %10s %12s %12s %12s %12s\n",
			m, s.Mean.StringFixed(2), s.Median.StringFixed(2), s.StdDev.StringFixed(2),
			s.Min.StringFixed(2), s.Max.StringFixed(2), s.P10.StringFixed(2), s.P90.StringFixed(2)))
	}
	sb.WriteString(strings.Repeat("=", 98) + "\n")
	return sb.String()
}

// FormatSummary renders the cross-period statistical report.
func (tf *TableFormatter) FormatSummary(report *summary.Report) string {
	var sb strings.Builder

	sb.WriteString("PERIOD STATISTICS\n")
	sb.WriteString(strings.Repeat("=", 78) + "\n")
	sb.WriteString(fmt.Sprintf("Periods analyzed:  %d\n", len(report.Periods)))
	sb.WriteString(fmt.Sprintf("Most stable view:  %s\n", report.MostStable))
	sb.WriteString(fmt.Sprintf("Confidence:        %s (%s)\n", report.Confidence, report.ConfidenceScore.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Ideal break-even:  %s\n", report.IdealBreakEven.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Strategy:          %s\n", report.Strategy))
	sb.WriteString(fmt.Sprintf("\n%s\n", report.Recommendation))

	for _, p := range domain.AllPerspectives {
		metrics, ok := report.PerPerspective[p]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s\n", strings.ToUpper(string(p))))
		sb.WriteString(strings.Repeat("-", 78) + "\n")
		sb.WriteString(fmt.Sprintf("%-26s %12s %12s %10s %12s %12s\n",
			"Metric", "Mean", "Median", "StdDev", "Min", "Max"))
		for _, m := range sortedCodes(metrics) {
			s := metrics[m]
			sb.WriteString(fmt.Sprintf("%-26s %12s %12s %10s %12s %12s\n",
				m, s.Mean.StringFixed(2), s.Median.StringFixed(2), s.StdDev.StringFixed(2),
				s.Min.StringFixed(2), s.Max.StringFixed(2)))
		}
	}
	return sb.String()
}

func sortedCodes[V any](m map[string]V) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

func firstReason(reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}
	return reasons[0]
}
