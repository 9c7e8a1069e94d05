package domain

import (
	"github.com/shopspring/decimal"
)

// Perspective selects which non-cash and financing items are excluded
// from fixed costs before computing break-even.
type Perspective string

const (
	PerspectiveAccounting Perspective = "accounting"
	PerspectiveOperating  Perspective = "operating"
	PerspectiveCash       Perspective = "cash"
)

// AllPerspectives lists the three perspectives in their fixed-cost
// ordering: accounting carries the most fixed costs, cash the least.
var AllPerspectives = []Perspective{PerspectiveAccounting, PerspectiveOperating, PerspectiveCash}

// PeriodSelection names the slice of history a calculation runs over:
// the annual aggregate, the monthly average, or one specific month.
type PeriodSelection struct {
	Kind  PeriodKind
	Month string // set only when Kind == PeriodSpecificMonth
}

type PeriodKind int

const (
	PeriodAnnual PeriodKind = iota
	PeriodMonthlyAverage
	PeriodSpecificMonth
)

func (p PeriodSelection) String() string {
	switch p.Kind {
	case PeriodAnnual:
		return "annual"
	case PeriodMonthlyAverage:
		return "monthly-average"
	default:
		return p.Month
	}
}

// Annual selects the annual aggregate.
func Annual() PeriodSelection { return PeriodSelection{Kind: PeriodAnnual} }

// MonthlyAverage selects the annual aggregate divided by periods with data.
func MonthlyAverage() PeriodSelection { return PeriodSelection{Kind: PeriodMonthlyAverage} }

// Month selects one specific period label.
func Month(label string) PeriodSelection {
	return PeriodSelection{Kind: PeriodSpecificMonth, Month: label}
}

// BreakEvenResult holds the break-even calculation for one
// perspective. Fixed costs are already adjusted for the perspective's
// exclusions; depreciation and interest record what was tracked before
// adjustment.
type BreakEvenResult struct {
	Perspective             Perspective     `json:"perspective"`
	Revenue                 decimal.Decimal `json:"revenue"`
	VariableCosts           decimal.Decimal `json:"variableCosts"`
	FixedCosts              decimal.Decimal `json:"fixedCosts"`
	ContributionMargin      decimal.Decimal `json:"contributionMargin"`
	ContributionMarginRatio decimal.Decimal `json:"contributionMarginRatio"`
	BreakEvenRevenue        decimal.Decimal `json:"breakEvenRevenue"`
	NetIncome               decimal.Decimal `json:"netIncome"`
	EBIT                    decimal.Decimal `json:"ebit"`
	EBITDA                  decimal.Decimal `json:"ebitda"`
	Depreciation            decimal.Decimal `json:"depreciation"`
	Interest                decimal.Decimal `json:"interest"`
}

// PerspectiveSet bundles the three parallel results for one period
// selection together with any integrity diagnostics raised while
// computing them. Diagnostics never prevent the results from being
// returned.
type PerspectiveSet struct {
	Period      PeriodSelection                  `json:"-"`
	PeriodLabel string                           `json:"period"`
	Results     map[Perspective]*BreakEvenResult `json:"results"`
	Diagnostics []Diagnostic                     `json:"diagnostics,omitempty"`
}

// StatisticalSummary describes one metric observed across periods or
// simulation draws.
type StatisticalSummary struct {
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	StdDev decimal.Decimal `json:"standardDeviation"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}
