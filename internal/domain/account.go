package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Account is one row of the chart-of-accounts dataset. The code is a
// dot-segmented path (e.g. "5.1.2") that defines the hierarchy; the
// monthly values are keyed by period label as imported. Accounts are
// immutable once loaded.
type Account struct {
	Code          string                     `yaml:"code" json:"code"`
	Name          string                     `yaml:"name" json:"name"`
	MonthlyValues map[string]decimal.Decimal `yaml:"monthlyValues" json:"monthlyValues"`
}

// AnnualValue sums every monthly value, keeping sign.
func (a *Account) AnnualValue() decimal.Decimal {
	total := decimal.Zero
	for _, v := range a.MonthlyValues {
		total = total.Add(v)
	}
	return total
}

// PeriodsWithData counts periods carrying a non-zero value.
func (a *Account) PeriodsWithData() int {
	n := 0
	for _, v := range a.MonthlyValues {
		if !v.IsZero() {
			n++
		}
	}
	return n
}

// AverageValue is the annual total divided by the number of periods
// with data, so that average × periods == annual exactly. Zero when no
// period has data.
func (a *Account) AverageValue() decimal.Decimal {
	n := a.PeriodsWithData()
	if n == 0 {
		return decimal.Zero
	}
	return a.AnnualValue().Div(decimal.NewFromInt(int64(n)))
}

// ValueFor returns the value for one period label, zero when absent.
func (a *Account) ValueFor(period string) decimal.Decimal {
	if v, ok := a.MonthlyValues[period]; ok {
		return v
	}
	return decimal.Zero
}

// Dataset is the input contract consumed from the external data
// loader: the flat account list plus pre-aggregated revenue by period
// and for the full year.
type Dataset struct {
	Accounts      []Account                  `yaml:"accounts" json:"accounts"`
	PeriodRevenue map[string]decimal.Decimal `yaml:"periodRevenue" json:"periodRevenue"`
	AnnualRevenue decimal.Decimal            `yaml:"annualRevenue" json:"annualRevenue"`
}

// Periods returns the period labels present in the revenue map, sorted
// so that iteration order is stable across runs.
func (d *Dataset) Periods() []string {
	periods := make([]string, 0, len(d.PeriodRevenue))
	for p := range d.PeriodRevenue {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}

// RevenueFor returns the pre-aggregated revenue for a period label,
// zero when the period is unknown.
func (d *Dataset) RevenueFor(period string) decimal.Decimal {
	if v, ok := d.PeriodRevenue[period]; ok {
		return v
	}
	return decimal.Zero
}

// AccountByCode finds an account by exact code.
func (d *Dataset) AccountByCode(code string) (*Account, bool) {
	for i := range d.Accounts {
		if d.Accounts[i].Code == code {
			return &d.Accounts[i], true
		}
	}
	return nil, false
}
