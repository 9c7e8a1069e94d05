package domain

import (
	"github.com/shopspring/decimal"
)

// ConfidenceLevel grades how trustworthy a decomposition or
// classification is.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// DecompositionMethod identifies which estimator produced a
// mixed-cost breakdown.
type DecompositionMethod string

const (
	MethodRegression  DecompositionMethod = "regression"
	MethodHighLow     DecompositionMethod = "high-low"
	MethodCorrelation DecompositionMethod = "correlation"
	MethodFallback    DecompositionMethod = "fallback"
)

// MixedCostBreakdown splits a semi-variable account into a fixed
// monthly amount and a variable rate against the activity measure
// (revenue). Absent until first computed; recomputed whenever the
// underlying series or analysis period changes.
type MixedCostBreakdown struct {
	AccountCode     string              `json:"accountCode"`
	FixedComponent  decimal.Decimal     `json:"fixedComponent"`
	VariableRate    decimal.Decimal     `json:"variableRate"`
	Confidence      ConfidenceLevel     `json:"confidence"`
	Method          DecompositionMethod `json:"method"`
	GoodnessOfFit   decimal.Decimal     `json:"goodnessOfFit"`
	RecommendedRole Role                `json:"recommendedRole"`
}

// MixedCostSettings is the externally persisted, possibly user-edited
// form of a breakdown.
type MixedCostSettings struct {
	FixedComponent decimal.Decimal `yaml:"fixedComponent" json:"fixedComponent"`
	VariableRate   decimal.Decimal `yaml:"variableRate" json:"variableRate"`
	BaseMeasure    string          `yaml:"baseMeasure" json:"baseMeasure"`
	InputMode      string          `yaml:"inputMode" json:"inputMode"` // "auto" or "manual"
	VariableAmount decimal.Decimal `yaml:"variableAmount" json:"variableAmount"`
}

// Classification is the engine's decision for one account, with the
// evidence that produced it.
type Classification struct {
	Code       string          `json:"code"`
	Role       Role            `json:"role"`
	Confidence decimal.Decimal `json:"confidence"`
	Reasons    []string        `json:"reasons,omitempty"`
}
