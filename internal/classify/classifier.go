package classify

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avillarreal/equilibrio/internal/decompose"
	"github.com/avillarreal/equilibrio/internal/domain"
	"github.com/avillarreal/equilibrio/internal/hierarchy"
)

// Config carries the classifier's tuning. The signal weights and the
// auto-apply threshold were tuned against a single observed dataset;
// they are fields rather than constants so callers can adjust them.
type Config struct {
	SemanticWeight     float64
	BehavioralWeight   float64
	StructuralWeight   float64
	AutoApplyThreshold float64
	MinBehavioralData  int
}

// DefaultConfig returns the weights used by the dashboard.
func DefaultConfig() Config {
	return Config{
		SemanticWeight:     0.40,
		BehavioralWeight:   0.40,
		StructuralWeight:   0.20,
		AutoApplyThreshold: 0.85,
		MinBehavioralData:  3,
	}
}

// Classifier combines the scorer chain into per-account decisions.
type Classifier struct {
	config     Config
	lookup     LookupTable
	semantic   *SemanticScorer
	behavioral *BehavioralScorer
	structural *StructuralScorer
	decomposer *decompose.Decomposer
	logger     *zap.Logger
}

// NewClassifier wires the default scorer chain. A nil logger is
// replaced by a no-op logger.
func NewClassifier(config Config, decomposer *decompose.Decomposer, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if decomposer == nil {
		decomposer = decompose.NewDecomposer(decompose.DefaultConfig())
	}
	return &Classifier{
		config:     config,
		lookup:     DefaultLookupTable(),
		semantic:   NewSemanticScorer(),
		behavioral: NewBehavioralScorer(config.MinBehavioralData),
		structural: NewStructuralScorer(),
		decomposer: decomposer,
		logger:     logger,
	}
}

// SetLookupTable replaces the curated table.
func (c *Classifier) SetLookupTable(t LookupTable) { c.lookup = t }

// PendingClassification is an account whose computed confidence fell
// below the auto-apply threshold and awaits manual confirmation. Until
// confirmed it aggregates as a fixed cost downstream.
type PendingClassification struct {
	Suggested domain.Classification      `json:"suggested"`
	Breakdown *domain.MixedCostBreakdown `json:"breakdown,omitempty"`
}

// BatchResult is the outcome of classifying every leaf in one pass.
type BatchResult struct {
	Applied    map[string]domain.Classification     `json:"applied"`
	Pending    []PendingClassification              `json:"pending"`
	Breakdowns map[string]domain.MixedCostBreakdown `json:"breakdowns"`
}

// EffectiveRoles flattens the batch into the role map the calculator
// consumes: applied decisions as-is, pending accounts as FixedCost
// when their branch allows it (conservative bias), Revenue otherwise.
func (b *BatchResult) EffectiveRoles() map[string]domain.Role {
	roles := make(map[string]domain.Role, len(b.Applied)+len(b.Pending))
	for code, cls := range b.Applied {
		roles[code] = cls.Role
	}
	for _, p := range b.Pending {
		code := p.Suggested.Code
		if domain.RoleFixedCost.ValidForCode(code) {
			roles[code] = domain.RoleFixedCost
		} else {
			roles[code] = domain.RoleRevenue
		}
	}
	return roles
}

// Classify scores one account. Overrides are consulted first, then the
// curated lookup, then the weighted scorer chain. The 4/5 code-range
// invariant clamps the candidate set before the argmax.
func (c *Classifier) Classify(acct *domain.Account, dataset *domain.Dataset, overrides map[string]domain.Role) (domain.Classification, *domain.MixedCostBreakdown) {
	if role, ok := overrides[acct.Code]; ok && role.ValidForCode(acct.Code) {
		return domain.Classification{
			Code:       acct.Code,
			Role:       role,
			Confidence: decimal.NewFromInt(1),
			Reasons:    []string{"manual override"},
		}, nil
	}
	if role, ok := c.lookup.Lookup(acct.Code); ok {
		return domain.Classification{
			Code:       acct.Code,
			Role:       role,
			Confidence: decimal.NewFromInt(1),
			Reasons:    []string{"professional lookup table"},
		}, nil
	}

	type weighted struct {
		scorer Scorer
		weight float64
	}
	chain := []weighted{
		{c.semantic, c.config.SemanticWeight},
		{c.behavioral, c.config.BehavioralWeight},
		{c.structural, c.config.StructuralWeight},
	}

	totals := make(map[domain.Role]float64, len(domain.AllRoles))
	var reasons []string
	signals := 0
	for _, w := range chain {
		votes := w.scorer.Score(acct, dataset)
		if len(votes) == 0 {
			continue
		}
		signals++
		for _, v := range votes {
			totals[v.Role] += v.Score * w.weight
			reasons = append(reasons, fmt.Sprintf("%s: %s", w.scorer.Name(), v.Reason))
		}
	}

	role, maxScore := c.argmaxValid(acct.Code, totals)
	evidence := math.Min(0.2, 0.1*float64(signals))
	confidence := math.Min(1.0, maxScore+evidence)

	cls := domain.Classification{
		Code:       acct.Code,
		Role:       role,
		Confidence: decimal.NewFromFloat(confidence),
		Reasons:    reasons,
	}

	if role != domain.RoleMixed {
		return cls, nil
	}

	// A Mixed verdict triggers an immediate decomposition; a
	// high-confidence recommendation that is not Mixed wins over the
	// scored role.
	bd := c.decomposer.Decompose(acct, dataset)
	if bd.Confidence == domain.ConfidenceHigh && bd.RecommendedRole != domain.RoleMixed && bd.RecommendedRole.ValidForCode(acct.Code) {
		cls.Role = bd.RecommendedRole
		cls.Reasons = append(cls.Reasons, fmt.Sprintf("decomposition (%s, R²=%s) recommends %s", bd.Method, bd.GoodnessOfFit.StringFixed(2), bd.RecommendedRole))
		return cls, nil
	}
	return cls, &bd
}

// argmaxValid picks the highest-scoring role among those valid for the
// code. With no evidence at all the branch default applies: revenue
// for the 4 branch, fixed cost elsewhere.
func (c *Classifier) argmaxValid(code string, totals map[domain.Role]float64) (domain.Role, float64) {
	best := domain.RoleFixedCost
	if !best.ValidForCode(code) {
		best = domain.RoleRevenue
	}
	bestScore := -1.0
	for _, role := range domain.AllRoles {
		if !role.ValidForCode(code) {
			continue
		}
		if totals[role] > bestScore {
			best = role
			bestScore = totals[role]
		}
	}
	if bestScore < 0 {
		bestScore = 0
	}
	return best, bestScore
}

// ClassifyAll classifies every leaf in one pass. Decisions below the
// auto-apply threshold land in Pending for manual confirmation instead
// of being applied.
func (c *Classifier) ClassifyAll(dataset *domain.Dataset, tree *hierarchy.Tree, overrides map[string]domain.Role) *BatchResult {
	result := &BatchResult{
		Applied:    make(map[string]domain.Classification),
		Breakdowns: make(map[string]domain.MixedCostBreakdown),
	}
	threshold := decimal.NewFromFloat(c.config.AutoApplyThreshold)

	for _, acct := range tree.Leaves() {
		cls, bd := c.Classify(acct, dataset, overrides)
		if cls.Confidence.LessThan(threshold) {
			result.Pending = append(result.Pending, PendingClassification{Suggested: cls, Breakdown: bd})
			c.logger.Debug("classification pending confirmation",
				zap.String("code", cls.Code),
				zap.String("role", cls.Role.String()),
				zap.String("confidence", cls.Confidence.StringFixed(2)))
			continue
		}
		result.Applied[acct.Code] = cls
		if bd != nil {
			result.Breakdowns[acct.Code] = *bd
		}
	}

	c.logger.Info("batch classification complete",
		zap.Int("applied", len(result.Applied)),
		zap.Int("pending", len(result.Pending)),
		zap.Int("mixed", len(result.Breakdowns)))
	return result
}
