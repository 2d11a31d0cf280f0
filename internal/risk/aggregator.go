package risk

import (
	"context"

	"github.com/kioko/tappay/internal/domain"
)

// threshold rows are evaluated top-down; every score in [0,100] maps to
// exactly one level and one decision.
var thresholds = []struct {
	min      float64
	level    domain.RiskLevel
	decision domain.Decision
}{
	{80, domain.RiskLevelCritical, domain.DecisionBlock},
	{60, domain.RiskLevelHigh, domain.DecisionReview},
	{40, domain.RiskLevelMedium, domain.DecisionAllow},
	{0, domain.RiskLevelLow, domain.DecisionAllow},
}

// Classify maps an aggregate score to its level and decision.
func Classify(score float64) (domain.RiskLevel, domain.Decision) {
	for _, t := range thresholds {
		if score >= t.min {
			return t.level, t.decision
		}
	}

	return domain.RiskLevelLow, domain.DecisionAllow
}

const (
	confidenceBase    = 0.5
	confidenceCap     = 0.95
	confidenceSpan    = 0.45
	confidenceSamples = 300
)

// Confidence estimates data sufficiency from the raw number of history
// rows the factors consulted. A heuristic, not a calibrated probability.
func Confidence(dataPoints int) float64 {
	c := confidenceBase + float64(dataPoints)/confidenceSamples*confidenceSpan
	if c > confidenceCap {
		return confidenceCap
	}

	return c
}

// Aggregator runs the fixed ordered list of factor calculators and folds
// their sub-scores into one assessment.
type Aggregator struct {
	calculators []Calculator
}

// NewAggregator wires the four standard calculators against history.
func NewAggregator(history History) *Aggregator {
	return &Aggregator{
		calculators: []Calculator{
			NewVelocityCalculator(history),
			NewAmountCalculator(history),
			NewFrequencyCalculator(history),
			NewBehaviorCalculator(history),
		},
	}
}

// Assess scores a transfer. Factors run synchronously in order; any
// history read failure aborts the assessment.
func (a *Aggregator) Assess(ctx context.Context, in Input) (*domain.RiskAssessment, error) {
	var (
		score      float64
		reasons    []string
		evidence   []domain.FactorEvidence
		dataPoints int
	)

	for _, calc := range a.calculators {
		res, err := calc.Evaluate(ctx, in)
		if err != nil {
			return nil, err
		}

		score += res.SubScore * calc.Weight()
		reasons = append(reasons, res.Reasons...)
		dataPoints += res.DataPoints

		evidence = append(evidence, domain.FactorEvidence{
			Name:     res.Name,
			SubScore: res.SubScore,
			Weight:   calc.Weight(),
			Details:  res.Details,
		})
	}

	if len(reasons) == 0 {
		reasons = []string{"no significant risk factors"}
	}

	level, decision := Classify(score)

	return &domain.RiskAssessment{
		Score:       score,
		Level:       level,
		Decision:    decision,
		Reasons:     reasons,
		Confidence:  Confidence(dataPoints),
		Factors:     evidence,
		EvaluatedAt: in.Timestamp.UTC(),
	}, nil
}
