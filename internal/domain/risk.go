package domain

import "time"

// RiskLevel is the ordinal bucket derived from the aggregate risk score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// Decision is the gating outcome derived from the aggregate risk score.
type Decision string

const (
	DecisionAllow  Decision = "ALLOW"
	DecisionReview Decision = "REVIEW"
	DecisionBlock  Decision = "BLOCK"
)

// FactorEvidence is the structured detail a factor calculator attaches to
// its sub-score for audit display.
type FactorEvidence struct {
	Name     string         `json:"name"`
	SubScore float64        `json:"sub_score"`
	Weight   float64        `json:"weight"`
	Details  map[string]any `json:"details,omitempty"`
}

// RiskAssessment is the aggregator's output. It is transient: it gets
// embedded into a Transaction or FraudAlert, never persisted on its own.
type RiskAssessment struct {
	Score       float64          `json:"score"`
	Level       RiskLevel        `json:"level"`
	Decision    Decision         `json:"decision"`
	Reasons     []string         `json:"reasons"`
	Confidence  float64          `json:"confidence"`
	Factors     []FactorEvidence `json:"factors"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

// Snapshot returns the immutable subset embedded into transaction records.
func (ra *RiskAssessment) Snapshot() RiskSnapshot {
	reasons := make([]string, len(ra.Reasons))
	copy(reasons, ra.Reasons)

	return RiskSnapshot{
		Score:   ra.Score,
		Level:   ra.Level,
		Reasons: reasons,
	}
}
