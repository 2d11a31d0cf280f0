package domain

import "time"

// AlertStatus is the triage state of a fraud alert. It is mutated only by
// the external triage collaborator, never by the engine.
type AlertStatus string

const (
	AlertStatusNew      AlertStatus = "NEW"
	AlertStatusReviewed AlertStatus = "REVIEWED"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

// FraudAlert is the durable record of a suspicious or blocked transfer.
// TransactionID is nil when the decision was BLOCK, since no transaction
// exists in that case; HIGH-level alerts always reference the committed
// transaction that triggered them.
type FraudAlert struct {
	ID            string
	TransactionID *string
	AccountID     string
	Score         float64
	Level         RiskLevel
	Decision      Decision
	Reasons       []string
	Confidence    float64
	Evidence      []FactorEvidence
	Status        AlertStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidTriageTransition reports whether a triage status change is allowed.
func ValidTriageTransition(from, to AlertStatus) bool {
	switch from {
	case AlertStatusNew:
		return to == AlertStatusReviewed || to == AlertStatusResolved
	case AlertStatusReviewed:
		return to == AlertStatusResolved
	default:
		return false
	}
}
