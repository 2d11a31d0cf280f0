package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle status of a transaction record.
// The engine only ever creates completed transactions; blocked transfers
// produce no transaction at all.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "COMPLETED"
)

// Transaction represents a committed transfer between two accounts.
// It is created exactly once and never mutated afterwards; the risk
// snapshot is frozen at commit time.
type Transaction struct {
	ID          string
	SenderID    string
	ReceiverID  string
	Amount      decimal.Decimal
	Description string
	DeviceTag   string
	Status      TransactionStatus
	Risk        RiskSnapshot
	CreatedAt   time.Time
}

// RiskSnapshot is the immutable risk summary embedded into a transaction
// or alert at the moment the decision was made.
type RiskSnapshot struct {
	Score   float64   `json:"score"`
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// Validate validates the transfer fields that do not require store access.
func (t *Transaction) Validate() error {
	if t.SenderID == t.ReceiverID {
		return ErrSameAccount
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	return nil
}
