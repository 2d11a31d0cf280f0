package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/risk"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	// GetByIDsForUpdate locks the given accounts for the duration of tx.
	// Callers must pass ids in sorted order to avoid lock cycles.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	// DebitIf atomically decrements balance only when balance >= amount,
	// returning whether the debit applied. This is the commit-time recheck
	// that keeps concurrent transfers from driving a balance negative.
	DebitIf(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (bool, error)
	Credit(ctx context.Context, tx Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for committed transactions.
// It also serves the risk calculators' history queries.
type TransactionRepository interface {
	risk.History

	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// AlertRepository defines data access for fraud alerts.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.FraudAlert) error
	GetByID(ctx context.Context, id string) (*domain.FraudAlert, error)
	List(ctx context.Context, limit, offset int) ([]*domain.FraudAlert, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FraudAlert, error)
	UpdateStatus(ctx context.Context, id string, status domain.AlertStatus, updatedAt time.Time) error
}

// LedgerRepository defines ledger-wide read operations.
type LedgerRepository interface {
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

// RiskAssessor scores a transfer against persisted history.
type RiskAssessor interface {
	Assess(ctx context.Context, in risk.Input) (*domain.RiskAssessment, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// EventPublisher delivers events to the external notification sink.
// Delivery is fire-and-forget: callers log and drop failures.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder records business metrics. A nil recorder disables
// recording.
type MetricsRecorder interface {
	RecordTransfer(decision string, amount float64, seconds float64)
	RecordAssessment(score float64, level string)
	RecordTransferError(errType string)
	RecordAlert(level string)
	RecordAccountCreated()
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Delete releases a claimed key so a failed attempt can be retried.
	Delete(ctx context.Context, key string) error
}
