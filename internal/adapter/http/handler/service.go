package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
)

// Service interfaces consumed by the handlers. The concrete use cases
// satisfy them; tests substitute stubs.

// TransferService executes and reads transfers.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// AccountService manages accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// AlertService reads and triages fraud alerts.
type AlertService interface {
	GetAlert(ctx context.Context, id string) (*domain.FraudAlert, error)
	ListAlerts(ctx context.Context, limit, offset int) ([]*domain.FraudAlert, error)
	ListAlertsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FraudAlert, error)
	UpdateTriageStatus(ctx context.Context, id string, status domain.AlertStatus) (*domain.FraudAlert, error)
}

// LedgerService runs ledger-wide checks.
type LedgerService interface {
	CheckConsistency(ctx context.Context, expectedTotal decimal.Decimal) (*usecase.ConsistencyReport, error)
}
