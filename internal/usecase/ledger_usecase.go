package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo}
}

// ConsistencyReport is the result of a conservation check.
type ConsistencyReport struct {
	TotalBalance decimal.Decimal
	Consistent   bool
}

// CheckConsistency verifies transfers conserve money: the sum of all
// balances must equal the expected total seeded into the system.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, expectedTotal decimal.Decimal) (*ConsistencyReport, error) {
	total, err := uc.ledgerRepo.TotalBalance(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		TotalBalance: total,
		Consistent:   total.Equal(expectedTotal),
	}, nil
}
