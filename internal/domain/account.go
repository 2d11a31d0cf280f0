package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a party that can send and receive tap transfers.
type Account struct {
	ID        string
	Username  string
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanSend checks whether the account may initiate a transfer of amount.
func (a *Account) CanSend(amount decimal.Decimal) error {
	if !a.Active {
		return ErrAccountInactive
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}
