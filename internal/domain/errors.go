package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrReceiverNotFound    = errors.New("receiver not found")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidUsername     = errors.New("invalid username")

	// Transfer errors
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Alert errors
	ErrAlertNotFound          = errors.New("alert not found")
	ErrInvalidAlertTransition = errors.New("invalid alert status transition")
)

// BlockedError is returned when a transfer is blocked by the risk engine.
// It is a deliberate business outcome, not a system failure, and carries
// the full assessment so the caller can display why.
type BlockedError struct {
	Assessment *RiskAssessment
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("transfer blocked by fraud detection (score %.1f)", e.Assessment.Score)
}

// ErrTransferBlocked reports whether err is a fraud block and, if so,
// returns the assessment attached to it.
func ErrTransferBlocked(err error) (*RiskAssessment, bool) {
	var be *BlockedError
	if errors.As(err, &be) {
		return be.Assessment, true
	}
	return nil, false
}
