package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Username       string          `json:"username"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Username:       r.Username,
		OpeningBalance: r.OpeningBalance,
	}
}

// CreateTransferRequest represents a tap transfer request. The sender is
// the authenticated account and never part of the body; the receiver can
// be addressed by ID or by username.
type CreateTransferRequest struct {
	ReceiverID       string          `json:"receiver_id,omitempty"`
	ReceiverUsername string          `json:"receiver_username,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description,omitempty"`
	DeviceTag        string          `json:"device_tag,omitempty"`
}

// ToUseCaseInput converts to use case input for the given sender.
func (r *CreateTransferRequest) ToUseCaseInput(senderID string) usecase.TransferInput {
	return usecase.TransferInput{
		SenderID:         senderID,
		ReceiverID:       r.ReceiverID,
		ReceiverUsername: r.ReceiverUsername,
		Amount:           r.Amount,
		Description:      r.Description,
		DeviceTag:        r.DeviceTag,
	}
}

// UpdateAlertStatusRequest advances an alert's triage status.
type UpdateAlertStatusRequest struct {
	Status string `json:"status"`
}

// ToStatus converts the raw status to the domain type.
func (r *UpdateAlertStatusRequest) ToStatus() (domain.AlertStatus, bool) {
	switch domain.AlertStatus(r.Status) {
	case domain.AlertStatusNew, domain.AlertStatusReviewed, domain.AlertStatusResolved:
		return domain.AlertStatus(r.Status), true
	default:
		return "", false
	}
}
