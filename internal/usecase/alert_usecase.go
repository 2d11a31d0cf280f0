package usecase

import (
	"context"
	"time"

	"github.com/kioko/tappay/internal/domain"
)

// AlertUseCase serves the external triage collaborator: it reads alerts
// the engine persisted and advances their triage status. The engine never
// mutates triage state itself.
type AlertUseCase struct {
	alertRepo AlertRepository
}

// NewAlertUseCase creates a new AlertUseCase.
func NewAlertUseCase(alertRepo AlertRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo}
}

// GetAlert retrieves an alert by ID.
func (uc *AlertUseCase) GetAlert(ctx context.Context, id string) (*domain.FraudAlert, error) {
	return uc.alertRepo.GetByID(ctx, id)
}

// ListAlerts lists alerts, newest first.
func (uc *AlertUseCase) ListAlerts(ctx context.Context, limit, offset int) ([]*domain.FraudAlert, error) {
	return uc.alertRepo.List(ctx, clampLimit(limit), offset)
}

// ListAlertsByAccount lists alerts for one account, newest first.
func (uc *AlertUseCase) ListAlertsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FraudAlert, error) {
	return uc.alertRepo.ListByAccount(ctx, accountID, clampLimit(limit), offset)
}

// UpdateTriageStatus advances an alert's triage state (NEW -> REVIEWED ->
// RESOLVED). Backwards transitions are rejected.
func (uc *AlertUseCase) UpdateTriageStatus(ctx context.Context, id string, status domain.AlertStatus) (*domain.FraudAlert, error) {
	alert, err := uc.alertRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.ValidTriageTransition(alert.Status, status) {
		return nil, domain.ErrInvalidAlertTransition
	}

	now := time.Now().UTC()
	if err := uc.alertRepo.UpdateStatus(ctx, id, status, now); err != nil {
		return nil, err
	}

	alert.Status = status
	alert.UpdatedAt = now

	return alert, nil
}
