package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
	"github.com/kioko/tappay/internal/usecase/mocks"
)

func seedAlert(repo *mocks.MockAlertRepository, id, accountID string, status domain.AlertStatus) {
	now := time.Now().UTC()
	_ = repo.Create(context.Background(), &domain.FraudAlert{
		ID:        id,
		AccountID: accountID,
		Score:     85,
		Level:     domain.RiskLevelCritical,
		Decision:  domain.DecisionBlock,
		Reasons:   []string{"velocity"},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func TestUpdateTriageStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AlertStatus
		to      domain.AlertStatus
		wantErr error
	}{
		{name: "new to reviewed", from: domain.AlertStatusNew, to: domain.AlertStatusReviewed},
		{name: "new to resolved", from: domain.AlertStatusNew, to: domain.AlertStatusResolved},
		{name: "reviewed to resolved", from: domain.AlertStatusReviewed, to: domain.AlertStatusResolved},
		{name: "reviewed back to new", from: domain.AlertStatusReviewed, to: domain.AlertStatusNew, wantErr: domain.ErrInvalidAlertTransition},
		{name: "resolved is terminal", from: domain.AlertStatusResolved, to: domain.AlertStatusReviewed, wantErr: domain.ErrInvalidAlertTransition},
		{name: "no-op transition", from: domain.AlertStatusNew, to: domain.AlertStatusNew, wantErr: domain.ErrInvalidAlertTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAlertRepository()
			seedAlert(repo, "a1", "alice", tt.from)
			uc := usecase.NewAlertUseCase(repo)

			alert, err := uc.UpdateTriageStatus(context.Background(), "a1", tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, getErr := repo.GetByID(context.Background(), "a1")
				require.NoError(t, getErr)
				assert.Equal(t, tt.from, stored.Status, "rejected transition must not mutate the alert")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, alert.Status)
		})
	}
}

func TestUpdateTriageStatus_NotFound(t *testing.T) {
	uc := usecase.NewAlertUseCase(mocks.NewMockAlertRepository())

	_, err := uc.UpdateTriageStatus(context.Background(), "missing", domain.AlertStatusReviewed)
	assert.ErrorIs(t, err, domain.ErrAlertNotFound)
}

func TestListAlertsByAccount(t *testing.T) {
	repo := mocks.NewMockAlertRepository()
	seedAlert(repo, "a1", "alice", domain.AlertStatusNew)
	seedAlert(repo, "a2", "bob", domain.AlertStatusNew)
	seedAlert(repo, "a3", "alice", domain.AlertStatusNew)

	uc := usecase.NewAlertUseCase(repo)

	alerts, err := uc.ListAlertsByAccount(context.Background(), "alice", 10, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "a3", alerts[0].ID, "newest first")
	assert.Equal(t, "a1", alerts[1].ID)
}
