package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
	"github.com/kioko/tappay/internal/usecase/mocks"
)

func TestCreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateAccountInput
		wantErr error
		check   func(t *testing.T, acc *domain.Account)
	}{
		{
			name:  "valid",
			input: usecase.CreateAccountInput{Username: "Alice", OpeningBalance: decimal.NewFromInt(100)},
			check: func(t *testing.T, acc *domain.Account) {
				assert.Equal(t, "alice", acc.Username, "usernames are normalized to lowercase")
				assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
				assert.True(t, acc.Active)
				assert.NotEmpty(t, acc.ID)
			},
		},
		{
			name:  "zero opening balance",
			input: usecase.CreateAccountInput{Username: "bob"},
			check: func(t *testing.T, acc *domain.Account) {
				assert.True(t, acc.Balance.IsZero())
			},
		},
		{
			name:    "blank username",
			input:   usecase.CreateAccountInput{Username: "   "},
			wantErr: domain.ErrInvalidUsername,
		},
		{
			name:    "negative opening balance",
			input:   usecase.CreateAccountInput{Username: "carol", OpeningBalance: decimal.NewFromInt(-1)},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), mocks.NewMockIDGenerator())

			acc, err := uc.CreateAccount(context.Background(), tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, acc)
		})
	}
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), mocks.NewMockIDGenerator())

	_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Username: "alice"})
	require.NoError(t, err)

	_, err = uc.CreateAccount(context.Background(), usecase.CreateAccountInput{Username: "ALICE"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestGetAccount_NotFound(t *testing.T) {
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), mocks.NewMockIDGenerator())

	_, err := uc.GetAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestListAccounts_ClampsLimit(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	gotLimit := 0
	repo.ListFunc = func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
		gotLimit = limit
		return nil, nil
	}

	uc := usecase.NewAccountUseCase(repo, mocks.NewMockIDGenerator())

	_, err := uc.ListAccounts(context.Background(), 10_000, 0)
	require.NoError(t, err)
	assert.Equal(t, usecase.MaxPageSize, gotLimit)

	_, err = uc.ListAccounts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, usecase.DefaultPageSize, gotLimit)
}
