package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/adapter/http/dto"
	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
)

type accountServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	getFn    func(ctx context.Context, id string) (*domain.Account, error)
	listFn   func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func (s *accountServiceStub) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
	return s.createFn(ctx, input)
}

func (s *accountServiceStub) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.getFn(ctx, id)
}

func (s *accountServiceStub) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	return s.listFn(ctx, limit, offset)
}

func TestAccountHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateAccountInput
	h := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			captured = input
			return &domain.Account{ID: "acc-1", Username: "alice", Balance: input.OpeningBalance, Active: true}, nil
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Username: "alice", OpeningBalance: decimal.NewFromInt(100)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.Username != "alice" || !captured.OpeningBalance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected input: %+v", captured)
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "acc-1" || !resp.Active {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAccountHandler_Create_DuplicateUsername(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error) {
			return nil, domain.ErrUsernameTaken
		},
	})

	body, _ := json.Marshal(dto.CreateAccountRequest{Username: "alice"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAccountHandler_Get(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Account, error) {
			if id != "acc-1" {
				return nil, domain.ErrAccountNotFound
			}
			return &domain.Account{ID: "acc-1", Username: "alice"}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/acc-1", nil), "id", "acc-1")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/accounts/nope", nil), "id", "nope")
	rec = httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandler_List_PassesPagination(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{
		listFn: func(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
			if limit != 5 || offset != 10 {
				t.Fatalf("unexpected pagination: %d %d", limit, offset)
			}
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?limit=5&offset=10", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
