package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/adapter/http/dto"
)

// LedgerHandler serves ledger-wide operational endpoints.
type LedgerHandler struct {
	ledgerUC      LedgerService
	expectedTotal decimal.Decimal
	hasExpected   bool
}

// NewLedgerHandler creates a new LedgerHandler. expectedTotal is the
// configured sum of all seeded opening balances; empty disables the
// configured default and requires the caller to pass one.
func NewLedgerHandler(ledgerUC LedgerService, expectedTotal string) *LedgerHandler {
	h := &LedgerHandler{ledgerUC: ledgerUC}
	if expectedTotal != "" {
		if d, err := decimal.NewFromString(expectedTotal); err == nil {
			h.expectedTotal = d
			h.hasExpected = true
		}
	}
	return h
}

// CheckConsistency verifies that transfers conserved money. The expected
// total comes from the query string, falling back to configuration.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	expected := h.expectedTotal
	hasExpected := h.hasExpected

	if raw := r.URL.Query().Get("expected_total"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expected_total", err.Error())
			return
		}
		expected = d
		hasExpected = true
	}

	if !hasExpected {
		writeError(w, http.StatusBadRequest, "expected_total required", "no configured default")
		return
	}

	report, err := h.ledgerUC.CheckConsistency(r.Context(), expected)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "consistency check failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyResponse{
		TotalBalance:  report.TotalBalance,
		ExpectedTotal: expected,
		Consistent:    report.Consistent,
	})
}
