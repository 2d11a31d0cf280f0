package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kioko/tappay/internal/adapter/http/dto"
)

// AlertHandler serves the fraud alert triage API.
type AlertHandler struct {
	alertUC AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertUC AlertService) *AlertHandler {
	return &AlertHandler{alertUC: alertUC}
}

// List lists alerts, newest first.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	alerts, err := h.alertUC.ListAlerts(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AlertsFromDomain(alerts))
}

// Get retrieves an alert by ID.
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing alert ID", "")
		return
	}

	alert, err := h.alertUC.GetAlert(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get alert", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AlertFromDomain(alert))
}

// ListByAccount lists alerts for one account.
func (h *AlertHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	alerts, err := h.alertUC.ListAlertsByAccount(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AlertsFromDomain(alerts))
}

// UpdateStatus advances an alert's triage status.
func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing alert ID", "")
		return
	}

	var req dto.UpdateAlertStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	status, ok := req.ToStatus()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status", req.Status)
		return
	}

	alert, err := h.alertUC.UpdateTriageStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update alert", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AlertFromDomain(alert))
}
