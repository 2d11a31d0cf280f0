package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Balance:   a.Balance,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// RiskSnapshotResponse is the risk summary frozen onto a transaction.
type RiskSnapshotResponse struct {
	Score   float64  `json:"score"`
	Level   string   `json:"level"`
	Reasons []string `json:"reasons"`
}

// TransactionResponse represents a committed transaction in API responses.
type TransactionResponse struct {
	ID          string               `json:"id"`
	SenderID    string               `json:"sender_id"`
	ReceiverID  string               `json:"receiver_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Description string               `json:"description,omitempty"`
	DeviceTag   string               `json:"device_tag,omitempty"`
	Status      string               `json:"status"`
	Risk        RiskSnapshotResponse `json:"risk"`
	CreatedAt   time.Time            `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		SenderID:    t.SenderID,
		ReceiverID:  t.ReceiverID,
		Amount:      t.Amount,
		Description: t.Description,
		DeviceTag:   t.DeviceTag,
		Status:      string(t.Status),
		Risk: RiskSnapshotResponse{
			Score:   t.Risk.Score,
			Level:   string(t.Risk.Level),
			Reasons: t.Risk.Reasons,
		},
		CreatedAt: t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// FactorEvidenceResponse is one factor's contribution to an assessment.
type FactorEvidenceResponse struct {
	Name     string         `json:"name"`
	SubScore float64        `json:"sub_score"`
	Weight   float64        `json:"weight"`
	Details  map[string]any `json:"details,omitempty"`
}

// RiskAssessmentResponse represents a full risk assessment.
type RiskAssessmentResponse struct {
	Score       float64                  `json:"score"`
	Level       string                   `json:"level"`
	Decision    string                   `json:"decision"`
	Reasons     []string                 `json:"reasons"`
	Confidence  float64                  `json:"confidence"`
	Factors     []FactorEvidenceResponse `json:"factors,omitempty"`
	EvaluatedAt time.Time                `json:"evaluated_at"`
}

// AssessmentFromDomain converts a domain assessment to a response.
func AssessmentFromDomain(a *domain.RiskAssessment) *RiskAssessmentResponse {
	factors := make([]FactorEvidenceResponse, len(a.Factors))
	for i, f := range a.Factors {
		factors[i] = FactorEvidenceResponse{
			Name:     f.Name,
			SubScore: f.SubScore,
			Weight:   f.Weight,
			Details:  f.Details,
		}
	}

	return &RiskAssessmentResponse{
		Score:       a.Score,
		Level:       string(a.Level),
		Decision:    string(a.Decision),
		Reasons:     a.Reasons,
		Confidence:  a.Confidence,
		Factors:     factors,
		EvaluatedAt: a.EvaluatedAt,
	}
}

// TransferResultResponse is returned on a committed transfer.
type TransferResultResponse struct {
	Transaction     *TransactionResponse    `json:"transaction"`
	Assessment      *RiskAssessmentResponse `json:"assessment"`
	SenderBalance   decimal.Decimal         `json:"sender_balance"`
	ReceiverBalance decimal.Decimal         `json:"receiver_balance"`
}

// TransferResultFromUseCase converts a use case result to a response.
func TransferResultFromUseCase(res *usecase.TransferResult) *TransferResultResponse {
	return &TransferResultResponse{
		Transaction:     TransactionFromDomain(res.Transaction),
		Assessment:      AssessmentFromDomain(res.Assessment),
		SenderBalance:   res.SenderBalance,
		ReceiverBalance: res.ReceiverBalance,
	}
}

// BlockedResponse is returned when a transfer is rejected by fraud
// detection. It carries the full assessment so the caller can see why.
type BlockedResponse struct {
	Error      string                  `json:"error"`
	Assessment *RiskAssessmentResponse `json:"assessment"`
}

// AlertResponse represents a fraud alert in API responses.
type AlertResponse struct {
	ID            string                   `json:"id"`
	TransactionID *string                  `json:"transaction_id,omitempty"`
	AccountID     string                   `json:"account_id"`
	Score         float64                  `json:"score"`
	Level         string                   `json:"level"`
	Decision      string                   `json:"decision"`
	Reasons       []string                 `json:"reasons"`
	Confidence    float64                  `json:"confidence"`
	Evidence      []FactorEvidenceResponse `json:"evidence,omitempty"`
	Status        string                   `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// AlertFromDomain converts a domain alert to a response.
func AlertFromDomain(a *domain.FraudAlert) *AlertResponse {
	evidence := make([]FactorEvidenceResponse, len(a.Evidence))
	for i, f := range a.Evidence {
		evidence[i] = FactorEvidenceResponse{
			Name:     f.Name,
			SubScore: f.SubScore,
			Weight:   f.Weight,
			Details:  f.Details,
		}
	}

	return &AlertResponse{
		ID:            a.ID,
		TransactionID: a.TransactionID,
		AccountID:     a.AccountID,
		Score:         a.Score,
		Level:         string(a.Level),
		Decision:      string(a.Decision),
		Reasons:       a.Reasons,
		Confidence:    a.Confidence,
		Evidence:      evidence,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// AlertsFromDomain converts domain alerts to responses.
func AlertsFromDomain(alerts []*domain.FraudAlert) []*AlertResponse {
	result := make([]*AlertResponse, len(alerts))
	for i, a := range alerts {
		result[i] = AlertFromDomain(a)
	}
	return result
}

// ConsistencyResponse is the result of a ledger conservation check.
type ConsistencyResponse struct {
	TotalBalance  decimal.Decimal `json:"total_balance"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	Consistent    bool            `json:"consistent"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
