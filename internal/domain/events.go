package domain

// Event kinds published to the notification sink.
const (
	EventKindNewTransaction = "new-transaction"
	EventKindFraudAlert     = "fraud-alert"
	EventKindBalanceUpdate  = "balance-update"
)

// Event is a fire-and-forget message for the external notification sink.
// Delivery semantics are the sink's problem; a publish failure never
// unwinds a committed transfer.
type Event struct {
	Kind    string         `json:"kind"`
	Channel string         `json:"-"`
	Payload map[string]any `json:"payload"`
}

// NewTransactionEvent builds the commit event published on the firehose channel.
func NewTransactionEvent(tx *Transaction, assessment *RiskAssessment) Event {
	return Event{
		Kind:    EventKindNewTransaction,
		Channel: "transactions",
		Payload: map[string]any{
			"transaction_id": tx.ID,
			"sender_id":      tx.SenderID,
			"receiver_id":    tx.ReceiverID,
			"amount":         tx.Amount.String(),
			"risk_score":     assessment.Score,
			"risk_level":     string(assessment.Level),
			"decision":       string(assessment.Decision),
		},
	}
}

// BalanceUpdateEvent builds the per-participant balance event.
func BalanceUpdateEvent(accountID, balance string) Event {
	return Event{
		Kind:    EventKindBalanceUpdate,
		Channel: "account:" + accountID,
		Payload: map[string]any{
			"account_id": accountID,
			"balance":    balance,
		},
	}
}

// FraudAlertEvent builds the event published when a transfer is blocked.
func FraudAlertEvent(alert *FraudAlert) Event {
	return Event{
		Kind:    EventKindFraudAlert,
		Channel: "alerts",
		Payload: map[string]any{
			"alert_id":   alert.ID,
			"account_id": alert.AccountID,
			"score":      alert.Score,
			"level":      string(alert.Level),
			"decision":   string(alert.Decision),
			"reasons":    alert.Reasons,
		},
	}
}
