package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kioko/tappay/internal/domain"
)

// AlertRepository implements usecase.AlertRepository.
type AlertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository creates a new AlertRepository.
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

const alertColumns = `id, transaction_id, account_id, score, level, decision, reasons,
	confidence, evidence, status, created_at, updated_at`

// Create persists a fraud alert. Alerts are created outside the ledger
// transaction: a BLOCK has no ledger transaction at all, and a HIGH alert
// is written after the transfer already committed.
func (r *AlertRepository) Create(ctx context.Context, alert *domain.FraudAlert) error {
	evidence, err := json.Marshal(alert.Evidence)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO fraud_alerts (`+alertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		alert.ID,
		alert.TransactionID,
		alert.AccountID,
		alert.Score,
		string(alert.Level),
		string(alert.Decision),
		alert.Reasons,
		alert.Confidence,
		evidence,
		string(alert.Status),
		timeToPgTimestamptz(alert.CreatedAt),
		timeToPgTimestamptz(alert.UpdatedAt),
	)

	return err
}

// GetByID retrieves an alert by ID.
func (r *AlertRepository) GetByID(ctx context.Context, id string) (*domain.FraudAlert, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+alertColumns+` FROM fraud_alerts WHERE id = $1`, id)
	return scanAlert(row)
}

// List lists alerts, newest first.
func (r *AlertRepository) List(ctx context.Context, limit, offset int) ([]*domain.FraudAlert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM fraud_alerts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// ListByAccount lists alerts for one account, newest first.
func (r *AlertRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FraudAlert, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+alertColumns+`
		FROM fraud_alerts
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAlerts(rows)
}

// UpdateStatus sets the triage status of an alert.
func (r *AlertRepository) UpdateStatus(ctx context.Context, id string, status domain.AlertStatus, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE fraud_alerts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlertNotFound
	}

	return nil
}

func collectAlerts(rows pgx.Rows) ([]*domain.FraudAlert, error) {
	var alerts []*domain.FraudAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

func scanAlert(row pgx.Row) (*domain.FraudAlert, error) {
	var (
		alert     domain.FraudAlert
		level     string
		decision  string
		status    string
		evidence  []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&alert.ID,
		&alert.TransactionID,
		&alert.AccountID,
		&alert.Score,
		&level,
		&decision,
		&alert.Reasons,
		&alert.Confidence,
		&evidence,
		&status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlertNotFound
		}
		return nil, err
	}

	if len(evidence) > 0 {
		if err := json.Unmarshal(evidence, &alert.Evidence); err != nil {
			return nil, err
		}
	}

	alert.Level = domain.RiskLevel(level)
	alert.Decision = domain.Decision(decision)
	alert.Status = domain.AlertStatus(status)
	alert.CreatedAt = createdAt.Time
	alert.UpdatedAt = updatedAt.Time

	return &alert, nil
}
