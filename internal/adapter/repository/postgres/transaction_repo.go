package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/risk"
	"github.com/kioko/tappay/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository. Besides
// the record CRUD it answers the history queries the risk calculators run
// on every transfer, so those queries must stay cheap: they are all served
// by the (sender_id, created_at) index.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, sender_id, receiver_id, amount, description, device_tag, status,
	risk_score, risk_level, risk_reasons, created_at`

// Create inserts a transaction record inside the commit transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, `
		INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		txn.ID,
		txn.SenderID,
		txn.ReceiverID,
		decimalToNumeric(txn.Amount),
		txn.Description,
		txn.DeviceTag,
		string(txn.Status),
		txn.Risk.Score,
		string(txn.Risk.Level),
		txn.Risk.Reasons,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

// ListByAccount lists transactions where the account is sender or receiver,
// newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		accountID, int32(limit), int32(offset),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

// CountSince counts transfers sent by an account since a point in time.
func (r *TransactionRepository) CountSince(ctx context.Context, senderID string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE sender_id = $1 AND created_at >= $2`,
		senderID, timeToPgTimestamptz(since),
	).Scan(&count)

	return count, err
}

// RecentTransfers returns the most recent transfers sent by an account,
// newest first.
func (r *TransactionRepository) RecentTransfers(ctx context.Context, senderID string, limit int) ([]risk.TransferStat, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT amount, created_at
		FROM transactions
		WHERE sender_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		senderID, int32(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []risk.TransferStat
	for rows.Next() {
		var (
			amount    pgtype.Numeric
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&amount, &createdAt); err != nil {
			return nil, err
		}
		stats = append(stats, risk.TransferStat{
			Amount:    numericToDecimal(amount),
			CreatedAt: createdAt.Time,
		})
	}

	return stats, rows.Err()
}

// DailyCounts returns per-day transfer counts for the last `days` UTC days,
// oldest day first and today last. Days with no transfers appear as zero.
func (r *TransactionRepository) DailyCounts(ctx context.Context, senderID string, days int) ([]int, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(days - 1))

	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC'), COUNT(*)
		FROM transactions
		WHERE sender_id = $1 AND created_at >= $2
		GROUP BY 1`,
		senderID, timeToPgTimestamptz(since),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byDay := make(map[time.Time]int)
	for rows.Next() {
		var (
			day   time.Time
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		byDay[day.UTC()] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make([]int, days)
	for i := range counts {
		counts[i] = byDay[since.AddDate(0, 0, i)]
	}

	return counts, nil
}

// HourlyCounts returns the sender's transfer counts bucketed by UTC hour of
// day over the whole history.
func (r *TransactionRepository) HourlyCounts(ctx context.Context, senderID string) (map[int]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE 'UTC')::int, COUNT(*)
		FROM transactions
		WHERE sender_id = $1
		GROUP BY 1`,
		senderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return nil, err
		}
		counts[hour] = count
	}

	return counts, rows.Err()
}

// HasPriorTransfer reports whether the sender has ever paid this receiver.
func (r *TransactionRepository) HasPriorTransfer(ctx context.Context, senderID, receiverID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions WHERE sender_id = $1 AND receiver_id = $2
		)`,
		senderID, receiverID,
	).Scan(&exists)

	return exists, err
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		amount    pgtype.Numeric
		status    string
		level     string
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.SenderID,
		&txn.ReceiverID,
		&amount,
		&txn.Description,
		&txn.DeviceTag,
		&status,
		&txn.Risk.Score,
		&level,
		&txn.Risk.Reasons,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	txn.Amount = numericToDecimal(amount)
	txn.Status = domain.TransactionStatus(status)
	txn.Risk.Level = domain.RiskLevel(level)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
