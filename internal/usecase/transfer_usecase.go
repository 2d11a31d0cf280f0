package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/risk"
)

// TransferUseCase executes tap transfers: it validates preconditions,
// scores the transfer against history, gates commit on the decision and
// applies the ledger mutation atomically.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	txRepo      TransactionRepository
	alertRepo   AlertRepository
	assessor    RiskAssessor
	publisher   EventPublisher
	retrier     Retrier
	idGen       IDGenerator
	logger      zerolog.Logger
	metrics     MetricsRecorder
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	txRepo TransactionRepository,
	alertRepo AlertRepository,
	assessor RiskAssessor,
	publisher EventPublisher,
	retrier Retrier,
	idGen IDGenerator,
	logger zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txRepo:      txRepo,
		alertRepo:   alertRepo,
		assessor:    assessor,
		publisher:   publisher,
		retrier:     retrier,
		idGen:       idGen,
		logger:      logger,
	}
}

// WithMetrics attaches a business metrics recorder.
func (uc *TransferUseCase) WithMetrics(m MetricsRecorder) *TransferUseCase {
	uc.metrics = m
	return uc
}

// TransferInput represents a tap transfer request. SenderID comes from the
// authenticated caller context, never from the request body. Exactly one of
// ReceiverID and ReceiverUsername must resolve to an existing account.
type TransferInput struct {
	SenderID         string
	ReceiverID       string
	ReceiverUsername string
	Amount           decimal.Decimal
	Description      string
	DeviceTag        string
}

// TransferResult is returned to the caller on a committed transfer.
type TransferResult struct {
	Transaction     *domain.Transaction
	Assessment      *domain.RiskAssessment
	SenderBalance   decimal.Decimal
	ReceiverBalance decimal.Decimal
}

// Transfer runs the full transfer state machine. A BLOCK decision persists
// an alert and returns *domain.BlockedError without touching balances; an
// ALLOW/REVIEW decision commits the ledger mutation and the transaction
// record as one unit.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	// VALIDATING
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidAmount
	}

	sender, err := uc.accountRepo.GetByID(ctx, input.SenderID)
	if err != nil {
		return nil, err
	}

	receiver, err := uc.resolveReceiver(ctx, input)
	if err != nil {
		return nil, err
	}

	if sender.ID == receiver.ID {
		return nil, domain.ErrSameAccount
	}

	// Pre-check only; the decisive balance check is the conditional debit
	// at commit time.
	if err := sender.CanSend(input.Amount); err != nil {
		return nil, err
	}

	// SCORING
	started := time.Now()
	now := started.UTC()
	assessment, err := uc.assessor.Assess(ctx, risk.Input{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Amount:     input.Amount,
		Timestamp:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("risk assessment: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordAssessment(assessment.Score, string(assessment.Level))
	}

	if assessment.Decision == domain.DecisionBlock {
		if uc.metrics != nil {
			amount, _ := input.Amount.Float64()
			uc.metrics.RecordTransfer(string(domain.DecisionBlock), amount, time.Since(started).Seconds())
		}
		return nil, uc.block(ctx, sender.ID, assessment, now)
	}

	// COMMITTING
	result, err := uc.commit(ctx, sender, receiver, input, assessment, now)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.RecordTransferError("commit")
		}
		return nil, err
	}

	if uc.metrics != nil {
		amount, _ := input.Amount.Float64()
		uc.metrics.RecordTransfer(string(assessment.Decision), amount, time.Since(started).Seconds())
	}

	// The alert is bookkeeping on an already-committed transfer; a failure
	// here is logged, not surfaced.
	if assessment.Level == domain.RiskLevelHigh {
		alert := uc.buildAlert(sender.ID, assessment, now)
		alert.TransactionID = &result.Transaction.ID

		if err := uc.alertRepo.Create(ctx, alert); err != nil {
			uc.logger.Error().Err(err).
				Str("transaction_id", result.Transaction.ID).
				Msg("failed to persist high-risk alert")
		} else if uc.metrics != nil {
			uc.metrics.RecordAlert(string(alert.Level))
		}
	}

	uc.publish(ctx, domain.NewTransactionEvent(result.Transaction, assessment))
	uc.publish(ctx, domain.BalanceUpdateEvent(sender.ID, result.SenderBalance.String()))
	uc.publish(ctx, domain.BalanceUpdateEvent(receiver.ID, result.ReceiverBalance.String()))

	return result, nil
}

func (uc *TransferUseCase) resolveReceiver(ctx context.Context, input TransferInput) (*domain.Account, error) {
	if input.ReceiverID != "" {
		receiver, err := uc.accountRepo.GetByID(ctx, input.ReceiverID)
		if err != nil {
			return nil, domain.ErrReceiverNotFound
		}
		return receiver, nil
	}

	if input.ReceiverUsername != "" {
		receiver, err := uc.accountRepo.GetByUsername(ctx, input.ReceiverUsername)
		if err != nil {
			return nil, domain.ErrReceiverNotFound
		}
		return receiver, nil
	}

	return nil, domain.ErrReceiverNotFound
}

// block persists the alert that is the only durable record of the block.
// If that write fails the request fails; a blocked transfer must never
// slip through unlogged.
func (uc *TransferUseCase) block(ctx context.Context, senderID string, assessment *domain.RiskAssessment, now time.Time) error {
	alert := uc.buildAlert(senderID, assessment, now)

	if err := uc.alertRepo.Create(ctx, alert); err != nil {
		return fmt.Errorf("persisting block alert: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordAlert(string(alert.Level))
	}

	uc.publish(ctx, domain.FraudAlertEvent(alert))

	return &domain.BlockedError{Assessment: assessment}
}

func (uc *TransferUseCase) buildAlert(accountID string, assessment *domain.RiskAssessment, now time.Time) *domain.FraudAlert {
	return &domain.FraudAlert{
		ID:         uc.idGen.Generate(),
		AccountID:  accountID,
		Score:      assessment.Score,
		Level:      assessment.Level,
		Decision:   assessment.Decision,
		Reasons:    assessment.Reasons,
		Confidence: assessment.Confidence,
		Evidence:   assessment.Factors,
		Status:     domain.AlertStatusNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// commit applies the ledger mutation and inserts the transaction record as
// one indivisible unit, retrying on transient store conflicts.
func (uc *TransferUseCase) commit(
	ctx context.Context,
	sender, receiver *domain.Account,
	input TransferInput,
	assessment *domain.RiskAssessment,
	now time.Time,
) (*TransferResult, error) {
	var result *TransferResult

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		// Lock both accounts in sorted order to avoid lock cycles with
		// transfers running in the opposite direction.
		ids := []string{sender.ID, receiver.ID}
		sort.Strings(ids)

		accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return err
		}
		if len(accounts) != 2 {
			return domain.ErrAccountNotFound
		}

		locked := make(map[string]*domain.Account, 2)
		for _, a := range accounts {
			locked[a.ID] = a
		}

		lockedSender := locked[sender.ID]
		if lockedSender == nil {
			return domain.ErrAccountNotFound
		}
		if err := lockedSender.CanSend(input.Amount); err != nil {
			return err
		}

		ok, err := uc.accountRepo.DebitIf(ctx, tx, sender.ID, input.Amount, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrInsufficientBalance
		}

		if err := uc.accountRepo.Credit(ctx, tx, receiver.ID, input.Amount, now); err != nil {
			return err
		}

		txn := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			SenderID:    sender.ID,
			ReceiverID:  receiver.ID,
			Amount:      input.Amount,
			Description: input.Description,
			DeviceTag:   input.DeviceTag,
			Status:      domain.TransactionCompleted,
			Risk:        assessment.Snapshot(),
			CreatedAt:   now,
		}

		if err := txn.Validate(); err != nil {
			return err
		}

		if err := uc.txRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = &TransferResult{
			Transaction:     txn,
			Assessment:      assessment,
			SenderBalance:   lockedSender.Balance.Sub(input.Amount),
			ReceiverBalance: locked[receiver.ID].Balance.Add(input.Amount),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *TransferUseCase) publish(ctx context.Context, event domain.Event) {
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("kind", event.Kind).Msg("event publish failed, dropping")
	}
}

// GetTransaction retrieves a committed transaction by ID.
func (uc *TransferUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactionsByAccount lists committed transactions touching an account.
func (uc *TransferUseCase) ListTransactionsByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	limit = clampLimit(limit)
	return uc.txRepo.ListByAccount(ctx, accountID, limit, offset)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
