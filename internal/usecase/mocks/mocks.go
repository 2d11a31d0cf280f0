package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kioko/tappay/internal/domain"
	"github.com/kioko/tappay/internal/risk"
	"github.com/kioko/tappay/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByUsernameFunc     func(ctx context.Context, username string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	DebitIfFunc           func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (bool, error)
	CreditFunc            func(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly, bypassing any Func override.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// Balance returns the current balance of a seeded account.
func (m *MockAccountRepository) Balance(id string) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		return acc.Balance
	}
	return decimal.Zero
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Username == account.Username {
			return domain.ErrUsernameTaken
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Username == username {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var accounts []*domain.Account
	for _, id := range ids {
		if acc, ok := m.accounts[id]; ok {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) DebitIf(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) (bool, error) {
	if m.DebitIfFunc != nil {
		return m.DebitIfFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return false, domain.ErrAccountNotFound
	}
	if acc.Balance.LessThan(amount) {
		return false, nil
	}
	acc.Balance = acc.Balance.Sub(amount)
	acc.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockAccountRepository) Credit(ctx context.Context, tx usecase.Transaction, id string, amount decimal.Decimal, updatedAt time.Time) error {
	if m.CreditFunc != nil {
		return m.CreditFunc(ctx, tx, id, amount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = acc.Balance.Add(amount)
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.accounts))
	for id := range m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var out []*domain.Account
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		copied := *m.accounts[id]
		out = append(out, &copied)
	}
	return out, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
// History queries are computed from the stored transactions.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions []*domain.Transaction

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	HasPriorTransferFunc func(ctx context.Context, senderID, receiverID string) (bool, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Seed(txn *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = append(m.transactions, txn)
}

func (m *MockTransactionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.transactions)
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.Seed(txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Transaction
	for i := len(m.transactions) - 1; i >= 0; i-- {
		txn := m.transactions[i]
		if txn.SenderID != accountID && txn.ReceiverID != accountID {
			continue
		}
		if offset > 0 {
			offset--
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, txn)
	}
	return out, nil
}

func (m *MockTransactionRepository) CountSince(ctx context.Context, senderID string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, txn := range m.transactions {
		if txn.SenderID == senderID && !txn.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockTransactionRepository) RecentTransfers(ctx context.Context, senderID string, limit int) ([]risk.TransferStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []risk.TransferStat
	for i := len(m.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		txn := m.transactions[i]
		if txn.SenderID == senderID {
			out = append(out, risk.TransferStat{Amount: txn.Amount, CreatedAt: txn.CreatedAt})
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) DailyCounts(ctx context.Context, senderID string, days int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make([]int, days)
	now := time.Now().UTC()
	for _, txn := range m.transactions {
		if txn.SenderID != senderID {
			continue
		}
		age := int(now.Sub(txn.CreatedAt).Hours() / 24)
		if age >= 0 && age < days {
			counts[days-1-age]++
		}
	}
	return counts, nil
}

func (m *MockTransactionRepository) HourlyCounts(ctx context.Context, senderID string) (map[int]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int]int)
	for _, txn := range m.transactions {
		if txn.SenderID == senderID {
			counts[txn.CreatedAt.Hour()]++
		}
	}
	return counts, nil
}

func (m *MockTransactionRepository) HasPriorTransfer(ctx context.Context, senderID, receiverID string) (bool, error) {
	if m.HasPriorTransferFunc != nil {
		return m.HasPriorTransferFunc(ctx, senderID, receiverID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, txn := range m.transactions {
		if txn.SenderID == senderID && txn.ReceiverID == receiverID {
			return true, nil
		}
	}
	return false, nil
}

// MockAlertRepository is a mock implementation of AlertRepository.
type MockAlertRepository struct {
	mu     sync.Mutex
	alerts []*domain.FraudAlert

	CreateFunc func(ctx context.Context, alert *domain.FraudAlert) error
}

func NewMockAlertRepository() *MockAlertRepository {
	return &MockAlertRepository{}
}

func (m *MockAlertRepository) Alerts() []*domain.FraudAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.FraudAlert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

func (m *MockAlertRepository) Create(ctx context.Context, alert *domain.FraudAlert) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, alert)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *MockAlertRepository) GetByID(ctx context.Context, id string) (*domain.FraudAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrAlertNotFound
}

func (m *MockAlertRepository) List(ctx context.Context, limit, offset int) ([]*domain.FraudAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.FraudAlert
	for i := len(m.alerts) - 1; i >= 0; i-- {
		if offset > 0 {
			offset--
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, m.alerts[i])
	}
	return out, nil
}

func (m *MockAlertRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.FraudAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.FraudAlert
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		if m.alerts[i].AccountID == accountID {
			out = append(out, m.alerts[i])
		}
	}
	return out, nil
}

func (m *MockAlertRepository) UpdateStatus(ctx context.Context, id string, status domain.AlertStatus, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.alerts {
		if a.ID == id {
			a.Status = status
			a.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrAlertNotFound
}

// MockTransaction is a no-op database transaction.
type MockTransaction struct {
	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	Begun []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Begun = append(m.Begun, tx)
	return tx, nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockEventPublisher records published events.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []domain.Event

	PublishFunc func(ctx context.Context, event domain.Event) error
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Event, len(m.events))
	copy(out, m.events)
	return out
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%04d", m.next)
}

// MockAssessor returns a canned risk assessment.
type MockAssessor struct {
	AssessFunc func(ctx context.Context, in risk.Input) (*domain.RiskAssessment, error)

	mu    sync.Mutex
	calls int
}

func NewMockAssessor() *MockAssessor {
	return &MockAssessor{}
}

func (m *MockAssessor) Assess(ctx context.Context, in risk.Input) (*domain.RiskAssessment, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.AssessFunc != nil {
		return m.AssessFunc(ctx, in)
	}

	return &domain.RiskAssessment{
		Score:       10,
		Level:       domain.RiskLevelLow,
		Decision:    domain.DecisionAllow,
		Reasons:     []string{"no significant risk factors"},
		Confidence:  0.5,
		EvaluatedAt: in.Timestamp,
	}, nil
}

func (m *MockAssessor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockMetricsRecorder counts business metric recordings.
type MockMetricsRecorder struct {
	mu              sync.Mutex
	Transfers       map[string]int
	Assessments     int
	TransferErrors  int
	Alerts          map[string]int
	AccountsCreated int
}

// NewMockMetricsRecorder creates an empty recorder.
func NewMockMetricsRecorder() *MockMetricsRecorder {
	return &MockMetricsRecorder{
		Transfers: make(map[string]int),
		Alerts:    make(map[string]int),
	}
}

func (m *MockMetricsRecorder) RecordTransfer(decision string, amount float64, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Transfers[decision]++
}

func (m *MockMetricsRecorder) RecordAssessment(score float64, level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Assessments++
}

func (m *MockMetricsRecorder) RecordTransferError(errType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TransferErrors++
}

func (m *MockMetricsRecorder) RecordAlert(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Alerts[level]++
}

func (m *MockMetricsRecorder) RecordAccountCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AccountsCreated++
}
