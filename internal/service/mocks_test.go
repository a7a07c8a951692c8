// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/pkg/cache"
	"skillpay-wallet/pkg/gateway"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. Embedding
// MockDBExecutor also satisfies repository.DBExecutor so the service can cast
// the controller to an executor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByOwner(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error) {
	args := m.Called(ctx, q, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByOwnerForUpdate(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error) {
	args := m.Called(ctx, q, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balanceDelta, serviceChargeDelta decimal.Decimal) error {
	args := m.Called(ctx, q, walletID, balanceDelta, serviceChargeDelta)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of repository.LedgerRepository.
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) InsertTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.Transaction) error {
	args := m.Called(ctx, q, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) InsertPair(ctx context.Context, q repository.DBExecutor, pair *domain.LedgerPair) error {
	args := m.Called(ctx, q, pair)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) GetTransactionByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) MarkCompleted(ctx context.Context, q repository.DBExecutor, id int64, hash string, metadata types.JSONText, completedAt time.Time) error {
	args := m.Called(ctx, q, id, hash, metadata, completedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkUnsatisfactory(ctx context.Context, q repository.DBExecutor, id int64, disputeMessage string) error {
	args := m.Called(ctx, q, id, disputeMessage)
	return args.Error(0)
}

func (m *MockLedgerRepository) ConfirmProvider(ctx context.Context, q repository.DBExecutor, id int64, status domain.TransactionStatus, disputeMessage *string) (int64, error) {
	args := m.Called(ctx, q, id, status, disputeMessage)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) ListByOwner(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef, limit, offset int) ([]domain.HistoryEntry, int64, error) {
	args := m.Called(ctx, q, owner, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Get(1).(int64), args.Error(2)
}

// MockDisputeRepository is a mock implementation of repository.DisputeRepository.
type MockDisputeRepository struct {
	mock.Mock
}

func (m *MockDisputeRepository) InsertDispute(ctx context.Context, q repository.DBExecutor, dispute *domain.Dispute) error {
	args := m.Called(ctx, q, dispute)
	return args.Error(0)
}

func (m *MockDisputeRepository) ListByRaiser(ctx context.Context, q repository.DBExecutor, raiser domain.OwnerRef) ([]domain.Dispute, error) {
	args := m.Called(ctx, q, raiser)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dispute), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repository.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) InsertPayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	args := m.Called(ctx, q, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByReference(ctx context.Context, q repository.DBExecutor, reference string) (*domain.Payment, error) {
	args := m.Called(ctx, q, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdateStatusByReference(ctx context.Context, q repository.DBExecutor, reference string, status domain.PaymentStatus) (int64, error) {
	args := m.Called(ctx, q, reference, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockPartyRepository is a mock implementation of repository.PartyRepository.
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) GetParty(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Party, error) {
	args := m.Called(ctx, q, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

// MockGatewayClient is a mock implementation of gateway.Client.
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) InitializeTransaction(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeData, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.InitializeData), args.Error(1)
}

func (m *MockGatewayClient) VerifyTransaction(ctx context.Context, reference string) (*gateway.VerifyData, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.VerifyData), args.Error(1)
}

// MockReferenceCache is a mock implementation of cache.ReferenceCache.
type MockReferenceCache struct {
	mock.Mock
}

func (m *MockReferenceCache) StorePending(ctx context.Context, p cache.PendingPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockReferenceCache) GetPending(ctx context.Context, reference string) (*cache.PendingPayment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cache.PendingPayment), args.Error(1)
}

func (m *MockReferenceCache) Delete(ctx context.Context, reference string) error {
	args := m.Called(ctx, reference)
	return args.Error(0)
}

// MockTransferService is a mock implementation of TransferService.
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) TransferFunds(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error) {
	args := m.Called(ctx, sender, recipient, amount, description, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransferService) DeferredTransfer(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error) {
	args := m.Called(ctx, sender, recipient, amount, description, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransferService) DebitWallet(ctx context.Context, owner domain.OwnerRef, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error) {
	args := m.Called(ctx, owner, amount, description)
	var wallet *domain.Wallet
	var tx *domain.Transaction
	if args.Get(0) != nil {
		wallet = args.Get(0).(*domain.Wallet)
	}
	if args.Get(1) != nil {
		tx = args.Get(1).(*domain.Transaction)
	}
	return wallet, tx, args.Error(2)
}

// decimalEq matches a decimal argument by value, regardless of exponent
// representation.
func decimalEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}
