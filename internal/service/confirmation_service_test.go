// internal/service/confirmation_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/db"
)

// confirmationFixture bundles the mocks behind one ConfirmationService.
type confirmationFixture struct {
	walletRepo   *MockWalletRepository
	ledgerRepo   *MockLedgerRepository
	disputeRepo  *MockDisputeRepository
	dbBeginner   *MockDBBeginner
	dbExecutor   *MockDBExecutor
	txController *MockTxController
	service      ConfirmationService
}

func newConfirmationFixture(rates Rates) *confirmationFixture {
	f := &confirmationFixture{
		walletRepo:   new(MockWalletRepository),
		ledgerRepo:   new(MockLedgerRepository),
		disputeRepo:  new(MockDisputeRepository),
		dbBeginner:   new(MockDBBeginner),
		dbExecutor:   new(MockDBExecutor),
		txController: new(MockTxController),
	}
	f.service = NewConfirmationService(
		f.dbBeginner,
		f.dbExecutor,
		f.walletRepo,
		f.ledgerRepo,
		f.disputeRepo,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return f.txController, nil
		},
		func(tx db.TxController) error {
			return f.txController.Commit()
		},
		func(tx db.TxController) {
			_ = f.txController.Rollback()
		},
		rates,
	)
	return f
}

func pendingEntry(id, customerID, providerID int64, amount decimal.Decimal) *domain.Transaction {
	desc := "english lessons"
	return &domain.Transaction{
		ID:          id,
		CustomerID:  &customerID,
		ProviderID:  &providerID,
		Type:        domain.TransactionTypeTransfer,
		Category:    domain.CategoryTransfer,
		Amount:      amount,
		Status:      domain.StatusPending,
		Approval:    domain.ApprovalIncomplete,
		Description: &desc,
		Hash:        "original-hash",
		CreatedAt:   time.Now().UTC(),
	}
}

func TestConfirmCustomerPayment(t *testing.T) {
	transactionID := int64(42)

	t.Run("CompletedCreditsRecipient", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		entry := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		recipientWallet := &domain.Wallet{ID: 20, Kind: domain.OwnerKindProvider, Balance: decimal.Zero}
		settled := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		settled.Status = domain.StatusCompleted
		settled.Approval = domain.ApprovalCompleted

		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		f.ledgerRepo.On("GetTransactionByIDForUpdate", ctx, mock.Anything, transactionID).Return(entry, nil).Once()
		f.walletRepo.On("GetWalletByOwnerForUpdate", ctx, mock.Anything, domain.ProviderRef(2)).Return(recipientWallet, nil).Once()
		// Settlement rate is zero so the full amount lands on the wallet.
		f.walletRepo.On("AdjustBalance", ctx, mock.Anything, recipientWallet.ID, decimalEq(decimal.NewFromInt(300)), decimalEq(decimal.Zero)).Return(nil).Once()
		f.ledgerRepo.On("MarkCompleted", ctx, mock.Anything, transactionID, mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("time.Time")).Return(nil).Once()

		var credit *domain.Transaction
		f.ledgerRepo.On("InsertTransaction", ctx, mock.Anything, mock.AnythingOfType("*domain.Transaction")).
			Run(func(args mock.Arguments) {
				credit = args.Get(2).(*domain.Transaction)
			}).Return(nil).Once()
		f.ledgerRepo.On("GetTransactionByID", ctx, mock.Anything, transactionID).Return(settled, nil).Once()

		result, err := f.service.ConfirmCustomerPayment(ctx, transactionID, domain.ApprovalCompleted, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)
		assert.NotNil(t, credit)
		assert.Equal(t, domain.TransactionTypeCredit, credit.Type)
		assert.Equal(t, domain.CategoryCredit, credit.Category)
		assert.Equal(t, domain.StatusProcessed, credit.Status)
		assert.Equal(t, domain.ApprovalCompleted, credit.Approval)
		assert.True(t, credit.Amount.Equal(decimal.NewFromInt(300)))
		assert.NotEqual(t, "original-hash", credit.Hash)

		mock.AssertExpectationsForObjects(t, f.txController, f.walletRepo, f.ledgerRepo)
	})

	t.Run("AlreadyCompleted", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		entry := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		entry.Status = domain.StatusCompleted

		f.txController.On("Rollback").Return(nil).Once()
		f.ledgerRepo.On("GetTransactionByIDForUpdate", ctx, mock.Anything, transactionID).Return(entry, nil).Once()

		result, err := f.service.ConfirmCustomerPayment(ctx, transactionID, domain.ApprovalCompleted, nil)

		assert.ErrorIs(t, err, util.ErrAlreadyCompleted)
		assert.Nil(t, result)
		f.walletRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.txController.AssertNotCalled(t, "Commit")
	})

	t.Run("UnsatisfactoryMovesNoMoney", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		entry := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		flagged := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		flagged.Status = domain.StatusUnsatisfactory
		flagged.Approval = domain.ApprovalUnsatisfactory

		f.txController.On("Commit").Return(nil).Once()
		f.txController.On("Rollback").Return(nil).Maybe()

		f.ledgerRepo.On("GetTransactionByIDForUpdate", ctx, mock.Anything, transactionID).Return(entry, nil).Once()
		f.ledgerRepo.On("MarkUnsatisfactory", ctx, mock.Anything, transactionID, "Dispute raised by customer").Return(nil).Once()
		f.ledgerRepo.On("GetTransactionByID", ctx, mock.Anything, transactionID).Return(flagged, nil).Once()

		result, err := f.service.ConfirmCustomerPayment(ctx, transactionID, domain.ApprovalUnsatisfactory, nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusUnsatisfactory, result.Status)
		f.walletRepo.AssertNotCalled(t, "GetWalletByOwnerForUpdate", mock.Anything, mock.Anything, mock.Anything)
		f.walletRepo.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.ledgerRepo.AssertNotCalled(t, "InsertTransaction", mock.Anything, mock.Anything, mock.Anything)

		mock.AssertExpectationsForObjects(t, f.txController, f.ledgerRepo)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		result, err := f.service.ConfirmCustomerPayment(ctx, transactionID, domain.ApprovalIncomplete, nil)

		assert.ErrorIs(t, err, util.ErrInvalidStatus)
		assert.Nil(t, result)
		f.txController.AssertNotCalled(t, "Commit")
		f.txController.AssertNotCalled(t, "Rollback")
	})

	t.Run("TransactionNotFound", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		f.txController.On("Rollback").Return(nil).Once()
		f.ledgerRepo.On("GetTransactionByIDForUpdate", ctx, mock.Anything, transactionID).Return(nil, util.ErrTransactionNotFound).Once()

		result, err := f.service.ConfirmCustomerPayment(ctx, transactionID, domain.ApprovalCompleted, nil)

		assert.ErrorIs(t, err, util.ErrTransactionNotFound)
		assert.Nil(t, result)
	})
}

func TestConfirmProviderPayment(t *testing.T) {
	transactionID := int64(42)

	t.Run("Accepted", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		f.ledgerRepo.On("ConfirmProvider", ctx, f.dbExecutor, transactionID, domain.StatusAccepted, (*string)(nil)).Return(int64(1), nil).Once()

		result, err := f.service.ConfirmProviderPayment(ctx, transactionID, domain.StatusAccepted, nil)

		assert.NoError(t, err)
		assert.True(t, result.Confirmed)

		mock.AssertExpectationsForObjects(t, f.ledgerRepo)
	})

	t.Run("RejectedCarriesDisputeMessage", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		message := "work never delivered"
		f.ledgerRepo.On("ConfirmProvider", ctx, f.dbExecutor, transactionID, domain.StatusRejected, &message).Return(int64(1), nil).Once()

		result, err := f.service.ConfirmProviderPayment(ctx, transactionID, domain.StatusRejected, &message)

		assert.NoError(t, err)
		assert.True(t, result.Confirmed)

		mock.AssertExpectationsForObjects(t, f.ledgerRepo)
	})

	t.Run("AlreadyConfirmedIsNotAnError", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		f.ledgerRepo.On("ConfirmProvider", ctx, f.dbExecutor, transactionID, domain.StatusAccepted, (*string)(nil)).Return(int64(0), nil).Once()

		result, err := f.service.ConfirmProviderPayment(ctx, transactionID, domain.StatusAccepted, nil)

		assert.NoError(t, err)
		assert.False(t, result.Confirmed)
		assert.Equal(t, "transaction not found or already confirmed", result.Message)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		result, err := f.service.ConfirmProviderPayment(ctx, transactionID, domain.StatusCompleted, nil)

		assert.ErrorIs(t, err, util.ErrInvalidStatus)
		assert.Nil(t, result)
		f.ledgerRepo.AssertNotCalled(t, "ConfirmProvider", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRaiseDispute(t *testing.T) {
	transactionID := int64(42)

	t.Run("CustomerRaiser", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		entry := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		f.ledgerRepo.On("GetTransactionByID", ctx, f.dbExecutor, transactionID).Return(entry, nil).Once()

		var captured *domain.Dispute
		f.disputeRepo.On("InsertDispute", ctx, f.dbExecutor, mock.AnythingOfType("*domain.Dispute")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(*domain.Dispute)
			}).Return(nil).Once()

		dispute, err := f.service.RaiseDispute(ctx, transactionID, domain.CustomerRef(1), "never showed up")

		assert.NoError(t, err)
		assert.NotNil(t, dispute)
		assert.Equal(t, domain.OwnerKindCustomer, captured.RaisedBy)
		assert.NotNil(t, captured.RaisedByCustomerID)
		assert.Nil(t, captured.RaisedByProviderID)
		assert.Equal(t, domain.DisputePending, captured.Status)

		mock.AssertExpectationsForObjects(t, f.ledgerRepo, f.disputeRepo)
	})

	t.Run("ProviderRaiser", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		entry := pendingEntry(transactionID, 1, 2, decimal.NewFromInt(300))
		f.ledgerRepo.On("GetTransactionByID", ctx, f.dbExecutor, transactionID).Return(entry, nil).Once()

		var captured *domain.Dispute
		f.disputeRepo.On("InsertDispute", ctx, f.dbExecutor, mock.AnythingOfType("*domain.Dispute")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(*domain.Dispute)
			}).Return(nil).Once()

		_, err := f.service.RaiseDispute(ctx, transactionID, domain.ProviderRef(2), "payment short")

		assert.NoError(t, err)
		assert.Equal(t, domain.OwnerKindProvider, captured.RaisedBy)
		assert.Nil(t, captured.RaisedByCustomerID)
		assert.NotNil(t, captured.RaisedByProviderID)
	})

	t.Run("MissingTransaction", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		f.ledgerRepo.On("GetTransactionByID", ctx, f.dbExecutor, transactionID).Return(nil, util.ErrTransactionNotFound).Once()

		dispute, err := f.service.RaiseDispute(ctx, transactionID, domain.CustomerRef(1), "never showed up")

		assert.ErrorIs(t, err, util.ErrTransactionNotFound)
		assert.Nil(t, dispute)
		f.disputeRepo.AssertNotCalled(t, "InsertDispute", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("EmptyDescription", func(t *testing.T) {
		ctx := context.Background()
		f := newConfirmationFixture(defaultRates())

		dispute, err := f.service.RaiseDispute(ctx, transactionID, domain.CustomerRef(1), "")

		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.Nil(t, dispute)
		f.ledgerRepo.AssertNotCalled(t, "GetTransactionByID", mock.Anything, mock.Anything, mock.Anything)
	})
}
