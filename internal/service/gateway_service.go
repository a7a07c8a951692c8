// internal/service/gateway_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/cache"
	"skillpay-wallet/pkg/db"
	"skillpay-wallet/pkg/gateway"
)

// CallbackRequest is the gateway's notification of a finished payment.
type CallbackRequest struct {
	Reference  string
	Status     domain.PaymentStatus
	CustomerID int64
	Amount     decimal.Decimal
}

// GatewayService bridges wallets and the external payment processor: funding
// deposits in, withdrawals out.
type GatewayService interface {
	// InitiatePayment opens a checkout session for the customer and records
	// the pending payment under the processor's reference.
	InitiatePayment(ctx context.Context, customerID int64, amount decimal.Decimal) (*gateway.InitializeData, error)
	// VerifyPayment queries the processor for the state of a reference.
	VerifyPayment(ctx context.Context, reference string) (*gateway.VerifyData, error)
	// HandleCallback settles a finished payment: on success the customer's
	// wallet is credited with the full amount and a ledger row appended in
	// one atomic unit; on failure the payment is marked and an error returned.
	HandleCallback(ctx context.Context, req CallbackRequest) (*domain.Payment, error)
	// Withdraw debits the provider's wallet (amount plus service charge) and
	// records the payout under a generated reference.
	Withdraw(ctx context.Context, providerID int64, amount decimal.Decimal) (*domain.Wallet, *domain.Payment, error)
}

type gatewayService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	walletRepo  repository.WalletRepository
	ledgerRepo  repository.LedgerRepository
	paymentRepo repository.PaymentRepository
	partyRepo   repository.PartyRepository
	transferSvc TransferService
	gateway     gateway.Client
	cache       cache.ReferenceCache
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewGatewayService creates a new instance of GatewayService.
func NewGatewayService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	paymentRepo repository.PaymentRepository,
	partyRepo repository.PartyRepository,
	transferSvc TransferService,
	gatewayClient gateway.Client,
	referenceCache cache.ReferenceCache,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) GatewayService {
	return &gatewayService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		paymentRepo: paymentRepo,
		partyRepo:   partyRepo,
		transferSvc: transferSvc,
		gateway:     gatewayClient,
		cache:       referenceCache,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

func (s *gatewayService) InitiatePayment(ctx context.Context, customerID int64, amount decimal.Decimal) (*gateway.InitializeData, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	owner := domain.CustomerRef(customerID)
	party, err := s.partyRepo.GetParty(ctx, s.dbExecutor, owner)
	if err != nil {
		return nil, fmt.Errorf("initiate payment: customer %d: %w", customerID, err)
	}

	session, err := s.gateway.InitializeTransaction(ctx, gateway.InitializeRequest{
		Amount:    amount,
		Email:     party.Email,
		FullName:  party.FullName(),
		FirstName: party.FirstName,
		LastName:  party.LastName,
		Phone:     party.Phone,
	})
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}

	payment := domain.NewPayment(session.Reference, amount, owner, domain.PaymentPending)
	payment.Email = &party.Email
	fullName := party.FullName()
	payment.FullName = &fullName
	if err := s.paymentRepo.InsertPayment(ctx, s.dbExecutor, payment); err != nil {
		return nil, fmt.Errorf("initiate payment: record %s: %w", session.Reference, err)
	}

	// The cache is a convenience for callback correlation, not a source of
	// truth; losing the write is tolerable.
	if err := s.cache.StorePending(ctx, cache.PendingPayment{
		Reference:  session.Reference,
		CustomerID: customerID,
		Amount:     amount,
	}); err != nil {
		util.GetLogger().Warn("failed to cache pending payment", "reference", session.Reference, "error", err)
	}

	return session, nil
}

func (s *gatewayService) VerifyPayment(ctx context.Context, reference string) (*gateway.VerifyData, error) {
	if reference == "" {
		return nil, util.ErrInvalidInput
	}
	data, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("verify payment %s: %w", reference, err)
	}
	return data, nil
}

func (s *gatewayService) HandleCallback(ctx context.Context, req CallbackRequest) (*domain.Payment, error) {
	if req.Reference == "" {
		return nil, util.ErrInvalidInput
	}

	if req.Status != domain.PaymentSuccess {
		if _, err := s.paymentRepo.UpdateStatusByReference(ctx, s.dbExecutor, req.Reference, domain.PaymentFailed); err != nil {
			return nil, fmt.Errorf("callback %s: mark failed: %w", req.Reference, err)
		}
		return nil, fmt.Errorf("%w: reference %s", util.ErrPaymentNotSuccessful, req.Reference)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("callback %s: failed to begin transaction: %w", req.Reference, err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("callback %s: transaction controller does not implement DBExecutor", req.Reference)
	}

	rowsAffected, err := s.paymentRepo.UpdateStatusByReference(ctx, txExecutor, req.Reference, domain.PaymentSuccess)
	if err != nil {
		return nil, fmt.Errorf("callback %s: mark success: %w", req.Reference, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("callback: payment %s: %w", req.Reference, util.ErrNotFound)
	}

	wallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, domain.CustomerRef(req.CustomerID))
	if err != nil {
		return nil, fmt.Errorf("callback %s: customer wallet: %w", req.Reference, err)
	}

	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, wallet.ID, req.Amount, decimal.Zero); err != nil {
		return nil, fmt.Errorf("callback %s: credit wallet: %w", req.Reference, err)
	}

	entry := domain.NewGatewayCredit(req.CustomerID, req.Amount, "Wallet funding via payment gateway")
	if err := s.ledgerRepo.InsertTransaction(ctx, txExecutor, entry); err != nil {
		return nil, fmt.Errorf("callback %s: insert ledger entry: %w", req.Reference, err)
	}

	payment, err := s.paymentRepo.GetByReference(ctx, txExecutor, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("callback %s: re-fetch payment: %w", req.Reference, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("callback %s: failed to commit transaction: %w", req.Reference, err)
	}

	if err := s.cache.Delete(ctx, req.Reference); err != nil {
		util.GetLogger().Warn("failed to evict pending payment", "reference", req.Reference, "error", err)
	}

	return payment, nil
}

func (s *gatewayService) Withdraw(ctx context.Context, providerID int64, amount decimal.Decimal) (*domain.Wallet, *domain.Payment, error) {
	owner := domain.ProviderRef(providerID)
	wallet, _, err := s.transferSvc.DebitWallet(ctx, owner, amount, "Wallet withdrawal")
	if err != nil {
		return nil, nil, fmt.Errorf("withdraw: %w", err)
	}

	reference := "WTH-" + uuid.NewString()
	payment := domain.NewPayment(reference, amount, owner, domain.PaymentSuccessful)
	if err := s.paymentRepo.InsertPayment(ctx, s.dbExecutor, payment); err != nil {
		return nil, nil, fmt.Errorf("withdraw: record %s: %w", reference, err)
	}

	return wallet, payment, nil
}
