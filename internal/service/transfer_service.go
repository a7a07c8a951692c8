// internal/service/transfer_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/db"

	"github.com/shopspring/decimal"
)

// TransferService is the engine moving funds between wallets. Every mutating
// operation runs as one atomic unit: wallet rows are locked before the
// balance check and all writes commit or roll back together.
type TransferService interface {
	// TransferFunds moves amount from the sender's wallet to the recipient's,
	// deducting the configured service charge on the recipient side, and
	// appends the correlated ledger pair. Returns the recipient-inflow row.
	TransferFunds(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error)
	// DeferredTransfer debits the sender immediately but leaves the recipient
	// uncredited behind a single pending ledger row; settlement is the
	// confirmation workflow's job.
	DeferredTransfer(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error)
	// DebitWallet withdraws amount plus the service charge from the owner's
	// wallet and appends a debit row.
	DebitWallet(ctx context.Context, owner domain.OwnerRef, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error)
}

// Rates carries the configured service-charge rates.
type Rates struct {
	// Transfer applies to immediate transfers and debits.
	Transfer decimal.Decimal
	// Settlement applies to deferred transfers and confirmation credits.
	Settlement decimal.Decimal
}

type transferService struct {
	dbBeginner db.DBTxBeginner
	walletRepo repository.WalletRepository
	ledgerRepo repository.LedgerRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	rates      Rates
}

// NewTransferService creates a new instance of TransferService.
func NewTransferService(
	dbBeginner db.DBTxBeginner,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	rates Rates,
) TransferService {
	return &transferService{
		dbBeginner: dbBeginner,
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		rates:      rates,
	}
}

// charge computes a service charge at the given rate, rounded to 2 dp.
func charge(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

func (s *transferService) TransferFunds(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	if sender == recipient {
		return nil, util.ErrSameWalletTransfer
	}
	if sender.Kind != domain.OwnerKindCustomer || recipient.Kind != domain.OwnerKindProvider {
		return nil, fmt.Errorf("%w: transfers run customer to provider", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("transfer: transaction controller does not implement DBExecutor")
	}

	// Sender is locked before the recipient on every path.
	senderWallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, sender)
	if err != nil {
		return nil, fmt.Errorf("transfer: sender %s: %w", sender, err)
	}
	recipientWallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, recipient)
	if err != nil {
		return nil, fmt.Errorf("transfer: recipient %s: %w", recipient, err)
	}

	if senderWallet.Balance.LessThan(amount) {
		return nil, util.ErrInsufficientFunds
	}

	serviceCharge := charge(amount, s.rates.Transfer)
	netAmount := amount.Sub(serviceCharge)

	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, senderWallet.ID, amount.Neg(), decimal.Zero); err != nil {
		return nil, fmt.Errorf("%w: debit sender wallet: %w", util.ErrTransferFailed, err)
	}
	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, recipientWallet.ID, netAmount, serviceCharge); err != nil {
		return nil, fmt.Errorf("%w: credit recipient wallet: %w", util.ErrTransferFailed, err)
	}

	now := time.Now().UTC()
	hash := domain.NewTransactionHash(senderWallet.ID, recipientWallet.ID, amount, now)
	meta, err := domain.BuildMetadata(metadata, domain.NewInvoiceNumber(now), description, amount, netAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: build metadata: %w", util.ErrTransferFailed, err)
	}

	pair := domain.NewTransferPair(sender.ID, recipient.ID, amount, netAmount, serviceCharge, description, hash, meta)
	if err := s.ledgerRepo.InsertPair(ctx, txExecutor, pair); err != nil {
		return nil, fmt.Errorf("%w: insert ledger pair: %w", util.ErrTransferFailed, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", util.ErrTransferFailed, err)
	}

	return pair.Inflow, nil
}

func (s *transferService) DeferredTransfer(ctx context.Context, sender, recipient domain.OwnerRef, amount decimal.Decimal, description string, metadata map[string]any) (*domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}
	if sender == recipient {
		return nil, util.ErrSameWalletTransfer
	}
	if sender.Kind != domain.OwnerKindCustomer || recipient.Kind != domain.OwnerKindProvider {
		return nil, fmt.Errorf("%w: transfers run customer to provider", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("deferred transfer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("deferred transfer: transaction controller does not implement DBExecutor")
	}

	senderWallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, sender)
	if err != nil {
		return nil, fmt.Errorf("deferred transfer: sender %s: %w", sender, err)
	}
	recipientWallet, err := s.walletRepo.GetWalletByOwner(ctx, txExecutor, recipient)
	if err != nil {
		return nil, fmt.Errorf("deferred transfer: recipient %s: %w", recipient, err)
	}

	if senderWallet.Balance.LessThan(amount) {
		return nil, util.ErrInsufficientFunds
	}

	serviceCharge := charge(amount, s.rates.Settlement)
	netAmount := amount.Sub(serviceCharge)

	// Only the sender moves now; the recipient credit waits for confirmation.
	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, senderWallet.ID, amount.Neg(), decimal.Zero); err != nil {
		return nil, fmt.Errorf("%w: debit sender wallet: %w", util.ErrTransferFailed, err)
	}

	now := time.Now().UTC()
	hash := domain.NewTransactionHash(senderWallet.ID, recipientWallet.ID, amount, now)
	meta, err := domain.BuildMetadata(metadata, domain.NewInvoiceNumber(now), description, amount, netAmount)
	if err != nil {
		return nil, fmt.Errorf("%w: build metadata: %w", util.ErrTransferFailed, err)
	}

	entry := domain.NewDeferredEntry(sender.ID, recipient.ID, netAmount, serviceCharge, description, hash, meta)
	if err := s.ledgerRepo.InsertTransaction(ctx, txExecutor, entry); err != nil {
		return nil, fmt.Errorf("%w: insert pending entry: %w", util.ErrTransferFailed, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("%w: commit: %w", util.ErrTransferFailed, err)
	}

	return entry, nil
}

func (s *transferService) DebitWallet(ctx context.Context, owner domain.OwnerRef, amount decimal.Decimal, description string) (*domain.Wallet, *domain.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, nil, fmt.Errorf("debit: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, nil, fmt.Errorf("debit: transaction controller does not implement DBExecutor")
	}

	wallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, owner)
	if err != nil {
		return nil, nil, fmt.Errorf("debit: owner %s: %w", owner, err)
	}

	serviceCharge := charge(amount, s.rates.Transfer)
	total := amount.Add(serviceCharge)
	if wallet.Balance.LessThan(total) {
		return nil, nil, util.ErrInsufficientFunds
	}

	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, wallet.ID, total.Neg(), serviceCharge); err != nil {
		return nil, nil, fmt.Errorf("%w: debit wallet: %w", util.ErrTransferFailed, err)
	}

	entry := domain.NewDebitEntry(owner, amount, serviceCharge, description)
	if err := s.ledgerRepo.InsertTransaction(ctx, txExecutor, entry); err != nil {
		return nil, nil, fmt.Errorf("%w: insert debit entry: %w", util.ErrTransferFailed, err)
	}

	updatedWallet, err := s.walletRepo.GetWalletByID(ctx, txExecutor, wallet.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: re-fetch wallet: %w", util.ErrTransferFailed, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, nil, fmt.Errorf("%w: commit: %w", util.ErrTransferFailed, err)
	}

	return updatedWallet, entry, nil
}
