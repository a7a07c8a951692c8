// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/db"
)

// WalletService covers wallet provisioning and read paths.
type WalletService interface {
	// ProvisionWallet creates the owner's wallet on first call and returns
	// the existing one on every later call.
	ProvisionWallet(ctx context.Context, owner domain.OwnerRef) (*domain.Wallet, error)
	// GetWallet retrieves the owner's wallet.
	GetWallet(ctx context.Context, owner domain.OwnerRef) (*domain.Wallet, error)
	// GetTransactionHistory retrieves the owner's ledger entries joined with
	// counter-party identity, newest first.
	GetTransactionHistory(ctx context.Context, owner domain.OwnerRef, limit, offset int) ([]domain.HistoryEntry, int64, error)
}

type walletService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	walletRepo repository.WalletRepository
	ledgerRepo repository.LedgerRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) WalletService {
	return &walletService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		walletRepo: walletRepo,
		ledgerRepo: ledgerRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

func (s *walletService) ProvisionWallet(ctx context.Context, owner domain.OwnerRef) (*domain.Wallet, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("provision wallet: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("provision wallet: transaction controller does not implement DBExecutor")
	}

	existing, err := s.walletRepo.GetWalletByOwner(ctx, txExecutor, owner)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, util.ErrWalletNotFound) {
		return nil, fmt.Errorf("provision wallet: lookup for %s: %w", owner, err)
	}

	wallet := domain.NewWallet(owner)
	if err := s.walletRepo.CreateWallet(ctx, txExecutor, wallet); err != nil {
		return nil, fmt.Errorf("provision wallet: create for %s: %w", owner, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("provision wallet: failed to commit transaction: %w", err)
	}

	return wallet, nil
}

func (s *walletService) GetWallet(ctx context.Context, owner domain.OwnerRef) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetWalletByOwner(ctx, s.dbExecutor, owner)
	if err != nil {
		return nil, fmt.Errorf("get wallet for %s: %w", owner, err)
	}
	return wallet, nil
}

func (s *walletService) GetTransactionHistory(ctx context.Context, owner domain.OwnerRef, limit, offset int) ([]domain.HistoryEntry, int64, error) {
	if _, err := s.walletRepo.GetWalletByOwner(ctx, s.dbExecutor, owner); err != nil {
		return nil, 0, fmt.Errorf("transaction history for %s: %w", owner, err)
	}

	entries, totalCount, err := s.ledgerRepo.ListByOwner(ctx, s.dbExecutor, owner, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transaction history for %s: %w", owner, err)
	}
	return entries, totalCount, nil
}
