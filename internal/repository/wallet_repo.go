// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"skillpay-wallet/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet using the provided DBExecutor.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByID retrieves a wallet by its primary key.
	GetWalletByID(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletByOwner retrieves the wallet belonging to the given owner.
	GetWalletByOwner(ctx context.Context, q DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error)
	// GetWalletByOwnerForUpdate retrieves the owner's wallet holding a
	// row-level lock for the duration of the enclosing transaction. Must be
	// called before any balance check that precedes a mutation.
	GetWalletByOwnerForUpdate(ctx context.Context, q DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error)
	// AdjustBalance applies a balance delta and a service-charge accumulator
	// delta to the wallet in one statement.
	AdjustBalance(ctx context.Context, q DBExecutor, walletID int64, balanceDelta, serviceChargeDelta decimal.Decimal) error
}
