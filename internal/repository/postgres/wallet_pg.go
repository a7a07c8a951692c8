// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const walletColumns = `id, wallet_type, customer_id, provider_id, balance, service_charge, merchant_fee, created_at, updated_at`

// ownerColumn maps an owner kind to the wallet/ledger column holding its id.
func ownerColumn(kind domain.OwnerKind) string {
	if kind == domain.OwnerKindCustomer {
		return "customer_id"
	}
	return "provider_id"
}

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (wallet_type, customer_id, provider_id, balance, service_charge, merchant_fee, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		wallet.Kind, wallet.CustomerID, wallet.ProviderID,
		wallet.Balance, wallet.ServiceCharge, wallet.MerchantFee,
		wallet.CreatedAt, wallet.UpdatedAt,
	).Scan(&wallet.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("wallet for %s: %w", wallet.Owner(), util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// GetWalletByID retrieves a wallet by its primary key.
func (r *WalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`
	err := q.GetContext(ctx, &wallet, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID %d: %w", id, err)
	}
	return &wallet, nil
}

// GetWalletByOwner retrieves the wallet belonging to the given owner.
func (r *WalletRepository) GetWalletByOwner(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error) {
	return r.getByOwner(ctx, q, owner, false)
}

// GetWalletByOwnerForUpdate retrieves the owner's wallet with FOR UPDATE so
// the row stays locked until the enclosing transaction finishes.
func (r *WalletRepository) GetWalletByOwnerForUpdate(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Wallet, error) {
	return r.getByOwner(ctx, q, owner, true)
}

func (r *WalletRepository) getByOwner(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef, forUpdate bool) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := fmt.Sprintf(`SELECT %s FROM wallets WHERE %s = $1 AND wallet_type = $2`, walletColumns, ownerColumn(owner.Kind))
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := q.GetContext(ctx, &wallet, query, owner.ID, owner.Kind)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for owner %s: %w", owner, err)
	}
	return &wallet, nil
}

// AdjustBalance applies a balance delta and a service-charge accumulator
// delta to the wallet in a single statement.
func (r *WalletRepository) AdjustBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balanceDelta, serviceChargeDelta decimal.Decimal) error {
	query := `UPDATE wallets SET balance = balance + $1, service_charge = service_charge + $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, balanceDelta, serviceChargeDelta, time.Now().UTC(), walletID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance for wallet %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected adjusting wallet %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected adjusting wallet %d: %w", walletID, util.ErrWalletNotFound)
	}
	return nil
}
