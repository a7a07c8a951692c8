// internal/repository/ledger_repo.go
package repository

import (
	"context"
	"time"

	"skillpay-wallet/internal/domain"

	"github.com/jmoiron/sqlx/types"
)

// LedgerRepository defines the interface for transaction-ledger operations.
type LedgerRepository interface {
	// InsertTransaction appends one ledger row.
	InsertTransaction(ctx context.Context, q DBExecutor, tx *domain.Transaction) error
	// InsertPair appends the two rows of one logical transfer. Both rows are
	// written inside the caller's transaction so they cannot drift apart.
	InsertPair(ctx context.Context, q DBExecutor, pair *domain.LedgerPair) error
	// GetTransactionByID retrieves one ledger row.
	GetTransactionByID(ctx context.Context, q DBExecutor, id int64) (*domain.Transaction, error)
	// GetTransactionByIDForUpdate retrieves one ledger row holding a
	// row-level lock.
	GetTransactionByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Transaction, error)
	// MarkCompleted finalizes an entry: overall and customer-approval status
	// become completed, the regenerated hash and metadata are stored and
	// completed_at is stamped.
	MarkCompleted(ctx context.Context, q DBExecutor, id int64, hash string, metadata types.JSONText, completedAt time.Time) error
	// MarkUnsatisfactory flags an entry as disputed by the customer.
	MarkUnsatisfactory(ctx context.Context, q DBExecutor, id int64, disputeMessage string) error
	// ConfirmProvider applies the provider-track transition (accepted or
	// rejected) to an entry still pending. Returns the number of rows
	// affected; zero means the entry was absent or already confirmed.
	ConfirmProvider(ctx context.Context, q DBExecutor, id int64, status domain.TransactionStatus, disputeMessage *string) (int64, error)
	// ListByOwner retrieves an owner's history joined against counter-party
	// identity, newest first.
	ListByOwner(ctx context.Context, q DBExecutor, owner domain.OwnerRef, limit, offset int) ([]domain.HistoryEntry, int64, error)
}
