// internal/repository/postgres/ledger_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"

	"github.com/jmoiron/sqlx/types"
)

const transactionColumns = `id, customer_id, provider_id, transaction_type, transaction_category, amount,
service_charge, fee, merchant_fee, transaction_status, customer_approval, description, dispute_message,
metadata, transaction_hash, created_at, completed_at`

// LedgerRepository implements repository.LedgerRepository for PostgreSQL.
type LedgerRepository struct{}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository() repository.LedgerRepository {
	return &LedgerRepository{}
}

// InsertTransaction appends one ledger row.
func (r *LedgerRepository) InsertTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.Transaction) error {
	query := `INSERT INTO transactions
        (customer_id, provider_id, transaction_type, transaction_category, amount, service_charge, fee,
         merchant_fee, transaction_status, customer_approval, description, dispute_message, metadata,
         transaction_hash, created_at, completed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		tx.CustomerID, tx.ProviderID, tx.Type, tx.Category, tx.Amount, tx.ServiceCharge, tx.Fee,
		tx.MerchantFee, tx.Status, tx.Approval, tx.Description, tx.DisputeMessage, tx.Metadata,
		tx.Hash, tx.CreatedAt, tx.CompletedAt,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// InsertPair appends the outflow row then the inflow row of one transfer.
func (r *LedgerRepository) InsertPair(ctx context.Context, q repository.DBExecutor, pair *domain.LedgerPair) error {
	if err := r.InsertTransaction(ctx, q, pair.Outflow); err != nil {
		return fmt.Errorf("outflow row: %w", err)
	}
	if err := r.InsertTransaction(ctx, q, pair.Inflow); err != nil {
		return fmt.Errorf("inflow row: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves one ledger row.
func (r *LedgerRepository) GetTransactionByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	return r.getByID(ctx, q, id, false)
}

// GetTransactionByIDForUpdate retrieves one ledger row holding a row lock.
func (r *LedgerRepository) GetTransactionByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Transaction, error) {
	return r.getByID(ctx, q, id, true)
}

func (r *LedgerRepository) getByID(ctx context.Context, q repository.DBExecutor, id int64, forUpdate bool) (*domain.Transaction, error) {
	var tx domain.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	err := q.GetContext(ctx, &tx, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return &tx, nil
}

// MarkCompleted finalizes an entry on the customer track.
func (r *LedgerRepository) MarkCompleted(ctx context.Context, q repository.DBExecutor, id int64, hash string, metadata types.JSONText, completedAt time.Time) error {
	query := `UPDATE transactions
        SET transaction_status = $1, customer_approval = $2, completed_at = $3, transaction_hash = $4, metadata = $5
        WHERE id = $6`
	_, err := q.ExecContext(ctx, query,
		domain.StatusCompleted, domain.ApprovalCompleted, completedAt, hash, metadata, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %d completed: %w", id, err)
	}
	return nil
}

// MarkUnsatisfactory flags an entry as disputed by the customer.
func (r *LedgerRepository) MarkUnsatisfactory(ctx context.Context, q repository.DBExecutor, id int64, disputeMessage string) error {
	query := `UPDATE transactions
        SET transaction_status = $1, customer_approval = $2, dispute_message = $3
        WHERE id = $4`
	_, err := q.ExecContext(ctx, query,
		domain.StatusUnsatisfactory, domain.ApprovalUnsatisfactory, disputeMessage, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %d unsatisfactory: %w", id, err)
	}
	return nil
}

// ConfirmProvider applies the provider-track transition to an entry still
// pending. The WHERE clause is the gate: a row that is absent or no longer
// pending yields zero rows affected.
func (r *LedgerRepository) ConfirmProvider(ctx context.Context, q repository.DBExecutor, id int64, status domain.TransactionStatus, disputeMessage *string) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if disputeMessage != nil {
		query := `UPDATE transactions
            SET transaction_status = $1, dispute_message = $2, completed_at = $3
            WHERE id = $4 AND transaction_status = $5`
		result, err = q.ExecContext(ctx, query, status, *disputeMessage, time.Now().UTC(), id, domain.StatusPending)
	} else {
		query := `UPDATE transactions
            SET transaction_status = $1, completed_at = $2
            WHERE id = $3 AND transaction_status = $4`
		result, err = q.ExecContext(ctx, query, status, time.Now().UTC(), id, domain.StatusPending)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to confirm transaction %d as %s: %w", id, status, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected confirming transaction %d: %w", id, err)
	}
	return rowsAffected, nil
}

// ListByOwner retrieves an owner's history joined against counter-party
// identity, newest first, with a total count for pagination.
func (r *LedgerRepository) ListByOwner(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef, limit, offset int) ([]domain.HistoryEntry, int64, error) {
	entries := []domain.HistoryEntry{}

	var query string
	if owner.Kind == domain.OwnerKindCustomer {
		query = `SELECT t.id, t.customer_id, t.provider_id, t.transaction_type, t.transaction_category,
            t.amount, t.service_charge, t.fee, t.merchant_fee, t.transaction_status, t.customer_approval,
            t.description, t.dispute_message, t.metadata, t.transaction_hash, t.created_at, t.completed_at,
            sp.first_name AS counterparty_first_name, sp.last_name AS counterparty_last_name,
            sp.email AS counterparty_email, sp.phone AS counterparty_phone
        FROM transactions t
        LEFT JOIN skill_providers sp ON t.provider_id = sp.id
        WHERE t.customer_id = $1
        ORDER BY t.created_at DESC
        LIMIT $2 OFFSET $3`
	} else {
		query = `SELECT t.id, t.customer_id, t.provider_id, t.transaction_type, t.transaction_category,
            t.amount, t.service_charge, t.fee, t.merchant_fee, t.transaction_status, t.customer_approval,
            t.description, t.dispute_message, t.metadata, t.transaction_hash, t.created_at, t.completed_at,
            c.first_name AS counterparty_first_name, c.last_name AS counterparty_last_name,
            c.email AS counterparty_email, c.phone AS counterparty_phone
        FROM transactions t
        LEFT JOIN customers c ON t.customer_id = c.id
        WHERE t.provider_id = $1
        ORDER BY t.created_at DESC
        LIMIT $2 OFFSET $3`
	}
	if err := q.SelectContext(ctx, &entries, query, owner.ID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions for %s: %w", owner, err)
	}

	var totalCount int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM transactions WHERE %s = $1`, ownerColumn(owner.Kind))
	if err := q.GetContext(ctx, &totalCount, countQuery, owner.ID); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions for %s: %w", owner, err)
	}

	return entries, totalCount, nil
}
