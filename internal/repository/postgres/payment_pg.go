// internal/repository/postgres/payment_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach.
const uniqueViolation = "23505"

// PaymentRepository implements repository.PaymentRepository for PostgreSQL.
type PaymentRepository struct{}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository() repository.PaymentRepository {
	return &PaymentRepository{}
}

// InsertPayment records a new gateway payment.
func (r *PaymentRepository) InsertPayment(ctx context.Context, q repository.DBExecutor, payment *domain.Payment) error {
	query := `INSERT INTO payments
        (reference, amount, email, full_name, status, customer_id, provider_id, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		payment.Reference, payment.Amount, payment.Email, payment.FullName, payment.Status,
		payment.CustomerID, payment.ProviderID, payment.CreatedAt, payment.UpdatedAt,
	).Scan(&payment.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("payment %s: %w", payment.Reference, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert payment %s: %w", payment.Reference, err)
	}
	return nil
}

// GetByReference retrieves a payment by its unique reference.
func (r *PaymentRepository) GetByReference(ctx context.Context, q repository.DBExecutor, reference string) (*domain.Payment, error) {
	var payment domain.Payment
	query := `SELECT id, reference, amount, email, full_name, status, customer_id, provider_id, created_at, updated_at
        FROM payments WHERE reference = $1`
	err := q.GetContext(ctx, &payment, query, reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment %s: %w", reference, err)
	}
	return &payment, nil
}

// UpdateStatusByReference updates the status of the referenced payment.
func (r *PaymentRepository) UpdateStatusByReference(ctx context.Context, q repository.DBExecutor, reference string, status domain.PaymentStatus) (int64, error) {
	query := `UPDATE payments SET status = $1, updated_at = $2 WHERE reference = $3`
	result, err := q.ExecContext(ctx, query, status, time.Now().UTC(), reference)
	if err != nil {
		return 0, fmt.Errorf("failed to update payment %s status: %w", reference, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected updating payment %s: %w", reference, err)
	}
	return rowsAffected, nil
}
