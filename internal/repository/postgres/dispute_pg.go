// internal/repository/postgres/dispute_pg.go
package postgres

import (
	"context"
	"fmt"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
)

// DisputeRepository implements repository.DisputeRepository for PostgreSQL.
type DisputeRepository struct{}

// NewDisputeRepository creates a new DisputeRepository.
func NewDisputeRepository() repository.DisputeRepository {
	return &DisputeRepository{}
}

// InsertDispute records a new dispute against an existing transaction.
func (r *DisputeRepository) InsertDispute(ctx context.Context, q repository.DBExecutor, dispute *domain.Dispute) error {
	query := `INSERT INTO disputes
        (transaction_id, raised_by, raised_by_customer_id, raised_by_provider_id, description, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		dispute.TransactionID, dispute.RaisedBy, dispute.RaisedByCustomerID, dispute.RaisedByProviderID,
		dispute.Description, dispute.Status, dispute.CreatedAt,
	).Scan(&dispute.ID)
	if err != nil {
		return fmt.Errorf("failed to insert dispute: %w", err)
	}
	return nil
}

// ListByRaiser retrieves the disputes raised by one party, newest first.
func (r *DisputeRepository) ListByRaiser(ctx context.Context, q repository.DBExecutor, raiser domain.OwnerRef) ([]domain.Dispute, error) {
	disputes := []domain.Dispute{}
	column := "raised_by_customer_id"
	if raiser.Kind == domain.OwnerKindProvider {
		column = "raised_by_provider_id"
	}
	query := fmt.Sprintf(`SELECT id, transaction_id, raised_by, raised_by_customer_id, raised_by_provider_id,
        description, status, created_at
        FROM disputes WHERE raised_by = $1 AND %s = $2 ORDER BY created_at DESC`, column)
	if err := q.SelectContext(ctx, &disputes, query, raiser.Kind, raiser.ID); err != nil {
		return nil, fmt.Errorf("failed to list disputes for %s: %w", raiser, err)
	}
	return disputes, nil
}
