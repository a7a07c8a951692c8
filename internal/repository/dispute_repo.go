// internal/repository/dispute_repo.go
package repository

import (
	"context"

	"skillpay-wallet/internal/domain"
)

// DisputeRepository defines the interface for dispute-log operations.
type DisputeRepository interface {
	// InsertDispute records a new dispute against an existing transaction.
	InsertDispute(ctx context.Context, q DBExecutor, dispute *domain.Dispute) error
	// ListByRaiser retrieves the disputes raised by one party, newest first.
	ListByRaiser(ctx context.Context, q DBExecutor, raiser domain.OwnerRef) ([]domain.Dispute, error)
}
