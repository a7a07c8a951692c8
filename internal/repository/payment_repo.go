// internal/repository/payment_repo.go
package repository

import (
	"context"

	"skillpay-wallet/internal/domain"
)

// PaymentRepository defines the interface for gateway payment records.
type PaymentRepository interface {
	// InsertPayment records a new gateway payment.
	InsertPayment(ctx context.Context, q DBExecutor, payment *domain.Payment) error
	// GetByReference retrieves a payment by its unique reference.
	GetByReference(ctx context.Context, q DBExecutor, reference string) (*domain.Payment, error)
	// UpdateStatusByReference updates the status of the payment with the
	// given reference. Returns the number of rows affected.
	UpdateStatusByReference(ctx context.Context, q DBExecutor, reference string, status domain.PaymentStatus) (int64, error)
}
