// internal/domain/payment.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks a gateway-funded payment record.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentSuccessful PaymentStatus = "successful" // withdrawal records
)

// Payment is one externally funded deposit or withdrawal tracked against the
// outside payment processor, keyed by its unique reference.
type Payment struct {
	ID         int64           `db:"id" json:"id"`
	Reference  string          `db:"reference" json:"reference"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Email      *string         `db:"email" json:"email"`
	FullName   *string         `db:"full_name" json:"full_name"`
	Status     PaymentStatus   `db:"status" json:"status"`
	CustomerID *int64          `db:"customer_id" json:"customer_id"`
	ProviderID *int64          `db:"provider_id" json:"provider_id"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// NewPayment creates a payment record for the given owner.
func NewPayment(reference string, amount decimal.Decimal, owner OwnerRef, status PaymentStatus) *Payment {
	now := time.Now().UTC()
	return &Payment{
		Reference:  reference,
		Amount:     amount,
		Status:     status,
		CustomerID: owner.CustomerID(),
		ProviderID: owner.ProviderID(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
