// internal/domain/dispute.go
package domain

import "time"

// DisputeStatus defines the lifecycle of a dispute.
type DisputeStatus string

const (
	DisputePending  DisputeStatus = "pending"
	DisputeResolved DisputeStatus = "resolved"
	DisputeRejected DisputeStatus = "rejected"
)

// Dispute records a counter-party objection to a transaction's outcome.
// Exactly one of the raiser columns is populated, selected by RaisedBy.
type Dispute struct {
	ID                 int64         `db:"id" json:"id"`
	TransactionID      int64         `db:"transaction_id" json:"transaction_id"`
	RaisedBy           OwnerKind     `db:"raised_by" json:"raised_by"`
	RaisedByCustomerID *int64        `db:"raised_by_customer_id" json:"raised_by_customer_id"`
	RaisedByProviderID *int64        `db:"raised_by_provider_id" json:"raised_by_provider_id"`
	Description        string        `db:"description" json:"description"`
	Status             DisputeStatus `db:"status" json:"status"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
}

// NewDispute creates a pending dispute raised by the given party.
func NewDispute(transactionID int64, raiser OwnerRef, description string) *Dispute {
	return &Dispute{
		TransactionID:      transactionID,
		RaisedBy:           raiser.Kind,
		RaisedByCustomerID: raiser.CustomerID(),
		RaisedByProviderID: raiser.ProviderID(),
		Description:        description,
		Status:             DisputePending,
		CreatedAt:          time.Now().UTC(),
	}
}
