// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet represents one owner's stored balance plus accumulated fee counters.
type Wallet struct {
	ID            int64           `db:"id" json:"id"`
	Kind          OwnerKind       `db:"wallet_type" json:"wallet_type"`
	CustomerID    *int64          `db:"customer_id" json:"customer_id"`
	ProviderID    *int64          `db:"provider_id" json:"provider_id"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`                 // NUMERIC(15, 2) in DB
	ServiceCharge decimal.Decimal `db:"service_charge" json:"service_charge"`   // accumulated service charges
	MerchantFee   decimal.Decimal `db:"merchant_fee" json:"merchant_fee"`       // accumulated gateway fees
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a zero-balance Wallet for the given owner.
func NewWallet(owner OwnerRef) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		Kind:          owner.Kind,
		CustomerID:    owner.CustomerID(),
		ProviderID:    owner.ProviderID(),
		Balance:       decimal.Zero,
		ServiceCharge: decimal.Zero,
		MerchantFee:   decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Owner returns the tagged owner reference this wallet belongs to.
func (w *Wallet) Owner() OwnerRef {
	if w.Kind == OwnerKindCustomer && w.CustomerID != nil {
		return CustomerRef(*w.CustomerID)
	}
	if w.ProviderID != nil {
		return ProviderRef(*w.ProviderID)
	}
	return OwnerRef{Kind: w.Kind}
}
