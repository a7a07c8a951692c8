// internal/repository/party_repo.go
package repository

import (
	"context"

	"skillpay-wallet/internal/domain"
)

// PartyRepository is the read-only view of the identity store: contact and
// profile data for wallet owners. Identity rows are owned elsewhere.
type PartyRepository interface {
	// GetParty retrieves the contact data for the given owner.
	GetParty(ctx context.Context, q DBExecutor, owner domain.OwnerRef) (*domain.Party, error)
}
