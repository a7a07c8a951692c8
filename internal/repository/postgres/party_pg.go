// internal/repository/postgres/party_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
)

// PartyRepository implements repository.PartyRepository for PostgreSQL.
type PartyRepository struct{}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository() repository.PartyRepository {
	return &PartyRepository{}
}

// GetParty retrieves contact data for the given owner from the identity
// table matching its kind.
func (r *PartyRepository) GetParty(ctx context.Context, q repository.DBExecutor, owner domain.OwnerRef) (*domain.Party, error) {
	table := "customers"
	if owner.Kind == domain.OwnerKindProvider {
		table = "skill_providers"
	}
	var party domain.Party
	query := fmt.Sprintf(`SELECT id, first_name, last_name, email, phone FROM %s WHERE id = $1`, table)
	err := q.GetContext(ctx, &party, query, owner.ID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrPartyNotFound
		}
		return nil, fmt.Errorf("failed to get party %s: %w", owner, err)
	}
	return &party, nil
}
