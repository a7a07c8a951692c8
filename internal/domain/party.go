// internal/domain/party.go
package domain

// Party is the contact/profile projection of a wallet owner, read from the
// identity store. This subsystem never writes identity data.
type Party struct {
	ID        int64  `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
}

// FullName returns the display name used on transaction histories.
func (p *Party) FullName() string {
	return p.FirstName + " " + p.LastName
}

// HistoryEntry is one transaction joined against the counter-party's
// identity for display.
type HistoryEntry struct {
	Transaction
	CounterpartyFirstName *string `db:"counterparty_first_name" json:"counterparty_first_name"`
	CounterpartyLastName  *string `db:"counterparty_last_name" json:"counterparty_last_name"`
	CounterpartyEmail     *string `db:"counterparty_email" json:"counterparty_email"`
	CounterpartyPhone     *string `db:"counterparty_phone" json:"counterparty_phone"`
}
