// internal/domain/owner.go
package domain

import "fmt"

// OwnerKind distinguishes the two kinds of wallet owners.
type OwnerKind string

const (
	OwnerKindCustomer OwnerKind = "customer"
	OwnerKindProvider OwnerKind = "provider"
)

// ParseOwnerKind converts a string into an OwnerKind.
func ParseOwnerKind(s string) (OwnerKind, error) {
	switch OwnerKind(s) {
	case OwnerKindCustomer, OwnerKindProvider:
		return OwnerKind(s), nil
	default:
		return "", fmt.Errorf("unknown owner kind %q", s)
	}
}

// OwnerRef is a tagged reference to a wallet owner: exactly one of the two
// underlying identity tables, selected by Kind.
type OwnerRef struct {
	Kind OwnerKind
	ID   int64
}

// CustomerRef returns an OwnerRef for a customer.
func CustomerRef(id int64) OwnerRef {
	return OwnerRef{Kind: OwnerKindCustomer, ID: id}
}

// ProviderRef returns an OwnerRef for a skill provider.
func ProviderRef(id int64) OwnerRef {
	return OwnerRef{Kind: OwnerKindProvider, ID: id}
}

// CustomerID returns the customer-side column value for this reference.
func (r OwnerRef) CustomerID() *int64 {
	if r.Kind == OwnerKindCustomer {
		id := r.ID
		return &id
	}
	return nil
}

// ProviderID returns the provider-side column value for this reference.
func (r OwnerRef) ProviderID() *int64 {
	if r.Kind == OwnerKindProvider {
		id := r.ID
		return &id
	}
	return nil
}

func (r OwnerRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}
