// internal/domain/transaction.go
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// TransactionType defines the direction of a ledger entry.
type TransactionType string

const (
	TransactionTypeCredit   TransactionType = "credit"
	TransactionTypeDebit    TransactionType = "debit"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionCategory classifies what a ledger entry records.
type TransactionCategory string

const (
	CategoryTransfer TransactionCategory = "transfer"
	CategoryPayment  TransactionCategory = "payment"
	CategoryRefund   TransactionCategory = "refund"
	CategoryCredit   TransactionCategory = "credit"
)

// TransactionStatus defines the overall status of a ledger entry.
type TransactionStatus string

const (
	StatusPending        TransactionStatus = "pending"
	StatusAccepted       TransactionStatus = "accepted"
	StatusProcessed      TransactionStatus = "processed"
	StatusRejected       TransactionStatus = "rejected"
	StatusCompleted      TransactionStatus = "completed"
	StatusUnsatisfactory TransactionStatus = "unsatisfactory"
)

// CustomerApproval is the customer-side confirmation track of an entry.
type CustomerApproval string

const (
	ApprovalIncomplete     CustomerApproval = "incomplete"
	ApprovalCompleted      CustomerApproval = "completed"
	ApprovalUnsatisfactory CustomerApproval = "unsatisfactory"
)

// Transaction represents one ledger row describing a movement of funds or
// its audit trail. Sender side is the customer reference, recipient side the
// provider reference; either may be null depending on the entry type.
type Transaction struct {
	ID             int64               `db:"id" json:"id"`
	CustomerID     *int64              `db:"customer_id" json:"customer_id"`
	ProviderID     *int64              `db:"provider_id" json:"provider_id"`
	Type           TransactionType     `db:"transaction_type" json:"transaction_type"`
	Category       TransactionCategory `db:"transaction_category" json:"transaction_category"`
	Amount         decimal.Decimal     `db:"amount" json:"amount"`
	ServiceCharge  decimal.Decimal     `db:"service_charge" json:"service_charge"`
	Fee            decimal.Decimal     `db:"fee" json:"fee"`
	MerchantFee    decimal.Decimal     `db:"merchant_fee" json:"merchant_fee"`
	Status         TransactionStatus   `db:"transaction_status" json:"transaction_status"`
	Approval       CustomerApproval    `db:"customer_approval" json:"customer_approval"`
	Description    *string             `db:"description" json:"description"`
	DisputeMessage *string             `db:"dispute_message" json:"dispute_message"`
	Metadata       types.JSONText      `db:"metadata" json:"metadata"`
	Hash           string              `db:"transaction_hash" json:"transaction_hash"`
	CreatedAt      time.Time           `db:"created_at" json:"created_at"`
	CompletedAt    *time.Time          `db:"completed_at" json:"completed_at"`
}

// IsTerminal reports whether the entry can no longer be mutated.
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusCompleted
}

// LedgerPair is the dual-entry record of one logical transfer: the sender's
// outflow and the recipient's net inflow, correlated by a shared hash.
type LedgerPair struct {
	Outflow *Transaction
	Inflow  *Transaction
}

// NewTransactionHash derives the content hash correlating the rows of one
// logical transfer.
func NewTransactionHash(senderWalletID, recipientWalletID int64, amount decimal.Decimal, ts time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d%d%s%d", senderWalletID, recipientWalletID, amount.String(), ts.UnixNano())))
	return hex.EncodeToString(sum[:])
}

// NewInvoiceNumber generates an invoice number for transfer metadata.
func NewInvoiceNumber(ts time.Time) string {
	return "INV" + strconv.FormatInt(ts.UnixMilli(), 10)
}

// BuildMetadata merges caller-supplied metadata with the bookkeeping fields
// every transfer entry carries: invoice number, human note, the gross amount
// and the amount after deductions.
func BuildMetadata(extra map[string]any, invoiceNumber, note string, gross, net decimal.Decimal) (types.JSONText, error) {
	merged := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		merged[k] = v
	}
	merged["invoiceNumber"] = invoiceNumber
	merged["note"] = note
	merged["actualAmount"] = gross
	merged["amountAfterDeductions"] = net

	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return types.JSONText(raw), nil
}

// MergeMetadata rebuilds the bookkeeping fields on top of an existing blob,
// preserving any caller-supplied keys.
func MergeMetadata(existing types.JSONText, invoiceNumber, note string, gross, net decimal.Decimal) (types.JSONText, error) {
	extra := map[string]any{}
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &extra); err != nil {
			return nil, fmt.Errorf("unmarshal existing metadata: %w", err)
		}
	}
	return BuildMetadata(extra, invoiceNumber, note, gross, net)
}

// NewTransferPair builds the two completed ledger rows of an immediate
// transfer. The outflow carries the gross amount with no service charge, the
// inflow carries the net amount with the charge attached; both share the
// given hash and metadata.
func NewTransferPair(customerID, providerID int64, gross, net, serviceCharge decimal.Decimal, description, hash string, metadata types.JSONText) *LedgerPair {
	now := time.Now().UTC()
	desc := description
	return &LedgerPair{
		Outflow: &Transaction{
			CustomerID:    &customerID,
			ProviderID:    &providerID,
			Type:          TransactionTypeTransfer,
			Category:      CategoryTransfer,
			Amount:        gross,
			ServiceCharge: decimal.Zero,
			Fee:           decimal.Zero,
			MerchantFee:   decimal.Zero,
			Status:        StatusCompleted,
			Approval:      ApprovalIncomplete,
			Description:   &desc,
			Metadata:      metadata,
			Hash:          hash,
			CreatedAt:     now,
		},
		Inflow: &Transaction{
			CustomerID:    &customerID,
			ProviderID:    &providerID,
			Type:          TransactionTypeTransfer,
			Category:      CategoryTransfer,
			Amount:        net,
			ServiceCharge: serviceCharge,
			Fee:           decimal.Zero,
			MerchantFee:   decimal.Zero,
			Status:        StatusCompleted,
			Approval:      ApprovalIncomplete,
			Description:   &desc,
			Metadata:      metadata,
			Hash:          hash,
			CreatedAt:     now,
		},
	}
}

// NewDeferredEntry builds the single pending row of a deferred transfer: the
// sender is already debited, the recipient credit awaits confirmation.
func NewDeferredEntry(customerID, providerID int64, net, serviceCharge decimal.Decimal, description, hash string, metadata types.JSONText) *Transaction {
	desc := description
	return &Transaction{
		CustomerID:    &customerID,
		ProviderID:    &providerID,
		Type:          TransactionTypeTransfer,
		Category:      CategoryTransfer,
		Amount:        net,
		ServiceCharge: serviceCharge,
		Fee:           decimal.Zero,
		MerchantFee:   decimal.Zero,
		Status:        StatusPending,
		Approval:      ApprovalIncomplete,
		Description:   &desc,
		Metadata:      metadata,
		Hash:          hash,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewDebitEntry builds the withdrawal row for the owning wallet.
func NewDebitEntry(owner OwnerRef, amount, serviceCharge decimal.Decimal, description string) *Transaction {
	desc := description
	return &Transaction{
		CustomerID:    owner.CustomerID(),
		ProviderID:    owner.ProviderID(),
		Type:          TransactionTypeDebit,
		Category:      CategoryPayment,
		Amount:        amount,
		ServiceCharge: serviceCharge,
		Fee:           decimal.Zero,
		MerchantFee:   decimal.Zero,
		Status:        StatusCompleted,
		Approval:      ApprovalIncomplete,
		Description:   &desc,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewSettlementCredit builds the audit credit row mirroring a confirmed
// deferred transfer, sharing the settled entry's hash and metadata.
func NewSettlementCredit(customerID, providerID int64, net, serviceCharge decimal.Decimal, note, hash string, metadata types.JSONText) *Transaction {
	desc := note
	return &Transaction{
		CustomerID:    &customerID,
		ProviderID:    &providerID,
		Type:          TransactionTypeCredit,
		Category:      CategoryCredit,
		Amount:        net,
		ServiceCharge: serviceCharge,
		Fee:           decimal.Zero,
		MerchantFee:   decimal.Zero,
		Status:        StatusProcessed,
		Approval:      ApprovalCompleted,
		Description:   &desc,
		Metadata:      metadata,
		Hash:          hash,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewGatewayCredit builds the ledger row for an externally funded deposit.
// The full gross amount is credited; no service charge applies on this path.
func NewGatewayCredit(customerID int64, amount decimal.Decimal, description string) *Transaction {
	desc := description
	return &Transaction{
		CustomerID:  &customerID,
		Type:        TransactionTypeCredit,
		Category:    CategoryPayment,
		Amount:      amount,
		Status:      StatusCompleted,
		Approval:    ApprovalCompleted,
		Description: &desc,
		CreatedAt:   time.Now().UTC(),
	}
}
