// internal/service/confirmation_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/db"
)

// ConfirmationResult reports the outcome of a provider-track confirmation.
type ConfirmationResult struct {
	Confirmed bool   `json:"confirmed"`
	Message   string `json:"message"`
}

// ConfirmationService advances deferred transfers through the two-party
// confirmation workflow and records disputes. The customer track settles
// funds; the provider track is a gate that moves no money.
type ConfirmationService interface {
	// ConfirmCustomerPayment applies the customer-track transition. On
	// "completed" the recipient wallet is credited with the net amount and a
	// mirrored audit credit row is appended; on "unsatisfactory" the entry
	// is flagged and no money moves. One atomic unit either way.
	ConfirmCustomerPayment(ctx context.Context, transactionID int64, status domain.CustomerApproval, disputeMessage *string) (*domain.Transaction, error)
	// ConfirmProviderPayment applies the provider-track transition to an
	// entry still pending. A missing or already-confirmed entry yields a
	// negative result, not an error.
	ConfirmProviderPayment(ctx context.Context, transactionID int64, status domain.TransactionStatus, disputeMessage *string) (*ConfirmationResult, error)
	// RaiseDispute records a dispute by either counter-party against an
	// existing transaction.
	RaiseDispute(ctx context.Context, transactionID int64, raiser domain.OwnerRef, description string) (*domain.Dispute, error)
	// ListDisputes retrieves the disputes raised by one party.
	ListDisputes(ctx context.Context, raiser domain.OwnerRef) ([]domain.Dispute, error)
}

type confirmationService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	walletRepo  repository.WalletRepository
	ledgerRepo  repository.LedgerRepository
	disputeRepo repository.DisputeRepository
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
	rates       Rates
}

// NewConfirmationService creates a new instance of ConfirmationService.
func NewConfirmationService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	ledgerRepo repository.LedgerRepository,
	disputeRepo repository.DisputeRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	rates Rates,
) ConfirmationService {
	return &confirmationService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		walletRepo:  walletRepo,
		ledgerRepo:  ledgerRepo,
		disputeRepo: disputeRepo,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
		rates:       rates,
	}
}

func (s *confirmationService) ConfirmCustomerPayment(ctx context.Context, transactionID int64, status domain.CustomerApproval, disputeMessage *string) (*domain.Transaction, error) {
	if status != domain.ApprovalCompleted && status != domain.ApprovalUnsatisfactory {
		return nil, fmt.Errorf("%w: customer status must be %q or %q", util.ErrInvalidStatus, domain.ApprovalCompleted, domain.ApprovalUnsatisfactory)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("confirm customer: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("confirm customer: transaction controller does not implement DBExecutor")
	}

	entry, err := s.ledgerRepo.GetTransactionByIDForUpdate(ctx, txExecutor, transactionID)
	if err != nil {
		return nil, fmt.Errorf("confirm customer: transaction %d: %w", transactionID, err)
	}
	if entry.IsTerminal() {
		return nil, util.ErrAlreadyCompleted
	}

	if status == domain.ApprovalCompleted {
		if err := s.settle(ctx, txExecutor, entry); err != nil {
			return nil, err
		}
	} else {
		message := "Dispute raised by customer"
		if disputeMessage != nil && *disputeMessage != "" {
			message = *disputeMessage
		}
		if err := s.ledgerRepo.MarkUnsatisfactory(ctx, txExecutor, entry.ID, message); err != nil {
			return nil, fmt.Errorf("confirm customer: flag unsatisfactory: %w", err)
		}
	}

	updated, err := s.ledgerRepo.GetTransactionByID(ctx, txExecutor, transactionID)
	if err != nil {
		return nil, fmt.Errorf("confirm customer: re-fetch transaction %d: %w", transactionID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("confirm customer: failed to commit transaction: %w", err)
	}

	return updated, nil
}

// settle credits the recipient wallet and finalizes the entry. The stored
// amount is the base: the charge is recomputed against it at the settlement
// rate, the hash and metadata regenerated, and the mirrored credit row
// appended so the pair stays correlated.
func (s *confirmationService) settle(ctx context.Context, txExecutor repository.DBExecutor, entry *domain.Transaction) error {
	if entry.ProviderID == nil || entry.CustomerID == nil {
		return fmt.Errorf("confirm customer: transaction %d has no counter-parties", entry.ID)
	}

	recipientWallet, err := s.walletRepo.GetWalletByOwnerForUpdate(ctx, txExecutor, domain.ProviderRef(*entry.ProviderID))
	if err != nil {
		return fmt.Errorf("confirm customer: recipient wallet: %w", err)
	}

	serviceCharge := charge(entry.Amount, s.rates.Settlement)
	netAmount := entry.Amount.Sub(serviceCharge)

	if err := s.walletRepo.AdjustBalance(ctx, txExecutor, recipientWallet.ID, netAmount, serviceCharge); err != nil {
		return fmt.Errorf("confirm customer: credit recipient wallet: %w", err)
	}

	now := time.Now().UTC()
	hash := domain.NewTransactionHash(*entry.CustomerID, recipientWallet.ID, entry.Amount, now)
	note := ""
	if entry.Description != nil {
		note = *entry.Description
	}
	meta, err := domain.MergeMetadata(entry.Metadata, domain.NewInvoiceNumber(now), note, entry.Amount, netAmount)
	if err != nil {
		return fmt.Errorf("confirm customer: rebuild metadata: %w", err)
	}

	if err := s.ledgerRepo.MarkCompleted(ctx, txExecutor, entry.ID, hash, meta, now); err != nil {
		return fmt.Errorf("confirm customer: finalize transaction: %w", err)
	}

	credit := domain.NewSettlementCredit(*entry.CustomerID, *entry.ProviderID, netAmount, serviceCharge, note, hash, meta)
	if err := s.ledgerRepo.InsertTransaction(ctx, txExecutor, credit); err != nil {
		return fmt.Errorf("confirm customer: insert credit entry: %w", err)
	}
	return nil
}

func (s *confirmationService) ConfirmProviderPayment(ctx context.Context, transactionID int64, status domain.TransactionStatus, disputeMessage *string) (*ConfirmationResult, error) {
	if status != domain.StatusAccepted && status != domain.StatusRejected {
		return nil, fmt.Errorf("%w: provider status must be %q or %q", util.ErrInvalidStatus, domain.StatusAccepted, domain.StatusRejected)
	}

	var message *string
	if status == domain.StatusRejected {
		message = disputeMessage
	}

	rowsAffected, err := s.ledgerRepo.ConfirmProvider(ctx, s.dbExecutor, transactionID, status, message)
	if err != nil {
		return nil, fmt.Errorf("confirm provider: %w", err)
	}
	if rowsAffected == 0 {
		return &ConfirmationResult{Confirmed: false, Message: "transaction not found or already confirmed"}, nil
	}
	return &ConfirmationResult{Confirmed: true, Message: fmt.Sprintf("transaction %s successfully", status)}, nil
}

func (s *confirmationService) RaiseDispute(ctx context.Context, transactionID int64, raiser domain.OwnerRef, description string) (*domain.Dispute, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: dispute description is required", util.ErrInvalidInput)
	}

	// A dispute must point at a real transaction. Whether the raiser is a
	// party to it is deliberately not checked.
	if _, err := s.ledgerRepo.GetTransactionByID(ctx, s.dbExecutor, transactionID); err != nil {
		return nil, fmt.Errorf("raise dispute: transaction %d: %w", transactionID, err)
	}

	dispute := domain.NewDispute(transactionID, raiser, description)
	if err := s.disputeRepo.InsertDispute(ctx, s.dbExecutor, dispute); err != nil {
		return nil, fmt.Errorf("raise dispute: %w", err)
	}
	return dispute, nil
}

func (s *confirmationService) ListDisputes(ctx context.Context, raiser domain.OwnerRef) ([]domain.Dispute, error) {
	disputes, err := s.disputeRepo.ListByRaiser(ctx, s.dbExecutor, raiser)
	if err != nil {
		return nil, fmt.Errorf("list disputes: %w", err)
	}
	return disputes, nil
}
