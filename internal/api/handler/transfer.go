// internal/api/handler/transfer.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/service"
	"skillpay-wallet/internal/util"
)

// TransferHandler handles HTTP requests for transfers, confirmations and
// disputes.
type TransferHandler struct {
	transferSvc     service.TransferService
	confirmationSvc service.ConfirmationService
	logger          *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferSvc service.TransferService, confirmationSvc service.ConfirmationService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferSvc:     transferSvc,
		confirmationSvc: confirmationSvc,
		logger:          logger,
	}
}

// TransferRequest represents the request body for a transfer.
type TransferRequest struct {
	CustomerID  int64           `json:"customer_id"`
	ProviderID  int64           `json:"provider_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Metadata    map[string]any  `json:"metadata"`
}

func (req *TransferRequest) validate() error {
	if req.CustomerID <= 0 || req.ProviderID <= 0 {
		return util.ErrInvalidInput
	}
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return util.ErrInvalidInput
	}
	return nil
}

// Transfer handles the immediate transfer request.
// POST /transfers
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if err := req.validate(); err != nil {
		respondWithError(w, err)
		return
	}

	transaction, err := h.transferSvc.TransferFunds(
		r.Context(),
		domain.CustomerRef(req.CustomerID),
		domain.ProviderRef(req.ProviderID),
		req.Amount,
		req.Description,
		req.Metadata,
	)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Transfer successful",
		"transaction": transaction,
	})
}

// DeferredTransfer handles the deferred transfer request.
// POST /transfers/deferred
func (h *TransferHandler) DeferredTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if err := req.validate(); err != nil {
		respondWithError(w, err)
		return
	}

	transaction, err := h.transferSvc.DeferredTransfer(
		r.Context(),
		domain.CustomerRef(req.CustomerID),
		domain.ProviderRef(req.ProviderID),
		req.Amount,
		req.Description,
		req.Metadata,
	)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Transfer initiated, awaiting confirmation",
		"transaction": transaction,
	})
}

func transactionIDFromURL(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "transactionID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}

// CustomerConfirmRequest represents the customer confirmation body.
type CustomerConfirmRequest struct {
	Status         domain.CustomerApproval `json:"status"`
	DisputeMessage *string                 `json:"dispute_message"`
}

// ConfirmCustomer handles the customer-track confirmation request.
// POST /transactions/{transactionID}/confirm/customer
func (h *TransferHandler) ConfirmCustomer(w http.ResponseWriter, r *http.Request) {
	transactionID, err := transactionIDFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req CustomerConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	transaction, err := h.confirmationSvc.ConfirmCustomerPayment(r.Context(), transactionID, req.Status, req.DisputeMessage)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Confirmation recorded",
		"transaction": transaction,
	})
}

// ProviderConfirmRequest represents the provider confirmation body.
type ProviderConfirmRequest struct {
	Status         domain.TransactionStatus `json:"status"`
	DisputeMessage *string                  `json:"dispute_message"`
}

// ConfirmProvider handles the provider-track confirmation request.
// POST /transactions/{transactionID}/confirm/provider
func (h *TransferHandler) ConfirmProvider(w http.ResponseWriter, r *http.Request) {
	transactionID, err := transactionIDFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req ProviderConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	result, err := h.confirmationSvc.ConfirmProviderPayment(r.Context(), transactionID, req.Status, req.DisputeMessage)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// DisputeRequest represents the request body for raising a dispute.
type DisputeRequest struct {
	TransactionID int64  `json:"transaction_id"`
	RaisedBy      string `json:"raised_by"` // "customer" or "provider"
	RaiserID      int64  `json:"raiser_id"`
	Description   string `json:"description"`
}

// RaiseDispute handles the dispute creation request.
// POST /disputes
func (h *TransferHandler) RaiseDispute(w http.ResponseWriter, r *http.Request) {
	var req DisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.TransactionID <= 0 || req.RaiserID <= 0 {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	kind, err := domain.ParseOwnerKind(req.RaisedBy)
	if err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	dispute, err := h.confirmationSvc.RaiseDispute(r.Context(), req.TransactionID, domain.OwnerRef{Kind: kind, ID: req.RaiserID}, req.Description)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, dispute)
}

// ListDisputes handles the dispute listing request.
// GET /disputes/{ownerKind}/{ownerID}
func (h *TransferHandler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	raiser, err := ownerFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	disputes, err := h.confirmationSvc.ListDisputes(r.Context(), raiser)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"data": disputes})
}
