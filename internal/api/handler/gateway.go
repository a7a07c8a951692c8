// internal/api/handler/gateway.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/service"
	"skillpay-wallet/internal/util"
)

// GatewayHandler handles HTTP requests for gateway-funded payments and
// withdrawals.
type GatewayHandler struct {
	service service.GatewayService
	logger  *slog.Logger
}

// NewGatewayHandler creates a new GatewayHandler.
func NewGatewayHandler(svc service.GatewayService, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{
		service: svc,
		logger:  logger,
	}
}

// InitiatePaymentRequest represents the request body for initiating a payment.
type InitiatePaymentRequest struct {
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// InitiatePayment handles the payment initiation request.
// POST /payments/initiate
func (h *GatewayHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	var req InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.CustomerID <= 0 || req.Amount.IsNegative() || req.Amount.IsZero() {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	session, err := h.service.InitiatePayment(r.Context(), req.CustomerID, req.Amount)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

// VerifyPayment handles the payment verification request.
// GET /payments/verify/{reference}
func (h *GatewayHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")
	if reference == "" {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	data, err := h.service.VerifyPayment(r.Context(), reference)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, data)
}

// CallbackRequest represents the gateway callback body.
type CallbackRequest struct {
	Reference  string          `json:"reference"`
	Status     string          `json:"status"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// HandleCallback handles the gateway payment callback.
// POST /payments/callback
func (h *GatewayHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var req CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.Reference == "" || req.CustomerID <= 0 {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	payment, err := h.service.HandleCallback(r.Context(), service.CallbackRequest{
		Reference:  req.Reference,
		Status:     domain.PaymentStatus(req.Status),
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
	})
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Payment settled",
		"payment": payment,
	})
}

// WithdrawRequest represents the request body for a withdrawal.
type WithdrawRequest struct {
	ProviderID int64           `json:"provider_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// Withdraw handles the provider withdrawal request.
// POST /withdrawals
func (h *GatewayHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, util.ErrInvalidInput)
		return
	}
	if req.ProviderID <= 0 || req.Amount.IsNegative() || req.Amount.IsZero() {
		respondWithError(w, util.ErrInvalidInput)
		return
	}

	wallet, payment, err := h.service.Withdraw(r.Context(), req.ProviderID, req.Amount)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Withdrawal successful",
		"new_balance": wallet.Balance,
		"payment":     payment,
	})
}
