// internal/api/handler/wallet.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"skillpay-wallet/internal/api/types"
	"skillpay-wallet/internal/domain"
	"skillpay-wallet/internal/service"
	"skillpay-wallet/internal/util"
)

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	service service.WalletService
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		logger:  logger,
	}
}

// ownerFromURL parses the {ownerKind}/{ownerID} URL segments.
func ownerFromURL(r *http.Request) (domain.OwnerRef, error) {
	kind, err := domain.ParseOwnerKind(chi.URLParam(r, "ownerKind"))
	if err != nil {
		return domain.OwnerRef{}, util.ErrInvalidInput
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "ownerID"), 10, 64)
	if err != nil || id <= 0 {
		return domain.OwnerRef{}, util.ErrInvalidInput
	}
	return domain.OwnerRef{Kind: kind, ID: id}, nil
}

// ProvisionWallet handles the wallet provisioning request.
// POST /wallets/{ownerKind}/{ownerID}
func (h *WalletHandler) ProvisionWallet(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	wallet, err := h.service.ProvisionWallet(r.Context(), owner)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wallet)
}

// GetWallet handles the wallet lookup request.
// GET /wallets/{ownerKind}/{ownerID}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), owner)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wallet)
}

// GetTransactionHistory handles the transaction history request.
// GET /wallets/{ownerKind}/{ownerID}/transactions
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerFromURL(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	// Parse query parameters for pagination
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10 // Default limit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0 // Default offset
	}

	entries, totalCount, err := h.service.GetTransactionHistory(r.Context(), owner, limit, offset)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.HistoryEntry]{
		Data:       entries,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
