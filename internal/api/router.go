// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"skillpay-wallet/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	walletHandler *handler.WalletHandler,
	transferHandler *handler.TransferHandler,
	gatewayHandler *handler.GatewayHandler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Wallet API routes
	r.Route("/wallets", func(r chi.Router) {
		r.Post("/{ownerKind}/{ownerID}", walletHandler.ProvisionWallet)
		r.Get("/{ownerKind}/{ownerID}", walletHandler.GetWallet)
		r.Get("/{ownerKind}/{ownerID}/transactions", walletHandler.GetTransactionHistory)
	})

	// Transfer and confirmation routes
	r.Post("/transfers", transferHandler.Transfer)
	r.Post("/transfers/deferred", transferHandler.DeferredTransfer)
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/{transactionID}/confirm/customer", transferHandler.ConfirmCustomer)
		r.Post("/{transactionID}/confirm/provider", transferHandler.ConfirmProvider)
	})

	// Dispute routes
	r.Route("/disputes", func(r chi.Router) {
		r.Post("/", transferHandler.RaiseDispute)
		r.Get("/{ownerKind}/{ownerID}", transferHandler.ListDisputes)
	})

	// Gateway payment and withdrawal routes
	r.Route("/payments", func(r chi.Router) {
		r.Post("/initiate", gatewayHandler.InitiatePayment)
		r.Get("/verify/{reference}", gatewayHandler.VerifyPayment)
		r.Post("/callback", gatewayHandler.HandleCallback)
	})
	r.Post("/withdrawals", gatewayHandler.Withdraw)

	return r
}
