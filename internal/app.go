// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "skillpay-wallet/internal/api"
	"skillpay-wallet/internal/api/handler"
	"skillpay-wallet/internal/config"
	"skillpay-wallet/internal/repository"
	"skillpay-wallet/internal/repository/postgres"
	"skillpay-wallet/internal/service"
	"skillpay-wallet/internal/util"
	"skillpay-wallet/pkg/cache"
	"skillpay-wallet/pkg/db"
	"skillpay-wallet/pkg/gateway"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB
	Cache  *cache.RedisCache

	// Repositories
	WalletRepository  repository.WalletRepository
	LedgerRepository  repository.LedgerRepository
	DisputeRepository repository.DisputeRepository
	PaymentRepository repository.PaymentRepository
	PartyRepository   repository.PartyRepository

	// Services
	WalletService       service.WalletService
	TransferService     service.TransferService
	ConfirmationService service.ConfirmationService
	GatewayService      service.GatewayService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := postgres.EnsureSchema(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to apply database schema: %w", err)
	}
	app.Logger.Info("Database schema verified.")

	// 4. Connect to Redis
	referenceCache, err := cache.NewRedisCache(ctx, app.Config.RedisAddr, app.Config.ReferenceTTL)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.Cache = referenceCache
	app.Logger.Info("Redis connection established.")

	// 5. Initialize Repositories
	app.WalletRepository = postgres.NewWalletRepository()
	app.LedgerRepository = postgres.NewLedgerRepository()
	app.DisputeRepository = postgres.NewDisputeRepository()
	app.PaymentRepository = postgres.NewPaymentRepository()
	app.PartyRepository = postgres.NewPartyRepository()
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	rates := service.Rates{
		Transfer:   app.Config.TransferChargeRate,
		Settlement: app.Config.SettlementChargeRate,
	}
	app.TransferService = service.NewTransferService(
		app.DB,
		app.WalletRepository,
		app.LedgerRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		rates,
	)
	app.ConfirmationService = service.NewConfirmationService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.LedgerRepository,
		app.DisputeRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		rates,
	)
	app.WalletService = service.NewWalletService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.LedgerRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	gatewayClient := gateway.NewHTTPClient(app.Config.GatewayURL, app.Config.GatewaySecret)
	app.GatewayService = service.NewGatewayService(
		app.DB,
		app.DB,
		app.WalletRepository,
		app.LedgerRepository,
		app.PaymentRepository,
		app.PartyRepository,
		app.TransferService,
		gatewayClient,
		app.Cache,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	walletHandler := handler.NewWalletHandler(app.WalletService, app.Logger)
	transferHandler := handler.NewTransferHandler(app.TransferService, app.ConfirmationService, app.Logger)
	gatewayHandler := handler.NewGatewayHandler(app.GatewayService, app.Logger)
	app.HTTPHandler = router.NewRouter(walletHandler, transferHandler, gatewayHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			app.Logger.Error("Failed to close Redis connection", "error", err)
		} else {
			app.Logger.Info("Redis connection closed.")
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
