// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"skillpay-wallet/pkg/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// AppConfig holds all application-wide configuration.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// TransferChargeRate applies to immediate transfers and wallet debits.
	TransferChargeRate decimal.Decimal
	// SettlementChargeRate applies to deferred transfers and the credit
	// performed on customer confirmation.
	SettlementChargeRate decimal.Decimal

	RedisAddr     string
	ReferenceTTL  time.Duration
	GatewayURL    string
	GatewaySecret string
}

// LoadConfig loads configuration from the environment. A .env file is read
// first when present.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load()

	serverPort := getEnv("SERVER_PORT", "8080")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	transferRate, err := decimal.NewFromString(getEnv("TRANSFER_CHARGE_RATE", "0.04"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRANSFER_CHARGE_RATE: %w", err)
	}
	settlementRate, err := decimal.NewFromString(getEnv("SETTLEMENT_CHARGE_RATE", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid SETTLEMENT_CHARGE_RATE: %w", err)
	}
	if transferRate.IsNegative() || settlementRate.IsNegative() {
		return nil, fmt.Errorf("charge rates must not be negative")
	}

	referenceTTL, err := time.ParseDuration(getEnv("REFERENCE_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFERENCE_TTL: %w", err)
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "skillpaydb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		TransferChargeRate:   transferRate,
		SettlementChargeRate: settlementRate,
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		ReferenceTTL:         referenceTTL,
		GatewayURL:           getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		GatewaySecret:        os.Getenv("PAYSTACK_SECRET_KEY"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
