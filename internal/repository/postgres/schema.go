// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schemaStatements create the ledger tables if they do not exist. The
// identity tables (customers, skill_providers) are owned by the surrounding
// system; they are created here only so a fresh database is usable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id BIGSERIAL PRIMARY KEY,
        first_name VARCHAR(100) NOT NULL,
        last_name VARCHAR(100) NOT NULL,
        email VARCHAR(255) NOT NULL UNIQUE,
        phone VARCHAR(50) NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS skill_providers (
        id BIGSERIAL PRIMARY KEY,
        first_name VARCHAR(100) NOT NULL,
        last_name VARCHAR(100) NOT NULL,
        email VARCHAR(255) NOT NULL UNIQUE,
        phone VARCHAR(50) NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS wallets (
        id BIGSERIAL PRIMARY KEY,
        wallet_type VARCHAR(20) NOT NULL CHECK (wallet_type IN ('customer', 'provider')),
        customer_id BIGINT REFERENCES customers(id) ON DELETE CASCADE,
        provider_id BIGINT REFERENCES skill_providers(id) ON DELETE CASCADE,
        balance NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        service_charge NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        merchant_fee NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CHECK ((customer_id IS NULL) <> (provider_id IS NULL)),
        UNIQUE (customer_id),
        UNIQUE (provider_id)
    )`,
	`CREATE TABLE IF NOT EXISTS transactions (
        id BIGSERIAL PRIMARY KEY,
        customer_id BIGINT REFERENCES customers(id) ON DELETE CASCADE,
        provider_id BIGINT REFERENCES skill_providers(id) ON DELETE CASCADE,
        transaction_type VARCHAR(20) NOT NULL CHECK (transaction_type IN ('credit', 'debit', 'transfer')),
        transaction_category VARCHAR(20) NOT NULL CHECK (transaction_category IN ('transfer', 'payment', 'refund', 'credit')),
        amount NUMERIC(15, 2) NOT NULL,
        service_charge NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        fee NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        merchant_fee NUMERIC(15, 2) NOT NULL DEFAULT 0.00,
        transaction_status VARCHAR(20) NOT NULL DEFAULT 'pending'
            CHECK (transaction_status IN ('pending', 'accepted', 'processed', 'rejected', 'completed', 'unsatisfactory')),
        customer_approval VARCHAR(20) NOT NULL DEFAULT 'incomplete'
            CHECK (customer_approval IN ('incomplete', 'completed', 'unsatisfactory')),
        description TEXT,
        dispute_message TEXT,
        metadata JSONB,
        transaction_hash VARCHAR(255),
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        completed_at TIMESTAMPTZ
    )`,
	`CREATE TABLE IF NOT EXISTS disputes (
        id BIGSERIAL PRIMARY KEY,
        transaction_id BIGINT NOT NULL REFERENCES transactions(id) ON DELETE CASCADE,
        raised_by VARCHAR(20) NOT NULL CHECK (raised_by IN ('customer', 'provider')),
        raised_by_customer_id BIGINT REFERENCES customers(id) ON DELETE CASCADE,
        raised_by_provider_id BIGINT REFERENCES skill_providers(id) ON DELETE CASCADE,
        description TEXT NOT NULL,
        status VARCHAR(20) NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'resolved', 'rejected')),
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
	`CREATE TABLE IF NOT EXISTS payments (
        id BIGSERIAL PRIMARY KEY,
        reference VARCHAR(255) NOT NULL UNIQUE,
        amount NUMERIC(15, 2) NOT NULL,
        email VARCHAR(255),
        full_name VARCHAR(255),
        status VARCHAR(50) NOT NULL,
        customer_id BIGINT REFERENCES customers(id) ON DELETE CASCADE,
        provider_id BIGINT REFERENCES skill_providers(id) ON DELETE CASCADE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
    )`,
}

// EnsureSchema applies the DDL inside one transaction so a half-created
// schema is never left behind.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}
