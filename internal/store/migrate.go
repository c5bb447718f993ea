package store

import (
	"context"
	"database/sql"
	"fmt"
)

// migrate applies the schema. All statements are idempotent; the caller
// provides an opened *sql.DB.
func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            customer_id TEXT PRIMARY KEY,
            name TEXT,
            age INTEGER,
            country TEXT,
            segment TEXT,
            email TEXT,
            signup_date TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS transactions (
            transaction_id TEXT PRIMARY KEY,
            customer_id TEXT NOT NULL,
            amount REAL NOT NULL,
            category TEXT,
            order_date TEXT NOT NULL,
            FOREIGN KEY(customer_id) REFERENCES customers(customer_id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id);`,
		`CREATE TABLE IF NOT EXISTS interactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer_id TEXT NOT NULL,
            item_id TEXT NOT NULL,
            action TEXT NOT NULL,
            ts TEXT NOT NULL,
            FOREIGN KEY(customer_id) REFERENCES customers(customer_id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_customer ON interactions(customer_id);`,
		// generated retention emails, kept for human review of AI copy
		`CREATE TABLE IF NOT EXISTS marketing_campaigns (
            id TEXT PRIMARY KEY,
            customer_id TEXT NOT NULL,
            risk_segment TEXT,
            subject TEXT,
            body TEXT,
            strategy TEXT,
            created_at TEXT NOT NULL,
            FOREIGN KEY(customer_id) REFERENCES customers(customer_id)
        );`,
		`CREATE INDEX IF NOT EXISTS idx_campaigns_customer ON marketing_campaigns(customer_id);`,
	}
	for i, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}
