package database

import (
	"context"
	"os"
	"testing"
)

// TestDatabaseIntegration tests the complete database lifecycle with SQLite
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_integration.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test that tables were created by migrations
	tables := []string{"users", "sessions", "password_reset_tokens", "migrations"}

	for _, table := range tables {
		query := "SELECT name FROM sqlite_master WHERE type='table' AND name=?"
		var name string
		err := db.QueryRowContext(ctx, query, table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Migrations must be idempotent
	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
}

// TestExecReturningID verifies inserts return the new row's ID
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_returning_id.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	id, err := db.ExecReturningID(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		"Test User", "test@example.com", "hashedpass")
	if err != nil {
		t.Fatalf("ExecReturningID() error = %v", err)
	}
	if id <= 0 {
		t.Errorf("ExecReturningID() = %d, want positive ID", id)
	}

	id2, err := db.ExecReturningID(ctx,
		"INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		"Second User", "second@example.com", "hashedpass")
	if err != nil {
		t.Fatalf("ExecReturningID() second insert error = %v", err)
	}
	if id2 <= id {
		t.Errorf("Second insert ID %d should be greater than first %d", id2, id)
	}
}

// TestDatabaseTransactions tests transaction support through the Tx wrapper
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dbPath := "test_transactions.db"
	defer os.Remove(dbPath)

	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.RunMigrations(ctx, "../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Test successful transaction
	tx, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	_, err = tx.Exec(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		"Tx User", "tx@example.com", "hashedpass")
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert in transaction: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit transaction: %v", err)
	}

	var count int
	err = db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", "tx@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}

	// Test rollback
	tx2, err := db.Begin(ctx)
	if err != nil {
		t.Fatalf("Failed to begin second transaction: %v", err)
	}

	_, err = tx2.Exec(ctx, "INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)",
		"Rollback User", "rollback@example.com", "hashedpass")
	if err != nil {
		tx2.Rollback()
		t.Fatalf("Failed to insert in second transaction: %v", err)
	}

	if err := tx2.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	err = db.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", "rollback@example.com").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 users after rollback, got %d", count)
	}
}
