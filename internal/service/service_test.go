package service

import (
	"context"
	"os"
	"testing"
	"time"

	"authgate/internal/database"
	"authgate/internal/repository"
	"authgate/internal/security"
)

// newTestDB creates a SQLite database with the application schema for
// service tests.
func newTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	dbPath := name + ".db"
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	ctx := context.Background()
	schema := []string{
		`CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE password_reset_tokens (
			email TEXT PRIMARY KEY,
			token TEXT NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to create test schema: %v", err)
		}
	}

	return db
}

// newAuthService builds an AuthService over a fresh test database.
// Uses the minimum bcrypt cost to keep the tests fast.
func newAuthService(t *testing.T, name string) (*AuthService, *repository.UserRepository) {
	t.Helper()
	db := newTestDB(t, name)
	userRepo := repository.NewUserRepository(db)
	hasher := security.NewHasher(4)
	return NewAuthService(userRepo, hasher, 24*time.Hour, 5*time.Second), userRepo
}

// stubMailer records reset emails instead of sending them
type stubMailer struct {
	enabled bool
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	email string
	name  string
	token string
}

func (m *stubMailer) IsEnabled() bool {
	return m.enabled
}

func (m *stubMailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{email: toEmail, name: toName, token: token})
	return nil
}
