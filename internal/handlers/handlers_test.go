package handlers

import (
	"context"
	"os"
	"testing"
	"time"

	"authgate/internal/database"
	"authgate/internal/repository"
	"authgate/internal/security"
	"authgate/internal/service"
)

// testMailer stands in for the SES gateway in handler tests
type testMailer struct {
	enabled    bool
	resetSent  int
	contact    []string
	sendErr    error
	contactErr error
}

func (m *testMailer) IsEnabled() bool {
	return m.enabled
}

func (m *testMailer) SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.resetSent++
	return nil
}

func (m *testMailer) SendContactEmail(ctx context.Context, fromEmail, fromName, message string) error {
	if m.contactErr != nil {
		return m.contactErr
	}
	m.contact = append(m.contact, fromEmail)
	return nil
}

// testApp wires the full handler stack over a SQLite database
type testApp struct {
	db       *database.DB
	authSvc  *service.AuthService
	resetSvc *service.ResetService
	mailer   *testMailer
	signer   *security.CookieSigner

	auth  *AuthHandler
	reset *ResetHandler
}

func newTestApp(t *testing.T, name string) *testApp {
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

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	hasher := security.NewHasher(4)
	mailer := &testMailer{enabled: true}
	signer := security.NewCookieSigner("test-secret")

	authSvc := service.NewAuthService(userRepo, hasher, 24*time.Hour, 5*time.Second)
	resetSvc := service.NewResetService(tokenRepo, userRepo, hasher, mailer, time.Hour, 5*time.Second)

	return &testApp{
		db:       db,
		authSvc:  authSvc,
		resetSvc: resetSvc,
		mailer:   mailer,
		signer:   signer,
		auth:     NewAuthHandler(authSvc, signer),
		reset:    NewResetHandler(resetSvc),
	}
}

// register creates an account directly through the service layer
func (a *testApp) register(t *testing.T, name, email, password string) {
	t.Helper()
	if _, err := a.authSvc.Register(context.Background(), name, email, password, password); err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
}
