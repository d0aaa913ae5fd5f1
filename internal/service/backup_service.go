package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"authgate/internal/database"
	"authgate/internal/repository"
)

// BackupData represents the user store backup structure
type BackupData struct {
	Version      string       `json:"version"`
	ExportedAt   time.Time    `json:"exported_at"`
	DatabaseType string       `json:"database_type"`
	Users        []UserBackup `json:"users"`
}

// UserBackup represents a user record for backup. Hashes are included;
// the file is an operator-side backup and never crosses the HTTP boundary.
type UserBackup struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackupService exports and imports the user store
type BackupService struct {
	db       *database.DB
	userRepo *repository.UserRepository
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{
		db:       db,
		userRepo: repository.NewUserRepository(db),
	}
}

// Export writes all users to a JSON file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	backup := BackupData{
		Version:      "1",
		ExportedAt:   time.Now(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to query users: %w", err)
	}
	for _, u := range users {
		backup.Users = append(backup.Users, UserBackup{
			ID:           u.ID,
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			CreatedAt:    u.CreatedAt,
			UpdatedAt:    u.UpdatedAt,
		})
	}

	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal backup: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}

	return nil
}

// Import loads users from a JSON backup file inside a single transaction.
// With clear set, existing users are removed first.
func (s *BackupService) Import(ctx context.Context, inputPath string, clear bool) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		if _, err := tx.Exec(ctx, "DELETE FROM users"); err != nil {
			return fmt.Errorf("failed to clear users: %w", err)
		}
	}

	query := `
		INSERT INTO users (name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, u := range backup.Users {
		if _, err := tx.Exec(ctx, query, u.Name, u.Email, u.PasswordHash, u.CreatedAt, u.UpdatedAt); err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Email, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	return nil
}
