package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"authgate/internal/repository"
	"authgate/internal/security"
	"authgate/internal/validation"
)

var (
	ErrInvalidToken = errors.New("invalid reset token")
	ErrExpiredToken = errors.New("expired reset token")
	ErrMailDelivery = errors.New("failed to deliver reset email")
)

// Mailer is the notification boundary the reset flow depends on.
// *EmailService implements it; tests substitute a stub.
type Mailer interface {
	IsEnabled() bool
	SendPasswordResetEmail(ctx context.Context, toEmail, toName, token string) error
}

// ResetService owns the password reset token lifecycle: issue, validate,
// consume. Tokens are bound to an email, time-limited, and single-use.
type ResetService struct {
	tokenRepo    *repository.TokenRepository
	userRepo     *repository.UserRepository
	hasher       *security.Hasher
	mailer       Mailer
	tokenTTL     time.Duration
	queryTimeout time.Duration
}

// NewResetService creates a new reset service
func NewResetService(tokenRepo *repository.TokenRepository, userRepo *repository.UserRepository, hasher *security.Hasher, mailer Mailer, tokenTTL, queryTimeout time.Duration) *ResetService {
	return &ResetService{
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		hasher:       hasher,
		mailer:       mailer,
		tokenTTL:     tokenTTL,
		queryTimeout: queryTimeout,
	}
}

// Issue creates a reset token for an email, replacing any previous token
// for that email. It succeeds whether or not the email belongs to an
// account: the token row is written either way, and the reset mail is
// simply skipped at the notification boundary for unknown emails, so the
// caller's response never depends on account existence.
func (s *ResetService) Issue(ctx context.Context, email string) (string, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return "", err
	}
	email = validation.NormalizeEmail(email)

	token, err := security.GenerateResetToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	expiresAt := time.Now().Add(s.tokenTTL)
	if err := s.tokenRepo.Upsert(ctx, email, token, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	if user != nil && s.mailer != nil && s.mailer.IsEnabled() {
		if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, token); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMailDelivery, err)
		}
	}

	return token, nil
}

// Validate looks up a token and returns the email it is bound to.
// Absent tokens report ErrInvalidToken; expired ones report
// ErrExpiredToken and are purged on the way out.
func (s *ResetService) Validate(ctx context.Context, token string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.validate(ctx, token)
}

func (s *ResetService) validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	rt, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to get reset token: %w", err)
	}
	if rt == nil {
		return "", ErrInvalidToken
	}

	if rt.IsExpired() {
		// Lazy purge; the row is invalid regardless
		_, _ = s.tokenRepo.DeleteByToken(ctx, token)
		return "", ErrExpiredToken
	}

	return rt.Email, nil
}

// Consume re-validates a token in the same call, then updates the bound
// account's password and removes the token. The conditional delete is the
// single-use gate: of two racing consumers only the one whose delete
// removed the row proceeds to update the password. Any failure before the
// delete leaves the password unchanged.
func (s *ResetService) Consume(ctx context.Context, token, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	email, err := s.validate(ctx, token)
	if err != nil {
		return err
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	deleted, err := s.tokenRepo.DeleteByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if !deleted {
		// Another request consumed the token first
		return ErrInvalidToken
	}

	if err := s.userRepo.UpdatePassword(ctx, email, newHash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Token was issued for an email with no account
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// CleanupExpired removes expired reset tokens
func (s *ResetService) CleanupExpired(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.tokenRepo.DeleteExpired(ctx); err != nil {
		return fmt.Errorf("failed to cleanup reset tokens: %w", err)
	}
	return nil
}

func (s *ResetService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}
