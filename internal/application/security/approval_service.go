// Package security configures and verifies the cancellation approval secret.
package security

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/labcore/backend/internal/domain/security"
	"github.com/labcore/backend/internal/infrastructure/logger"
	"github.com/labcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultMinSecretLength applies when no minimum is configured
const DefaultMinSecretLength = 8

// ApprovalService manages the system-wide approval secret
type ApprovalService struct {
	store     security.ApprovalSecretStore
	hasher    security.SecretHasher
	minLength int
	logger    *zap.Logger
}

// NewApprovalService creates an ApprovalService
func NewApprovalService(store security.ApprovalSecretStore, hasher security.SecretHasher, minLength int, log *zap.Logger) *ApprovalService {
	if minLength <= 0 {
		minLength = DefaultMinSecretLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ApprovalService{
		store:     store,
		hasher:    hasher,
		minLength: minLength,
		logger:    log,
	}
}

// ConfigureApprovalSecret hashes and stores a new approval secret
func (s *ApprovalService) ConfigureApprovalSecret(ctx context.Context, secret string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "ConfigureApprovalSecret")
	defer span.End()

	if n := utf8.RuneCountInString(secret); n < s.minLength {
		err := security.ErrApprovalSecretTooShort.
			WithDetail("min_length", s.minLength).
			WithDetail("length", n)
		telemetry.RecordError(span, err)
		return err
	}

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("hash approval secret: %w", err)
	}
	if err := s.store.SetHash(ctx, hash); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("store approval secret: %w", err)
	}

	logger.WithLogger(ctx, s.logger).Info("approval secret configured")
	telemetry.SetOK(span)
	return nil
}

// VerifyCredential checks a credential against the stored secret hash.
// The comparison error is never surfaced to the caller.
func (s *ApprovalService) VerifyCredential(ctx context.Context, credential string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "approval", "VerifyCredential")
	defer span.End()

	hash, err := s.store.GetHash(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("load approval secret: %w", err)
	}
	if hash == "" {
		telemetry.RecordError(span, security.ErrApprovalNotConfigured)
		return security.ErrApprovalNotConfigured
	}
	if credential == "" || s.hasher.Compare(hash, credential) != nil {
		telemetry.RecordError(span, security.ErrApprovalDenied)
		return security.ErrApprovalDenied
	}

	telemetry.SetOK(span)
	return nil
}

// IsConfigured reports whether an approval secret has been stored
func (s *ApprovalService) IsConfigured(ctx context.Context) (bool, error) {
	hash, err := s.store.GetHash(ctx)
	if err != nil {
		return false, fmt.Errorf("load approval secret: %w", err)
	}
	return hash != "", nil
}
