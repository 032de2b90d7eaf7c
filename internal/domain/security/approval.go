// Package security holds the cancellation approval secret contracts.
package security

import (
	"context"

	"github.com/labcore/backend/internal/domain/shared"
)

// Error codes owned by the security context
var (
	ErrApprovalDenied         = shared.NewDomainError("APPROVAL_DENIED", "Approval credential is not valid")
	ErrApprovalNotConfigured  = shared.NewDomainError("APPROVAL_NOT_CONFIGURED", "No approval secret has been configured")
	ErrApprovalSecretTooShort = shared.NewDomainError("APPROVAL_SECRET_TOO_SHORT", "Approval secret is too short")
)

func init() {
	shared.RegisterErrorCategory(shared.CategoryNotPermitted, ErrApprovalDenied.Code, ErrApprovalNotConfigured.Code)
	shared.RegisterErrorCategory(shared.CategoryInput, ErrApprovalSecretTooShort.Code)
}

// ApprovalSecretStore provides the stored hash of the system-wide approval secret.
// GetHash returns "" with no error when nothing has been configured.
type ApprovalSecretStore interface {
	GetHash(ctx context.Context) (string, error)
	SetHash(ctx context.Context, hash string) error
}

// SecretHasher is the hash-compare primitive behind the approval secret
type SecretHasher interface {
	Hash(secret string) (string, error)
	// Compare returns nil when secret matches hash
	Compare(hash, secret string) error
}

