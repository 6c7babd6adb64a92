package security

import (
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Token types recorded on blacklist rows
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// BlacklistedToken is the durable record of a revoked token. Enforcement
// happens through the cache fast path keyed by jti; this row is the audit
// copy and the source for rebuilding the cache after a flush.
type BlacklistedToken struct {
	shared.BaseEntity
	TokenID   string // jti, unique
	UserID    uuid.UUID
	BrandID   uuid.UUID
	TokenType string
	Reason    string
	ExpiresAt time.Time // original token expiry; row is purgeable after this
}

// NewBlacklistedToken records a revoked token
func NewBlacklistedToken(tokenID string, userID, brandID uuid.UUID, tokenType, reason string, expiresAt time.Time) (*BlacklistedToken, error) {
	if tokenID == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN_ID", "Token ID is required")
	}
	if tokenType != TokenTypeAccess && tokenType != TokenTypeRefresh {
		return nil, shared.NewDomainError("INVALID_TOKEN_TYPE", "Token type must be access or refresh")
	}

	return &BlacklistedToken{
		BaseEntity: shared.NewBaseEntity(),
		TokenID:    tokenID,
		UserID:     userID,
		BrandID:    brandID,
		TokenType:  tokenType,
		Reason:     reason,
		ExpiresAt:  expiresAt,
	}, nil
}

// TTL returns how long the blacklist entry still matters: the remaining
// life of the revoked token. Zero or negative means the token has already
// expired on its own.
func (t *BlacklistedToken) TTL(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}

// IsExpired reports whether the underlying token has expired
func (t *BlacklistedToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
