package security

import (
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RevokeReason explains why a session was ended
type RevokeReason string

const (
	RevokeReasonLogout         RevokeReason = "logout"
	RevokeReasonRotation       RevokeReason = "refresh_rotation"
	RevokeReasonPasswordChange RevokeReason = "password_change"
	RevokeReasonAdmin          RevokeReason = "admin"
	RevokeReasonExpired        RevokeReason = "expired"
)

// TouchInterval throttles LastSeenAt writes: a session is touched at most
// once per interval regardless of request rate.
const TouchInterval = time.Minute

// Session tracks one login on the server side. It pairs the issued token
// IDs with the client fingerprint so tokens can be revoked individually
// and active devices listed per user.
type Session struct {
	shared.BaseEntity
	UserID         uuid.UUID
	BrandID        uuid.UUID
	AccessTokenID  string // jti of the current access token
	RefreshTokenID string // jti of the current refresh token
	IP             string
	UserAgent      string
	ExpiresAt      time.Time
	LastSeenAt     time.Time
	Revoked        bool
	RevokedAt      *time.Time
	RevokeReason   RevokeReason
}

// NewSession creates a session for a fresh login
func NewSession(userID, brandID uuid.UUID, accessTokenID, refreshTokenID, ip, userAgent string, expiresAt time.Time) (*Session, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID is required")
	}
	if accessTokenID == "" || refreshTokenID == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN_ID", "Token IDs are required")
	}
	if !expiresAt.After(time.Now()) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Session expiry must be in the future")
	}

	return &Session{
		BaseEntity:     shared.NewBaseEntity(),
		UserID:         userID,
		BrandID:        brandID,
		AccessTokenID:  accessTokenID,
		RefreshTokenID: refreshTokenID,
		IP:             ip,
		UserAgent:      userAgent,
		ExpiresAt:      expiresAt,
		LastSeenAt:     time.Now(),
	}, nil
}

// Touch updates LastSeenAt if at least TouchInterval has passed since the
// previous touch. Returns true when the session was actually updated, so
// callers can skip the persistence write otherwise.
func (s *Session) Touch(now time.Time) bool {
	if now.Sub(s.LastSeenAt) < TouchInterval {
		return false
	}
	s.LastSeenAt = now
	s.UpdatedAt = now
	return true
}

// Rotate swaps in the token IDs issued by a refresh and extends the expiry
func (s *Session) Rotate(accessTokenID, refreshTokenID string, expiresAt time.Time) error {
	if s.Revoked {
		return shared.NewDomainError("SESSION_REVOKED", "Cannot rotate a revoked session")
	}
	if accessTokenID == "" || refreshTokenID == "" {
		return shared.NewDomainError("INVALID_TOKEN_ID", "Token IDs are required")
	}

	s.AccessTokenID = accessTokenID
	s.RefreshTokenID = refreshTokenID
	s.ExpiresAt = expiresAt
	s.LastSeenAt = time.Now()
	s.UpdatedAt = time.Now()

	return nil
}

// Revoke ends the session with a reason
func (s *Session) Revoke(reason RevokeReason) error {
	if s.Revoked {
		return shared.NewDomainError("ALREADY_REVOKED", "Session is already revoked")
	}

	now := time.Now()
	s.Revoked = true
	s.RevokedAt = &now
	s.RevokeReason = reason
	s.UpdatedAt = now

	return nil
}

// IsExpired reports whether the session has passed its expiry
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// IsActive reports whether the session is neither revoked nor expired
func (s *Session) IsActive(now time.Time) bool {
	return !s.Revoked && !s.IsExpired(now)
}
