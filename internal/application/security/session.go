package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateSessionInput carries what a fresh login knows about the client
type CreateSessionInput struct {
	UserID         uuid.UUID
	BrandID        uuid.UUID
	AccessTokenID  string
	RefreshTokenID string
	IP             string
	UserAgent      string
	ExpiresAt      time.Time
}

// SessionDTO is the API view of an active session
type SessionDTO struct {
	ID         uuid.UUID `json:"id"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Current    bool      `json:"current"`
}

// CreateSession records a new login session
func (s *Service) CreateSession(ctx context.Context, input CreateSessionInput) (*security.Session, error) {
	session, err := security.NewSession(input.UserID, input.BrandID, input.AccessTokenID, input.RefreshTokenID, input.IP, input.UserAgent, input.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		s.logger.Error("Failed to create session",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create session")
	}

	return session, nil
}

// RotateSession swaps a session's token IDs after a refresh and blacklists
// the replaced pair for the remainder of its life, so the old refresh token
// cannot be replayed. Returns shared.ErrNotFound when no session tracks the
// old refresh token.
func (s *Service) RotateSession(ctx context.Context, oldRefreshTokenID, newAccessTokenID, newRefreshTokenID string, expiresAt time.Time) error {
	session, err := s.sessionRepo.FindByRefreshTokenID(ctx, oldRefreshTokenID)
	if err != nil {
		return err
	}

	oldAccessTokenID := session.AccessTokenID
	oldExpiresAt := session.ExpiresAt

	if err := session.Rotate(newAccessTokenID, newRefreshTokenID, expiresAt); err != nil {
		return err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		s.logger.Error("Failed to rotate session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to rotate session")
	}

	s.blacklistTokenPair(ctx, session, oldAccessTokenID, oldRefreshTokenID, string(security.RevokeReasonRotation), oldExpiresAt)
	return nil
}

// TouchSession bumps the session's LastSeenAt, writing at most once per
// TouchInterval. Called from the HTTP middleware on authenticated requests;
// failures are swallowed so a tracking miss never fails a request.
func (s *Service) TouchSession(ctx context.Context, accessTokenID string) {
	session, err := s.sessionRepo.FindByAccessTokenID(ctx, accessTokenID)
	if err != nil {
		return
	}
	if !session.Touch(time.Now()) {
		return
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		s.logger.Debug("Failed to touch session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
	}
}

// ListSessions returns a user's active sessions. The session carrying
// currentAccessTokenID, if any, is flagged as current.
func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID, currentAccessTokenID string) ([]SessionDTO, error) {
	sessions, err := s.sessionRepo.FindActiveByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list sessions")
	}

	dtos := make([]SessionDTO, len(sessions))
	for i, session := range sessions {
		dtos[i] = SessionDTO{
			ID:         session.ID,
			IP:         session.IP,
			UserAgent:  session.UserAgent,
			CreatedAt:  session.CreatedAt,
			LastSeenAt: session.LastSeenAt,
			ExpiresAt:  session.ExpiresAt,
			Current:    currentAccessTokenID != "" && session.AccessTokenID == currentAccessTokenID,
		}
	}

	return dtos, nil
}

// RevokeSession ends one of the user's own sessions and blacklists its
// tokens. A session belonging to someone else is reported as missing.
func (s *Service) RevokeSession(ctx context.Context, userID, sessionID uuid.UUID, reason security.RevokeReason) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("SESSION_NOT_FOUND", "Session not found")
		}
		s.logger.Error("Failed to load session",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to load session")
	}
	if session.UserID != userID {
		return shared.NewDomainError("SESSION_NOT_FOUND", "Session not found")
	}

	if err := session.Revoke(reason); err != nil {
		return err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		s.logger.Error("Failed to revoke session",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
	}

	s.blacklistTokenPair(ctx, session, session.AccessTokenID, session.RefreshTokenID, string(reason), session.ExpiresAt)

	if _, err := s.RecordEvent(ctx, RecordEventInput{
		BrandID:     session.BrandID,
		UserID:      &userID,
		Type:        security.EventSessionRevoked,
		IP:          session.IP,
		UserAgent:   session.UserAgent,
		Description: fmt.Sprintf("Session from %s revoked (%s)", session.IP, reason),
	}); err != nil {
		s.logger.Warn("Failed to record session revocation", zap.Error(err))
	}

	return nil
}

// RevokeSessionByAccessToken ends the session carrying the given access
// token jti. Returns shared.ErrNotFound when no session tracks that token.
func (s *Service) RevokeSessionByAccessToken(ctx context.Context, accessTokenID string, reason security.RevokeReason) error {
	session, err := s.sessionRepo.FindByAccessTokenID(ctx, accessTokenID)
	if err != nil {
		return err
	}

	if err := session.Revoke(reason); err != nil {
		return err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		s.logger.Error("Failed to revoke session",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke session")
	}

	s.blacklistTokenPair(ctx, session, session.AccessTokenID, session.RefreshTokenID, string(reason), session.ExpiresAt)
	return nil
}

// RevokeAllSessions ends every active session of a user. On top of revoking
// the rows, the user's outstanding tokens are invalidated wholesale through
// the per-user blacklist marker, which also covers tokens no session tracks.
func (s *Service) RevokeAllSessions(ctx context.Context, brandID, userID uuid.UUID, reason security.RevokeReason) (int64, error) {
	count, err := s.sessionRepo.RevokeAllForUser(ctx, userID, reason)
	if err != nil {
		s.logger.Error("Failed to revoke sessions",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke sessions")
	}

	if err := s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.config.SessionTTL); err != nil {
		s.logger.Warn("Failed to invalidate user tokens",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	if count > 0 {
		if _, err := s.RecordEvent(ctx, RecordEventInput{
			BrandID:     brandID,
			UserID:      &userID,
			Type:        security.EventSessionRevoked,
			Description: fmt.Sprintf("All sessions revoked (%s)", reason),
			Metadata:    map[string]any{"sessions": count},
		}); err != nil {
			s.logger.Warn("Failed to record session revocation", zap.Error(err))
		}
	}

	return count, nil
}

// PurgeExpired removes expired sessions and stale blacklist rows. Run
// periodically from the server's maintenance loop.
func (s *Service) PurgeExpired(ctx context.Context) (int64, int64, error) {
	now := time.Now()

	sessions, err := s.sessionRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("Failed to purge expired sessions", zap.Error(err))
		return 0, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to purge expired sessions")
	}

	tokens, err := s.blacklistRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("Failed to purge expired blacklist rows", zap.Error(err))
		return sessions, 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to purge expired blacklist rows")
	}

	if sessions > 0 || tokens > 0 {
		s.logger.Info("Purged expired security records",
			zap.Int64("sessions", sessions),
			zap.Int64("blacklisted_tokens", tokens))
	}

	return sessions, tokens, nil
}

// blacklistTokenPair revokes both halves of an issued token pair: the cache
// fast path first, then the durable audit rows. Failures are logged; the
// caller's operation has already succeeded.
func (s *Service) blacklistTokenPair(ctx context.Context, session *security.Session, accessTokenID, refreshTokenID, reason string, expiresAt time.Time) {
	for tokenType, tokenID := range map[string]string{
		security.TokenTypeAccess:  accessTokenID,
		security.TokenTypeRefresh: refreshTokenID,
	} {
		s.BlacklistToken(ctx, tokenID, session.UserID, session.BrandID, tokenType, reason, expiresAt)
	}
}

// BlacklistToken revokes a single token outside the session bookkeeping,
// for tokens that have no tracked session. Writes the cache entry and the
// durable audit row; failures are logged.
func (s *Service) BlacklistToken(ctx context.Context, tokenID string, userID, brandID uuid.UUID, tokenType, reason string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if tokenID == "" || ttl <= 0 {
		return
	}

	if err := s.blacklist.AddToBlacklist(ctx, tokenID, ttl); err != nil {
		s.logger.Warn("Failed to blacklist token",
			zap.String("token_type", tokenType),
			zap.Error(err))
	}
	row, err := security.NewBlacklistedToken(tokenID, userID, brandID, tokenType, reason, expiresAt)
	if err != nil {
		return
	}
	if err := s.blacklistRepo.Create(ctx, row); err != nil {
		s.logger.Warn("Failed to persist blacklisted token",
			zap.String("token_type", tokenType),
			zap.Error(err))
	}
}
