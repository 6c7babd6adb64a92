package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements security.SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session
func (r *GormSessionRepository) Create(ctx context.Context, session *security.Session) error {
	model := models.SessionModelFromDomain(session)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing session. Sessions are not versioned:
// rotation already guards itself by looking the session up via the
// one-time refresh jti, and touch updates are monotonic.
func (r *GormSessionRepository) Update(ctx context.Context, session *security.Session) error {
	model := models.SessionModelFromDomain(session)
	result := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("id = ?", session.ID).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a session by ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*security.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccessTokenID finds the session carrying an access token jti
func (r *GormSessionRepository) FindByAccessTokenID(ctx context.Context, tokenID string) (*security.Session, error) {
	return r.findByTokenColumn(ctx, "access_token_id", tokenID)
}

// FindByRefreshTokenID finds the session carrying a refresh token jti
func (r *GormSessionRepository) FindByRefreshTokenID(ctx context.Context, tokenID string) (*security.Session, error) {
	return r.findByTokenColumn(ctx, "refresh_token_id", tokenID)
}

func (r *GormSessionRepository) findByTokenColumn(ctx context.Context, column, tokenID string) (*security.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", tokenID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByUser lists a user's non-revoked, non-expired sessions,
// most recently seen first
func (r *GormSessionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*security.Session, error) {
	var sessionModels []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, time.Now()).
		Order("last_seen_at DESC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]*security.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// RevokeAllForUser revokes every active session of a user and returns how
// many were revoked. A single bulk UPDATE so a password change cannot
// leave stragglers between per-row writes.
func (r *GormSessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason security.RevokeReason) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, now).
		Updates(map[string]any{
			"revoked":       true,
			"revoked_at":    now,
			"revoke_reason": reason,
			"updated_at":    now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DeleteExpired removes sessions that expired before the given time
func (r *GormSessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.SessionModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormSessionRepository implements security.SessionRepository
var _ security.SessionRepository = (*GormSessionRepository)(nil)
