package persistence

import (
	"context"
	"time"

	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBlacklistedTokenRepository implements security.BlacklistedTokenRepository
// using GORM. It is the durable audit trail behind the Redis blacklist: Redis
// answers the hot-path lookups, these rows survive a cache flush.
type GormBlacklistedTokenRepository struct {
	db *gorm.DB
}

// NewGormBlacklistedTokenRepository creates a new GormBlacklistedTokenRepository
func NewGormBlacklistedTokenRepository(db *gorm.DB) *GormBlacklistedTokenRepository {
	return &GormBlacklistedTokenRepository{db: db}
}

// Create records a revoked token
func (r *GormBlacklistedTokenRepository) Create(ctx context.Context, token *security.BlacklistedToken) error {
	model := models.BlacklistedTokenModelFromDomain(token)
	return r.db.WithContext(ctx).Create(model).Error
}

// ExistsByTokenID checks whether a jti has been blacklisted
func (r *GormBlacklistedTokenRepository) ExistsByTokenID(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BlacklistedTokenModel{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired removes rows whose tokens expired before the given time.
// An expired token fails JWT validation on its own, so the row no longer
// serves any lookup.
func (r *GormBlacklistedTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&models.BlacklistedTokenModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormBlacklistedTokenRepository implements security.BlacklistedTokenRepository
var _ security.BlacklistedTokenRepository = (*GormBlacklistedTokenRepository)(nil)
