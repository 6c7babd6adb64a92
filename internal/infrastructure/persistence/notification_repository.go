package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create persists a new notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch persists several notifications at once, used when one
// event fans out to multiple recipients
func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	notifModels := make([]*models.NotificationModel, len(notifications))
	for i, n := range notifications {
		notifModels[i] = models.NotificationModelFromDomain(n)
	}
	return r.db.WithContext(ctx).Create(&notifModels).Error
}

// Update persists changes to an existing notification with optimistic locking
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("id = ? AND version = ?", n.ID, n.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The notification record has been modified by another transaction")
	}
	return nil
}

// FindByID retrieves a notification by ID within a brand
func (r *GormNotificationRepository) FindByID(ctx context.Context, brandID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND id = ? AND deleted_at IS NULL", brandID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindForUser retrieves a user's notifications with filtering and pagination
func (r *GormNotificationRepository) FindForUser(ctx context.Context, brandID, userID uuid.UUID, filter notification.Filter) ([]*notification.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("brand_id = ? AND recipient_user_id = ? AND deleted_at IS NULL", brandID, userID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, NotificationSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var notifModels []models.NotificationModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&notifModels).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*notification.Notification, len(notifModels))
	for i := range notifModels {
		items[i] = notifModels[i].ToDomain()
	}
	return items, total, nil
}

// CountUnread returns the number of unread notifications for a user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("brand_id = ? AND recipient_user_id = ? AND is_read = ? AND deleted_at IS NULL", brandID, userID, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many rows changed. A bulk UPDATE instead of per-row
// optimistic locking: setting is_read is idempotent, so concurrent
// writers cannot disagree about the outcome.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("brand_id = ? AND recipient_user_id = ? AND is_read = ? AND deleted_at IS NULL", brandID, userID, false).
		Updates(map[string]any{
			"is_read":    true,
			"read_at":    now,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
