package persistence

import (
	"context"
	"errors"

	"github.com/brandcert/backend/internal/domain/media"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMediaRepository implements media.Repository using GORM
type GormMediaRepository struct {
	db *gorm.DB
}

// NewGormMediaRepository creates a new GormMediaRepository
func NewGormMediaRepository(db *gorm.DB) *GormMediaRepository {
	return &GormMediaRepository{db: db}
}

// Create creates a new media record
func (r *GormMediaRepository) Create(ctx context.Context, m *media.Media) error {
	model := models.MediaModelFromDomain(m)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing media record with optimistic locking
func (r *GormMediaRepository) Update(ctx context.Context, m *media.Media) error {
	model := models.MediaModelFromDomain(m)
	result := r.db.WithContext(ctx).
		Model(&models.MediaModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The media record has been modified by another transaction")
	}
	return nil
}

// FindByID finds a brand's media record by ID
func (r *GormMediaRepository) FindByID(ctx context.Context, brandID, id uuid.UUID) (*media.Media, error) {
	var model models.MediaModel
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

// FindAll returns a brand's media with pagination
func (r *GormMediaRepository) FindAll(ctx context.Context, brandID uuid.UUID, filter media.Filter) ([]*media.Media, int64, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.MediaModel{}).
			Where("brand_id = ? AND deleted_at IS NULL", brandID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, MediaSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var mediaModels []models.MediaModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&mediaModels).Error; err != nil {
		return nil, 0, err
	}

	items := make([]*media.Media, len(mediaModels))
	for i := range mediaModels {
		items[i] = mediaModels[i].ToDomain()
	}
	return items, total, nil
}

// SumSizeByBrand totals the stored bytes of a brand's non-deleted
// media, for storage quota checks
func (r *GormMediaRepository) SumSizeByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.MediaModel{}).
		Select("COALESCE(SUM(size_bytes), 0)").
		Where("brand_id = ? AND deleted_at IS NULL", brandID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// applyFilter applies filter options to the query
func (r *GormMediaRepository) applyFilter(query *gorm.DB, filter media.Filter) *gorm.DB {
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.OwnerUserID != nil {
		query = query.Where("owner_user_id = ?", *filter.OwnerUserID)
	}
	if filter.Keyword != "" {
		query = query.Where("file_name ILIKE ?", "%"+filter.Keyword+"%")
	}
	return query
}

// Ensure GormMediaRepository implements media.Repository
var _ media.Repository = (*GormMediaRepository)(nil)
