package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBrandRepository implements brand.Repository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// Create persists a new brand
func (r *GormBrandRepository) Create(ctx context.Context, b *brand.Brand) error {
	model := models.BrandModelFromDomain(b)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing brand with optimistic locking.
// Returns an error if the version has changed (concurrent modification).
func (r *GormBrandRepository) Update(ctx context.Context, b *brand.Brand) error {
	model := models.BrandModelFromDomain(b)
	result := r.db.WithContext(ctx).
		Model(&models.BrandModel{}).
		Where("id = ? AND version = ?", b.ID, b.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The brand record has been modified by another transaction")
	}
	return nil
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*brand.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a brand by its unique code
func (r *GormBrandRepository) FindByCode(ctx context.Context, code string) (*brand.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).
		Where("code = ? AND deleted_at IS NULL", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds brands matching the filter, returning the page and total count
func (r *GormBrandRepository) FindAll(ctx context.Context, filter brand.Filter) ([]*brand.Brand, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.BrandModel{}).Where("deleted_at IS NULL"), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, BrandSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var brandModels []models.BrandModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&brandModels).Error; err != nil {
		return nil, 0, err
	}

	brands := make([]*brand.Brand, len(brandModels))
	for i := range brandModels {
		brands[i] = brandModels[i].ToDomain()
	}
	return brands, total, nil
}

// ExistsByCode checks whether a brand with the given code exists.
// Soft-deleted rows still count because the unique index covers them.
func (r *GormBrandRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BrandModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts brands in a given status
func (r *GormBrandRepository) CountByStatus(ctx context.Context, status brand.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BrandModel{}).
		Where("status = ? AND deleted_at IS NULL", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBrandRepository) applyFilter(query *gorm.DB, filter brand.Filter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Industry != nil {
		query = query.Where("industry = ?", *filter.Industry)
	}
	return query
}

// Ensure GormBrandRepository implements brand.Repository
var _ brand.Repository = (*GormBrandRepository)(nil)
