package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormManufacturerRepository implements manufacturer.Repository using GORM
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

// Create persists a new manufacturer
func (r *GormManufacturerRepository) Create(ctx context.Context, m *manufacturer.Manufacturer) error {
	model := models.ManufacturerModelFromDomain(m)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing manufacturer with optimistic locking.
// Returns an error if the version has changed (concurrent modification).
func (r *GormManufacturerRepository) Update(ctx context.Context, m *manufacturer.Manufacturer) error {
	model := models.ManufacturerModelFromDomain(m)
	result := r.db.WithContext(ctx).
		Model(&models.ManufacturerModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The manufacturer record has been modified by another transaction")
	}
	return nil
}

// FindByID finds a manufacturer by its ID
func (r *GormManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*manufacturer.Manufacturer, error) {
	var model models.ManufacturerModel
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

// FindAll finds manufacturers matching the filter, returning the page and total count
func (r *GormManufacturerRepository) FindAll(ctx context.Context, filter manufacturer.Filter) ([]*manufacturer.Manufacturer, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ManufacturerModel{}).Where("deleted_at IS NULL"), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, ManufacturerSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var manufacturerModels []models.ManufacturerModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&manufacturerModels).Error; err != nil {
		return nil, 0, err
	}

	manufacturers := make([]*manufacturer.Manufacturer, len(manufacturerModels))
	for i := range manufacturerModels {
		manufacturers[i] = manufacturerModels[i].ToDomain()
	}
	return manufacturers, total, nil
}

// FindListed returns all active, non-deleted manufacturers. The matching
// service scores the full catalog in memory, so no pagination here.
func (r *GormManufacturerRepository) FindListed(ctx context.Context) ([]*manufacturer.Manufacturer, error) {
	var manufacturerModels []models.ManufacturerModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL", manufacturer.StatusActive).
		Find(&manufacturerModels).Error; err != nil {
		return nil, err
	}

	manufacturers := make([]*manufacturer.Manufacturer, len(manufacturerModels))
	for i := range manufacturerModels {
		manufacturers[i] = manufacturerModels[i].ToDomain()
	}
	return manufacturers, nil
}

// Delete soft-deletes a manufacturer
func (r *GormManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.ManufacturerModel{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormManufacturerRepository) applyFilter(query *gorm.DB, filter manufacturer.Filter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ?", pattern)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", strings.ToUpper(filter.Country))
	}
	if filter.Category != "" {
		query = query.Where("product_categories @> ?", sliceJSON(filter.Category))
	}
	if filter.Certification != "" {
		query = query.Where("certifications @> ?", sliceJSON(strings.ToLower(filter.Certification)))
	}
	if filter.Verified != nil {
		query = query.Where("verified = ?", *filter.Verified)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// sliceJSON renders a single value as a JSON array literal for jsonb
// containment (@>) queries.
func sliceJSON(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `["` + escaped + `"]`
}

// Ensure GormManufacturerRepository implements manufacturer.Repository
var _ manufacturer.Repository = (*GormManufacturerRepository)(nil)
