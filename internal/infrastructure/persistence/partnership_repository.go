package persistence

import (
	"context"
	"errors"

	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnershipRepository implements manufacturer.PartnershipRepository using GORM
type GormPartnershipRepository struct {
	db *gorm.DB
}

// NewGormPartnershipRepository creates a new GormPartnershipRepository
func NewGormPartnershipRepository(db *gorm.DB) *GormPartnershipRepository {
	return &GormPartnershipRepository{db: db}
}

// Create persists a new partnership
func (r *GormPartnershipRepository) Create(ctx context.Context, p *manufacturer.Partnership) error {
	model := models.PartnershipModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing partnership with optimistic locking.
// Returns an error if the version has changed (concurrent modification).
func (r *GormPartnershipRepository) Update(ctx context.Context, p *manufacturer.Partnership) error {
	model := models.PartnershipModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Model(&models.PartnershipModel{}).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The partnership record has been modified by another transaction")
	}
	return nil
}

// FindByID finds a partnership by ID, scoped to a brand
func (r *GormPartnershipRepository) FindByID(ctx context.Context, brandID, id uuid.UUID) (*manufacturer.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND id = ?", brandID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPair finds the partnership between a brand and a manufacturer
func (r *GormPartnershipRepository) FindByPair(ctx context.Context, brandID, manufacturerID uuid.UUID) (*manufacturer.Partnership, error) {
	var model models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("brand_id = ? AND manufacturer_id = ?", brandID, manufacturerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBrand lists a brand's partnerships, most recent first
func (r *GormPartnershipRepository) FindByBrand(ctx context.Context, brandID uuid.UUID) ([]*manufacturer.Partnership, error) {
	var partnershipModels []models.PartnershipModel
	if err := r.db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Order("created_at DESC").
		Find(&partnershipModels).Error; err != nil {
		return nil, err
	}

	partnerships := make([]*manufacturer.Partnership, len(partnershipModels))
	for i := range partnershipModels {
		partnerships[i] = partnershipModels[i].ToDomain()
	}
	return partnerships, nil
}

// ActiveManufacturerIDs returns the IDs of manufacturers the brand has an
// active partnership with
func (r *GormPartnershipRepository) ActiveManufacturerIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PartnershipModel{}).
		Where("brand_id = ? AND status = ?", brandID, manufacturer.PartnershipActive).
		Pluck("manufacturer_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Ensure GormPartnershipRepository implements manufacturer.PartnershipRepository
var _ manufacturer.PartnershipRepository = (*GormPartnershipRepository)(nil)
