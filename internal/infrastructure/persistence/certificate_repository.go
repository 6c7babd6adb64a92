package persistence

import (
	"context"
	"errors"

	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCertificateRepository implements certificate.Repository using GORM
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewGormCertificateRepository creates a new GormCertificateRepository
func NewGormCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

// Create creates a new certificate
func (r *GormCertificateRepository) Create(ctx context.Context, cert *certificate.Certificate) error {
	model := models.CertificateModelFromDomain(cert)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update updates an existing certificate with optimistic locking.
// Mint, transfer, and revoke can race on the same row, so the version
// check is what keeps the on-chain state and the record consistent.
func (r *GormCertificateRepository) Update(ctx context.Context, cert *certificate.Certificate) error {
	model := models.CertificateModelFromDomain(cert)
	result := r.db.WithContext(ctx).
		Model(&models.CertificateModel{}).
		Where("id = ? AND version = ?", cert.ID, cert.Version-1).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_ERROR", "The certificate record has been modified by another transaction")
	}
	return nil
}

// FindByID finds a brand's certificate by ID
func (r *GormCertificateRepository) FindByID(ctx context.Context, brandID, id uuid.UUID) (*certificate.Certificate, error) {
	var model models.CertificateModel
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

// FindBySerialNumber finds a certificate by serial across all brands;
// backs the public verification endpoint
func (r *GormCertificateRepository) FindBySerialNumber(ctx context.Context, serialNumber string) (*certificate.Certificate, error) {
	var model models.CertificateModel
	if err := r.db.WithContext(ctx).
		Where("serial_number = ? AND deleted_at IS NULL", serialNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns a brand's certificates with pagination
func (r *GormCertificateRepository) FindAll(ctx context.Context, brandID uuid.UUID, filter certificate.Filter) ([]*certificate.Certificate, int64, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.CertificateModel{}).
			Where("brand_id = ? AND deleted_at IS NULL", brandID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, CertificateSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var certModels []models.CertificateModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&certModels).Error; err != nil {
		return nil, 0, err
	}

	certs := make([]*certificate.Certificate, len(certModels))
	for i := range certModels {
		certs[i] = certModels[i].ToDomain()
	}
	return certs, total, nil
}

// ExistsBySerialNumber checks if a serial number is already taken.
// Soft-deleted rows still count because the unique index covers them.
func (r *GormCertificateRepository) ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CertificateModel{}).
		Where("serial_number = ?", serialNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByBrand returns the number of certificates a brand has issued,
// excluding soft-deleted rows, for quota checks
func (r *GormCertificateRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CertificateModel{}).
		Where("brand_id = ? AND deleted_at IS NULL", brandID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns certificate counts grouped by status for a brand
func (r *GormCertificateRepository) CountByStatus(ctx context.Context, brandID uuid.UUID) (map[certificate.Status]int64, error) {
	var rows []struct {
		Status certificate.Status
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CertificateModel{}).
		Select("status, COUNT(*) AS count").
		Where("brand_id = ? AND deleted_at IS NULL", brandID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[certificate.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// applyFilter applies filter options to the query
func (r *GormCertificateRepository) applyFilter(query *gorm.DB, filter certificate.Filter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("serial_number ILIKE ? OR product_name ILIKE ? OR product_sku ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ManufacturerID != nil {
		query = query.Where("manufacturer_id = ?", *filter.ManufacturerID)
	}
	if filter.BatchNumber != "" {
		query = query.Where("batch_number = ?", filter.BatchNumber)
	}
	return query
}

// Ensure GormCertificateRepository implements certificate.Repository
var _ certificate.Repository = (*GormCertificateRepository)(nil)
