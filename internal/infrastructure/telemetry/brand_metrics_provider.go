// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCertificateMetricsProvider implements CertificateMetricsProvider using GORM.
// It queries the certificates table directly for aggregated metrics.
type GormCertificateMetricsProvider struct {
	db *gorm.DB
}

// NewGormCertificateMetricsProvider creates a new GormCertificateMetricsProvider.
func NewGormCertificateMetricsProvider(db *gorm.DB) *GormCertificateMetricsProvider {
	return &GormCertificateMetricsProvider{db: db}
}

// GetCertificateCountsByStatus returns certificate counts grouped by status for a brand.
func (p *GormCertificateMetricsProvider) GetCertificateCountsByStatus(ctx context.Context, brandID uuid.UUID) (map[string]int64, error) {
	type result struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("certificates").
		Select("status, COUNT(*) as count").
		Where("brand_id = ? AND deleted_at IS NULL", brandID).
		Group("status").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[string]int64, len(results))
	for _, r := range results {
		m[r.Status] = r.Count
	}

	return m, nil
}

// GormMediaMetricsProvider implements MediaMetricsProvider using GORM.
type GormMediaMetricsProvider struct {
	db *gorm.DB
}

// NewGormMediaMetricsProvider creates a new GormMediaMetricsProvider.
func NewGormMediaMetricsProvider(db *gorm.DB) *GormMediaMetricsProvider {
	return &GormMediaMetricsProvider{db: db}
}

// GetStorageBytes returns total stored media bytes for a brand.
func (p *GormMediaMetricsProvider) GetStorageBytes(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var total int64
	err := p.db.WithContext(ctx).
		Table("media").
		Select("COALESCE(SUM(size_bytes), 0)").
		Where("brand_id = ? AND status = ? AND deleted_at IS NULL", brandID, "ready").
		Scan(&total).Error

	return total, err
}

// GormBrandProvider implements BrandProvider using GORM.
type GormBrandProvider struct {
	db *gorm.DB
}

// NewGormBrandProvider creates a new GormBrandProvider.
func NewGormBrandProvider(db *gorm.DB) *GormBrandProvider {
	return &GormBrandProvider{db: db}
}

// GetActiveBrandIDs returns all active brand IDs.
func (p *GormBrandProvider) GetActiveBrandIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("brands").
		Select("id").
		Where("deleted_at IS NULL AND status = ?", "active").
		Find(&ids).Error

	return ids, err
}
