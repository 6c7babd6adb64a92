package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/media"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MediaModel is the persistence model for the Media aggregate root.
type MediaModel struct {
	BrandAggregateModel
	FileName    string       `gorm:"type:varchar(255);not null"`
	StorageKey  string       `gorm:"type:varchar(500);not null;uniqueIndex"`
	ContentType string       `gorm:"type:varchar(100);not null"`
	SizeBytes   int64        `gorm:"not null;default:0"`
	Kind        media.Kind   `gorm:"type:varchar(20);not null;index"`
	Status      media.Status `gorm:"type:varchar(20);not null;index;default:'pending_upload'"`
	OwnerUserID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Checksum    string       `gorm:"type:varchar(64)"`
	DeletedAt   *time.Time   `gorm:"index"`
}

// TableName returns the table name for GORM
func (MediaModel) TableName() string {
	return "media"
}

// ToDomain converts the persistence model to a domain Media entity.
func (m *MediaModel) ToDomain() *media.Media {
	md := &media.Media{
		BrandAggregateRoot: shared.BrandAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			BrandID:   m.BrandID,
			CreatedBy: m.CreatedBy,
		},
		FileName:    m.FileName,
		StorageKey:  m.StorageKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Kind:        m.Kind,
		Status:      m.Status,
		OwnerUserID: m.OwnerUserID,
		Checksum:    m.Checksum,
		DeletedAt:   m.DeletedAt,
	}
	return md
}

// FromDomain populates the persistence model from a domain Media entity.
func (m *MediaModel) FromDomain(md *media.Media) {
	m.FromDomainBrandAggregateRoot(md.BrandAggregateRoot)
	m.FileName = md.FileName
	m.StorageKey = md.StorageKey
	m.ContentType = md.ContentType
	m.SizeBytes = md.SizeBytes
	m.Kind = md.Kind
	m.Status = md.Status
	m.OwnerUserID = md.OwnerUserID
	m.Checksum = md.Checksum
	m.DeletedAt = md.DeletedAt
}

// MediaModelFromDomain creates a new persistence model from a domain Media entity.
func MediaModelFromDomain(md *media.Media) *MediaModel {
	m := &MediaModel{}
	m.FromDomain(md)
	return m
}
