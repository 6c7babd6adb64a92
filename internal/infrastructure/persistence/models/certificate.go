package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CertificateModel is the persistence model for the Certificate aggregate root.
type CertificateModel struct {
	BrandAggregateModel
	SerialNumber    string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	ProductName     string             `gorm:"type:varchar(200);not null"`
	ProductSKU      string             `gorm:"type:varchar(100);index"`
	Description     string             `gorm:"type:text"`
	BatchNumber     string             `gorm:"type:varchar(100);index"`
	ManufacturerID  *uuid.UUID         `gorm:"type:uuid;index"`
	Status          certificate.Status `gorm:"type:varchar(20);not null;index;default:'draft'"`
	TokenID         string             `gorm:"type:varchar(100)"`
	ContractAddress string             `gorm:"type:varchar(42)"`
	TxHash          string             `gorm:"type:varchar(66)"`
	OwnerAddress    string             `gorm:"type:varchar(42)"`
	MintAttempts    int                `gorm:"not null;default:0"`
	LastError       string             `gorm:"type:text"`
	MintedAt        *time.Time
	TransferredAt   *time.Time
	RevokedAt       *time.Time
	RevokeReason    string     `gorm:"type:varchar(500)"`
	MediaID         *uuid.UUID `gorm:"type:uuid"`
	QRMediaID       *uuid.UUID `gorm:"type:uuid"`
	MetadataJSON    string     `gorm:"column:metadata;type:jsonb;default:'{}'"`
	DeletedAt       *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (CertificateModel) TableName() string {
	return "certificates"
}

// ToDomain converts the persistence model to a domain Certificate entity.
func (m *CertificateModel) ToDomain() *certificate.Certificate {
	cert := &certificate.Certificate{
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
		SerialNumber:    m.SerialNumber,
		ProductName:     m.ProductName,
		ProductSKU:      m.ProductSKU,
		Description:     m.Description,
		BatchNumber:     m.BatchNumber,
		ManufacturerID:  m.ManufacturerID,
		Status:          m.Status,
		TokenID:         m.TokenID,
		ContractAddress: m.ContractAddress,
		TxHash:          m.TxHash,
		OwnerAddress:    m.OwnerAddress,
		MintAttempts:    m.MintAttempts,
		LastError:       m.LastError,
		MintedAt:        m.MintedAt,
		TransferredAt:   m.TransferredAt,
		RevokedAt:       m.RevokedAt,
		RevokeReason:    m.RevokeReason,
		MediaID:         m.MediaID,
		QRMediaID:       m.QRMediaID,
		Metadata:        unmarshalMetadata(m.MetadataJSON, "certificates.metadata"),
		DeletedAt:       m.DeletedAt,
	}
	return cert
}

// FromDomain populates the persistence model from a domain Certificate entity.
func (m *CertificateModel) FromDomain(cert *certificate.Certificate) {
	m.FromDomainBrandAggregateRoot(cert.BrandAggregateRoot)
	m.SerialNumber = cert.SerialNumber
	m.ProductName = cert.ProductName
	m.ProductSKU = cert.ProductSKU
	m.Description = cert.Description
	m.BatchNumber = cert.BatchNumber
	m.ManufacturerID = cert.ManufacturerID
	m.Status = cert.Status
	m.TokenID = cert.TokenID
	m.ContractAddress = cert.ContractAddress
	m.TxHash = cert.TxHash
	m.OwnerAddress = cert.OwnerAddress
	m.MintAttempts = cert.MintAttempts
	m.LastError = cert.LastError
	m.MintedAt = cert.MintedAt
	m.TransferredAt = cert.TransferredAt
	m.RevokedAt = cert.RevokedAt
	m.RevokeReason = cert.RevokeReason
	m.MediaID = cert.MediaID
	m.QRMediaID = cert.QRMediaID
	m.MetadataJSON = marshalMetadata(cert.Metadata)
	m.DeletedAt = cert.DeletedAt
}

// CertificateModelFromDomain creates a new persistence model from a domain Certificate entity.
func CertificateModelFromDomain(cert *certificate.Certificate) *CertificateModel {
	m := &CertificateModel{}
	m.FromDomain(cert)
	return m
}
