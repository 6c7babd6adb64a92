package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/shared"
)

// BrandModel is the persistence model for the Brand aggregate root.
// Brands are the tenants of the platform and are not brand-scoped themselves.
type BrandModel struct {
	AggregateModel
	Code                  string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name                  string         `gorm:"type:varchar(200);not null"`
	LegalName             string         `gorm:"type:varchar(300)"`
	Industry              brand.Industry `gorm:"type:varchar(50);not null;index"`
	ProductCategoriesJSON string         `gorm:"column:product_categories;type:jsonb;default:'[]'"`
	TargetMarketsJSON     string         `gorm:"column:target_markets;type:jsonb;default:'[]'"`
	Website               string         `gorm:"type:varchar(500)"`
	LogoURL               string         `gorm:"type:varchar(500)"`
	FoundedYear           int            `gorm:"not null;default:0"`
	ContactName           string         `gorm:"type:varchar(200)"`
	ContactEmail          string         `gorm:"type:varchar(200)"`
	ContactPhone          string         `gorm:"type:varchar(50)"`
	Address               string         `gorm:"type:varchar(500)"`
	Status                brand.Status   `gorm:"type:varchar(20);not null;index;default:'pending'"`
	Plan                  brand.Plan     `gorm:"type:varchar(20);not null;default:'free'"`
	MaxUsers              int            `gorm:"not null;default:0"`
	MaxCertificates       int            `gorm:"not null;default:0"`
	MaxStorageBytes       int64          `gorm:"not null;default:0"`
	Notes                 string         `gorm:"type:text"`
	DeletedAt             *time.Time     `gorm:"index"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand entity.
func (m *BrandModel) ToDomain() *brand.Brand {
	b := &brand.Brand{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:              m.Code,
		Name:              m.Name,
		LegalName:         m.LegalName,
		Industry:          m.Industry,
		ProductCategories: unmarshalStringSlice(m.ProductCategoriesJSON, "brands.product_categories"),
		TargetMarkets:     unmarshalStringSlice(m.TargetMarketsJSON, "brands.target_markets"),
		Website:           m.Website,
		LogoURL:           m.LogoURL,
		FoundedYear:       m.FoundedYear,
		Contact: brand.Contact{
			Name:  m.ContactName,
			Email: m.ContactEmail,
			Phone: m.ContactPhone,
		},
		Address: m.Address,
		Status:  m.Status,
		Plan:    m.Plan,
		Quota: brand.Quota{
			MaxUsers:        m.MaxUsers,
			MaxCertificates: m.MaxCertificates,
			MaxStorageBytes: m.MaxStorageBytes,
		},
		Notes:     m.Notes,
		DeletedAt: m.DeletedAt,
	}
	return b
}

// FromDomain populates the persistence model from a domain Brand entity.
func (m *BrandModel) FromDomain(b *brand.Brand) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.Code = b.Code
	m.Name = b.Name
	m.LegalName = b.LegalName
	m.Industry = b.Industry
	m.ProductCategoriesJSON = marshalStringSlice(b.ProductCategories)
	m.TargetMarketsJSON = marshalStringSlice(b.TargetMarkets)
	m.Website = b.Website
	m.LogoURL = b.LogoURL
	m.FoundedYear = b.FoundedYear
	m.ContactName = b.Contact.Name
	m.ContactEmail = b.Contact.Email
	m.ContactPhone = b.Contact.Phone
	m.Address = b.Address
	m.Status = b.Status
	m.Plan = b.Plan
	m.MaxUsers = b.Quota.MaxUsers
	m.MaxCertificates = b.Quota.MaxCertificates
	m.MaxStorageBytes = b.Quota.MaxStorageBytes
	m.Notes = b.Notes
	m.DeletedAt = b.DeletedAt
}

// BrandModelFromDomain creates a new persistence model from a domain Brand entity.
func BrandModelFromDomain(b *brand.Brand) *BrandModel {
	m := &BrandModel{}
	m.FromDomain(b)
	return m
}
