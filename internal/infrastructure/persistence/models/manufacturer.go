package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManufacturerModel is the persistence model for the Manufacturer aggregate root.
// Manufacturers form a platform-wide catalog and are not brand-scoped.
type ManufacturerModel struct {
	AggregateModel
	Name                  string              `gorm:"type:varchar(200);not null;index"`
	Country               string              `gorm:"type:varchar(2);not null;index"`
	RegionsServedJSON     string              `gorm:"column:regions_served;type:jsonb;default:'[]'"`
	ProductCategoriesJSON string              `gorm:"column:product_categories;type:jsonb;default:'[]'"`
	CertificationsJSON    string              `gorm:"column:certifications;type:jsonb;default:'[]'"`
	MinOrderQty           int                 `gorm:"not null;default:0"`
	LeadTimeDays          int                 `gorm:"not null;default:0"`
	MonthlyCapacity       int                 `gorm:"not null;default:0"`
	UnitCostMin           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostMax           decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	ContactEmail          string              `gorm:"type:varchar(200)"`
	Website               string              `gorm:"type:varchar(500)"`
	Verified              bool                `gorm:"not null;default:false;index"`
	Rating                float64             `gorm:"not null;default:0"`
	Status                manufacturer.Status `gorm:"type:varchar(20);not null;index;default:'active'"`
	DeletedAt             *time.Time          `gorm:"index"`
}

// TableName returns the table name for GORM
func (ManufacturerModel) TableName() string {
	return "manufacturers"
}

// ToDomain converts the persistence model to a domain Manufacturer entity.
func (m *ManufacturerModel) ToDomain() *manufacturer.Manufacturer {
	mf := &manufacturer.Manufacturer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Name:              m.Name,
		Country:           m.Country,
		RegionsServed:     unmarshalStringSlice(m.RegionsServedJSON, "manufacturers.regions_served"),
		ProductCategories: unmarshalStringSlice(m.ProductCategoriesJSON, "manufacturers.product_categories"),
		Certifications:    unmarshalStringSlice(m.CertificationsJSON, "manufacturers.certifications"),
		MinOrderQty:       m.MinOrderQty,
		LeadTimeDays:      m.LeadTimeDays,
		MonthlyCapacity:   m.MonthlyCapacity,
		UnitCostMin:       m.UnitCostMin,
		UnitCostMax:       m.UnitCostMax,
		ContactEmail:      m.ContactEmail,
		Website:           m.Website,
		Verified:          m.Verified,
		Rating:            m.Rating,
		Status:            m.Status,
		DeletedAt:         m.DeletedAt,
	}
	return mf
}

// FromDomain populates the persistence model from a domain Manufacturer entity.
func (m *ManufacturerModel) FromDomain(mf *manufacturer.Manufacturer) {
	m.FromDomainAggregateRoot(mf.BaseAggregateRoot)
	m.Name = mf.Name
	m.Country = mf.Country
	m.RegionsServedJSON = marshalStringSlice(mf.RegionsServed)
	m.ProductCategoriesJSON = marshalStringSlice(mf.ProductCategories)
	m.CertificationsJSON = marshalStringSlice(mf.Certifications)
	m.MinOrderQty = mf.MinOrderQty
	m.LeadTimeDays = mf.LeadTimeDays
	m.MonthlyCapacity = mf.MonthlyCapacity
	m.UnitCostMin = mf.UnitCostMin
	m.UnitCostMax = mf.UnitCostMax
	m.ContactEmail = mf.ContactEmail
	m.Website = mf.Website
	m.Verified = mf.Verified
	m.Rating = mf.Rating
	m.Status = mf.Status
	m.DeletedAt = mf.DeletedAt
}

// ManufacturerModelFromDomain creates a new persistence model from a domain Manufacturer entity.
func ManufacturerModelFromDomain(mf *manufacturer.Manufacturer) *ManufacturerModel {
	m := &ManufacturerModel{}
	m.FromDomain(mf)
	return m
}

// PartnershipModel is the persistence model for the Partnership aggregate root.
// A brand can have at most one partnership row per manufacturer; the unique
// (brand_id, manufacturer_id) pair index lives in the migration.
type PartnershipModel struct {
	BrandAggregateModel
	ManufacturerID uuid.UUID                      `gorm:"type:uuid;not null;index"`
	Status         manufacturer.PartnershipStatus `gorm:"type:varchar(20);not null;index"`
	RequestedBy    uuid.UUID                      `gorm:"type:uuid;not null"`
	StartedAt      *time.Time
	EndedAt        *time.Time
}

// TableName returns the table name for GORM
func (PartnershipModel) TableName() string {
	return "partnerships"
}

// ToDomain converts the persistence model to a domain Partnership entity.
func (m *PartnershipModel) ToDomain() *manufacturer.Partnership {
	p := &manufacturer.Partnership{
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
		ManufacturerID: m.ManufacturerID,
		Status:         m.Status,
		RequestedBy:    m.RequestedBy,
		StartedAt:      m.StartedAt,
		EndedAt:        m.EndedAt,
	}
	return p
}

// FromDomain populates the persistence model from a domain Partnership entity.
func (m *PartnershipModel) FromDomain(p *manufacturer.Partnership) {
	m.FromDomainBrandAggregateRoot(p.BrandAggregateRoot)
	m.ManufacturerID = p.ManufacturerID
	m.Status = p.Status
	m.RequestedBy = p.RequestedBy
	m.StartedAt = p.StartedAt
	m.EndedAt = p.EndedAt
}

// PartnershipModelFromDomain creates a new persistence model from a domain Partnership entity.
func PartnershipModelFromDomain(p *manufacturer.Partnership) *PartnershipModel {
	m := &PartnershipModel{}
	m.FromDomain(p)
	return m
}
