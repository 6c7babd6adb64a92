package manufacturer

import (
	"time"

	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ManufacturerDTO is the API representation of a manufacturer catalog entry
type ManufacturerDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Country           string          `json:"country"`
	RegionsServed     []string        `json:"regions_served"`
	ProductCategories []string        `json:"product_categories"`
	Certifications    []string        `json:"certifications"`
	MinOrderQty       int             `json:"min_order_qty"`
	LeadTimeDays      int             `json:"lead_time_days"`
	MonthlyCapacity   int             `json:"monthly_capacity"`
	UnitCostMin       decimal.Decimal `json:"unit_cost_min"`
	UnitCostMax       decimal.Decimal `json:"unit_cost_max"`
	ContactEmail      string          `json:"contact_email,omitempty"`
	Website           string          `json:"website,omitempty"`
	Verified          bool            `json:"verified"`
	Rating            float64         `json:"rating"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// CreateManufacturerInput carries the data for listing a new manufacturer
type CreateManufacturerInput struct {
	Name              string
	Country           string
	RegionsServed     []string
	ProductCategories []string
	Certifications    []string
	MinOrderQty       int
	LeadTimeDays      int
	MonthlyCapacity   int
	UnitCostMin       decimal.Decimal
	UnitCostMax       decimal.Decimal
	ContactEmail      string
	Website           string
}

// UpdateManufacturerInput carries a full profile replacement. Rating is
// optional; when set it overrides the aggregated rating.
type UpdateManufacturerInput struct {
	Name              string
	RegionsServed     []string
	ProductCategories []string
	Certifications    []string
	MinOrderQty       int
	LeadTimeDays      int
	MonthlyCapacity   int
	UnitCostMin       decimal.Decimal
	UnitCostMax       decimal.Decimal
	ContactEmail      string
	Website           string
	Rating            *float64
}

// ListManufacturersInput carries catalog list options
type ListManufacturersInput struct {
	Keyword       string
	Country       string
	Category      string
	Certification string
	Verified      *bool
	Status        string
	Page          int
	PageSize      int
	SortBy        string
	SortDir       string
}

// ManufacturerListResult is a paginated catalog page
type ManufacturerListResult struct {
	Manufacturers []ManufacturerDTO `json:"manufacturers"`
	Total         int64             `json:"total"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalPages    int               `json:"total_pages"`
}

// PartnershipDTO is the API representation of a brand-manufacturer connection
type PartnershipDTO struct {
	ID               uuid.UUID  `json:"id"`
	BrandID          uuid.UUID  `json:"brand_id"`
	ManufacturerID   uuid.UUID  `json:"manufacturer_id"`
	ManufacturerName string     `json:"manufacturer_name,omitempty"`
	Status           string     `json:"status"`
	RequestedBy      uuid.UUID  `json:"requested_by"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// RequestPartnershipInput carries a partnership request
type RequestPartnershipInput struct {
	ManufacturerID uuid.UUID
	RequestedBy    uuid.UUID
}

// MatchInput carries matching parameters for a brand
type MatchInput struct {
	BrandID         uuid.UUID
	RequestedVolume int
	Limit           int
	ExcludePartners bool
}

// MatchResultDTO is one scored candidate, with the component signals kept
// for explainability
type MatchResultDTO struct {
	Manufacturer       ManufacturerDTO `json:"manufacturer"`
	Score              float64         `json:"score"`
	CategoryOverlap    float64         `json:"category_overlap"`
	MarketOverlap      float64         `json:"market_overlap"`
	CertificationScore float64         `json:"certification_score"`
	CapacityFit        bool            `json:"capacity_fit"`
	IsPartner          bool            `json:"is_partner"`
}

func toManufacturerDTO(m *manufacturer.Manufacturer) ManufacturerDTO {
	return ManufacturerDTO{
		ID:                m.ID,
		Name:              m.Name,
		Country:           m.Country,
		RegionsServed:     m.RegionsServed,
		ProductCategories: m.ProductCategories,
		Certifications:    m.Certifications,
		MinOrderQty:       m.MinOrderQty,
		LeadTimeDays:      m.LeadTimeDays,
		MonthlyCapacity:   m.MonthlyCapacity,
		UnitCostMin:       m.UnitCostMin,
		UnitCostMax:       m.UnitCostMax,
		ContactEmail:      m.ContactEmail,
		Website:           m.Website,
		Verified:          m.Verified,
		Rating:            m.Rating,
		Status:            string(m.Status),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toPartnershipDTO(p *manufacturer.Partnership, manufacturerName string) PartnershipDTO {
	return PartnershipDTO{
		ID:               p.ID,
		BrandID:          p.BrandID,
		ManufacturerID:   p.ManufacturerID,
		ManufacturerName: manufacturerName,
		Status:           string(p.Status),
		RequestedBy:      p.RequestedBy,
		StartedAt:        p.StartedAt,
		EndedAt:          p.EndedAt,
		CreatedAt:        p.CreatedAt,
	}
}

func toMatchResultDTO(score manufacturer.MatchScore, isPartner bool) MatchResultDTO {
	return MatchResultDTO{
		Manufacturer:       toManufacturerDTO(score.Manufacturer),
		Score:              score.Score,
		CategoryOverlap:    score.CategoryOverlap,
		MarketOverlap:      score.MarketOverlap,
		CertificationScore: score.CertificationScore,
		CapacityFit:        score.CapacityFit,
		IsPartner:          isPartner,
	}
}
