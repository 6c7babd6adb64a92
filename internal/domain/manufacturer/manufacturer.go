package manufacturer

import (
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the catalog status of a manufacturer
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Manufacturer is a production partner listed in the platform catalog.
// Manufacturers are platform-level records, not scoped to a brand; brands
// connect to them through partnerships.
type Manufacturer struct {
	shared.BaseAggregateRoot
	Name              string
	Country           string // ISO 3166-1 alpha-2
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
	Verified          bool
	Rating            float64 // 0..5, set from review aggregation
	Status            Status
	DeletedAt         *time.Time
}

// NewManufacturer creates a new manufacturer catalog entry
func NewManufacturer(name, country string) (*Manufacturer, error) {
	if err := validateManufacturerName(name); err != nil {
		return nil, err
	}
	if err := validateCountry(country); err != nil {
		return nil, err
	}

	m := &Manufacturer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Country:           strings.ToUpper(country),
		Status:            StatusActive,
	}

	m.AddDomainEvent(NewManufacturerListedEvent(m))

	return m, nil
}

// UpdateProfile updates the manufacturer's descriptive fields
func (m *Manufacturer) UpdateProfile(name, contactEmail, website string) error {
	if err := validateManufacturerName(name); err != nil {
		return err
	}
	if contactEmail != "" && len(contactEmail) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Contact email cannot exceed 200 characters")
	}
	if website != "" && len(website) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website URL cannot exceed 500 characters")
	}

	m.Name = name
	m.ContactEmail = contactEmail
	m.Website = website
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetCapabilities replaces the manufacturer's production capabilities.
// Categories, regions, and certifications are normalized to lowercase for
// matching; certifications keep their canonical uppercase form for display.
func (m *Manufacturer) SetCapabilities(categories, regions, certifications []string) error {
	if len(categories) > 50 {
		return shared.NewDomainError("INVALID_CATEGORIES", "Cannot have more than 50 product categories")
	}
	if len(regions) > 100 {
		return shared.NewDomainError("INVALID_REGIONS", "Cannot serve more than 100 regions")
	}
	for _, r := range regions {
		if len(r) != 2 {
			return shared.NewDomainError("INVALID_REGIONS", "Regions must be two-letter country codes")
		}
	}
	if len(certifications) > 50 {
		return shared.NewDomainError("INVALID_CERTIFICATIONS", "Cannot have more than 50 certifications")
	}

	m.ProductCategories = normalizeTags(categories)
	m.RegionsServed = normalizeTags(regions)
	m.Certifications = normalizeTags(certifications)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// SetProductionTerms sets order and capacity parameters
func (m *Manufacturer) SetProductionTerms(minOrderQty, leadTimeDays, monthlyCapacity int, unitCostMin, unitCostMax decimal.Decimal) error {
	if minOrderQty < 0 {
		return shared.NewDomainError("INVALID_MIN_ORDER", "Minimum order quantity cannot be negative")
	}
	if leadTimeDays < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}
	if monthlyCapacity < 0 {
		return shared.NewDomainError("INVALID_CAPACITY", "Monthly capacity cannot be negative")
	}
	if unitCostMin.IsNegative() || unitCostMax.IsNegative() {
		return shared.NewDomainError("INVALID_UNIT_COST", "Unit cost cannot be negative")
	}
	if unitCostMax.LessThan(unitCostMin) {
		return shared.NewDomainError("INVALID_UNIT_COST", "Maximum unit cost cannot be below minimum")
	}

	m.MinOrderQty = minOrderQty
	m.LeadTimeDays = leadTimeDays
	m.MonthlyCapacity = monthlyCapacity
	m.UnitCostMin = unitCostMin
	m.UnitCostMax = unitCostMax
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// MarkVerified flags the manufacturer as platform-verified
func (m *Manufacturer) MarkVerified() {
	if m.Verified {
		return
	}
	m.Verified = true
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewManufacturerVerifiedEvent(m))
}

// SetRating sets the aggregated rating (0..5)
func (m *Manufacturer) SetRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	m.Rating = rating
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Deactivate removes the manufacturer from matching and listings
func (m *Manufacturer) Deactivate() error {
	if m.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Manufacturer is already inactive")
	}
	m.Status = StatusInactive
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// Activate returns the manufacturer to the active catalog
func (m *Manufacturer) Activate() error {
	if m.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Manufacturer is already active")
	}
	m.Status = StatusActive
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// MarkDeleted soft-deletes the manufacturer
func (m *Manufacturer) MarkDeleted() {
	now := time.Now()
	m.DeletedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
}

// IsListed reports whether the manufacturer appears in the catalog
func (m *Manufacturer) IsListed() bool {
	return m.Status == StatusActive && m.DeletedAt == nil
}

// HasCertification reports whether the manufacturer holds a certification
// (case-insensitive)
func (m *Manufacturer) HasCertification(cert string) bool {
	cert = strings.ToLower(strings.TrimSpace(cert))
	for _, c := range m.Certifications {
		if c == cert {
			return true
		}
	}
	return false
}

func normalizeTags(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func validateManufacturerName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Manufacturer name cannot exceed 200 characters")
	}
	return nil
}

func validateCountry(country string) error {
	if len(country) != 2 {
		return shared.NewDomainError("INVALID_COUNTRY", "Country must be a two-letter country code")
	}
	return nil
}
