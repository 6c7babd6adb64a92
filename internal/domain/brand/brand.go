package brand

import (
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a brand
type Status string

const (
	StatusPending   Status = "pending"   // Registered, awaiting activation
	StatusActive    Status = "active"    // Fully operational
	StatusSuspended Status = "suspended" // Suspended for policy/abuse reasons
	StatusInactive  Status = "inactive"  // Voluntarily deactivated
)

// Plan represents the subscription plan of a brand
type Plan string

const (
	PlanFree       Plan = "free"
	PlanGrowth     Plan = "growth"
	PlanEnterprise Plan = "enterprise"
)

// Industry classifies what the brand produces
type Industry string

const (
	IndustryFashion         Industry = "fashion"
	IndustryElectronics     Industry = "electronics"
	IndustryFoodBeverage    Industry = "food_beverage"
	IndustryCosmetics       Industry = "cosmetics"
	IndustryPharmaceuticals Industry = "pharmaceuticals"
	IndustryAutomotive      Industry = "automotive"
	IndustryLuxuryGoods     Industry = "luxury_goods"
	IndustryOther           Industry = "other"
)

// Quota holds the per-plan usage limits of a brand
type Quota struct {
	MaxUsers        int   `json:"max_users"`
	MaxCertificates int   `json:"max_certificates"`
	MaxStorageBytes int64 `json:"max_storage_bytes"`
}

// DefaultQuota returns the quota for a newly registered (free) brand
func DefaultQuota() Quota {
	return Quota{
		MaxUsers:        3,
		MaxCertificates: 50,
		MaxStorageBytes: 1 << 30, // 1 GiB
	}
}

// Contact holds the brand's primary contact details
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Brand is the tenant aggregate. Every tenant-scoped record in the system
// keys on a Brand ID.
type Brand struct {
	shared.BaseAggregateRoot
	Code              string
	Name              string
	LegalName         string
	Industry          Industry
	ProductCategories []string
	TargetMarkets     []string // ISO 3166-1 alpha-2 country codes
	Website           string
	LogoURL           string
	FoundedYear       int
	Contact           Contact
	Address           string
	Status            Status
	Plan              Plan
	Quota             Quota
	Notes             string
	DeletedAt         *time.Time
}

// NewBrand creates a new brand in pending status
func NewBrand(code, name string, industry Industry) (*Brand, error) {
	if err := validateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateIndustry(industry); err != nil {
		return nil, err
	}

	b := &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Industry:          industry,
		Status:            StatusPending,
		Plan:              PlanFree,
		Quota:             DefaultQuota(),
	}

	b.AddDomainEvent(NewBrandRegisteredEvent(b))

	return b, nil
}

// UpdateProfile updates the brand's descriptive fields
func (b *Brand) UpdateProfile(name, legalName, website string, foundedYear int) error {
	if err := validateName(name); err != nil {
		return err
	}
	if legalName != "" && len(legalName) > 200 {
		return shared.NewDomainError("INVALID_LEGAL_NAME", "Legal name cannot exceed 200 characters")
	}
	if website != "" && len(website) > 500 {
		return shared.NewDomainError("INVALID_WEBSITE", "Website URL cannot exceed 500 characters")
	}
	if foundedYear != 0 && (foundedYear < 1800 || foundedYear > time.Now().Year()) {
		return shared.NewDomainError("INVALID_FOUNDED_YEAR", "Founded year is out of range")
	}

	b.Name = name
	b.LegalName = legalName
	b.Website = website
	b.FoundedYear = foundedYear
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandUpdatedEvent(b))

	return nil
}

// SetCategories replaces the brand's product categories and target markets.
// Values are normalized to lowercase for matching.
func (b *Brand) SetCategories(categories, markets []string) error {
	if len(categories) > 50 {
		return shared.NewDomainError("INVALID_CATEGORIES", "Cannot have more than 50 product categories")
	}
	if len(markets) > 100 {
		return shared.NewDomainError("INVALID_MARKETS", "Cannot have more than 100 target markets")
	}
	for _, m := range markets {
		if len(m) != 2 {
			return shared.NewDomainError("INVALID_MARKETS", "Target markets must be two-letter country codes")
		}
	}

	b.ProductCategories = normalizeTags(categories)
	b.TargetMarkets = normalizeTags(markets)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetContact sets the brand's contact information
func (b *Brand) SetContact(name, email, phone string) error {
	if name != "" && len(name) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if email != "" && len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	b.Contact = Contact{Name: name, Email: email, Phone: phone}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetAddress sets the brand's address
func (b *Brand) SetAddress(address string) error {
	if address != "" && len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	b.Address = address
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetLogoURL sets the brand's logo URL
func (b *Brand) SetLogoURL(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_URL", "Logo URL cannot exceed 500 characters")
	}

	b.LogoURL = url
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// ChangePlan moves the brand to a new plan and re-derives its quotas
func (b *Brand) ChangePlan(plan Plan) error {
	if err := validatePlan(plan); err != nil {
		return err
	}

	oldPlan := b.Plan
	b.Plan = plan
	b.Quota = quotaForPlan(plan)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandPlanChangedEvent(b, oldPlan, plan))

	return nil
}

func quotaForPlan(plan Plan) Quota {
	switch plan {
	case PlanGrowth:
		return Quota{MaxUsers: 15, MaxCertificates: 2000, MaxStorageBytes: 20 << 30}
	case PlanEnterprise:
		return Quota{MaxUsers: 200, MaxCertificates: 100000, MaxStorageBytes: 500 << 30}
	default:
		return DefaultQuota()
	}
}

// Activate activates the brand
func (b *Brand) Activate() error {
	if b.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Brand is already active")
	}

	oldStatus := b.Status
	b.Status = StatusActive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandStatusChangedEvent(b, oldStatus, StatusActive))

	return nil
}

// Suspend suspends the brand (policy or abuse enforcement)
func (b *Brand) Suspend() error {
	if b.Status == StatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Brand is already suspended")
	}

	oldStatus := b.Status
	b.Status = StatusSuspended
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandStatusChangedEvent(b, oldStatus, StatusSuspended))

	return nil
}

// Deactivate deactivates the brand
func (b *Brand) Deactivate() error {
	if b.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Brand is already inactive")
	}

	oldStatus := b.Status
	b.Status = StatusInactive
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandStatusChangedEvent(b, oldStatus, StatusInactive))

	return nil
}

// MarkDeleted soft-deletes the brand
func (b *Brand) MarkDeleted() {
	now := time.Now()
	b.DeletedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBrandDeletedEvent(b))
}

// SetNotes sets free-form administrative notes
func (b *Brand) SetNotes(notes string) {
	b.Notes = notes
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// Age returns the number of years since the brand was founded,
// or 0 when the founding year is unknown.
func (b *Brand) Age() int {
	if b.FoundedYear == 0 {
		return 0
	}
	age := time.Now().Year() - b.FoundedYear
	if age < 0 {
		return 0
	}
	return age
}

// IsOperational reports whether the brand can use the platform
func (b *Brand) IsOperational() bool {
	return b.Status == StatusActive && b.DeletedAt == nil
}

// IsSuspended reports whether the brand is suspended
func (b *Brand) IsSuspended() bool {
	return b.Status == StatusSuspended
}

// CanAddUser reports whether the brand may add another user
func (b *Brand) CanAddUser(currentUserCount int) bool {
	return currentUserCount < b.Quota.MaxUsers
}

// CanIssueCertificate reports whether the brand may issue another certificate
func (b *Brand) CanIssueCertificate(currentCertificateCount int) bool {
	return currentCertificateCount < b.Quota.MaxCertificates
}

// CanStore reports whether storing additional bytes stays within quota
func (b *Brand) CanStore(currentUsageBytes, additionalBytes int64) bool {
	return currentUsageBytes+additionalBytes <= b.Quota.MaxStorageBytes
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

// Validation functions

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Brand code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Brand code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Brand code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 200 characters")
	}
	return nil
}

func validateIndustry(industry Industry) error {
	switch industry {
	case IndustryFashion, IndustryElectronics, IndustryFoodBeverage, IndustryCosmetics,
		IndustryPharmaceuticals, IndustryAutomotive, IndustryLuxuryGoods, IndustryOther:
		return nil
	default:
		return shared.NewDomainError("INVALID_INDUSTRY", "Invalid industry")
	}
}

func validatePlan(plan Plan) error {
	switch plan {
	case PlanFree, PlanGrowth, PlanEnterprise:
		return nil
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid plan")
	}
}
