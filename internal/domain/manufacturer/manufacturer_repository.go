package manufacturer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for manufacturer persistence
type Repository interface {
	// Create persists a new manufacturer
	Create(ctx context.Context, m *Manufacturer) error

	// Update persists changes to an existing manufacturer
	Update(ctx context.Context, m *Manufacturer) error

	// FindByID finds a manufacturer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Manufacturer, error)

	// FindAll finds manufacturers matching the filter, returning the page
	// and total count
	FindAll(ctx context.Context, filter Filter) ([]*Manufacturer, int64, error)

	// FindListed returns all active, non-deleted manufacturers. Used by the
	// matching service, which scores the full catalog in memory.
	FindListed(ctx context.Context) ([]*Manufacturer, error)

	// Delete soft-deletes a manufacturer
	Delete(ctx context.Context, id uuid.UUID) error
}

// PartnershipRepository defines the interface for partnership persistence
type PartnershipRepository interface {
	// Create persists a new partnership
	Create(ctx context.Context, p *Partnership) error

	// Update persists changes to an existing partnership
	Update(ctx context.Context, p *Partnership) error

	// FindByID finds a partnership by ID, scoped to a brand
	FindByID(ctx context.Context, brandID, id uuid.UUID) (*Partnership, error)

	// FindByPair finds the partnership between a brand and a manufacturer
	FindByPair(ctx context.Context, brandID, manufacturerID uuid.UUID) (*Partnership, error)

	// FindByBrand lists a brand's partnerships
	FindByBrand(ctx context.Context, brandID uuid.UUID) ([]*Partnership, error)

	// ActiveManufacturerIDs returns the IDs of manufacturers the brand has an
	// active partnership with
	ActiveManufacturerIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error)
}

// Filter holds list query options for manufacturers
type Filter struct {
	Keyword       string
	Country       string
	Category      string
	Certification string
	Verified      *bool
	Status        *Status
	Page          int
	PageSize      int
	SortBy        string
	SortDir       string
}

// NewFilter creates a filter with sane defaults
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		SortBy:   "created_at",
		SortDir:  "desc",
	}
}

// WithKeyword sets a keyword search (matches name)
func (f Filter) WithKeyword(keyword string) Filter {
	f.Keyword = keyword
	return f
}

// WithCountry restricts results to a country code
func (f Filter) WithCountry(country string) Filter {
	f.Country = country
	return f
}

// WithCategory restricts results to manufacturers offering a category
func (f Filter) WithCategory(category string) Filter {
	f.Category = category
	return f
}

// WithCertification restricts results to holders of a certification
func (f Filter) WithCertification(cert string) Filter {
	f.Certification = cert
	return f
}

// WithVerified restricts results by verification flag
func (f Filter) WithVerified(verified bool) Filter {
	f.Verified = &verified
	return f
}

// WithStatus restricts results to a status
func (f Filter) WithStatus(status Status) Filter {
	f.Status = &status
	return f
}

// WithPagination sets page and page size
func (f Filter) WithPagination(page, pageSize int) Filter {
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}

// WithSorting sets the sort column and direction
func (f Filter) WithSorting(sortBy, sortDir string) Filter {
	if sortBy != "" {
		f.SortBy = sortBy
	}
	if sortDir == "asc" || sortDir == "desc" {
		f.SortDir = sortDir
	}
	return f
}

// Offset returns the query offset
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Limit returns the query limit, capped at 100
func (f Filter) Limit() int {
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
