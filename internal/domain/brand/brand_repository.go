package brand

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for brand persistence
type Repository interface {
	// Create persists a new brand
	Create(ctx context.Context, b *Brand) error

	// Update persists changes to an existing brand
	Update(ctx context.Context, b *Brand) error

	// FindByID finds a brand by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)

	// FindByCode finds a brand by its unique code
	FindByCode(ctx context.Context, code string) (*Brand, error)

	// FindAll finds brands matching the filter, returning the page and total count
	FindAll(ctx context.Context, filter Filter) ([]*Brand, int64, error)

	// ExistsByCode checks whether a brand with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// CountByStatus counts brands in a given status
	CountByStatus(ctx context.Context, status Status) (int64, error)
}

// Filter holds list query options for brands
type Filter struct {
	Keyword  string
	Status   *Status
	Industry *Industry
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
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

// WithKeyword sets a keyword search (matches code and name)
func (f Filter) WithKeyword(keyword string) Filter {
	f.Keyword = keyword
	return f
}

// WithStatus restricts results to a status
func (f Filter) WithStatus(status Status) Filter {
	f.Status = &status
	return f
}

// WithIndustry restricts results to an industry
func (f Filter) WithIndustry(industry Industry) Filter {
	f.Industry = &industry
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
