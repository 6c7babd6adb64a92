package media

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for media persistence
type Repository interface {
	// Create creates a new media record
	Create(ctx context.Context, m *Media) error

	// Update updates an existing media record
	Update(ctx context.Context, m *Media) error

	// FindByID finds a brand's media record by ID
	FindByID(ctx context.Context, brandID, id uuid.UUID) (*Media, error)

	// FindAll returns a brand's media with pagination
	FindAll(ctx context.Context, brandID uuid.UUID, filter Filter) ([]*Media, int64, error)

	// SumSizeByBrand totals the stored bytes of a brand's non-deleted
	// media, for storage quota checks
	SumSizeByBrand(ctx context.Context, brandID uuid.UUID) (int64, error)
}

// Filter contains filter options for querying media
type Filter struct {
	// Filter by kind
	Kind *Kind

	// Filter by status
	Status *Status

	// Filter by owning user
	OwnerUserID *uuid.UUID

	// Search keyword for file name
	Keyword string

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy  string
	SortDir string // "asc" or "desc"
}

// NewFilter creates a new Filter with default values
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		SortBy:   "created_at",
		SortDir:  "desc",
	}
}

// WithKind sets the kind filter
func (f Filter) WithKind(kind Kind) Filter {
	f.Kind = &kind
	return f
}

// WithStatus sets the status filter
func (f Filter) WithStatus(status Status) Filter {
	f.Status = &status
	return f
}

// WithOwner sets the owning user filter
func (f Filter) WithOwner(userID uuid.UUID) Filter {
	f.OwnerUserID = &userID
	return f
}

// WithKeyword sets the search keyword
func (f Filter) WithKeyword(keyword string) Filter {
	f.Keyword = keyword
	return f
}

// WithPagination sets pagination parameters
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
	if sortDir != "" {
		f.SortDir = sortDir
	}
	return f
}

// Offset returns the offset for pagination
func (f Filter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
