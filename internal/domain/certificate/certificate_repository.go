package certificate

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for certificate persistence
type Repository interface {
	// Create creates a new certificate
	Create(ctx context.Context, cert *Certificate) error

	// Update updates an existing certificate
	Update(ctx context.Context, cert *Certificate) error

	// FindByID finds a brand's certificate by ID
	FindByID(ctx context.Context, brandID, id uuid.UUID) (*Certificate, error)

	// FindBySerialNumber finds a certificate by serial across all brands;
	// backs the public verification endpoint
	FindBySerialNumber(ctx context.Context, serialNumber string) (*Certificate, error)

	// FindAll returns a brand's certificates with pagination
	FindAll(ctx context.Context, brandID uuid.UUID, filter Filter) ([]*Certificate, int64, error)

	// ExistsBySerialNumber checks if a serial number is already taken
	ExistsBySerialNumber(ctx context.Context, serialNumber string) (bool, error)

	// CountByBrand returns the number of certificates a brand has issued,
	// excluding soft-deleted rows, for quota checks
	CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error)

	// CountByStatus returns certificate counts grouped by status for a brand
	CountByStatus(ctx context.Context, brandID uuid.UUID) (map[Status]int64, error)
}

// Filter contains filter options for querying certificates
type Filter struct {
	// Keyword searches serial number, product name, and SKU
	Keyword string

	// Filter by status
	Status *Status

	// Filter by linked manufacturer
	ManufacturerID *uuid.UUID

	// Filter by batch number
	BatchNumber string

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

// WithKeyword sets the search keyword
func (f Filter) WithKeyword(keyword string) Filter {
	f.Keyword = keyword
	return f
}

// WithStatus sets the status filter
func (f Filter) WithStatus(status Status) Filter {
	f.Status = &status
	return f
}

// WithManufacturer sets the manufacturer filter
func (f Filter) WithManufacturer(manufacturerID uuid.UUID) Filter {
	f.ManufacturerID = &manufacturerID
	return f
}

// WithBatchNumber sets the batch number filter
func (f Filter) WithBatchNumber(batchNumber string) Filter {
	f.BatchNumber = batchNumber
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
