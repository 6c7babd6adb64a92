package notification

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for notifications
type Repository interface {
	// Create persists a new notification
	Create(ctx context.Context, notification *Notification) error

	// CreateBatch persists several notifications at once, used when one
	// event fans out to multiple recipients
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// Update persists changes to an existing notification
	Update(ctx context.Context, notification *Notification) error

	// FindByID retrieves a notification by ID within a brand
	FindByID(ctx context.Context, brandID, id uuid.UUID) (*Notification, error)

	// FindForUser retrieves a user's notifications with filtering and pagination
	FindForUser(ctx context.Context, brandID, userID uuid.UUID, filter Filter) ([]*Notification, int64, error)

	// CountUnread returns the number of unread notifications for a user
	CountUnread(ctx context.Context, brandID, userID uuid.UUID) (int64, error)

	// MarkAllRead marks every unread notification of a user as read and
	// returns how many rows changed
	MarkAllRead(ctx context.Context, brandID, userID uuid.UUID) (int64, error)
}

// Filter defines query criteria for listing notifications
type Filter struct {
	Type       *Type
	UnreadOnly bool
	Page       int
	PageSize   int
	SortBy     string
	SortDir    string
}

// NewFilter creates a filter with default pagination
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		SortBy:   "created_at",
		SortDir:  "desc",
	}
}

// WithType filters by notification type
func (f Filter) WithType(notificationType Type) Filter {
	if notificationType.IsValid() {
		f.Type = &notificationType
	}
	return f
}

// WithUnreadOnly restricts the listing to unread notifications
func (f Filter) WithUnreadOnly() Filter {
	f.UnreadOnly = true
	return f
}

// WithPage sets the page number
func (f Filter) WithPage(page int) Filter {
	if page > 0 {
		f.Page = page
	}
	return f
}

// WithPageSize sets the page size
func (f Filter) WithPageSize(size int) Filter {
	if size > 0 {
		f.PageSize = size
	}
	return f
}

// Offset returns the query offset for the current page
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
