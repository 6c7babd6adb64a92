package security

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventRepository persists and queries the security audit log
type EventRepository interface {
	// Create inserts an event; rows are never updated
	Create(ctx context.Context, event *Event) error

	// FindAll returns a brand's events with filters and pagination
	FindAll(ctx context.Context, brandID uuid.UUID, filter EventFilter) ([]*Event, int64, error)

	// CountByUserAndType counts a user's events of one type since a time
	CountByUserAndType(ctx context.Context, userID uuid.UUID, eventType EventType, since time.Time) (int64, error)

	// CountDistinctIPs counts distinct IPs among a user's login events
	// (login_success, login_failed, login_blocked) since a time
	CountDistinctIPs(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)

	// CountBySeverityAtLeast counts a user's events at or above a severity
	// since a time
	CountBySeverityAtLeast(ctx context.Context, userID uuid.UUID, severity Severity, since time.Time) (int64, error)

	// Summarize aggregates a brand's event counts by type and severity
	// since a time
	Summarize(ctx context.Context, brandID uuid.UUID, since time.Time) (*EventSummary, error)
}

// EventSummary aggregates event counts over a window
type EventSummary struct {
	Total      int64               `json:"total"`
	ByType     map[EventType]int64 `json:"by_type"`
	BySeverity map[Severity]int64  `json:"by_severity"`
	Since      time.Time           `json:"since"`
}

// SessionRepository persists server-tracked login sessions
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *Session) error

	// Update updates an existing session
	Update(ctx context.Context, session *Session) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// FindByAccessTokenID finds the session carrying an access token jti
	FindByAccessTokenID(ctx context.Context, tokenID string) (*Session, error)

	// FindByRefreshTokenID finds the session carrying a refresh token jti
	FindByRefreshTokenID(ctx context.Context, tokenID string) (*Session, error)

	// FindActiveByUser lists a user's non-revoked, non-expired sessions
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Session, error)

	// RevokeAllForUser revokes every active session of a user and returns
	// how many were revoked
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, reason RevokeReason) (int64, error)

	// DeleteExpired removes sessions that expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// BlacklistedTokenRepository persists the durable blacklist audit rows
type BlacklistedTokenRepository interface {
	// Create records a revoked token
	Create(ctx context.Context, token *BlacklistedToken) error

	// ExistsByTokenID checks whether a jti has been blacklisted
	ExistsByTokenID(ctx context.Context, tokenID string) (bool, error)

	// DeleteExpired removes rows whose tokens expired before the given time
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// EventFilter contains filter options for querying security events
type EventFilter struct {
	UserID   *uuid.UUID
	Type     *EventType
	Severity *Severity
	From     *time.Time
	To       *time.Time

	// Pagination
	Page     int
	PageSize int

	// Sorting
	SortBy  string
	SortDir string // "asc" or "desc"
}

// NewEventFilter creates a new EventFilter with default values
func NewEventFilter() EventFilter {
	return EventFilter{
		Page:     1,
		PageSize: 20,
		SortBy:   "created_at",
		SortDir:  "desc",
	}
}

// WithUser sets the user filter
func (f EventFilter) WithUser(userID uuid.UUID) EventFilter {
	f.UserID = &userID
	return f
}

// WithType sets the event type filter
func (f EventFilter) WithType(eventType EventType) EventFilter {
	f.Type = &eventType
	return f
}

// WithSeverity sets the severity filter
func (f EventFilter) WithSeverity(severity Severity) EventFilter {
	f.Severity = &severity
	return f
}

// WithTimeRange sets the time range filter
func (f EventFilter) WithTimeRange(from, to time.Time) EventFilter {
	if !from.IsZero() {
		f.From = &from
	}
	if !to.IsZero() {
		f.To = &to
	}
	return f
}

// WithPagination sets pagination parameters
func (f EventFilter) WithPagination(page, pageSize int) EventFilter {
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}

// WithSorting sets the sort column and direction
func (f EventFilter) WithSorting(sortBy, sortDir string) EventFilter {
	if sortBy != "" {
		f.SortBy = sortBy
	}
	if sortDir != "" {
		f.SortDir = sortDir
	}
	return f
}

// Offset returns the offset for pagination
func (f EventFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f EventFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
