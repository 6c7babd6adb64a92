package persistence

import (
	"context"
	"time"

	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// loginEventTypes are the event types considered when profiling a user's
// login behavior, e.g. counting distinct source IPs.
var loginEventTypes = []security.EventType{
	security.EventLoginSuccess,
	security.EventLoginFailed,
	security.EventLoginBlocked,
}

// GormSecurityEventRepository implements security.EventRepository using GORM.
// The audit log is append-only: rows are inserted and queried, never updated.
type GormSecurityEventRepository struct {
	db *gorm.DB
}

// NewGormSecurityEventRepository creates a new GormSecurityEventRepository
func NewGormSecurityEventRepository(db *gorm.DB) *GormSecurityEventRepository {
	return &GormSecurityEventRepository{db: db}
}

// Create inserts an event
func (r *GormSecurityEventRepository) Create(ctx context.Context, event *security.Event) error {
	model := models.SecurityEventModelFromDomain(event)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindAll returns a brand's events with filters and pagination
func (r *GormSecurityEventRepository) FindAll(ctx context.Context, brandID uuid.UUID, filter security.EventFilter) ([]*security.Event, int64, error) {
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.SecurityEventModel{}).
			Where("brand_id = ?", brandID),
		filter,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := ValidateSortField(filter.SortBy, SecurityEventSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var eventModels []models.SecurityEventModel
	if err := query.
		Order(sortBy + " " + sortDir).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&eventModels).Error; err != nil {
		return nil, 0, err
	}

	events := make([]*security.Event, len(eventModels))
	for i := range eventModels {
		events[i] = eventModels[i].ToDomain()
	}
	return events, total, nil
}

// CountByUserAndType counts a user's events of one type since a time
func (r *GormSecurityEventRepository) CountByUserAndType(ctx context.Context, userID uuid.UUID, eventType security.EventType, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SecurityEventModel{}).
		Where("user_id = ? AND type = ? AND created_at >= ?", userID, eventType, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountDistinctIPs counts distinct IPs among a user's login events since a
// time. Rows without an IP are skipped rather than counted as one bucket.
func (r *GormSecurityEventRepository) CountDistinctIPs(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SecurityEventModel{}).
		Select("COUNT(DISTINCT ip)").
		Where("user_id = ? AND type IN ? AND created_at >= ? AND ip <> ''", userID, loginEventTypes, since).
		Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountBySeverityAtLeast counts a user's events at or above a severity
// since a time
func (r *GormSecurityEventRepository) CountBySeverityAtLeast(ctx context.Context, userID uuid.UUID, severity security.Severity, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SecurityEventModel{}).
		Where("user_id = ? AND severity IN ? AND created_at >= ?", userID, severitiesAtLeast(severity), since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize aggregates a brand's event counts by type and severity since a
// time
func (r *GormSecurityEventRepository) Summarize(ctx context.Context, brandID uuid.UUID, since time.Time) (*security.EventSummary, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.SecurityEventModel{}).
			Where("brand_id = ? AND created_at >= ?", brandID, since)
	}

	var typeRows []struct {
		Type  security.EventType
		Count int64
	}
	if err := base().
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&typeRows).Error; err != nil {
		return nil, err
	}

	var severityRows []struct {
		Severity security.Severity
		Count    int64
	}
	if err := base().
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		return nil, err
	}

	summary := &security.EventSummary{
		ByType:     make(map[security.EventType]int64, len(typeRows)),
		BySeverity: make(map[security.Severity]int64, len(severityRows)),
		Since:      since,
	}
	for _, row := range typeRows {
		summary.ByType[row.Type] = row.Count
		summary.Total += row.Count
	}
	for _, row := range severityRows {
		summary.BySeverity[row.Severity] = row.Count
	}
	return summary, nil
}

// applyFilter applies filter options to the query
func (r *GormSecurityEventRepository) applyFilter(query *gorm.DB, filter security.EventFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Severity != nil {
		query = query.Where("severity = ?", *filter.Severity)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

// severitiesAtLeast expands a minimum severity into the set of matching
// severity values, since severity ranks are not encoded in the column
func severitiesAtLeast(min security.Severity) []security.Severity {
	switch min {
	case security.SeverityCritical:
		return []security.Severity{security.SeverityCritical}
	case security.SeverityWarning:
		return []security.Severity{security.SeverityWarning, security.SeverityCritical}
	default:
		return []security.Severity{security.SeverityInfo, security.SeverityWarning, security.SeverityCritical}
	}
}

// Ensure GormSecurityEventRepository implements security.EventRepository
var _ security.EventRepository = (*GormSecurityEventRepository)(nil)
