package security

import (
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EventType classifies a security event
type EventType string

const (
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLogout             EventType = "logout"
	EventPasswordChanged    EventType = "password_changed"
	EventAccountLocked      EventType = "account_locked"
	EventAccountUnlocked    EventType = "account_unlocked"
	EventTokenRefreshed     EventType = "token_refreshed"
	EventTokenRevoked       EventType = "token_revoked"
	EventSessionRevoked     EventType = "session_revoked"
	EventCaptchaFailed      EventType = "captcha_failed"
	EventSuspiciousActivity EventType = "suspicious_activity"
)

// Severity grades how alarming an event is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

var severityRank = map[Severity]int{
	SeverityInfo:     1,
	SeverityWarning:  2,
	SeverityCritical: 3,
}

// AtLeast reports whether this severity ranks at or above the other
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

var validEventTypes = map[EventType]struct{}{
	EventLoginSuccess:       {},
	EventLoginFailed:        {},
	EventLoginBlocked:       {},
	EventLogout:             {},
	EventPasswordChanged:    {},
	EventAccountLocked:      {},
	EventAccountUnlocked:    {},
	EventTokenRefreshed:     {},
	EventTokenRevoked:       {},
	EventSessionRevoked:     {},
	EventCaptchaFailed:      {},
	EventSuspiciousActivity: {},
}

// IsValid reports whether the event type is known
func (t EventType) IsValid() bool {
	_, ok := validEventTypes[t]
	return ok
}

// DefaultSeverity returns the severity recorded for an event type when
// the caller does not override it
func DefaultSeverity(t EventType) Severity {
	switch t {
	case EventAccountLocked, EventSuspiciousActivity:
		return SeverityCritical
	case EventLoginFailed, EventLoginBlocked, EventTokenRevoked, EventCaptchaFailed:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Event is an insert-only audit record of a security-relevant action.
// Rows are never updated after creation; queries filter and aggregate them.
type Event struct {
	shared.BaseEntity
	BrandID     uuid.UUID
	UserID      *uuid.UUID
	Type        EventType
	Severity    Severity
	IP          string
	UserAgent   string
	Description string
	Metadata    map[string]any
	RiskScore   int
}

// NewEvent creates a security event with the default severity for its type
func NewEvent(brandID uuid.UUID, userID *uuid.UUID, eventType EventType, ip, userAgent, description string) (*Event, error) {
	if !eventType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown security event type")
	}
	if len(description) > 1000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}

	return &Event{
		BaseEntity:  shared.NewBaseEntity(),
		BrandID:     brandID,
		UserID:      userID,
		Type:        eventType,
		Severity:    DefaultSeverity(eventType),
		IP:          ip,
		UserAgent:   userAgent,
		Description: description,
	}, nil
}

// WithSeverity overrides the default severity
func (e *Event) WithSeverity(severity Severity) *Event {
	if _, ok := severityRank[severity]; ok {
		e.Severity = severity
	}
	return e
}

// WithMetadata attaches structured context to the event
func (e *Event) WithMetadata(metadata map[string]any) *Event {
	e.Metadata = metadata
	return e
}

// WithRiskScore records the computed risk score
func (e *Event) WithRiskScore(score int) *Event {
	if score < 0 {
		score = 0
	}
	if score > MaxRiskScore {
		score = MaxRiskScore
	}
	e.RiskScore = score
	return e
}
