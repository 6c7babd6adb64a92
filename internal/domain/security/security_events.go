package security

import (
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSecurity = "Security"

// Domain event types published on the event bus (distinct from the
// persisted audit EventType values)
const (
	EventTypeSuspiciousActivityDetected = "SuspiciousActivityDetected"
	EventTypeAccountLocked              = "AccountLocked"
)

// SuspiciousActivityDetectedEvent is published when a user trips one of
// the detection thresholds. Notification handlers fan it out.
type SuspiciousActivityDetectedEvent struct {
	shared.BaseDomainEvent
	UserID  uuid.UUID `json:"user_id"`
	Reasons []string  `json:"reasons"`
}

// NewSuspiciousActivityDetectedEvent creates a new SuspiciousActivityDetectedEvent
func NewSuspiciousActivityDetectedEvent(brandID, userID uuid.UUID, reasons []string) *SuspiciousActivityDetectedEvent {
	return &SuspiciousActivityDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSuspiciousActivityDetected, AggregateTypeSecurity, userID, brandID),
		UserID:          userID,
		Reasons:         reasons,
	}
}

// AccountLockedEvent is published when repeated failures lock an account
type AccountLockedEvent struct {
	shared.BaseDomainEvent
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	IP       string    `json:"ip"`
}

// NewAccountLockedEvent creates a new AccountLockedEvent
func NewAccountLockedEvent(brandID, userID uuid.UUID, username, ip string) *AccountLockedEvent {
	return &AccountLockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountLocked, AggregateTypeSecurity, userID, brandID),
		UserID:          userID,
		Username:        username,
		IP:              ip,
	}
}
