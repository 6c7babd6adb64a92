package brand

import (
	"github.com/brandcert/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeBrand = "Brand"

// Event type constants
const (
	EventTypeBrandRegistered    = "BrandRegistered"
	EventTypeBrandUpdated       = "BrandUpdated"
	EventTypeBrandStatusChanged = "BrandStatusChanged"
	EventTypeBrandPlanChanged   = "BrandPlanChanged"
	EventTypeBrandDeleted       = "BrandDeleted"
)

// BrandRegisteredEvent is published when a new brand registers
type BrandRegisteredEvent struct {
	shared.BaseDomainEvent
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Industry Industry `json:"industry"`
	Status   Status   `json:"status"`
	Plan     Plan     `json:"plan"`
}

// NewBrandRegisteredEvent creates a new BrandRegisteredEvent
func NewBrandRegisteredEvent(b *Brand) *BrandRegisteredEvent {
	return &BrandRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandRegistered, AggregateTypeBrand, b.ID, b.ID),
		Code:            b.Code,
		Name:            b.Name,
		Industry:        b.Industry,
		Status:          b.Status,
		Plan:            b.Plan,
	}
}

// BrandUpdatedEvent is published when a brand's profile changes
type BrandUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBrandUpdatedEvent creates a new BrandUpdatedEvent
func NewBrandUpdatedEvent(b *Brand) *BrandUpdatedEvent {
	return &BrandUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandUpdated, AggregateTypeBrand, b.ID, b.ID),
		Code:            b.Code,
		Name:            b.Name,
	}
}

// BrandStatusChangedEvent is published when a brand's status changes
type BrandStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code      string `json:"code"`
	OldStatus Status `json:"old_status"`
	NewStatus Status `json:"new_status"`
}

// NewBrandStatusChangedEvent creates a new BrandStatusChangedEvent
func NewBrandStatusChangedEvent(b *Brand, oldStatus, newStatus Status) *BrandStatusChangedEvent {
	return &BrandStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandStatusChanged, AggregateTypeBrand, b.ID, b.ID),
		Code:            b.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// BrandPlanChangedEvent is published when a brand's plan changes
type BrandPlanChangedEvent struct {
	shared.BaseDomainEvent
	Code    string `json:"code"`
	OldPlan Plan   `json:"old_plan"`
	NewPlan Plan   `json:"new_plan"`
}

// NewBrandPlanChangedEvent creates a new BrandPlanChangedEvent
func NewBrandPlanChangedEvent(b *Brand, oldPlan, newPlan Plan) *BrandPlanChangedEvent {
	return &BrandPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandPlanChanged, AggregateTypeBrand, b.ID, b.ID),
		Code:            b.Code,
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}

// BrandDeletedEvent is published when a brand is soft-deleted
type BrandDeletedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewBrandDeletedEvent creates a new BrandDeletedEvent
func NewBrandDeletedEvent(b *Brand) *BrandDeletedEvent {
	return &BrandDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBrandDeleted, AggregateTypeBrand, b.ID, b.ID),
		Code:            b.Code,
		Name:            b.Name,
	}
}
