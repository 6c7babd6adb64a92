package manufacturer

import (
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeManufacturer = "Manufacturer"
	AggregateTypePartnership  = "Partnership"
)

// Event type constants
const (
	EventTypeManufacturerListed   = "ManufacturerListed"
	EventTypeManufacturerVerified = "ManufacturerVerified"
	EventTypePartnershipRequested = "PartnershipRequested"
	EventTypePartnershipAccepted  = "PartnershipAccepted"
)

// ManufacturerListedEvent is published when a manufacturer joins the catalog
type ManufacturerListedEvent struct {
	shared.BaseDomainEvent
	Name    string `json:"name"`
	Country string `json:"country"`
}

// NewManufacturerListedEvent creates a new ManufacturerListedEvent
func NewManufacturerListedEvent(m *Manufacturer) *ManufacturerListedEvent {
	return &ManufacturerListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeManufacturerListed, AggregateTypeManufacturer, m.ID, uuid.Nil),
		Name:            m.Name,
		Country:         m.Country,
	}
}

// ManufacturerVerifiedEvent is published when a manufacturer is verified
type ManufacturerVerifiedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewManufacturerVerifiedEvent creates a new ManufacturerVerifiedEvent
func NewManufacturerVerifiedEvent(m *Manufacturer) *ManufacturerVerifiedEvent {
	return &ManufacturerVerifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeManufacturerVerified, AggregateTypeManufacturer, m.ID, uuid.Nil),
		Name:            m.Name,
	}
}

// PartnershipRequestedEvent is published when a brand requests a partnership
type PartnershipRequestedEvent struct {
	shared.BaseDomainEvent
	ManufacturerID uuid.UUID `json:"manufacturer_id"`
	RequestedBy    uuid.UUID `json:"requested_by"`
}

// NewPartnershipRequestedEvent creates a new PartnershipRequestedEvent
func NewPartnershipRequestedEvent(p *Partnership) *PartnershipRequestedEvent {
	return &PartnershipRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnershipRequested, AggregateTypePartnership, p.ID, p.BrandID),
		ManufacturerID:  p.ManufacturerID,
		RequestedBy:     p.RequestedBy,
	}
}

// PartnershipAcceptedEvent is published when a partnership becomes active
type PartnershipAcceptedEvent struct {
	shared.BaseDomainEvent
	ManufacturerID uuid.UUID `json:"manufacturer_id"`
}

// NewPartnershipAcceptedEvent creates a new PartnershipAcceptedEvent
func NewPartnershipAcceptedEvent(p *Partnership) *PartnershipAcceptedEvent {
	return &PartnershipAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePartnershipAccepted, AggregateTypePartnership, p.ID, p.BrandID),
		ManufacturerID:  p.ManufacturerID,
	}
}
