package manufacturer

import (
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PartnershipStatus represents the lifecycle of a brand-manufacturer connection
type PartnershipStatus string

const (
	PartnershipRequested PartnershipStatus = "requested"
	PartnershipActive    PartnershipStatus = "active"
	PartnershipEnded     PartnershipStatus = "ended"
)

// Partnership connects a brand to a manufacturer. At most one partnership
// exists per (brand, manufacturer) pair.
type Partnership struct {
	shared.BrandAggregateRoot
	ManufacturerID uuid.UUID
	Status         PartnershipStatus
	RequestedBy    uuid.UUID // user who initiated the request
	StartedAt      *time.Time
	EndedAt        *time.Time
}

// NewPartnership creates a partnership request from a brand to a manufacturer
func NewPartnership(brandID, manufacturerID, requestedBy uuid.UUID) (*Partnership, error) {
	if brandID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRAND", "Brand ID is required")
	}
	if manufacturerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MANUFACTURER", "Manufacturer ID is required")
	}

	p := &Partnership{
		BrandAggregateRoot: shared.NewBrandAggregateRootWithCreator(brandID, requestedBy),
		ManufacturerID:     manufacturerID,
		Status:             PartnershipRequested,
		RequestedBy:        requestedBy,
	}

	p.AddDomainEvent(NewPartnershipRequestedEvent(p))

	return p, nil
}

// Accept activates a requested partnership
func (p *Partnership) Accept() error {
	if p.Status != PartnershipRequested {
		return shared.NewDomainError("INVALID_STATE", "Only requested partnerships can be accepted")
	}

	now := time.Now()
	p.Status = PartnershipActive
	p.StartedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnershipAcceptedEvent(p))

	return nil
}

// End terminates an active partnership
func (p *Partnership) End() error {
	if p.Status != PartnershipActive && p.Status != PartnershipRequested {
		return shared.NewDomainError("INVALID_STATE", "Partnership has already ended")
	}

	now := time.Now()
	p.Status = PartnershipEnded
	p.EndedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Reopen turns an ended partnership back into a request. The previous
// start and end dates are cleared; acceptance starts a fresh period.
func (p *Partnership) Reopen(requestedBy uuid.UUID) error {
	if p.Status != PartnershipEnded {
		return shared.NewDomainError("INVALID_STATE", "Only ended partnerships can be reopened")
	}

	p.Status = PartnershipRequested
	p.RequestedBy = requestedBy
	p.StartedAt = nil
	p.EndedAt = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPartnershipRequestedEvent(p))

	return nil
}

// IsActive reports whether the partnership is currently active
func (p *Partnership) IsActive() bool {
	return p.Status == PartnershipActive
}
