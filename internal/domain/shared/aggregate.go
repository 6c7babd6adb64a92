package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// BrandAggregateRoot extends BaseAggregateRoot with brand (tenant) scoping.
// Every record owned by a single brand embeds this.
type BrandAggregateRoot struct {
	BaseAggregateRoot
	BrandID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid;index"` // User who created this record
}

// NewBrandAggregateRoot creates a new brand-scoped aggregate root
func NewBrandAggregateRoot(brandID uuid.UUID) BrandAggregateRoot {
	return BrandAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BrandID:           brandID,
	}
}

// NewBrandAggregateRootWithCreator creates a new brand-scoped aggregate root with creator info
func NewBrandAggregateRootWithCreator(brandID, createdBy uuid.UUID) BrandAggregateRoot {
	return BrandAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		BrandID:           brandID,
		CreatedBy:         &createdBy,
	}
}

// SetCreatedBy sets the creator user ID
func (b *BrandAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	b.CreatedBy = &userID
}

// GetCreatedBy returns the creator user ID
func (b *BrandAggregateRoot) GetCreatedBy() *uuid.UUID {
	return b.CreatedBy
}
