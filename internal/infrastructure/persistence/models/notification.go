package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for the Notification aggregate root.
type NotificationModel struct {
	BrandAggregateModel
	RecipientUserID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type              notification.Type `gorm:"type:varchar(30);not null;index"`
	Title             string            `gorm:"type:varchar(200);not null"`
	Body              string            `gorm:"type:text"`
	Read              bool              `gorm:"column:is_read;not null;default:false;index"`
	ReadAt            *time.Time
	RelatedEntityType string     `gorm:"type:varchar(50)"`
	RelatedEntityID   *uuid.UUID `gorm:"type:uuid"`
	DeletedAt         *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification entity.
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		BrandAggregateRoot: shared.BrandAggregateRoot{
			BaseAggregateRoot: shared.BaseAggregateRoot{
				BaseEntity: shared.BaseEntity{
					ID:        m.ID,
					CreatedAt: m.CreatedAt,
					UpdatedAt: m.UpdatedAt,
				},
				Version: m.Version,
			},
			BrandID:   m.BrandID,
			CreatedBy: m.CreatedBy,
		},
		RecipientUserID:   m.RecipientUserID,
		Type:              m.Type,
		Title:             m.Title,
		Body:              m.Body,
		Read:              m.Read,
		ReadAt:            m.ReadAt,
		RelatedEntityType: m.RelatedEntityType,
		RelatedEntityID:   m.RelatedEntityID,
		DeletedAt:         m.DeletedAt,
	}
	return n
}

// FromDomain populates the persistence model from a domain Notification entity.
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainBrandAggregateRoot(n.BrandAggregateRoot)
	m.RecipientUserID = n.RecipientUserID
	m.Type = n.Type
	m.Title = n.Title
	m.Body = n.Body
	m.Read = n.Read
	m.ReadAt = n.ReadAt
	m.RelatedEntityType = n.RelatedEntityType
	m.RelatedEntityID = n.RelatedEntityID
	m.DeletedAt = n.DeletedAt
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification entity.
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}
