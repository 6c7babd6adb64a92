package notification

import (
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies what a notification is about
type Type string

const (
	TypeSecurityAlert          Type = "security_alert"
	TypeCertificateMinted      Type = "certificate_minted"
	TypeCertificateTransferred Type = "certificate_transferred"
	TypeCertificateFailed      Type = "certificate_failed"
	TypePartnershipRequest     Type = "partnership_request"
	TypePartnershipAccepted    Type = "partnership_accepted"
	TypeMediaReady             Type = "media_ready"
	TypeSystem                 Type = "system"
)

// IsValid reports whether the type is known
func (t Type) IsValid() bool {
	switch t {
	case TypeSecurityAlert, TypeCertificateMinted, TypeCertificateTransferred,
		TypeCertificateFailed, TypePartnershipRequest, TypePartnershipAccepted,
		TypeMediaReady, TypeSystem:
		return true
	}
	return false
}

// Length limits for notification content
const (
	MaxTitleLength = 200
	MaxBodyLength  = 2000
)

// Notification is an in-app message delivered to one user of a brand.
// Email delivery, when enabled, is a best-effort side channel; this row
// is the source of truth.
type Notification struct {
	shared.BrandAggregateRoot
	RecipientUserID   uuid.UUID
	Type              Type
	Title             string
	Body              string
	Read              bool
	ReadAt            *time.Time
	RelatedEntityType string
	RelatedEntityID   *uuid.UUID
	DeletedAt         *time.Time
}

// NewNotification validates and creates an unread notification
func NewNotification(brandID, recipientUserID uuid.UUID, notificationType Type, title, body string) (*Notification, error) {
	if recipientUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient user ID is required")
	}
	if !notificationType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown notification type")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(body) > MaxBodyLength {
		return nil, shared.NewDomainError("INVALID_BODY", "Body cannot exceed 2000 characters")
	}

	return &Notification{
		BrandAggregateRoot: shared.NewBrandAggregateRoot(brandID),
		RecipientUserID:    recipientUserID,
		Type:               notificationType,
		Title:              title,
		Body:               strings.TrimSpace(body),
	}, nil
}

// WithRelatedEntity links the notification to the record it is about,
// so clients can deep-link from the notification list
func (n *Notification) WithRelatedEntity(entityType string, entityID uuid.UUID) *Notification {
	if entityType != "" && entityID != uuid.Nil {
		n.RelatedEntityType = entityType
		n.RelatedEntityID = &entityID
	}
	return n
}

// MarkRead marks the notification as read. Already-read notifications
// are left untouched so the original ReadAt survives repeat calls.
func (n *Notification) MarkRead() {
	if n.Read {
		return
	}

	now := time.Now()
	n.Read = true
	n.ReadAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}

// MarkDeleted soft-deletes the notification
func (n *Notification) MarkDeleted() {
	now := time.Now()
	n.DeletedAt = &now
	n.UpdatedAt = now
	n.IncrementVersion()
}

// IsDeleted reports whether the notification was soft-deleted
func (n *Notification) IsDeleted() bool {
	return n.DeletedAt != nil
}

// IsFor reports whether a user is the recipient
func (n *Notification) IsFor(userID uuid.UUID) bool {
	return n.RecipientUserID == userID
}
