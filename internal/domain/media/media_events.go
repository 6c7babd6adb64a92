package media

import (
	"github.com/brandcert/backend/internal/domain/shared"
)

// Aggregate type constant for Media
const AggregateTypeMedia = "Media"

// Media domain event types
const (
	EventTypeMediaCreated = "MediaCreated"
	EventTypeMediaReady   = "MediaReady"
)

// MediaCreatedEvent is published when a media record is created
type MediaCreatedEvent struct {
	shared.BaseDomainEvent
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Kind        Kind   `json:"kind"`
	SizeBytes   int64  `json:"size_bytes"`
}

// NewMediaCreatedEvent creates a new MediaCreatedEvent
func NewMediaCreatedEvent(m *Media) *MediaCreatedEvent {
	return &MediaCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMediaCreated, AggregateTypeMedia, m.ID, m.BrandID),
		FileName:        m.FileName,
		ContentType:     m.ContentType,
		Kind:            m.Kind,
		SizeBytes:       m.SizeBytes,
	}
}

// MediaReadyEvent is published when an upload is confirmed in storage
type MediaReadyEvent struct {
	shared.BaseDomainEvent
	FileName   string `json:"file_name"`
	StorageKey string `json:"storage_key"`
	Kind       Kind   `json:"kind"`
}

// NewMediaReadyEvent creates a new MediaReadyEvent
func NewMediaReadyEvent(m *Media) *MediaReadyEvent {
	return &MediaReadyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMediaReady, AggregateTypeMedia, m.ID, m.BrandID),
		FileName:        m.FileName,
		StorageKey:      m.StorageKey,
		Kind:            m.Kind,
	}
}
