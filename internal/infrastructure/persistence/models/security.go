package models

import (
	"time"

	"github.com/brandcert/backend/internal/domain/security"
	"github.com/google/uuid"
)

// SecurityEventModel is the persistence model for the append-only security
// audit log. Rows are inserted once and never updated.
type SecurityEventModel struct {
	BaseModel
	BrandID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	UserID       *uuid.UUID         `gorm:"type:uuid;index"`
	Type         security.EventType `gorm:"type:varchar(40);not null;index"`
	Severity     security.Severity  `gorm:"type:varchar(20);not null;index"`
	IP           string             `gorm:"type:varchar(45)"`
	UserAgent    string             `gorm:"type:varchar(500)"`
	Description  string             `gorm:"type:varchar(500)"`
	MetadataJSON string             `gorm:"column:metadata;type:jsonb;default:'{}'"`
	RiskScore    int                `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SecurityEventModel) TableName() string {
	return "security_events"
}

// ToDomain converts the persistence model to a domain Event entity.
func (m *SecurityEventModel) ToDomain() *security.Event {
	e := &security.Event{
		BaseEntity:  m.BaseModel.ToDomain(),
		BrandID:     m.BrandID,
		UserID:      m.UserID,
		Type:        m.Type,
		Severity:    m.Severity,
		IP:          m.IP,
		UserAgent:   m.UserAgent,
		Description: m.Description,
		Metadata:    unmarshalMetadata(m.MetadataJSON, "security_events.metadata"),
		RiskScore:   m.RiskScore,
	}
	return e
}

// FromDomain populates the persistence model from a domain Event entity.
func (m *SecurityEventModel) FromDomain(e *security.Event) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.BrandID = e.BrandID
	m.UserID = e.UserID
	m.Type = e.Type
	m.Severity = e.Severity
	m.IP = e.IP
	m.UserAgent = e.UserAgent
	m.Description = e.Description
	m.MetadataJSON = marshalMetadata(e.Metadata)
	m.RiskScore = e.RiskScore
}

// SecurityEventModelFromDomain creates a new persistence model from a domain Event entity.
func SecurityEventModelFromDomain(e *security.Event) *SecurityEventModel {
	m := &SecurityEventModel{}
	m.FromDomain(e)
	return m
}

// SessionModel is the persistence model for server-tracked login sessions.
type SessionModel struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	BrandID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AccessTokenID  string    `gorm:"type:varchar(36);not null;uniqueIndex"`
	RefreshTokenID string    `gorm:"type:varchar(36);not null;uniqueIndex"`
	IP             string    `gorm:"type:varchar(45)"`
	UserAgent      string    `gorm:"type:varchar(500)"`
	ExpiresAt      time.Time `gorm:"not null;index"`
	LastSeenAt     time.Time `gorm:"not null"`
	Revoked        bool      `gorm:"not null;default:false;index"`
	RevokedAt      *time.Time
	RevokeReason   security.RevokeReason `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}

// ToDomain converts the persistence model to a domain Session entity.
func (m *SessionModel) ToDomain() *security.Session {
	s := &security.Session{
		BaseEntity:     m.BaseModel.ToDomain(),
		UserID:         m.UserID,
		BrandID:        m.BrandID,
		AccessTokenID:  m.AccessTokenID,
		RefreshTokenID: m.RefreshTokenID,
		IP:             m.IP,
		UserAgent:      m.UserAgent,
		ExpiresAt:      m.ExpiresAt,
		LastSeenAt:     m.LastSeenAt,
		Revoked:        m.Revoked,
		RevokedAt:      m.RevokedAt,
		RevokeReason:   m.RevokeReason,
	}
	return s
}

// FromDomain populates the persistence model from a domain Session entity.
func (m *SessionModel) FromDomain(s *security.Session) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.UserID = s.UserID
	m.BrandID = s.BrandID
	m.AccessTokenID = s.AccessTokenID
	m.RefreshTokenID = s.RefreshTokenID
	m.IP = s.IP
	m.UserAgent = s.UserAgent
	m.ExpiresAt = s.ExpiresAt
	m.LastSeenAt = s.LastSeenAt
	m.Revoked = s.Revoked
	m.RevokedAt = s.RevokedAt
	m.RevokeReason = s.RevokeReason
}

// SessionModelFromDomain creates a new persistence model from a domain Session entity.
func SessionModelFromDomain(s *security.Session) *SessionModel {
	m := &SessionModel{}
	m.FromDomain(s)
	return m
}

// BlacklistedTokenModel is the persistence model for revoked token audit rows.
// The Redis blacklist answers the hot-path lookups; these rows are the
// durable record and survive a cache flush.
type BlacklistedTokenModel struct {
	BaseModel
	TokenID   string    `gorm:"type:varchar(36);not null;uniqueIndex"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BrandID   uuid.UUID `gorm:"type:uuid;not null"`
	TokenType string    `gorm:"type:varchar(10);not null"`
	Reason    string    `gorm:"type:varchar(200)"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BlacklistedTokenModel) TableName() string {
	return "blacklisted_tokens"
}

// ToDomain converts the persistence model to a domain BlacklistedToken entity.
func (m *BlacklistedTokenModel) ToDomain() *security.BlacklistedToken {
	t := &security.BlacklistedToken{
		BaseEntity: m.BaseModel.ToDomain(),
		TokenID:    m.TokenID,
		UserID:     m.UserID,
		BrandID:    m.BrandID,
		TokenType:  m.TokenType,
		Reason:     m.Reason,
		ExpiresAt:  m.ExpiresAt,
	}
	return t
}

// FromDomain populates the persistence model from a domain BlacklistedToken entity.
func (m *BlacklistedTokenModel) FromDomain(t *security.BlacklistedToken) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.TokenID = t.TokenID
	m.UserID = t.UserID
	m.BrandID = t.BrandID
	m.TokenType = t.TokenType
	m.Reason = t.Reason
	m.ExpiresAt = t.ExpiresAt
}

// BlacklistedTokenModelFromDomain creates a new persistence model from a domain BlacklistedToken entity.
func BlacklistedTokenModelFromDomain(t *security.BlacklistedToken) *BlacklistedTokenModel {
	m := &BlacklistedTokenModel{}
	m.FromDomain(t)
	return m
}
