package certificate

import (
	"github.com/brandcert/backend/internal/domain/shared"
)

// Aggregate type constant for Certificate
const AggregateTypeCertificate = "Certificate"

// Certificate domain event types
const (
	EventTypeCertificateCreated     = "CertificateCreated"
	EventTypeCertificateMinted      = "CertificateMinted"
	EventTypeCertificateMintFailed  = "CertificateMintFailed"
	EventTypeCertificateTransferred = "CertificateTransferred"
	EventTypeCertificateRevoked     = "CertificateRevoked"
)

// CertificateCreatedEvent is published when a certificate draft is created
type CertificateCreatedEvent struct {
	shared.BaseDomainEvent
	SerialNumber string `json:"serial_number"`
	ProductName  string `json:"product_name"`
}

// NewCertificateCreatedEvent creates a new CertificateCreatedEvent
func NewCertificateCreatedEvent(c *Certificate) *CertificateCreatedEvent {
	return &CertificateCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateCreated, AggregateTypeCertificate, c.ID, c.BrandID),
		SerialNumber:    c.SerialNumber,
		ProductName:     c.ProductName,
	}
}

// CertificateMintedEvent is published when the token lands on chain
type CertificateMintedEvent struct {
	shared.BaseDomainEvent
	SerialNumber string `json:"serial_number"`
	ProductName  string `json:"product_name"`
	TokenID      string `json:"token_id"`
	TxHash       string `json:"tx_hash"`
}

// NewCertificateMintedEvent creates a new CertificateMintedEvent
func NewCertificateMintedEvent(c *Certificate) *CertificateMintedEvent {
	return &CertificateMintedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateMinted, AggregateTypeCertificate, c.ID, c.BrandID),
		SerialNumber:    c.SerialNumber,
		ProductName:     c.ProductName,
		TokenID:         c.TokenID,
		TxHash:          c.TxHash,
	}
}

// CertificateMintFailedEvent is published when mint attempts are exhausted
type CertificateMintFailedEvent struct {
	shared.BaseDomainEvent
	SerialNumber string `json:"serial_number"`
	ProductName  string `json:"product_name"`
	Attempts     int    `json:"attempts"`
	LastError    string `json:"last_error"`
}

// NewCertificateMintFailedEvent creates a new CertificateMintFailedEvent
func NewCertificateMintFailedEvent(c *Certificate) *CertificateMintFailedEvent {
	return &CertificateMintFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateMintFailed, AggregateTypeCertificate, c.ID, c.BrandID),
		SerialNumber:    c.SerialNumber,
		ProductName:     c.ProductName,
		Attempts:        c.MintAttempts,
		LastError:       c.LastError,
	}
}

// CertificateTransferredEvent is published when ownership moves on chain
type CertificateTransferredEvent struct {
	shared.BaseDomainEvent
	SerialNumber  string `json:"serial_number"`
	TokenID       string `json:"token_id"`
	PreviousOwner string `json:"previous_owner"`
	NewOwner      string `json:"new_owner"`
	TxHash        string `json:"tx_hash"`
}

// NewCertificateTransferredEvent creates a new CertificateTransferredEvent
func NewCertificateTransferredEvent(c *Certificate, previousOwner string) *CertificateTransferredEvent {
	return &CertificateTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateTransferred, AggregateTypeCertificate, c.ID, c.BrandID),
		SerialNumber:    c.SerialNumber,
		TokenID:         c.TokenID,
		PreviousOwner:   previousOwner,
		NewOwner:        c.OwnerAddress,
		TxHash:          c.TxHash,
	}
}

// CertificateRevokedEvent is published when a certificate is revoked
type CertificateRevokedEvent struct {
	shared.BaseDomainEvent
	SerialNumber string `json:"serial_number"`
	Reason       string `json:"reason"`
}

// NewCertificateRevokedEvent creates a new CertificateRevokedEvent
func NewCertificateRevokedEvent(c *Certificate) *CertificateRevokedEvent {
	return &CertificateRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCertificateRevoked, AggregateTypeCertificate, c.ID, c.BrandID),
		SerialNumber:    c.SerialNumber,
		Reason:          c.RevokeReason,
	}
}
