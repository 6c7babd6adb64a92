package certificate

import (
	"fmt"
	"regexp"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of a certificate
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPending         Status = "pending"
	StatusMinting         Status = "minting"
	StatusMinted          Status = "minted"
	StatusTransferPending Status = "transfer_pending"
	StatusTransferred     Status = "transferred"
	StatusFailed          Status = "failed"
	StatusRevoked         Status = "revoked"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusMinting, StatusMinted,
		StatusTransferPending, StatusTransferred, StatusFailed, StatusRevoked:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Revocation is allowed from any non-revoked state.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusRevoked {
		return s != StatusRevoked
	}
	switch s {
	case StatusDraft:
		return target == StatusPending
	case StatusPending:
		return target == StatusMinting
	case StatusMinting:
		return target == StatusMinted || target == StatusFailed || target == StatusPending
	case StatusMinted:
		return target == StatusTransferPending
	case StatusTransferPending:
		return target == StatusTransferred || target == StatusMinted
	case StatusFailed:
		return target == StatusPending
	case StatusTransferred, StatusRevoked:
		return false // Terminal except for revocation handled above
	}
	return false
}

// DefaultMaxMintAttempts bounds how often minting is tried before the
// certificate is parked in failed status. Callers may pass their own bound
// to the mint transitions; zero or negative falls back to this default.
const DefaultMaxMintAttempts = 3

func mintAttemptLimit(maxAttempts int) int {
	if maxAttempts < 1 {
		return DefaultMaxMintAttempts
	}
	return maxAttempts
}

var ownerAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Certificate represents one product-authenticity certificate and tracks
// its journey onto the chain. It is the aggregate root for certificate
// operations; all on-chain interaction happens in the application layer,
// the aggregate only validates transitions and records outcomes.
type Certificate struct {
	shared.BrandAggregateRoot
	SerialNumber    string
	ProductName     string
	ProductSKU      string
	Description     string
	BatchNumber     string
	ManufacturerID  *uuid.UUID
	Status          Status
	TokenID         string
	ContractAddress string
	TxHash          string
	OwnerAddress    string
	MintAttempts    int
	LastError       string
	MintedAt        *time.Time
	TransferredAt   *time.Time
	RevokedAt       *time.Time
	RevokeReason    string
	MediaID         *uuid.UUID // primary product image
	QRMediaID       *uuid.UUID // generated QR code image
	Metadata        map[string]any
	DeletedAt       *time.Time
}

// NewCertificate creates a certificate in draft status
func NewCertificate(brandID uuid.UUID, serialNumber, productName, productSKU string) (*Certificate, error) {
	if !IsValidSerialNumber(serialNumber) {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial number format is invalid")
	}
	if err := validateProductName(productName); err != nil {
		return nil, err
	}
	if len(productSKU) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 100 characters")
	}

	cert := &Certificate{
		BrandAggregateRoot: shared.NewBrandAggregateRoot(brandID),
		SerialNumber:       serialNumber,
		ProductName:        productName,
		ProductSKU:         productSKU,
		Status:             StatusDraft,
	}

	cert.AddDomainEvent(NewCertificateCreatedEvent(cert))

	return cert, nil
}

// UpdateDetails updates the descriptive fields. Only draft certificates
// can be edited; everything later is locked to what was certified.
func (c *Certificate) UpdateDetails(productName, productSKU, description, batchNumber string) error {
	if !c.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit certificate in %s status", c.Status))
	}
	if err := validateProductName(productName); err != nil {
		return err
	}
	if len(productSKU) > 100 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 100 characters")
	}
	if len(description) > 2000 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 2000 characters")
	}
	if len(batchNumber) > 100 {
		return shared.NewDomainError("INVALID_BATCH", "Batch number cannot exceed 100 characters")
	}

	c.ProductName = productName
	c.ProductSKU = productSKU
	c.Description = description
	c.BatchNumber = batchNumber
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetManufacturer links the certificate to a manufacturer
func (c *Certificate) SetManufacturer(manufacturerID *uuid.UUID) error {
	if !c.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit certificate in %s status", c.Status))
	}

	c.ManufacturerID = manufacturerID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetMetadata replaces the free-form metadata attached to the certificate
func (c *Certificate) SetMetadata(metadata map[string]any) error {
	if !c.CanModify() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot edit certificate in %s status", c.Status))
	}

	c.Metadata = metadata
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetPrimaryMedia links the primary product image
func (c *Certificate) SetPrimaryMedia(mediaID uuid.UUID) error {
	if mediaID == uuid.Nil {
		return shared.NewDomainError("INVALID_MEDIA", "Media ID cannot be empty")
	}

	c.MediaID = &mediaID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// LinkQRMedia records the generated QR code image
func (c *Certificate) LinkQRMedia(mediaID uuid.UUID) error {
	if mediaID == uuid.Nil {
		return shared.NewDomainError("INVALID_MEDIA", "Media ID cannot be empty")
	}

	c.QRMediaID = &mediaID
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Submit queues a draft certificate for minting
func (c *Certificate) Submit() error {
	if !c.Status.CanTransitionTo(StatusPending) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit certificate in %s status", c.Status))
	}

	c.Status = StatusPending
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// BeginMint marks the start of a mint attempt
func (c *Certificate) BeginMint(maxAttempts int) error {
	if !c.Status.CanTransitionTo(StatusMinting) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot mint certificate in %s status", c.Status))
	}
	if c.MintAttempts >= mintAttemptLimit(maxAttempts) {
		return shared.NewDomainError("MINT_ATTEMPTS_EXHAUSTED", "Maximum mint attempts reached")
	}

	c.Status = StatusMinting
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// CompleteMint records a successful mint
func (c *Certificate) CompleteMint(tokenID, contractAddress, txHash, ownerAddress string) error {
	if !c.Status.CanTransitionTo(StatusMinted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete mint in %s status", c.Status))
	}
	if tokenID == "" || txHash == "" {
		return shared.NewDomainError("INVALID_MINT_RESULT", "Token ID and transaction hash are required")
	}

	now := time.Now()
	c.Status = StatusMinted
	c.TokenID = tokenID
	c.ContractAddress = contractAddress
	c.TxHash = txHash
	c.OwnerAddress = ownerAddress
	c.MintedAt = &now
	c.LastError = ""
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCertificateMintedEvent(c))

	return nil
}

// FailMint records a failed mint attempt. The certificate goes back to
// pending while attempts remain and parks in failed once they are spent.
// Returns true when attempts are exhausted.
func (c *Certificate) FailMint(errMsg string, maxAttempts int) (bool, error) {
	if c.Status != StatusMinting {
		return false, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail mint in %s status", c.Status))
	}

	c.MintAttempts++
	c.LastError = truncateError(errMsg)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	if c.MintAttempts >= mintAttemptLimit(maxAttempts) {
		c.Status = StatusFailed
		c.AddDomainEvent(NewCertificateMintFailedEvent(c))
		return true, nil
	}

	c.Status = StatusPending
	return false, nil
}

// PrepareRetry moves a failed certificate back to pending for another mint
// round. Rejected once the attempt budget is spent; platform admins reset
// the counter first via ResetMintAttempts.
func (c *Certificate) PrepareRetry(maxAttempts int) error {
	if c.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot retry certificate in %s status", c.Status))
	}
	if c.MintAttempts >= mintAttemptLimit(maxAttempts) {
		return shared.NewDomainError("MINT_ATTEMPTS_EXHAUSTED", "Maximum mint attempts reached; counter must be reset first")
	}

	c.Status = StatusPending
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// ResetMintAttempts zeroes the attempt counter so a failed certificate can
// be retried. Reserved for platform admins.
func (c *Certificate) ResetMintAttempts() error {
	if c.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reset attempts in %s status", c.Status))
	}

	c.MintAttempts = 0
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// BeginTransfer marks the certificate as awaiting an ownership transfer
func (c *Certificate) BeginTransfer(toAddress string) error {
	if !c.Status.CanTransitionTo(StatusTransferPending) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transfer certificate in %s status", c.Status))
	}
	if !ownerAddressRegex.MatchString(toAddress) {
		return shared.NewDomainError("INVALID_ADDRESS", "Target address must be a 0x-prefixed 40-hex address")
	}
	if toAddress == c.OwnerAddress {
		return shared.NewDomainError("INVALID_ADDRESS", "Target address matches the current owner")
	}

	c.Status = StatusTransferPending
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// CompleteTransfer records a confirmed ownership transfer
func (c *Certificate) CompleteTransfer(toAddress, txHash string) error {
	if c.Status != StatusTransferPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete transfer in %s status", c.Status))
	}
	if txHash == "" {
		return shared.NewDomainError("INVALID_TRANSFER_RESULT", "Transaction hash is required")
	}

	previousOwner := c.OwnerAddress
	now := time.Now()
	c.Status = StatusTransferred
	c.OwnerAddress = toAddress
	c.TxHash = txHash
	c.TransferredAt = &now
	c.LastError = ""
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCertificateTransferredEvent(c, previousOwner))

	return nil
}

// FailTransfer rolls the certificate back to minted after a transfer failure
func (c *Certificate) FailTransfer(errMsg string) error {
	if c.Status != StatusTransferPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail transfer in %s status", c.Status))
	}

	c.Status = StatusMinted
	c.LastError = truncateError(errMsg)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Revoke permanently invalidates the certificate
func (c *Certificate) Revoke(reason string) error {
	if !c.Status.CanTransitionTo(StatusRevoked) {
		return shared.NewDomainError("INVALID_STATE", "Certificate is already revoked")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Revoke reason is required")
	}

	now := time.Now()
	c.Status = StatusRevoked
	c.RevokedAt = &now
	c.RevokeReason = reason
	c.UpdatedAt = now
	c.IncrementVersion()

	c.AddDomainEvent(NewCertificateRevokedEvent(c))

	return nil
}

// MarkDeleted soft-deletes the certificate. Certificates with a live
// on-chain token cannot be deleted, only revoked.
func (c *Certificate) MarkDeleted() error {
	switch c.Status {
	case StatusMinting, StatusMinted, StatusTransferPending, StatusTransferred:
		return shared.NewDomainError("CERTIFICATE_ON_CHAIN", "Cannot delete a certificate with an on-chain token")
	}

	now := time.Now()
	c.DeletedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// CanModify returns true while descriptive fields may still change
func (c *Certificate) CanModify() bool {
	return c.Status == StatusDraft
}

// IsDraft returns true if the certificate is a draft
func (c *Certificate) IsDraft() bool {
	return c.Status == StatusDraft
}

// IsMinted returns true once the token exists on chain
func (c *Certificate) IsMinted() bool {
	return c.Status == StatusMinted
}

// IsFailed returns true if minting gave up
func (c *Certificate) IsFailed() bool {
	return c.Status == StatusFailed
}

// IsRevoked returns true if the certificate was revoked
func (c *Certificate) IsRevoked() bool {
	return c.Status == StatusRevoked
}

// IsOnChain returns true when an on-chain token backs the certificate
func (c *Certificate) IsOnChain() bool {
	switch c.Status {
	case StatusMinted, StatusTransferPending, StatusTransferred:
		return true
	}
	return false
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// truncateError keeps stored errors within the column size
func truncateError(msg string) string {
	const maxLen = 500
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}
