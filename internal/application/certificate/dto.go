package certificate

import (
	"time"

	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/google/uuid"
)

// CertificateDTO is the API representation of a certificate
type CertificateDTO struct {
	ID              uuid.UUID      `json:"id"`
	BrandID         uuid.UUID      `json:"brand_id"`
	SerialNumber    string         `json:"serial_number"`
	ProductName     string         `json:"product_name"`
	ProductSKU      string         `json:"product_sku,omitempty"`
	Description     string         `json:"description,omitempty"`
	BatchNumber     string         `json:"batch_number,omitempty"`
	ManufacturerID  *uuid.UUID     `json:"manufacturer_id,omitempty"`
	Status          string         `json:"status"`
	TokenID         string         `json:"token_id,omitempty"`
	ContractAddress string         `json:"contract_address,omitempty"`
	TxHash          string         `json:"tx_hash,omitempty"`
	OwnerAddress    string         `json:"owner_address,omitempty"`
	MintAttempts    int            `json:"mint_attempts"`
	LastError       string         `json:"last_error,omitempty"`
	MintedAt        *time.Time     `json:"minted_at,omitempty"`
	TransferredAt   *time.Time     `json:"transferred_at,omitempty"`
	RevokedAt       *time.Time     `json:"revoked_at,omitempty"`
	RevokeReason    string         `json:"revoke_reason,omitempty"`
	MediaID         *uuid.UUID     `json:"media_id,omitempty"`
	QRMediaID       *uuid.UUID     `json:"qr_media_id,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// IssueCertificateInput carries the data for issuing a certificate.
// Draft keeps the certificate editable instead of submitting it for
// minting right away.
type IssueCertificateInput struct {
	ProductName    string
	ProductSKU     string
	Description    string
	BatchNumber    string
	ManufacturerID *uuid.UUID
	MediaID        *uuid.UUID
	Metadata       map[string]any
	Draft          bool
}

// UpdateCertificateInput carries edits to a draft certificate
type UpdateCertificateInput struct {
	ProductName    string
	ProductSKU     string
	Description    string
	BatchNumber    string
	ManufacturerID *uuid.UUID
	MediaID        *uuid.UUID
	Metadata       map[string]any
}

// TransferInput carries an ownership transfer request
type TransferInput struct {
	ToAddress string
}

// ListCertificatesInput carries certificate list options
type ListCertificatesInput struct {
	Keyword        string
	Status         string
	ManufacturerID *uuid.UUID
	BatchNumber    string
	Page           int
	PageSize       int
	SortBy         string
	SortDir        string
}

// CertificateListResult is a paginated certificate page
type CertificateListResult struct {
	Certificates []CertificateDTO `json:"certificates"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	TotalPages   int              `json:"total_pages"`
}

// CertificateStatsDTO summarizes a brand's certificates by status
type CertificateStatsDTO struct {
	Total           int64 `json:"total"`
	Draft           int64 `json:"draft"`
	Pending         int64 `json:"pending"`
	Minting         int64 `json:"minting"`
	Minted          int64 `json:"minted"`
	TransferPending int64 `json:"transfer_pending"`
	Transferred     int64 `json:"transferred"`
	Failed          int64 `json:"failed"`
	Revoked         int64 `json:"revoked"`
}

// VerifyResult is the public answer to a serial number scan. Valid means
// the certificate is on chain, not revoked, and its brand is in good
// standing.
type VerifyResult struct {
	Valid           bool       `json:"valid"`
	SerialNumber    string     `json:"serial_number"`
	ProductName     string     `json:"product_name"`
	BrandName       string     `json:"brand_name,omitempty"`
	Status          string     `json:"status"`
	TokenID         string     `json:"token_id,omitempty"`
	ContractAddress string     `json:"contract_address,omitempty"`
	TxHash          string     `json:"tx_hash,omitempty"`
	MintedAt        *time.Time `json:"minted_at,omitempty"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
	RevokeReason    string     `json:"revoke_reason,omitempty"`
	CheckedAt       time.Time  `json:"checked_at"`
}

// PDFResult carries a rendered certificate sheet
type PDFResult struct {
	FileName  string
	Data      []byte
	PageCount int
}

func toCertificateDTO(c *certificate.Certificate) CertificateDTO {
	return CertificateDTO{
		ID:              c.ID,
		BrandID:         c.BrandID,
		SerialNumber:    c.SerialNumber,
		ProductName:     c.ProductName,
		ProductSKU:      c.ProductSKU,
		Description:     c.Description,
		BatchNumber:     c.BatchNumber,
		ManufacturerID:  c.ManufacturerID,
		Status:          string(c.Status),
		TokenID:         c.TokenID,
		ContractAddress: c.ContractAddress,
		TxHash:          c.TxHash,
		OwnerAddress:    c.OwnerAddress,
		MintAttempts:    c.MintAttempts,
		LastError:       c.LastError,
		MintedAt:        c.MintedAt,
		TransferredAt:   c.TransferredAt,
		RevokedAt:       c.RevokedAt,
		RevokeReason:    c.RevokeReason,
		MediaID:         c.MediaID,
		QRMediaID:       c.QRMediaID,
		Metadata:        c.Metadata,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
