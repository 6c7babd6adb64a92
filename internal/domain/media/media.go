package media

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind classifies what a media object is used for
type Kind string

const (
	KindImage          Kind = "image"
	KindDocument       Kind = "document"
	KindQRCode         Kind = "qr_code"
	KindCertificatePDF Kind = "certificate_pdf"
)

// IsValid reports whether the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindImage, KindDocument, KindQRCode, KindCertificatePDF:
		return true
	}
	return false
}

// Status represents the upload lifecycle of a media object
type Status string

const (
	StatusPendingUpload Status = "pending_upload"
	StatusReady         Status = "ready"
	StatusFailed        Status = "failed"
	StatusDeleted       Status = "deleted"
)

// Size limits by kind family
const (
	MaxImageSizeBytes    = 10 << 20 // 10 MiB
	MaxDocumentSizeBytes = 25 << 20 // 25 MiB
)

// MaxFileNameLength bounds stored file names
const MaxFileNameLength = 255

// contentTypeExtensions is the allowlist of accepted content types and the
// file extensions each one may carry
var contentTypeExtensions = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/webp":      {".webp"},
	"image/gif":       {".gif"},
	"application/pdf": {".pdf"},
}

// Media represents an uploaded or generated file tracked by the platform.
// The bytes live in object storage under StorageKey; this aggregate carries
// the metadata and upload state.
type Media struct {
	shared.BrandAggregateRoot
	FileName    string
	StorageKey  string
	ContentType string
	SizeBytes   int64
	Kind        Kind
	Status      Status
	OwnerUserID uuid.UUID
	Checksum    string // optional, hex SHA-256 reported by the client
	DeletedAt   *time.Time
}

// NewMedia validates and creates a media record in pending_upload status.
// The storage key is derived from the brand, kind, and a fresh UUID so
// uploads never collide or overwrite.
func NewMedia(brandID, ownerUserID uuid.UUID, fileName, contentType string, sizeBytes int64, kind Kind) (*Media, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown media kind")
	}

	fileName = SanitizeFileName(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "File name cannot be empty")
	}

	if err := ValidateContentType(contentType, fileName); err != nil {
		return nil, err
	}
	if err := ValidateSize(contentType, sizeBytes); err != nil {
		return nil, err
	}

	base := shared.NewBrandAggregateRootWithCreator(brandID, ownerUserID)
	m := &Media{
		BrandAggregateRoot: base,
		FileName:           fileName,
		StorageKey:         BuildStorageKey(brandID, kind, base.ID, fileName),
		ContentType:        contentType,
		SizeBytes:          sizeBytes,
		Kind:               kind,
		Status:             StatusPendingUpload,
		OwnerUserID:        ownerUserID,
	}

	m.AddDomainEvent(NewMediaCreatedEvent(m))

	return m, nil
}

// NewGeneratedMedia creates a ready media record for server-generated
// artifacts (QR codes, rendered PDFs) that skip the presigned upload flow.
func NewGeneratedMedia(brandID uuid.UUID, fileName, contentType string, sizeBytes int64, kind Kind) (*Media, error) {
	if kind != KindQRCode && kind != KindCertificatePDF {
		return nil, shared.NewDomainError("INVALID_KIND", "Generated media must be a QR code or certificate PDF")
	}

	fileName = SanitizeFileName(fileName)
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILENAME", "File name cannot be empty")
	}
	if sizeBytes <= 0 {
		return nil, shared.NewDomainError("INVALID_SIZE", "Size must be positive")
	}

	base := shared.NewBrandAggregateRoot(brandID)
	m := &Media{
		BrandAggregateRoot: base,
		FileName:           fileName,
		StorageKey:         BuildStorageKey(brandID, kind, base.ID, fileName),
		ContentType:        contentType,
		SizeBytes:          sizeBytes,
		Kind:               kind,
		Status:             StatusReady,
	}

	m.AddDomainEvent(NewMediaCreatedEvent(m))

	return m, nil
}

// SetChecksum records the client-reported checksum
func (m *Media) SetChecksum(checksum string) error {
	if len(checksum) > 128 {
		return shared.NewDomainError("INVALID_CHECKSUM", "Checksum cannot exceed 128 characters")
	}
	m.Checksum = checksum
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	return nil
}

// MarkReady confirms the object landed in storage
func (m *Media) MarkReady() error {
	if m.Status != StatusPendingUpload {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm upload in %s status", m.Status))
	}

	m.Status = StatusReady
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	m.AddDomainEvent(NewMediaReadyEvent(m))

	return nil
}

// MarkFailed records that the upload never completed
func (m *Media) MarkFailed() error {
	if m.Status != StatusPendingUpload {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail upload in %s status", m.Status))
	}

	m.Status = StatusFailed
	m.UpdatedAt = time.Now()
	m.IncrementVersion()

	return nil
}

// MarkDeleted soft-deletes the media record
func (m *Media) MarkDeleted() {
	now := time.Now()
	m.Status = StatusDeleted
	m.DeletedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
}

// IsReady reports whether the object is available for download
func (m *Media) IsReady() bool {
	return m.Status == StatusReady
}

// IsImage reports whether the media is an image by content type
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.ContentType, "image/")
}

// IsOwnedBy reports whether a user uploaded this media
func (m *Media) IsOwnedBy(userID uuid.UUID) bool {
	return m.OwnerUserID != uuid.Nil && m.OwnerUserID == userID
}

// FormattedSize renders the size as a human-readable string
func (m *Media) FormattedSize() string {
	return FormatSize(m.SizeBytes)
}

// FormatSize renders a byte count as B, KB, MB, or GB with one decimal
// for the larger units
func FormatSize(bytes int64) string {
	const unit = 1024
	switch {
	case bytes < unit:
		return fmt.Sprintf("%d B", bytes)
	case bytes < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(bytes)/unit)
	case bytes < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", float64(bytes)/(unit*unit*unit))
	}
}

// BuildStorageKey derives the object key: <brand>/<kind>/<uuid><ext>
func BuildStorageKey(brandID uuid.UUID, kind Kind, mediaID uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("%s/%s/%s%s", brandID, kind, mediaID, ext)
}

// SanitizeFileName strips path separators and control characters and
// truncates to MaxFileNameLength
func SanitizeFileName(fileName string) string {
	fileName = strings.TrimSpace(fileName)

	// Keep only the final path element whichever separator was used
	if idx := strings.LastIndexAny(fileName, `/\`); idx >= 0 {
		fileName = fileName[idx+1:]
	}

	var b strings.Builder
	for _, r := range fileName {
		if r < 0x20 || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	fileName = b.String()

	if len(fileName) > MaxFileNameLength {
		ext := path.Ext(fileName)
		keep := MaxFileNameLength - len(ext)
		if keep < 1 {
			return fileName[:MaxFileNameLength]
		}
		fileName = fileName[:keep] + ext
	}

	return fileName
}

// ValidateContentType checks the allowlist and that the file extension
// agrees with the declared content type
func ValidateContentType(contentType, fileName string) error {
	extensions, ok := contentTypeExtensions[contentType]
	if !ok {
		return shared.NewDomainError("UNSUPPORTED_CONTENT_TYPE", fmt.Sprintf("Content type %s is not allowed", contentType))
	}

	ext := strings.ToLower(path.Ext(fileName))
	for _, allowed := range extensions {
		if ext == allowed {
			return nil
		}
	}
	return shared.NewDomainError("EXTENSION_MISMATCH", fmt.Sprintf("File extension %s does not match content type %s", ext, contentType))
}

// ValidateSize enforces the per-family size ceilings
func ValidateSize(contentType string, sizeBytes int64) error {
	if sizeBytes <= 0 {
		return shared.NewDomainError("INVALID_SIZE", "Size must be positive")
	}

	limit := int64(MaxDocumentSizeBytes)
	if strings.HasPrefix(contentType, "image/") {
		limit = MaxImageSizeBytes
	}
	if sizeBytes > limit {
		return shared.NewDomainError("FILE_TOO_LARGE", fmt.Sprintf("File exceeds the %s limit", FormatSize(limit)))
	}

	return nil
}
