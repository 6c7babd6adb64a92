package media

import (
	"context"
	"errors"
	"time"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/media"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPresignExpiration = 15 * time.Minute

// eventCarrier is the slice of an aggregate the service needs for
// publishing its pending domain events
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// ServiceConfig carries tunables for the media service
type ServiceConfig struct {
	// PresignExpiration is how long generated upload/download URLs stay
	// valid. Defaults to 15 minutes.
	PresignExpiration time.Duration
}

// MediaDTO is the API representation of a media record
type MediaDTO struct {
	ID          uuid.UUID `json:"id"`
	BrandID     uuid.UUID `json:"brand_id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Size        string    `json:"size"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	OwnerUserID uuid.UUID `json:"owner_user_id"`
	Checksum    string    `json:"checksum,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateUploadInput carries the metadata for a new client upload
type CreateUploadInput struct {
	OwnerUserID uuid.UUID
	FileName    string
	ContentType string
	SizeBytes   int64
	Kind        string
	Checksum    string
}

// UploadResult pairs the created media record with its presigned upload URL
type UploadResult struct {
	Media     MediaDTO  `json:"media"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadResult carries a presigned download URL
type DownloadResult struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
}

// ListMediaInput carries media list options
type ListMediaInput struct {
	Kind        string
	Status      string
	OwnerUserID *uuid.UUID
	Keyword     string
	Page        int
	PageSize    int
	SortBy      string
	SortDir     string
}

// MediaListResult is a paginated media page
type MediaListResult struct {
	Media      []MediaDTO `json:"media"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// StoreGeneratedInput carries server-generated bytes (QR codes, rendered
// PDFs) to be written directly to storage
type StoreGeneratedInput struct {
	BrandID     uuid.UUID
	FileName    string
	ContentType string
	Data        []byte
	Kind        media.Kind
}

// Service handles media uploads through presigned URLs, download access,
// and direct storage of server-generated artifacts. Every operation is
// scoped to a brand and counted against its storage quota.
type Service struct {
	mediaRepo media.Repository
	brandRepo brand.Repository
	storage   ObjectStorageService
	config    ServiceConfig
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new media service
func NewService(
	mediaRepo media.Repository,
	brandRepo brand.Repository,
	storage ObjectStorageService,
	config ServiceConfig,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	if config.PresignExpiration <= 0 {
		config.PresignExpiration = defaultPresignExpiration
	}
	return &Service{
		mediaRepo: mediaRepo,
		brandRepo: brandRepo,
		storage:   storage,
		config:    config,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// CreateUpload registers metadata for a client upload and returns a
// presigned PUT URL. The record stays in pending_upload until the client
// confirms the transfer.
func (s *Service) CreateUpload(ctx context.Context, brandID uuid.UUID, input CreateUploadInput) (*UploadResult, error) {
	s.logger.Info("Creating media upload",
		zap.String("brand_id", brandID.String()),
		zap.String("file_name", input.FileName),
		zap.String("kind", input.Kind))

	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if b.IsSuspended() {
		return nil, shared.NewDomainError("BRAND_SUSPENDED", "Brand account is suspended")
	}
	if !b.IsOperational() {
		return nil, shared.NewDomainError("BRAND_INACTIVE", "Brand account is not active")
	}

	m, err := media.NewMedia(brandID, input.OwnerUserID, input.FileName, input.ContentType, input.SizeBytes, media.Kind(input.Kind))
	if err != nil {
		return nil, err
	}
	if input.Checksum != "" {
		if err := m.SetChecksum(input.Checksum); err != nil {
			return nil, err
		}
	}

	used, err := s.mediaRepo.SumSizeByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to total brand storage", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check storage usage")
	}
	if !b.CanStore(used, input.SizeBytes) {
		s.logger.Warn("Storage quota reached",
			zap.String("brand_id", brandID.String()),
			zap.Int64("used", used),
			zap.Int64("requested", input.SizeBytes))
		return nil, shared.NewDomainError("QUOTA_EXCEEDED", "Storage limit for the current plan has been reached")
	}

	if err := s.mediaRepo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create media record", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create media record")
	}

	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, m.StorageKey, m.ContentType, s.config.PresignExpiration)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate upload URL")
	}

	s.publishEvents(ctx, m)

	return &UploadResult{
		Media:     toMediaDTO(m),
		UploadURL: uploadURL,
		ExpiresAt: expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and marks the record
// ready
func (s *Service) ConfirmUpload(ctx context.Context, brandID, mediaID uuid.UUID) (*MediaDTO, error) {
	m, err := s.loadMedia(ctx, brandID, mediaID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, m.StorageKey)
	if err != nil {
		s.logger.Error("Failed to check object existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "The file has not been uploaded yet")
	}

	if err := m.MarkReady(); err != nil {
		return nil, err
	}

	if err := s.mediaRepo.Update(ctx, m); err != nil {
		s.logger.Error("Failed to update media record", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update media record")
	}

	s.publishEvents(ctx, m)

	s.logger.Info("Media upload confirmed",
		zap.String("brand_id", brandID.String()),
		zap.String("media_id", m.ID.String()))

	dto := toMediaDTO(m)
	return &dto, nil
}

// Get returns a media record's metadata
func (s *Service) Get(ctx context.Context, brandID, mediaID uuid.UUID) (*MediaDTO, error) {
	m, err := s.loadMedia(ctx, brandID, mediaID)
	if err != nil {
		return nil, err
	}
	dto := toMediaDTO(m)
	return &dto, nil
}

// GetDownloadURL returns a presigned GET URL for a ready media object
func (s *Service) GetDownloadURL(ctx context.Context, brandID, mediaID uuid.UUID) (*DownloadResult, error) {
	m, err := s.loadMedia(ctx, brandID, mediaID)
	if err != nil {
		return nil, err
	}
	if !m.IsReady() {
		return nil, shared.NewDomainError("MEDIA_NOT_READY", "Media is not available for download")
	}

	downloadURL, expiresAt, err := s.storage.GenerateDownloadURL(ctx, m.StorageKey, s.config.PresignExpiration)
	if err != nil {
		s.logger.Error("Failed to generate download URL", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate download URL")
	}

	return &DownloadResult{
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
		FileName:    m.FileName,
		ContentType: m.ContentType,
	}, nil
}

// List returns a brand's media, filtered and paginated
func (s *Service) List(ctx context.Context, brandID uuid.UUID, input ListMediaInput) (*MediaListResult, error) {
	filter := media.NewFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir)
	if input.Kind != "" {
		filter = filter.WithKind(media.Kind(input.Kind))
	}
	if input.Status != "" {
		filter = filter.WithStatus(media.Status(input.Status))
	}
	if input.OwnerUserID != nil {
		filter = filter.WithOwner(*input.OwnerUserID)
	}
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}

	records, total, err := s.mediaRepo.FindAll(ctx, brandID, filter)
	if err != nil {
		s.logger.Error("Failed to list media", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list media")
	}

	dtos := make([]MediaDTO, len(records))
	for i, m := range records {
		dtos[i] = toMediaDTO(m)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &MediaListResult{
		Media:      dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages,
	}, nil
}

// Delete removes the object from storage (best effort) and soft-deletes
// the record
func (s *Service) Delete(ctx context.Context, brandID, mediaID uuid.UUID) error {
	m, err := s.loadMedia(ctx, brandID, mediaID)
	if err != nil {
		return err
	}
	if m.Status == media.StatusDeleted {
		return shared.NewDomainError("MEDIA_NOT_FOUND", "Media not found")
	}

	if err := s.storage.DeleteObject(ctx, m.StorageKey); err != nil {
		// Keep going: the record is what the platform answers from, and a
		// dangling object is reclaimable later
		s.logger.Warn("Failed to delete storage object",
			zap.String("storage_key", m.StorageKey),
			zap.Error(err))
	}

	m.MarkDeleted()

	if err := s.mediaRepo.Update(ctx, m); err != nil {
		s.logger.Error("Failed to update media record", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete media")
	}

	s.logger.Info("Media deleted",
		zap.String("brand_id", brandID.String()),
		zap.String("media_id", m.ID.String()))

	return nil
}

// StoreGenerated writes server-generated bytes straight to storage and
// creates a ready media record for them. Used for QR codes and rendered
// certificate PDFs.
func (s *Service) StoreGenerated(ctx context.Context, input StoreGeneratedInput) (*MediaDTO, error) {
	b, err := s.loadBrand(ctx, input.BrandID)
	if err != nil {
		return nil, err
	}

	size := int64(len(input.Data))

	used, err := s.mediaRepo.SumSizeByBrand(ctx, input.BrandID)
	if err != nil {
		s.logger.Error("Failed to total brand storage", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check storage usage")
	}
	if !b.CanStore(used, size) {
		return nil, shared.NewDomainError("QUOTA_EXCEEDED", "Storage limit for the current plan has been reached")
	}

	m, err := media.NewGeneratedMedia(input.BrandID, input.FileName, input.ContentType, size, input.Kind)
	if err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, m.StorageKey, input.Data, input.ContentType); err != nil {
		s.logger.Error("Failed to upload generated media", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store generated media")
	}

	if err := s.mediaRepo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create media record", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create media record")
	}

	s.publishEvents(ctx, m)

	dto := toMediaDTO(m)
	return &dto, nil
}

func (s *Service) loadMedia(ctx context.Context, brandID, mediaID uuid.UUID) (*media.Media, error) {
	m, err := s.mediaRepo.FindByID(ctx, brandID, mediaID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MEDIA_NOT_FOUND", "Media not found")
		}
		s.logger.Error("Failed to load media", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load media")
	}
	return m, nil
}

func (s *Service) loadBrand(ctx context.Context, brandID uuid.UUID) (*brand.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
		}
		s.logger.Error("Failed to load brand", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}
	return b, nil
}

func (s *Service) publishEvents(ctx context.Context, carriers ...eventCarrier) {
	for _, carrier := range carriers {
		events := carrier.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish domain events", zap.Error(err))
		}
		carrier.ClearDomainEvents()
	}
}

func toMediaDTO(m *media.Media) MediaDTO {
	return MediaDTO{
		ID:          m.ID,
		BrandID:     m.BrandID,
		FileName:    m.FileName,
		StorageKey:  m.StorageKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Size:        m.FormattedSize(),
		Kind:        string(m.Kind),
		Status:      string(m.Status),
		OwnerUserID: m.OwnerUserID,
		Checksum:    m.Checksum,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
