package brand

import (
	"context"
	"errors"
	"time"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/media"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	profileCachePrefix = "brand:profile:"
	profileCacheTTL    = 5 * time.Minute
)

// eventCarrier is the slice of an aggregate the service needs for
// publishing its pending domain events
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// Service handles brand profile management, plan changes, and the
// platform-admin brand directory
type Service struct {
	brandRepo brand.Repository
	userRepo  identity.UserRepository
	certRepo  certificate.Repository
	mediaRepo media.Repository
	cache     cache.Cache
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new brand service
func NewService(
	brandRepo brand.Repository,
	userRepo identity.UserRepository,
	certRepo certificate.Repository,
	mediaRepo media.Repository,
	cacheClient cache.Cache,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		brandRepo: brandRepo,
		userRepo:  userRepo,
		certRepo:  certRepo,
		mediaRepo: mediaRepo,
		cache:     cacheClient,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// BrandDTO is the full brand profile returned to clients
type BrandDTO struct {
	ID                uuid.UUID     `json:"id"`
	Code              string        `json:"code"`
	Name              string        `json:"name"`
	LegalName         string        `json:"legal_name,omitempty"`
	Industry          string        `json:"industry"`
	ProductCategories []string      `json:"product_categories,omitempty"`
	TargetMarkets     []string      `json:"target_markets,omitempty"`
	Website           string        `json:"website,omitempty"`
	LogoURL           string        `json:"logo_url,omitempty"`
	FoundedYear       int           `json:"founded_year,omitempty"`
	Age               int           `json:"age,omitempty"`
	Contact           brand.Contact `json:"contact"`
	Address           string        `json:"address,omitempty"`
	Status            string        `json:"status"`
	Plan              string        `json:"plan"`
	Quota             brand.Quota   `json:"quota"`
	Notes             string        `json:"notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// UpdateProfileInput carries a full profile replacement
type UpdateProfileInput struct {
	Name              string
	LegalName         string
	Website           string
	FoundedYear       int
	ProductCategories []string
	TargetMarkets     []string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	Address           string
	LogoURL           string
}

// ListBrandsInput contains platform-admin directory filters
type ListBrandsInput struct {
	Keyword  string
	Status   string
	Industry string
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// BrandListResult is a page of brands
type BrandListResult struct {
	Brands     []BrandDTO `json:"brands"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// StatsDTO aggregates platform-wide brand counts by status
type StatsDTO struct {
	Pending   int64 `json:"pending"`
	Active    int64 `json:"active"`
	Suspended int64 `json:"suspended"`
	Inactive  int64 `json:"inactive"`
	Total     int64 `json:"total"`
}

// UsageMetric pairs current consumption with the plan limit
type UsageMetric struct {
	Used  int64 `json:"used"`
	Limit int64 `json:"limit"`
}

// UsageDTO reports a brand's quota consumption
type UsageDTO struct {
	Plan         string      `json:"plan"`
	Users        UsageMetric `json:"users"`
	Certificates UsageMetric `json:"certificates"`
	Storage      UsageMetric `json:"storage_bytes"`
}

// Get returns a brand profile, served from cache when fresh
func (s *Service) Get(ctx context.Context, brandID uuid.UUID) (*BrandDTO, error) {
	cacheKey := profileCachePrefix + brandID.String()

	var cached BrandDTO
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		s.logger.Warn("Brand cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	dto := toBrandDTO(b)
	if err := s.cache.Set(ctx, cacheKey, dto, profileCacheTTL); err != nil {
		s.logger.Warn("Brand cache write failed", zap.Error(err))
	}
	return &dto, nil
}

// GetByCode resolves a brand by its public code
func (s *Service) GetByCode(ctx context.Context, code string) (*BrandDTO, error) {
	b, err := s.brandRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
		}
		s.logger.Error("Failed to load brand by code", zap.String("code", code), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}

	dto := toBrandDTO(b)
	return &dto, nil
}

// UpdateProfile replaces the brand's descriptive profile
func (s *Service) UpdateProfile(ctx context.Context, brandID uuid.UUID, input UpdateProfileInput) (*BrandDTO, error) {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if err := b.UpdateProfile(input.Name, input.LegalName, input.Website, input.FoundedYear); err != nil {
		return nil, err
	}
	if err := b.SetCategories(input.ProductCategories, input.TargetMarkets); err != nil {
		return nil, err
	}
	if err := b.SetContact(input.ContactName, input.ContactEmail, input.ContactPhone); err != nil {
		return nil, err
	}
	if err := b.SetAddress(input.Address); err != nil {
		return nil, err
	}
	if err := b.SetLogoURL(input.LogoURL); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Brand profile updated", zap.String("brand_id", brandID.String()))

	dto := toBrandDTO(b)
	return &dto, nil
}

// ChangePlan moves the brand onto a new subscription plan
func (s *Service) ChangePlan(ctx context.Context, brandID uuid.UUID, plan string) (*BrandDTO, error) {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	oldPlan := b.Plan
	if err := b.ChangePlan(brand.Plan(plan)); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Brand plan changed",
		zap.String("brand_id", brandID.String()),
		zap.String("old_plan", string(oldPlan)),
		zap.String("new_plan", plan))

	dto := toBrandDTO(b)
	return &dto, nil
}

// Activate brings a brand into operation
func (s *Service) Activate(ctx context.Context, brandID uuid.UUID) (*BrandDTO, error) {
	return s.changeStatus(ctx, brandID, (*brand.Brand).Activate)
}

// Suspend takes a brand out of operation for policy reasons
func (s *Service) Suspend(ctx context.Context, brandID uuid.UUID) (*BrandDTO, error) {
	return s.changeStatus(ctx, brandID, (*brand.Brand).Suspend)
}

// Deactivate voluntarily deactivates a brand
func (s *Service) Deactivate(ctx context.Context, brandID uuid.UUID) (*BrandDTO, error) {
	return s.changeStatus(ctx, brandID, (*brand.Brand).Deactivate)
}

func (s *Service) changeStatus(ctx context.Context, brandID uuid.UUID, transition func(*brand.Brand) error) (*BrandDTO, error) {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	if err := transition(b); err != nil {
		return nil, err
	}

	if err := s.persist(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Brand status changed",
		zap.String("brand_id", brandID.String()),
		zap.String("status", string(b.Status)))

	dto := toBrandDTO(b)
	return &dto, nil
}

// SoftDelete marks the brand deleted. The record stays for audit and the
// code stays burned; certificates already on chain remain verifiable.
func (s *Service) SoftDelete(ctx context.Context, brandID uuid.UUID) error {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return err
	}

	b.MarkDeleted()

	if err := s.persist(ctx, b); err != nil {
		return err
	}

	s.logger.Info("Brand deleted", zap.String("brand_id", brandID.String()))
	return nil
}

// SetNotes sets platform-admin notes on a brand
func (s *Service) SetNotes(ctx context.Context, brandID uuid.UUID, notes string) error {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return err
	}

	b.SetNotes(notes)

	return s.persist(ctx, b)
}

// List returns the platform-admin brand directory page
func (s *Service) List(ctx context.Context, input ListBrandsInput) (*BrandListResult, error) {
	filter := brand.NewFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir)
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Status != "" {
		filter = filter.WithStatus(brand.Status(input.Status))
	}
	if input.Industry != "" {
		filter = filter.WithIndustry(brand.Industry(input.Industry))
	}

	brands, total, err := s.brandRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list brands", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list brands")
	}

	dtos := make([]BrandDTO, len(brands))
	for i, b := range brands {
		dtos[i] = toBrandDTO(b)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &BrandListResult{
		Brands:     dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages,
	}, nil
}

// Stats returns platform-wide brand counts by status
func (s *Service) Stats(ctx context.Context) (*StatsDTO, error) {
	stats := &StatsDTO{}
	counts := []struct {
		status brand.Status
		target *int64
	}{
		{brand.StatusPending, &stats.Pending},
		{brand.StatusActive, &stats.Active},
		{brand.StatusSuspended, &stats.Suspended},
		{brand.StatusInactive, &stats.Inactive},
	}

	for _, c := range counts {
		count, err := s.brandRepo.CountByStatus(ctx, c.status)
		if err != nil {
			s.logger.Error("Failed to count brands", zap.String("status", string(c.status)), zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count brands")
		}
		*c.target = count
		stats.Total += count
	}

	return stats, nil
}

// Usage reports the brand's quota consumption across users, certificates,
// and media storage
func (s *Service) Usage(ctx context.Context, brandID uuid.UUID) (*UsageDTO, error) {
	b, err := s.loadBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.CountByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to count users", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute usage")
	}
	certificates, err := s.certRepo.CountByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to count certificates", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute usage")
	}
	storageBytes, err := s.mediaRepo.SumSizeByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to sum media size", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to compute usage")
	}

	return &UsageDTO{
		Plan:         string(b.Plan),
		Users:        UsageMetric{Used: users, Limit: int64(b.Quota.MaxUsers)},
		Certificates: UsageMetric{Used: certificates, Limit: int64(b.Quota.MaxCertificates)},
		Storage:      UsageMetric{Used: storageBytes, Limit: b.Quota.MaxStorageBytes},
	}, nil
}

// loadBrand fetches an existing, non-deleted brand
func (s *Service) loadBrand(ctx context.Context, brandID uuid.UUID) (*brand.Brand, error) {
	b, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
		}
		s.logger.Error("Failed to load brand", zap.String("brand_id", brandID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}
	return b, nil
}

// persist saves the brand, publishes its pending events, and drops the
// cached profile. Optimistic-lock conflicts surface to the caller.
func (s *Service) persist(ctx context.Context, b *brand.Brand) error {
	if err := s.brandRepo.Update(ctx, b); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		s.logger.Error("Failed to update brand", zap.String("brand_id", b.ID.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update brand")
	}

	s.publishEvents(ctx, b)
	s.invalidateProfile(ctx, b.ID)
	return nil
}

func (s *Service) invalidateProfile(ctx context.Context, brandID uuid.UUID) {
	if err := s.cache.Delete(ctx, profileCachePrefix+brandID.String()); err != nil {
		s.logger.Warn("Brand cache invalidation failed",
			zap.String("brand_id", brandID.String()),
			zap.Error(err))
	}
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

func toBrandDTO(b *brand.Brand) BrandDTO {
	return BrandDTO{
		ID:                b.ID,
		Code:              b.Code,
		Name:              b.Name,
		LegalName:         b.LegalName,
		Industry:          string(b.Industry),
		ProductCategories: b.ProductCategories,
		TargetMarkets:     b.TargetMarkets,
		Website:           b.Website,
		LogoURL:           b.LogoURL,
		FoundedYear:       b.FoundedYear,
		Age:               b.Age(),
		Contact:           b.Contact,
		Address:           b.Address,
		Status:            string(b.Status),
		Plan:              string(b.Plan),
		Quota:             b.Quota,
		Notes:             b.Notes,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}
