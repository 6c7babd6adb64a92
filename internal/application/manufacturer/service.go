package manufacturer

import (
	"context"
	"errors"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// eventCarrier is the slice of an aggregate the service needs for
// publishing its pending domain events
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// Service manages the manufacturer catalog and brand partnerships.
// Catalog writes are platform-admin operations; partnership operations are
// scoped to the requesting brand.
type Service struct {
	manufacturerRepo manufacturer.Repository
	partnershipRepo  manufacturer.PartnershipRepository
	brandRepo        brand.Repository
	cache            cache.Cache
	eventBus         shared.EventPublisher
	logger           *zap.Logger
}

// NewService creates a new manufacturer service
func NewService(
	manufacturerRepo manufacturer.Repository,
	partnershipRepo manufacturer.PartnershipRepository,
	brandRepo brand.Repository,
	cacheClient cache.Cache,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		manufacturerRepo: manufacturerRepo,
		partnershipRepo:  partnershipRepo,
		brandRepo:        brandRepo,
		cache:            cacheClient,
		eventBus:         eventBus,
		logger:           logger,
	}
}

// Create lists a new manufacturer in the catalog
func (s *Service) Create(ctx context.Context, input CreateManufacturerInput) (*ManufacturerDTO, error) {
	s.logger.Info("Listing manufacturer",
		zap.String("name", input.Name),
		zap.String("country", input.Country))

	m, err := manufacturer.NewManufacturer(input.Name, input.Country)
	if err != nil {
		return nil, err
	}
	if err := m.UpdateProfile(input.Name, input.ContactEmail, input.Website); err != nil {
		return nil, err
	}
	if err := m.SetCapabilities(input.ProductCategories, input.RegionsServed, input.Certifications); err != nil {
		return nil, err
	}
	if err := m.SetProductionTerms(input.MinOrderQty, input.LeadTimeDays, input.MonthlyCapacity,
		input.UnitCostMin, input.UnitCostMax); err != nil {
		return nil, err
	}

	if err := s.manufacturerRepo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create manufacturer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create manufacturer")
	}

	s.publishEvents(ctx, m)

	dto := toManufacturerDTO(m)
	return &dto, nil
}

// Update replaces a manufacturer's profile, capabilities, and terms
func (s *Service) Update(ctx context.Context, manufacturerID uuid.UUID, input UpdateManufacturerInput) (*ManufacturerDTO, error) {
	m, err := s.loadManufacturer(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}

	if err := m.UpdateProfile(input.Name, input.ContactEmail, input.Website); err != nil {
		return nil, err
	}
	if err := m.SetCapabilities(input.ProductCategories, input.RegionsServed, input.Certifications); err != nil {
		return nil, err
	}
	if err := m.SetProductionTerms(input.MinOrderQty, input.LeadTimeDays, input.MonthlyCapacity,
		input.UnitCostMin, input.UnitCostMax); err != nil {
		return nil, err
	}
	if input.Rating != nil {
		if err := m.SetRating(*input.Rating); err != nil {
			return nil, err
		}
	}

	if err := s.persistManufacturer(ctx, m); err != nil {
		return nil, err
	}

	dto := toManufacturerDTO(m)
	return &dto, nil
}

// Verify marks a manufacturer as platform-verified
func (s *Service) Verify(ctx context.Context, manufacturerID uuid.UUID) (*ManufacturerDTO, error) {
	m, err := s.loadManufacturer(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}

	m.MarkVerified()

	if err := s.persistManufacturer(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Manufacturer verified", zap.String("manufacturer_id", m.ID.String()))

	dto := toManufacturerDTO(m)
	return &dto, nil
}

// Deactivate removes a manufacturer from matching and listings
func (s *Service) Deactivate(ctx context.Context, manufacturerID uuid.UUID) (*ManufacturerDTO, error) {
	return s.changeStatus(ctx, manufacturerID, (*manufacturer.Manufacturer).Deactivate)
}

// Activate returns a manufacturer to the active catalog
func (s *Service) Activate(ctx context.Context, manufacturerID uuid.UUID) (*ManufacturerDTO, error) {
	return s.changeStatus(ctx, manufacturerID, (*manufacturer.Manufacturer).Activate)
}

func (s *Service) changeStatus(ctx context.Context, manufacturerID uuid.UUID, transition func(*manufacturer.Manufacturer) error) (*ManufacturerDTO, error) {
	m, err := s.loadManufacturer(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}

	if err := transition(m); err != nil {
		return nil, err
	}

	if err := s.persistManufacturer(ctx, m); err != nil {
		return nil, err
	}

	dto := toManufacturerDTO(m)
	return &dto, nil
}

// Delete soft-deletes a manufacturer from the catalog. Existing partnerships
// keep their history.
func (s *Service) Delete(ctx context.Context, manufacturerID uuid.UUID) error {
	if _, err := s.loadManufacturer(ctx, manufacturerID); err != nil {
		return err
	}

	if err := s.manufacturerRepo.Delete(ctx, manufacturerID); err != nil {
		s.logger.Error("Failed to delete manufacturer", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete manufacturer")
	}

	s.logger.Info("Manufacturer deleted", zap.String("manufacturer_id", manufacturerID.String()))
	return nil
}

// Get returns a manufacturer by ID
func (s *Service) Get(ctx context.Context, manufacturerID uuid.UUID) (*ManufacturerDTO, error) {
	m, err := s.loadManufacturer(ctx, manufacturerID)
	if err != nil {
		return nil, err
	}
	dto := toManufacturerDTO(m)
	return &dto, nil
}

// List returns a filtered catalog page
func (s *Service) List(ctx context.Context, input ListManufacturersInput) (*ManufacturerListResult, error) {
	filter := manufacturer.NewFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir)
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Country != "" {
		filter = filter.WithCountry(input.Country)
	}
	if input.Category != "" {
		filter = filter.WithCategory(input.Category)
	}
	if input.Certification != "" {
		filter = filter.WithCertification(input.Certification)
	}
	if input.Verified != nil {
		filter = filter.WithVerified(*input.Verified)
	}
	if input.Status != "" {
		filter = filter.WithStatus(manufacturer.Status(input.Status))
	}

	manufacturers, total, err := s.manufacturerRepo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list manufacturers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list manufacturers")
	}

	dtos := make([]ManufacturerDTO, len(manufacturers))
	for i, m := range manufacturers {
		dtos[i] = toManufacturerDTO(m)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &ManufacturerListResult{
		Manufacturers: dtos,
		Total:         total,
		Page:          filter.Page,
		PageSize:      filter.Limit(),
		TotalPages:    totalPages,
	}, nil
}

// RequestPartnership opens (or reopens) a partnership request from a brand
// to a manufacturer
func (s *Service) RequestPartnership(ctx context.Context, brandID uuid.UUID, input RequestPartnershipInput) (*PartnershipDTO, error) {
	s.logger.Info("Requesting partnership",
		zap.String("brand_id", brandID.String()),
		zap.String("manufacturer_id", input.ManufacturerID.String()))

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

	m, err := s.loadManufacturer(ctx, input.ManufacturerID)
	if err != nil {
		return nil, err
	}
	if !m.IsListed() {
		return nil, shared.NewDomainError("MANUFACTURER_NOT_LISTED", "Manufacturer is not available for partnerships")
	}

	existing, err := s.partnershipRepo.FindByPair(ctx, brandID, m.ID)
	switch {
	case err == nil:
		if existing.Status != manufacturer.PartnershipEnded {
			return nil, shared.NewDomainError("PARTNERSHIP_EXISTS", "A partnership with this manufacturer already exists")
		}
		if err := existing.Reopen(input.RequestedBy); err != nil {
			return nil, err
		}
		if err := s.partnershipRepo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to reopen partnership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reopen partnership")
		}
		s.publishEvents(ctx, existing)
		dto := toPartnershipDTO(existing, m.Name)
		return &dto, nil

	case errors.Is(err, shared.ErrNotFound):
		p, err := manufacturer.NewPartnership(brandID, m.ID, input.RequestedBy)
		if err != nil {
			return nil, err
		}
		if err := s.partnershipRepo.Create(ctx, p); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return nil, shared.NewDomainError("PARTNERSHIP_EXISTS", "A partnership with this manufacturer already exists")
			}
			s.logger.Error("Failed to create partnership", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create partnership")
		}
		s.publishEvents(ctx, p)
		dto := toPartnershipDTO(p, m.Name)
		return &dto, nil

	default:
		s.logger.Error("Failed to look up partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to look up partnership")
	}
}

// AcceptPartnership activates a requested partnership
func (s *Service) AcceptPartnership(ctx context.Context, brandID, partnershipID uuid.UUID) (*PartnershipDTO, error) {
	p, err := s.loadPartnership(ctx, brandID, partnershipID)
	if err != nil {
		return nil, err
	}

	if err := p.Accept(); err != nil {
		return nil, err
	}

	if err := s.partnershipRepo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to accept partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept partnership")
	}

	s.publishEvents(ctx, p)
	s.invalidateMatches(ctx, brandID)

	s.logger.Info("Partnership accepted",
		zap.String("brand_id", brandID.String()),
		zap.String("partnership_id", p.ID.String()))

	dto := toPartnershipDTO(p, s.manufacturerName(ctx, p.ManufacturerID))
	return &dto, nil
}

// EndPartnership terminates a partnership
func (s *Service) EndPartnership(ctx context.Context, brandID, partnershipID uuid.UUID) (*PartnershipDTO, error) {
	p, err := s.loadPartnership(ctx, brandID, partnershipID)
	if err != nil {
		return nil, err
	}

	if err := p.End(); err != nil {
		return nil, err
	}

	if err := s.partnershipRepo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to end partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to end partnership")
	}

	s.publishEvents(ctx, p)
	s.invalidateMatches(ctx, brandID)

	dto := toPartnershipDTO(p, s.manufacturerName(ctx, p.ManufacturerID))
	return &dto, nil
}

// GetPartnership returns a single partnership owned by the brand
func (s *Service) GetPartnership(ctx context.Context, brandID, partnershipID uuid.UUID) (*PartnershipDTO, error) {
	p, err := s.loadPartnership(ctx, brandID, partnershipID)
	if err != nil {
		return nil, err
	}

	dto := toPartnershipDTO(p, s.manufacturerName(ctx, p.ManufacturerID))
	return &dto, nil
}

// ListPartnerships lists a brand's partnerships, newest first
func (s *Service) ListPartnerships(ctx context.Context, brandID uuid.UUID) ([]PartnershipDTO, error) {
	partnerships, err := s.partnershipRepo.FindByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to list partnerships", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list partnerships")
	}

	dtos := make([]PartnershipDTO, len(partnerships))
	for i, p := range partnerships {
		dtos[i] = toPartnershipDTO(p, s.manufacturerName(ctx, p.ManufacturerID))
	}
	return dtos, nil
}

func (s *Service) loadManufacturer(ctx context.Context, manufacturerID uuid.UUID) (*manufacturer.Manufacturer, error) {
	m, err := s.manufacturerRepo.FindByID(ctx, manufacturerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("MANUFACTURER_NOT_FOUND", "Manufacturer not found")
		}
		s.logger.Error("Failed to load manufacturer", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load manufacturer")
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

func (s *Service) loadPartnership(ctx context.Context, brandID, partnershipID uuid.UUID) (*manufacturer.Partnership, error) {
	p, err := s.partnershipRepo.FindByID(ctx, brandID, partnershipID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PARTNERSHIP_NOT_FOUND", "Partnership not found")
		}
		s.logger.Error("Failed to load partnership", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load partnership")
	}
	return p, nil
}

func (s *Service) persistManufacturer(ctx context.Context, m *manufacturer.Manufacturer) error {
	if err := s.manufacturerRepo.Update(ctx, m); err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return err
		}
		s.logger.Error("Failed to update manufacturer", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update manufacturer")
	}
	s.publishEvents(ctx, m)
	return nil
}

// manufacturerName resolves a manufacturer's display name for partnership
// DTOs; lookup failures leave the name empty rather than failing the call
func (s *Service) manufacturerName(ctx context.Context, manufacturerID uuid.UUID) string {
	m, err := s.manufacturerRepo.FindByID(ctx, manufacturerID)
	if err != nil {
		return ""
	}
	return m.Name
}

// invalidateMatches drops cached match results for a brand after its
// partner set changed
func (s *Service) invalidateMatches(ctx context.Context, brandID uuid.UUID) {
	if err := s.cache.DeletePrefix(ctx, matchCachePrefix+brandID.String()); err != nil {
		s.logger.Warn("Failed to invalidate match cache", zap.Error(err))
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
