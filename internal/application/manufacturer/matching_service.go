package manufacturer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/manufacturer"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	matchCachePrefix  = "match:brand:"
	matchCacheTTL     = 5 * time.Minute
	defaultMatchLimit = 20
	maxMatchLimit     = 50
)

// MatchingService ranks catalog manufacturers against a brand's profile.
// Scoring itself lives in the domain; this service loads the candidates,
// applies partner flags, and caches the result page.
type MatchingService struct {
	manufacturerRepo manufacturer.Repository
	partnershipRepo  manufacturer.PartnershipRepository
	brandRepo        brand.Repository
	cache            cache.Cache
	logger           *zap.Logger
}

// NewMatchingService creates a new matching service
func NewMatchingService(
	manufacturerRepo manufacturer.Repository,
	partnershipRepo manufacturer.PartnershipRepository,
	brandRepo brand.Repository,
	cacheClient cache.Cache,
	logger *zap.Logger,
) *MatchingService {
	return &MatchingService{
		manufacturerRepo: manufacturerRepo,
		partnershipRepo:  partnershipRepo,
		brandRepo:        brandRepo,
		cache:            cacheClient,
		logger:           logger,
	}
}

// Match returns the top manufacturers for a brand, scored by capability
// overlap. Results are cached per brand and parameter set.
func (s *MatchingService) Match(ctx context.Context, input MatchInput) ([]MatchResultDTO, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultMatchLimit
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}

	key := fmt.Sprintf("%s%s:v%d:l%d:x%t",
		matchCachePrefix, input.BrandID, input.RequestedVolume, limit, input.ExcludePartners)

	var cached []MatchResultDTO
	if found, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("Match cache read failed", zap.Error(err))
	} else if found {
		return cached, nil
	}

	b, err := s.brandRepo.FindByID(ctx, input.BrandID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BRAND_NOT_FOUND", "Brand not found")
		}
		s.logger.Error("Failed to load brand for matching", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}

	candidates, err := s.manufacturerRepo.FindListed(ctx)
	if err != nil {
		s.logger.Error("Failed to load manufacturer catalog", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load manufacturer catalog")
	}

	partnerIDs, err := s.partnershipRepo.ActiveManufacturerIDs(ctx, input.BrandID)
	if err != nil {
		s.logger.Error("Failed to load partner IDs", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load partnerships")
	}
	partners := make(map[uuid.UUID]struct{}, len(partnerIDs))
	for _, id := range partnerIDs {
		partners[id] = struct{}{}
	}

	if input.ExcludePartners {
		kept := make([]*manufacturer.Manufacturer, 0, len(candidates))
		for _, m := range candidates {
			if _, isPartner := partners[m.ID]; !isPartner {
				kept = append(kept, m)
			}
		}
		candidates = kept
	}

	ranked := manufacturer.RankMatches(b, candidates, input.RequestedVolume)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]MatchResultDTO, len(ranked))
	for i, score := range ranked {
		_, isPartner := partners[score.Manufacturer.ID]
		results[i] = toMatchResultDTO(score, isPartner)
	}

	if err := s.cache.Set(ctx, key, results, matchCacheTTL); err != nil {
		s.logger.Warn("Match cache write failed", zap.Error(err))
	}

	s.logger.Info("Matched manufacturers",
		zap.String("brand_id", input.BrandID.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(results)))

	return results, nil
}
