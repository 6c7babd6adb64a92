package manufacturer

import (
	"math"
	"sort"
	"strings"

	"github.com/brandcert/backend/internal/domain/brand"
)

// Score weights. The match score is a weighted sum of overlap ratios and
// boolean fit signals, scaled to 0..100 and capped.
const (
	weightCategoryOverlap = 0.35
	weightMarketOverlap   = 0.25
	weightCertifications  = 0.20
	weightCapacityFit     = 0.10
	weightVerified        = 0.10

	// MaxScore caps the final match score
	MaxScore = 100.0
)

// requiredCertifications maps a brand industry to the certifications a
// matching manufacturer is expected to hold.
var requiredCertifications = map[brand.Industry][]string{
	brand.IndustryFashion:         {"iso9001", "gots"},
	brand.IndustryElectronics:     {"iso9001", "rohs"},
	brand.IndustryFoodBeverage:    {"iso22000", "haccp"},
	brand.IndustryCosmetics:       {"iso22716"},
	brand.IndustryPharmaceuticals: {"gmp", "iso9001"},
	brand.IndustryAutomotive:      {"iatf16949"},
	brand.IndustryLuxuryGoods:     {"iso9001"},
	brand.IndustryOther:           {"iso9001"},
}

// MatchScore is a scored manufacturer candidate for a brand
type MatchScore struct {
	Manufacturer *Manufacturer
	Score        float64
	// Component ratios, kept for explainability in API responses
	CategoryOverlap    float64
	MarketOverlap      float64
	CertificationScore float64
	CapacityFit        bool
	IsPartner          bool
}

// ScoreMatch computes the weighted match score between a brand and a
// manufacturer. requestedVolume is the brand's desired monthly unit volume;
// zero means capacity is not a constraint and the capacity signal scores
// as a fit.
func ScoreMatch(b *brand.Brand, m *Manufacturer, requestedVolume int) MatchScore {
	categoryOverlap := overlapRatio(b.ProductCategories, m.ProductCategories)
	marketOverlap := overlapRatio(b.TargetMarkets, m.RegionsServed)
	certScore := certificationRatio(b.Industry, m)

	capacityFit := requestedVolume == 0 || m.MonthlyCapacity >= requestedVolume

	score := categoryOverlap*weightCategoryOverlap +
		marketOverlap*weightMarketOverlap +
		certScore*weightCertifications
	if capacityFit {
		score += weightCapacityFit
	}
	if m.Verified {
		score += weightVerified
	}

	score = math.Round(score*MaxScore*100) / 100
	if score > MaxScore {
		score = MaxScore
	}

	return MatchScore{
		Manufacturer:       m,
		Score:              score,
		CategoryOverlap:    categoryOverlap,
		MarketOverlap:      marketOverlap,
		CertificationScore: certScore,
		CapacityFit:        capacityFit,
	}
}

// RankMatches scores every candidate and returns them sorted by score
// descending, ties broken by rating descending then name ascending.
func RankMatches(b *brand.Brand, candidates []*Manufacturer, requestedVolume int) []MatchScore {
	scores := make([]MatchScore, 0, len(candidates))
	for _, m := range candidates {
		if !m.IsListed() {
			continue
		}
		scores = append(scores, ScoreMatch(b, m, requestedVolume))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].Manufacturer.Rating != scores[j].Manufacturer.Rating {
			return scores[i].Manufacturer.Rating > scores[j].Manufacturer.Rating
		}
		return scores[i].Manufacturer.Name < scores[j].Manufacturer.Name
	})

	return scores
}

// overlapRatio returns |required ∩ offered| / |required|, comparing
// case-insensitively. An empty required set scores a full match: the brand
// has expressed no constraint.
func overlapRatio(required, offered []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	offeredSet := make(map[string]struct{}, len(offered))
	for _, o := range offered {
		offeredSet[strings.ToLower(o)] = struct{}{}
	}
	hits := 0
	for _, r := range required {
		if _, ok := offeredSet[strings.ToLower(r)]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}

// certificationRatio returns the fraction of industry-required
// certifications the manufacturer holds.
func certificationRatio(industry brand.Industry, m *Manufacturer) float64 {
	required := requiredCertifications[industry]
	if len(required) == 0 {
		return 1.0
	}
	hits := 0
	for _, cert := range required {
		if m.HasCertification(cert) {
			hits++
		}
	}
	return float64(hits) / float64(len(required))
}
