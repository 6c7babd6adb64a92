package manufacturer

import (
	"testing"

	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrand(t *testing.T) *brand.Brand {
	t.Helper()
	b, err := brand.NewBrand("ACME", "Acme Corp", brand.IndustryElectronics)
	require.NoError(t, err)
	require.NoError(t, b.SetCategories([]string{"wearables", "audio"}, []string{"us", "de"}))
	return b
}

func newTestManufacturer(t *testing.T, name string) *Manufacturer {
	t.Helper()
	m, err := NewManufacturer(name, "CN")
	require.NoError(t, err)
	return m
}

func TestScoreMatch(t *testing.T) {
	t.Run("perfect candidate scores full marks", func(t *testing.T) {
		b := newTestBrand(t)
		m := newTestManufacturer(t, "Shenzhen Audio Works")
		require.NoError(t, m.SetCapabilities(
			[]string{"wearables", "audio", "chargers"},
			[]string{"us", "de", "fr"},
			[]string{"ISO9001", "RoHS"},
		))
		require.NoError(t, m.SetProductionTerms(100, 30, 50000, decimal.Zero, decimal.Zero))
		m.MarkVerified()

		score := ScoreMatch(b, m, 10000)

		assert.Equal(t, 100.0, score.Score)
		assert.Equal(t, 1.0, score.CategoryOverlap)
		assert.Equal(t, 1.0, score.MarketOverlap)
		assert.Equal(t, 1.0, score.CertificationScore)
		assert.True(t, score.CapacityFit)
	})

	t.Run("partial overlaps weight in proportionally", func(t *testing.T) {
		b := newTestBrand(t)
		m := newTestManufacturer(t, "Partial Fit Ltd")
		// one of two categories, one of two markets, no certifications
		require.NoError(t, m.SetCapabilities(
			[]string{"audio"},
			[]string{"us"},
			nil,
		))

		score := ScoreMatch(b, m, 0)

		// 0.5*0.35 + 0.5*0.25 + 0*0.20 + capacity 0.10 (no volume asked) = 0.40
		assert.InDelta(t, 40.0, score.Score, 0.01)
		assert.Equal(t, 0.5, score.CategoryOverlap)
		assert.Equal(t, 0.5, score.MarketOverlap)
		assert.Equal(t, 0.0, score.CertificationScore)
		assert.True(t, score.CapacityFit)
	})

	t.Run("capacity below requested volume drops the fit weight", func(t *testing.T) {
		b := newTestBrand(t)
		m := newTestManufacturer(t, "Small Shop")
		require.NoError(t, m.SetCapabilities([]string{"wearables", "audio"}, []string{"us", "de"}, nil))
		require.NoError(t, m.SetProductionTerms(10, 20, 500, decimal.Zero, decimal.Zero))

		withFit := ScoreMatch(b, m, 100)
		withoutFit := ScoreMatch(b, m, 1000)

		assert.True(t, withFit.CapacityFit)
		assert.False(t, withoutFit.CapacityFit)
		assert.InDelta(t, 10.0, withFit.Score-withoutFit.Score, 0.01)
	})

	t.Run("brand without constraints scores overlap as full", func(t *testing.T) {
		b, err := brand.NewBrand("BARE", "Bare Brand", brand.IndustryOther)
		require.NoError(t, err)
		m := newTestManufacturer(t, "Any Works")
		require.NoError(t, m.SetCapabilities(nil, nil, []string{"iso9001"}))

		score := ScoreMatch(b, m, 0)

		assert.Equal(t, 1.0, score.CategoryOverlap)
		assert.Equal(t, 1.0, score.MarketOverlap)
		assert.Equal(t, 1.0, score.CertificationScore)
	})

	t.Run("comparison is case-insensitive", func(t *testing.T) {
		b := newTestBrand(t)
		m := newTestManufacturer(t, "Case Co")
		// SetCapabilities lowercases stored values; score against brand values
		// that were normalized at SetCategories time
		require.NoError(t, m.SetCapabilities([]string{"WEARABLES", "AUDIO"}, []string{"US", "DE"}, []string{"iso9001", "ROHS"}))

		score := ScoreMatch(b, m, 0)

		assert.Equal(t, 1.0, score.CategoryOverlap)
		assert.Equal(t, 1.0, score.MarketOverlap)
		assert.Equal(t, 1.0, score.CertificationScore)
	})
}

func TestRankMatches(t *testing.T) {
	t.Run("sorts by score descending", func(t *testing.T) {
		b := newTestBrand(t)

		strong := newTestManufacturer(t, "Strong")
		require.NoError(t, strong.SetCapabilities([]string{"wearables", "audio"}, []string{"us", "de"}, []string{"iso9001", "rohs"}))
		strong.MarkVerified()

		weak := newTestManufacturer(t, "Weak")
		require.NoError(t, weak.SetCapabilities([]string{"furniture"}, []string{"jp"}, nil))

		ranked := RankMatches(b, []*Manufacturer{weak, strong}, 0)

		require.Len(t, ranked, 2)
		assert.Equal(t, "Strong", ranked[0].Manufacturer.Name)
		assert.Equal(t, "Weak", ranked[1].Manufacturer.Name)
		assert.Greater(t, ranked[0].Score, ranked[1].Score)
	})

	t.Run("ties broken by rating then name", func(t *testing.T) {
		b := newTestBrand(t)

		twinA := newTestManufacturer(t, "Alpha")
		twinB := newTestManufacturer(t, "Beta")
		require.NoError(t, twinB.SetRating(4.5))

		ranked := RankMatches(b, []*Manufacturer{twinA, twinB}, 0)

		require.Len(t, ranked, 2)
		assert.Equal(t, "Beta", ranked[0].Manufacturer.Name)

		require.NoError(t, twinA.SetRating(4.5))
		ranked = RankMatches(b, []*Manufacturer{twinB, twinA}, 0)
		assert.Equal(t, "Alpha", ranked[0].Manufacturer.Name)
	})

	t.Run("skips delisted manufacturers", func(t *testing.T) {
		b := newTestBrand(t)
		gone := newTestManufacturer(t, "Gone")
		require.NoError(t, gone.Deactivate())

		ranked := RankMatches(b, []*Manufacturer{gone}, 0)

		assert.Empty(t, ranked)
	})
}
