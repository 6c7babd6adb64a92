package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

// TestCertificateRepository_Integration tests the certificate repository
// against a real PostgreSQL database
func TestCertificateRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormCertificateRepository(testDB.DB)
	ctx := context.Background()
	brandID := uuid.New()

	// Certificates carry a foreign key to the brand
	testDB.CreateTestBrandWithUUID(brandID)

	t.Run("Create and FindByID", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-0a1b2c3d4e", "Leather Handbag", "LH-4411")
		require.NoError(t, err)

		err = repo.Create(ctx, cert)
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, brandID, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, cert.ID, found.ID)
		assert.Equal(t, "BC-2026-0a1b2c3d4e", found.SerialNumber)
		assert.Equal(t, "Leather Handbag", found.ProductName)
		assert.Equal(t, certificate.StatusDraft, found.Status)
		assert.Equal(t, brandID, found.BrandID)
	})

	t.Run("FindByID scoped to owning brand", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-1111aaaa22", "Silk Scarf", "SS-1001")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, cert))

		otherBrand := uuid.New()
		_, err = repo.FindByID(ctx, otherBrand, cert.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindBySerialNumber crosses brands", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-feedbeef00", "Watch", "WT-7001")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, cert))

		// Public verification does not know the brand up front
		found, err := repo.FindBySerialNumber(ctx, "BC-2026-feedbeef00")
		require.NoError(t, err)
		assert.Equal(t, cert.ID, found.ID)

		_, err = repo.FindBySerialNumber(ctx, "BC-2026-00000000ff")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ExistsBySerialNumber", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-deadbeef01", "Sneakers", "SN-9001")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, cert))

		exists, err := repo.ExistsBySerialNumber(ctx, "BC-2026-deadbeef01")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySerialNumber(ctx, "BC-2026-deadbeef99")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Update persists mint transitions", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-a0b1c2d3e4", "Sunglasses", "SG-3301")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, cert))

		require.NoError(t, cert.Submit())
		require.NoError(t, repo.Update(ctx, cert))

		require.NoError(t, cert.BeginMint(certificate.DefaultMaxMintAttempts))
		require.NoError(t, repo.Update(ctx, cert))

		err = cert.CompleteMint("42", "0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984",
			"0xabc123", "0x9f8f72aA9304c8B593d555F12eF6589cC3A579A2")
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, cert))

		found, err := repo.FindByID(ctx, brandID, cert.ID)
		require.NoError(t, err)
		assert.Equal(t, certificate.StatusMinted, found.Status)
		assert.Equal(t, "42", found.TokenID)
		assert.NotNil(t, found.MintedAt)
	})

	t.Run("Update detects concurrent modification", func(t *testing.T) {
		cert, err := certificate.NewCertificate(brandID, "BC-2026-b1c2d3e4f5", "Belt", "BL-2201")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, cert))

		// Two loads of the same row
		first, err := repo.FindByID(ctx, brandID, cert.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, brandID, cert.ID)
		require.NoError(t, err)

		require.NoError(t, first.Submit())
		require.NoError(t, repo.Update(ctx, first))

		// The stale copy must be rejected
		require.NoError(t, second.Submit())
		err = repo.Update(ctx, second)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
	})

	t.Run("FindAll with pagination", func(t *testing.T) {
		pageBrand := uuid.New()
		testDB.CreateTestBrandWithUUID(pageBrand)

		for i := 0; i < 7; i++ {
			serial := fmt.Sprintf("BC-2026-%010x", 0xcc00+i)
			cert, err := certificate.NewCertificate(pageBrand, serial, fmt.Sprintf("Batch Item %d", i), "BI-1000")
			require.NoError(t, err)
			require.NoError(t, repo.Create(ctx, cert))
		}

		filter := certificate.NewFilter()
		filter.PageSize = 5

		page1, total, err := repo.FindAll(ctx, pageBrand, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(7), total)
		assert.Len(t, page1, 5)

		filter.Page = 2
		page2, _, err := repo.FindAll(ctx, pageBrand, filter)
		require.NoError(t, err)
		assert.Len(t, page2, 2)
	})

	t.Run("FindAll filters by status and keyword", func(t *testing.T) {
		filterBrand := uuid.New()
		testDB.CreateTestBrandWithUUID(filterBrand)

		draft, err := certificate.NewCertificate(filterBrand, "BC-2026-dd00dd00dd", "Canvas Tote", "CT-5501")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, draft))

		pending, err := certificate.NewCertificate(filterBrand, "BC-2026-ee00ee00ee", "Wool Coat", "WC-6601")
		require.NoError(t, err)
		require.NoError(t, pending.Submit())
		require.NoError(t, repo.Create(ctx, pending))

		byStatus := certificate.NewFilter().WithStatus(certificate.StatusPending)
		certs, total, err := repo.FindAll(ctx, filterBrand, byStatus)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, certs, 1)
		assert.Equal(t, "BC-2026-ee00ee00ee", certs[0].SerialNumber)

		byKeyword := certificate.NewFilter().WithKeyword("canvas")
		certs, _, err = repo.FindAll(ctx, filterBrand, byKeyword)
		require.NoError(t, err)
		require.Len(t, certs, 1)
		assert.Equal(t, "Canvas Tote", certs[0].ProductName)
	})

	t.Run("CountByBrand and CountByStatus", func(t *testing.T) {
		countBrand := uuid.New()
		testDB.CreateTestBrandWithUUID(countBrand)

		for i := 0; i < 3; i++ {
			serial := fmt.Sprintf("BC-2026-%010x", 0xab00+i)
			cert, err := certificate.NewCertificate(countBrand, serial, "Counted Item", "CI-1")
			require.NoError(t, err)
			if i == 0 {
				require.NoError(t, cert.Submit())
			}
			require.NoError(t, repo.Create(ctx, cert))
		}

		count, err := repo.CountByBrand(ctx, countBrand)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		byStatus, err := repo.CountByStatus(ctx, countBrand)
		require.NoError(t, err)
		assert.Equal(t, int64(2), byStatus[certificate.StatusDraft])
		assert.Equal(t, int64(1), byStatus[certificate.StatusPending])
	})
}
