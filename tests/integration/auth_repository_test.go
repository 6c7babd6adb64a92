package integration

import (
	"context"
	"testing"
	"time"

	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserRepository_Integration covers the user repository against a real
// PostgreSQL database
func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormUserRepository(testDB.DB)
	ctx := context.Background()
	brandID := uuid.New()

	testDB.CreateTestBrandWithUUID(brandID)

	t.Run("Create and FindByUsername", func(t *testing.T) {
		user, err := identity.NewActiveUser(brandID, "alice", "Str0ngPassw0rd!", identity.RoleAdmin)
		require.NoError(t, err)
		require.NoError(t, user.SetEmail("alice@acme.example"))

		require.NoError(t, repo.Create(ctx, user))

		// Usernames are stored lowercase and looked up case-insensitively
		found, err := repo.FindByUsername(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "alice", found.Username)
		assert.Equal(t, identity.RoleAdmin, found.Role)
		assert.True(t, found.VerifyPassword("Str0ngPassw0rd!"))
		assert.False(t, found.VerifyPassword("wrong"))
	})

	t.Run("FindByEmail", func(t *testing.T) {
		user, err := identity.NewActiveUser(brandID, "bob", "Str0ngPassw0rd!", identity.RoleMember)
		require.NoError(t, err)
		require.NoError(t, user.SetEmail("bob@acme.example"))
		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.FindByEmail(ctx, "bob@acme.example")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.FindByEmail(ctx, "nobody@acme.example")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ExistsByUsername and ExistsByEmail", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsername(ctx, "charlie")
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "bob@acme.example")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Update persists lockout state", func(t *testing.T) {
		user, err := identity.NewActiveUser(brandID, "dave", "Str0ngPassw0rd!", identity.RoleMember)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, user))

		// Three failures with a max of three locks the account
		for i := 0; i < 3; i++ {
			user.RecordLoginFailure(3, 15*time.Minute)
		}
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, found.IsLocked())
		assert.False(t, found.CanLogin())
	})

	t.Run("CountByBrand scoped per brand", func(t *testing.T) {
		otherBrand := uuid.New()
		testDB.CreateTestBrandWithUUID(otherBrand)

		user, err := identity.NewActiveUser(otherBrand, "erin", "Str0ngPassw0rd!", identity.RoleOwner)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, user))

		count, err := repo.CountByBrand(ctx, otherBrand)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

// TestSessionRepository_Integration covers session persistence, revocation,
// and expiry cleanup
func TestSessionRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormSessionRepository(testDB.DB)
	ctx := context.Background()

	brandID := uuid.New()
	userID := uuid.New()
	testDB.CreateTestBrandWithUUID(brandID)
	testDB.CreateTestUser(brandID, userID)

	newSession := func(t *testing.T, access, refresh string) *security.Session {
		t.Helper()
		s, err := security.NewSession(userID, brandID, access, refresh,
			"203.0.113.10", "Mozilla/5.0", time.Now().Add(24*time.Hour))
		require.NoError(t, err)
		return s
	}

	t.Run("Create and FindByAccessTokenID", func(t *testing.T) {
		session := newSession(t, "jti-access-1", "jti-refresh-1")
		require.NoError(t, repo.Create(ctx, session))

		found, err := repo.FindByAccessTokenID(ctx, "jti-access-1")
		require.NoError(t, err)
		assert.Equal(t, session.ID, found.ID)
		assert.Equal(t, userID, found.UserID)
		assert.True(t, found.IsActive(time.Now()))

		_, err = repo.FindByAccessTokenID(ctx, "jti-unknown")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Rotate swaps token IDs", func(t *testing.T) {
		session := newSession(t, "jti-access-2", "jti-refresh-2")
		require.NoError(t, repo.Create(ctx, session))

		require.NoError(t, session.Rotate("jti-access-2b", "jti-refresh-2b", time.Now().Add(24*time.Hour)))
		require.NoError(t, repo.Update(ctx, session))

		found, err := repo.FindByRefreshTokenID(ctx, "jti-refresh-2b")
		require.NoError(t, err)
		assert.Equal(t, session.ID, found.ID)

		// The old refresh token no longer resolves
		_, err = repo.FindByRefreshTokenID(ctx, "jti-refresh-2")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("RevokeAllForUser", func(t *testing.T) {
		first := newSession(t, "jti-access-3", "jti-refresh-3")
		second := newSession(t, "jti-access-4", "jti-refresh-4")
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		active, err := repo.FindActiveByUser(ctx, userID)
		require.NoError(t, err)
		require.NotEmpty(t, active)

		revoked, err := repo.RevokeAllForUser(ctx, userID, security.RevokeReasonPasswordChange)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, revoked, int64(2))

		active, err = repo.FindActiveByUser(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("DeleteExpired purges old sessions", func(t *testing.T) {
		session := newSession(t, "jti-access-5", "jti-refresh-5")
		require.NoError(t, repo.Create(ctx, session))

		// Nothing has expired yet as of now
		deleted, err := repo.DeleteExpired(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		// A cutoff after the expiry removes the session
		deleted, err = repo.DeleteExpired(ctx, time.Now().Add(48*time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))
	})
}

// TestBlacklistedTokenRepository_Integration covers the token denylist
func TestBlacklistedTokenRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormBlacklistedTokenRepository(testDB.DB)
	ctx := context.Background()

	brandID := uuid.New()
	userID := uuid.New()
	testDB.CreateTestBrandWithUUID(brandID)
	testDB.CreateTestUser(brandID, userID)

	t.Run("Create and ExistsByTokenID", func(t *testing.T) {
		token, err := security.NewBlacklistedToken("jti-revoked-1", userID, brandID,
			security.TokenTypeAccess, "logout", time.Now().Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, token))

		exists, err := repo.ExistsByTokenID(ctx, "jti-revoked-1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByTokenID(ctx, "jti-still-valid")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("DeleteExpired removes lapsed entries", func(t *testing.T) {
		token, err := security.NewBlacklistedToken("jti-revoked-2", userID, brandID,
			security.TokenTypeRefresh, "password_change", time.Now().Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, token))

		deleted, err := repo.DeleteExpired(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))

		exists, err := repo.ExistsByTokenID(ctx, "jti-revoked-2")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
