package notification

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	brandID := uuid.New()
	userID := uuid.New()

	t.Run("creates unread notification", func(t *testing.T) {
		n, err := NewNotification(brandID, userID, TypeCertificateMinted, "Certificate minted", "Your certificate is on chain.")
		require.NoError(t, err)

		assert.Equal(t, brandID, n.BrandID)
		assert.Equal(t, userID, n.RecipientUserID)
		assert.Equal(t, TypeCertificateMinted, n.Type)
		assert.False(t, n.Read)
		assert.Nil(t, n.ReadAt)
		assert.True(t, n.IsFor(userID))
		assert.False(t, n.IsFor(uuid.New()))
	})

	t.Run("requires recipient", func(t *testing.T) {
		_, err := NewNotification(brandID, uuid.Nil, TypeSystem, "Hello", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Recipient user ID is required")
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewNotification(brandID, userID, Type("carrier_pigeon"), "Hello", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown notification type")
	})

	t.Run("requires title", func(t *testing.T) {
		_, err := NewNotification(brandID, userID, TypeSystem, "   ", "body")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Title cannot be empty")
	})

	t.Run("rejects oversized title", func(t *testing.T) {
		_, err := NewNotification(brandID, userID, TypeSystem, strings.Repeat("a", MaxTitleLength+1), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "200 characters")
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		_, err := NewNotification(brandID, userID, TypeSystem, "Hello", strings.Repeat("a", MaxBodyLength+1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2000 characters")
	})

	t.Run("allows empty body", func(t *testing.T) {
		n, err := NewNotification(brandID, userID, TypeSystem, "Hello", "")
		require.NoError(t, err)
		assert.Empty(t, n.Body)
	})
}

func TestNotification_RelatedEntity(t *testing.T) {
	n, err := NewNotification(uuid.New(), uuid.New(), TypeCertificateMinted, "Minted", "")
	require.NoError(t, err)

	certID := uuid.New()
	n.WithRelatedEntity("certificate", certID)

	assert.Equal(t, "certificate", n.RelatedEntityType)
	require.NotNil(t, n.RelatedEntityID)
	assert.Equal(t, certID, *n.RelatedEntityID)

	t.Run("ignores nil entity ID", func(t *testing.T) {
		other, err := NewNotification(uuid.New(), uuid.New(), TypeSystem, "Hi", "")
		require.NoError(t, err)
		other.WithRelatedEntity("certificate", uuid.Nil)
		assert.Empty(t, other.RelatedEntityType)
		assert.Nil(t, other.RelatedEntityID)
	})
}

func TestNotification_MarkRead(t *testing.T) {
	n, err := NewNotification(uuid.New(), uuid.New(), TypeSecurityAlert, "Suspicious login", "")
	require.NoError(t, err)

	n.MarkRead()
	assert.True(t, n.Read)
	require.NotNil(t, n.ReadAt)

	firstReadAt := *n.ReadAt
	version := n.GetVersion()

	// Repeat reads must not move ReadAt or bump the version
	n.MarkRead()
	assert.Equal(t, firstReadAt, *n.ReadAt)
	assert.Equal(t, version, n.GetVersion())
}

func TestNotification_MarkDeleted(t *testing.T) {
	n, err := NewNotification(uuid.New(), uuid.New(), TypeMediaReady, "Upload complete", "")
	require.NoError(t, err)

	assert.False(t, n.IsDeleted())
	n.MarkDeleted()
	assert.True(t, n.IsDeleted())
	assert.NotNil(t, n.DeletedAt)
}
