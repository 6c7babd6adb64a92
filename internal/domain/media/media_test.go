package media

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMedia(t *testing.T) {
	brandID := uuid.New()
	userID := uuid.New()

	t.Run("creates pending upload", func(t *testing.T) {
		m, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 1024, KindImage)
		require.NoError(t, err)

		assert.Equal(t, brandID, m.BrandID)
		assert.Equal(t, userID, m.OwnerUserID)
		assert.Equal(t, "photo.jpg", m.FileName)
		assert.Equal(t, StatusPendingUpload, m.Status)
		assert.Equal(t, fmt.Sprintf("%s/image/%s.jpg", brandID, m.ID), m.StorageKey)
		assert.True(t, m.IsImage())
		assert.True(t, m.IsOwnedBy(userID))
		assert.False(t, m.IsOwnedBy(uuid.New()))

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*MediaCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		_, err := NewMedia(brandID, userID, "movie.mp4", "video/mp4", 1024, KindDocument)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed")
	})

	t.Run("rejects extension mismatch", func(t *testing.T) {
		_, err := NewMedia(brandID, userID, "photo.png", "image/jpeg", 1024, KindImage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match content type")
	})

	t.Run("rejects oversized image", func(t *testing.T) {
		_, err := NewMedia(brandID, userID, "big.png", "image/png", MaxImageSizeBytes+1, KindImage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the 10.0 MB limit")
	})

	t.Run("accepts document up to its larger limit", func(t *testing.T) {
		m, err := NewMedia(brandID, userID, "spec.pdf", "application/pdf", MaxImageSizeBytes+1, KindDocument)
		require.NoError(t, err)
		assert.Equal(t, int64(MaxImageSizeBytes+1), m.SizeBytes)

		_, err = NewMedia(brandID, userID, "spec.pdf", "application/pdf", MaxDocumentSizeBytes+1, KindDocument)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the 25.0 MB limit")
	})

	t.Run("rejects zero size", func(t *testing.T) {
		_, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 0, KindImage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Size must be positive")
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 1024, Kind("archive"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown media kind")
	})
}

func TestNewGeneratedMedia(t *testing.T) {
	brandID := uuid.New()

	t.Run("creates ready QR media", func(t *testing.T) {
		m, err := NewGeneratedMedia(brandID, "qr.png", "image/png", 512, KindQRCode)
		require.NoError(t, err)

		assert.Equal(t, StatusReady, m.Status)
		assert.True(t, m.IsReady())
		assert.Equal(t, uuid.Nil, m.OwnerUserID)
	})

	t.Run("only generated kinds allowed", func(t *testing.T) {
		_, err := NewGeneratedMedia(brandID, "photo.jpg", "image/jpeg", 512, KindImage)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "QR code or certificate PDF")
	})
}

func TestMedia_UploadLifecycle(t *testing.T) {
	brandID := uuid.New()
	userID := uuid.New()

	t.Run("confirm upload", func(t *testing.T) {
		m, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 1024, KindImage)
		require.NoError(t, err)
		m.ClearDomainEvents()

		require.NoError(t, m.MarkReady())
		assert.Equal(t, StatusReady, m.Status)

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*MediaReadyEvent)
		assert.True(t, ok)

		err = m.MarkReady()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot confirm upload in ready status")
	})

	t.Run("fail upload", func(t *testing.T) {
		m, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 1024, KindImage)
		require.NoError(t, err)

		require.NoError(t, m.MarkFailed())
		assert.Equal(t, StatusFailed, m.Status)
	})

	t.Run("soft delete", func(t *testing.T) {
		m, err := NewMedia(brandID, userID, "photo.jpg", "image/jpeg", 1024, KindImage)
		require.NoError(t, err)
		require.NoError(t, m.MarkReady())

		m.MarkDeleted()
		assert.Equal(t, StatusDeleted, m.Status)
		assert.NotNil(t, m.DeletedAt)
		assert.False(t, m.IsReady())
	})
}

func TestSanitizeFileName(t *testing.T) {
	t.Run("strips directory components", func(t *testing.T) {
		assert.Equal(t, "passwd.png", SanitizeFileName("../../etc/passwd.png"))
		assert.Equal(t, "report.pdf", SanitizeFileName(`C:\Users\x\report.pdf`))
	})

	t.Run("strips control characters", func(t *testing.T) {
		assert.Equal(t, "photo.jpg", SanitizeFileName("pho\x00to\x1f.jpg"))
	})

	t.Run("truncates long names preserving extension", func(t *testing.T) {
		long := strings.Repeat("a", 300) + ".png"
		got := SanitizeFileName(long)
		assert.Len(t, got, MaxFileNameLength)
		assert.True(t, strings.HasSuffix(got, ".png"))
	})

	t.Run("trims whitespace", func(t *testing.T) {
		assert.Equal(t, "photo.jpg", SanitizeFileName("  photo.jpg  "))
	})
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.0 KB", FormatSize(1024))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "10.0 MB", FormatSize(10<<20))
	assert.Equal(t, "2.0 GB", FormatSize(2<<30))
}

func TestMedia_FormattedSize(t *testing.T) {
	m, err := NewMedia(uuid.New(), uuid.New(), "photo.jpg", "image/jpeg", 1536, KindImage)
	require.NoError(t, err)
	assert.Equal(t, "1.5 KB", m.FormattedSize())
}

func TestBuildStorageKey(t *testing.T) {
	brandID := uuid.New()
	mediaID := uuid.New()

	key := BuildStorageKey(brandID, KindQRCode, mediaID, "CODE.PNG")
	assert.Equal(t, fmt.Sprintf("%s/qr_code/%s.png", brandID, mediaID), key)
}
