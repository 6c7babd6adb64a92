package certificate

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSerial   = "BC-2025-0a1b2c3d4e"
	testAddress  = "0x52908400098527886E0F7030069857D2E4169EE7"
	testAddress2 = "0x8617E340B3D01FA5F11F306F4090FD50E238070D"
)

func newDraft(t *testing.T) *Certificate {
	t.Helper()
	cert, err := NewCertificate(uuid.New(), testSerial, "Noise-cancelling headphones", "SKU-100")
	require.NoError(t, err)
	cert.ClearDomainEvents()
	return cert
}

func newMinted(t *testing.T) *Certificate {
	t.Helper()
	cert := newDraft(t)
	require.NoError(t, cert.Submit())
	require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
	require.NoError(t, cert.CompleteMint("token-1", "0xcontract", "0xhash1", testAddress))
	cert.ClearDomainEvents()
	return cert
}

func TestNewCertificate(t *testing.T) {
	brandID := uuid.New()

	t.Run("creates draft certificate", func(t *testing.T) {
		cert, err := NewCertificate(brandID, testSerial, "Headphones", "SKU-100")
		require.NoError(t, err)

		assert.Equal(t, brandID, cert.BrandID)
		assert.Equal(t, testSerial, cert.SerialNumber)
		assert.Equal(t, StatusDraft, cert.Status)
		assert.Zero(t, cert.MintAttempts)
		assert.True(t, cert.CanModify())

		events := cert.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*CertificateCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("rejects malformed serial", func(t *testing.T) {
		_, err := NewCertificate(brandID, "CERT-2025-XYZ", "Headphones", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Serial number format is invalid")
	})

	t.Run("rejects empty product name", func(t *testing.T) {
		_, err := NewCertificate(brandID, testSerial, "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Product name cannot be empty")
	})

	t.Run("rejects oversized product name", func(t *testing.T) {
		_, err := NewCertificate(brandID, testSerial, strings.Repeat("x", 201), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})
}

func TestCertificate_UpdateDetails(t *testing.T) {
	t.Run("edits draft", func(t *testing.T) {
		cert := newDraft(t)

		err := cert.UpdateDetails("Headphones v2", "SKU-101", "Improved drivers", "LOT-42")
		require.NoError(t, err)

		assert.Equal(t, "Headphones v2", cert.ProductName)
		assert.Equal(t, "SKU-101", cert.ProductSKU)
		assert.Equal(t, "Improved drivers", cert.Description)
		assert.Equal(t, "LOT-42", cert.BatchNumber)
	})

	t.Run("locked after submission", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())

		err := cert.UpdateDetails("New name", "", "", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot edit certificate in pending status")
	})
}

func TestCertificate_MintLifecycle(t *testing.T) {
	t.Run("happy path draft to minted", func(t *testing.T) {
		cert := newDraft(t)

		require.NoError(t, cert.Submit())
		assert.Equal(t, StatusPending, cert.Status)

		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
		assert.Equal(t, StatusMinting, cert.Status)

		require.NoError(t, cert.CompleteMint("token-7", "0xcontract", "0xhash", testAddress))
		assert.Equal(t, StatusMinted, cert.Status)
		assert.Equal(t, "token-7", cert.TokenID)
		assert.Equal(t, "0xcontract", cert.ContractAddress)
		assert.Equal(t, "0xhash", cert.TxHash)
		assert.Equal(t, testAddress, cert.OwnerAddress)
		assert.NotNil(t, cert.MintedAt)
		assert.True(t, cert.IsMinted())
		assert.True(t, cert.IsOnChain())

		events := cert.GetDomainEvents()
		require.Len(t, events, 1)
		minted, ok := events[0].(*CertificateMintedEvent)
		require.True(t, ok)
		assert.Equal(t, "token-7", minted.TokenID)
	})

	t.Run("cannot mint a draft directly", func(t *testing.T) {
		cert := newDraft(t)

		err := cert.BeginMint(DefaultMaxMintAttempts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot mint certificate in draft status")
	})

	t.Run("complete mint requires token and hash", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())
		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))

		err := cert.CompleteMint("", "0xcontract", "0xhash", testAddress)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Token ID and transaction hash are required")
	})

	t.Run("failure returns to pending while attempts remain", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())

		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
		exhausted, err := cert.FailMint("gateway timeout", DefaultMaxMintAttempts)
		require.NoError(t, err)
		assert.False(t, exhausted)
		assert.Equal(t, StatusPending, cert.Status)
		assert.Equal(t, 1, cert.MintAttempts)
		assert.Equal(t, "gateway timeout", cert.LastError)
	})

	t.Run("parks in failed after max attempts", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())

		for i := 0; i < DefaultMaxMintAttempts-1; i++ {
			require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
			exhausted, err := cert.FailMint("node unreachable", DefaultMaxMintAttempts)
			require.NoError(t, err)
			assert.False(t, exhausted)
		}

		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
		exhausted, err := cert.FailMint("node unreachable", DefaultMaxMintAttempts)
		require.NoError(t, err)
		assert.True(t, exhausted)
		assert.Equal(t, StatusFailed, cert.Status)
		assert.Equal(t, DefaultMaxMintAttempts, cert.MintAttempts)
		assert.True(t, cert.IsFailed())

		events := cert.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*CertificateMintFailedEvent)
		assert.True(t, ok)

		// No further attempts without a reset
		err = cert.PrepareRetry(DefaultMaxMintAttempts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "counter must be reset")
	})

	t.Run("honors a raised attempt bound", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())

		for i := 0; i < 4; i++ {
			require.NoError(t, cert.BeginMint(5))
			exhausted, err := cert.FailMint("node unreachable", 5)
			require.NoError(t, err)
			assert.False(t, exhausted)
		}

		require.NoError(t, cert.BeginMint(5))
		exhausted, err := cert.FailMint("node unreachable", 5)
		require.NoError(t, err)
		assert.True(t, exhausted)
		assert.Equal(t, 5, cert.MintAttempts)
		assert.Equal(t, StatusFailed, cert.Status)
	})

	t.Run("zero bound falls back to the default", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())

		for i := 0; i < DefaultMaxMintAttempts; i++ {
			require.NoError(t, cert.BeginMint(0))
			_, err := cert.FailMint("boom", 0)
			require.NoError(t, err)
		}

		assert.True(t, cert.IsFailed())
		err := cert.BeginMint(0)
		require.Error(t, err)
	})

	t.Run("reset allows retry after exhaustion", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())
		for i := 0; i < DefaultMaxMintAttempts; i++ {
			require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
			_, err := cert.FailMint("boom", DefaultMaxMintAttempts)
			require.NoError(t, err)
		}
		require.True(t, cert.IsFailed())

		require.NoError(t, cert.ResetMintAttempts())
		assert.Zero(t, cert.MintAttempts)

		require.NoError(t, cert.PrepareRetry(DefaultMaxMintAttempts))
		assert.Equal(t, StatusPending, cert.Status)
		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))
	})

	t.Run("long errors are truncated", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Submit())
		require.NoError(t, cert.BeginMint(DefaultMaxMintAttempts))

		_, err := cert.FailMint(strings.Repeat("e", 600), DefaultMaxMintAttempts)
		require.NoError(t, err)
		assert.Len(t, cert.LastError, 500)
	})
}

func TestCertificate_TransferLifecycle(t *testing.T) {
	t.Run("happy path transfer", func(t *testing.T) {
		cert := newMinted(t)

		require.NoError(t, cert.BeginTransfer(testAddress2))
		assert.Equal(t, StatusTransferPending, cert.Status)

		require.NoError(t, cert.CompleteTransfer(testAddress2, "0xhash2"))
		assert.Equal(t, StatusTransferred, cert.Status)
		assert.Equal(t, testAddress2, cert.OwnerAddress)
		assert.Equal(t, "0xhash2", cert.TxHash)
		assert.NotNil(t, cert.TransferredAt)

		events := cert.GetDomainEvents()
		require.Len(t, events, 1)
		transferred, ok := events[0].(*CertificateTransferredEvent)
		require.True(t, ok)
		assert.Equal(t, testAddress, transferred.PreviousOwner)
		assert.Equal(t, testAddress2, transferred.NewOwner)
	})

	t.Run("rejects malformed address", func(t *testing.T) {
		cert := newMinted(t)

		err := cert.BeginTransfer("not-an-address")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "0x-prefixed")
	})

	t.Run("rejects transfer to current owner", func(t *testing.T) {
		cert := newMinted(t)

		err := cert.BeginTransfer(testAddress)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matches the current owner")
	})

	t.Run("rejects transfer of draft", func(t *testing.T) {
		cert := newDraft(t)

		err := cert.BeginTransfer(testAddress2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transfer certificate in draft status")
	})

	t.Run("failure rolls back to minted", func(t *testing.T) {
		cert := newMinted(t)
		require.NoError(t, cert.BeginTransfer(testAddress2))

		require.NoError(t, cert.FailTransfer("rejected by node"))
		assert.Equal(t, StatusMinted, cert.Status)
		assert.Equal(t, testAddress, cert.OwnerAddress)
		assert.Equal(t, "rejected by node", cert.LastError)
	})

	t.Run("no second transfer after completion", func(t *testing.T) {
		cert := newMinted(t)
		require.NoError(t, cert.BeginTransfer(testAddress2))
		require.NoError(t, cert.CompleteTransfer(testAddress2, "0xhash2"))

		err := cert.BeginTransfer(testAddress)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transfer certificate in transferred status")
	})
}

func TestCertificate_Revoke(t *testing.T) {
	t.Run("revokes from any live status", func(t *testing.T) {
		for _, build := range []func(*testing.T) *Certificate{newDraft, newMinted} {
			cert := build(t)

			require.NoError(t, cert.Revoke("counterfeit batch"))
			assert.Equal(t, StatusRevoked, cert.Status)
			assert.Equal(t, "counterfeit batch", cert.RevokeReason)
			assert.NotNil(t, cert.RevokedAt)
			assert.True(t, cert.IsRevoked())

			events := cert.GetDomainEvents()
			require.Len(t, events, 1)
			_, ok := events[0].(*CertificateRevokedEvent)
			assert.True(t, ok)
		}
	})

	t.Run("requires a reason", func(t *testing.T) {
		cert := newDraft(t)

		err := cert.Revoke("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Revoke reason is required")
	})

	t.Run("cannot revoke twice", func(t *testing.T) {
		cert := newDraft(t)
		require.NoError(t, cert.Revoke("reason"))

		err := cert.Revoke("again")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already revoked")
	})
}

func TestCertificate_MarkDeleted(t *testing.T) {
	t.Run("deletes draft", func(t *testing.T) {
		cert := newDraft(t)

		require.NoError(t, cert.MarkDeleted())
		assert.NotNil(t, cert.DeletedAt)
	})

	t.Run("refuses to delete on-chain certificate", func(t *testing.T) {
		cert := newMinted(t)

		err := cert.MarkDeleted()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "on-chain token")
	})

	t.Run("deletes revoked certificate", func(t *testing.T) {
		cert := newMinted(t)
		require.NoError(t, cert.Revoke("recall"))

		require.NoError(t, cert.MarkDeleted())
		assert.NotNil(t, cert.DeletedAt)
	})
}

func TestCertificate_MediaLinks(t *testing.T) {
	cert := newDraft(t)
	mediaID := uuid.New()
	qrID := uuid.New()

	require.NoError(t, cert.SetPrimaryMedia(mediaID))
	assert.Equal(t, &mediaID, cert.MediaID)

	require.NoError(t, cert.LinkQRMedia(qrID))
	assert.Equal(t, &qrID, cert.QRMediaID)

	err := cert.SetPrimaryMedia(uuid.Nil)
	require.Error(t, err)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusDraft, StatusMinting, false},
		{StatusPending, StatusMinting, true},
		{StatusMinting, StatusMinted, true},
		{StatusMinting, StatusFailed, true},
		{StatusMinting, StatusPending, true},
		{StatusMinted, StatusTransferPending, true},
		{StatusTransferPending, StatusTransferred, true},
		{StatusTransferPending, StatusMinted, true},
		{StatusFailed, StatusPending, true},
		{StatusTransferred, StatusTransferPending, false},
		{StatusDraft, StatusRevoked, true},
		{StatusTransferred, StatusRevoked, true},
		{StatusRevoked, StatusRevoked, false},
		{StatusRevoked, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNewSerialNumber(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	serial, err := NewSerialNumber(now)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(serial, "BC-2025-"))
	assert.Len(t, serial, len("BC-2025-")+10)
	assert.True(t, IsValidSerialNumber(serial))

	// Serials are random
	other, err := NewSerialNumber(now)
	require.NoError(t, err)
	assert.NotEqual(t, serial, other)
}

func TestIsValidSerialNumber(t *testing.T) {
	assert.True(t, IsValidSerialNumber("BC-2025-0123456789"))
	assert.True(t, IsValidSerialNumber("BC-2024-abcdef0123"))
	assert.False(t, IsValidSerialNumber("BC-25-abcdef0123"))
	assert.False(t, IsValidSerialNumber("XX-2025-abcdef0123"))
	assert.False(t, IsValidSerialNumber("BC-2025-ABCDEF0123")) // uppercase hex not generated
	assert.False(t, IsValidSerialNumber("BC-2025-abc"))
	assert.False(t, IsValidSerialNumber(""))
}
