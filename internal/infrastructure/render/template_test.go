package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSheetTemplate(t *testing.T) {
	tmpl, err := NewSheetTemplate()
	require.NoError(t, err)
	assert.NotNil(t, tmpl)
}

func TestSheetTemplate_Render(t *testing.T) {
	tmpl, err := NewSheetTemplate()
	require.NoError(t, err)

	mintedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	html, err := tmpl.Render(CertificateSheetData{
		BrandName:       "Acme Leather",
		ProductName:     "Heritage Satchel",
		ProductSKU:      "SKU-001",
		SerialNumber:    "BC-2025-0123456789",
		BatchNumber:     "LOT-42",
		Description:     "Hand-stitched full-grain leather satchel.",
		TokenID:         "4211",
		ContractAddress: "0x1b3cB81E51011b549d78bf720b0d924ac763A7C5",
		TxHash:          "0x6e8f7a9c5d4b3a2f1e0d9c8b7a6f5e4d3c2b1a0f6e8f7a9c5d4b3a2f1e0d9c8b",
		OwnerAddress:    "0x52908400098527886E0F7030069857D2E4169EE7",
		IssuedAt:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		MintedAt:        &mintedAt,
		VerifyURL:       "https://verify.example.com/api/v1/verify/BC-2025-0123456789",
		QRCodePNG:       []byte{0x89, 0x50, 0x4E, 0x47},
	})

	require.NoError(t, err)
	assert.Contains(t, html, "Acme Leather")
	assert.Contains(t, html, "Heritage Satchel")
	assert.Contains(t, html, "BC-2025-0123456789")
	assert.Contains(t, html, "Certificate of Authenticity")
	assert.Contains(t, html, "2025-03-10")
	assert.Contains(t, html, "2025-03-14 09:26:53")
	assert.Contains(t, html, "4211")
	assert.Contains(t, html, "data:image/png;base64,")
	// Long tx hash is abbreviated
	assert.Contains(t, html, "0x6e8f7a9c")
	assert.NotContains(t, html, "0x6e8f7a9c5d4b3a2f1e0d9c8b7a6f5e4d3c2b1a0f6e8f7a9c5d4b3a2f1e0d9c8b")
}

func TestSheetTemplate_Render_Minimal(t *testing.T) {
	tmpl, err := NewSheetTemplate()
	require.NoError(t, err)

	html, err := tmpl.Render(CertificateSheetData{
		BrandName:    "Acme Leather",
		ProductName:  "Heritage Satchel",
		SerialNumber: "BC-2025-0123456789",
		IssuedAt:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		VerifyURL:    "https://verify.example.com/api/v1/verify/BC-2025-0123456789",
	})

	require.NoError(t, err)
	// Chain facts absent before minting
	assert.NotContains(t, html, "Token ID")
	assert.NotContains(t, html, "Contract")
	assert.NotContains(t, html, "<img")
}

func TestSheetTemplate_Render_EscapesHTML(t *testing.T) {
	tmpl, err := NewSheetTemplate()
	require.NoError(t, err)

	html, err := tmpl.Render(CertificateSheetData{
		BrandName:    "Acme",
		ProductName:  "<script>alert(1)</script>",
		SerialNumber: "BC-2025-0123456789",
		IssuedAt:     time.Now(),
	})

	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "this is74...", truncate("this is749 characters long", 12))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestShortHex(t *testing.T) {
	assert.Equal(t, "0xabc", shortHex("0xabc"))
	long := "0x6e8f7a9c5d4b3a2f1e0d9c8b7a6f5e4d3c2b1a0f"
	short := shortHex(long)
	assert.Equal(t, "0x6e8f7a9c…2b1a0f", short)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Heritage Satchel", titleCase("heritage satchel"))
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-10", formatDate(ts))
	assert.Equal(t, "2025-03-10", formatDate(&ts))
	assert.Equal(t, "", formatDate(nil))
	assert.Equal(t, "", formatDate((*time.Time)(nil)))
}
