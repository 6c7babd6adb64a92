// Package qrcode renders the QR images printed on physical products.
// Each code encodes the public verification URL for one certificate
// serial, so scanning it lands on the verify endpoint.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	qrc "github.com/skip2/go-qrcode"
)

// defaultSize is the square pixel size of generated PNGs, large enough
// to survive print-and-rescan on product tags.
const defaultSize = 512

// Generator renders PNG QR codes that point at the public verification page
type Generator struct {
	baseURL string
	size    int
}

// NewGenerator creates a generator. baseURL is the externally reachable
// URL of the deployment, e.g. https://verify.example.com.
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    defaultSize,
	}
}

// VerifyURL returns the public verification link for a serial number
func (g *Generator) VerifyURL(serialNumber string) string {
	return fmt.Sprintf("%s/api/v1/verify/%s", g.baseURL, url.PathEscape(serialNumber))
}

// GeneratePNG renders the QR code PNG for a serial number
func (g *Generator) GeneratePNG(serialNumber string) ([]byte, error) {
	if serialNumber == "" {
		return nil, fmt.Errorf("qrcode: serial number is required")
	}

	png, err := qrc.Encode(g.VerifyURL(serialNumber), qrc.Medium, g.size)
	if err != nil {
		return nil, fmt.Errorf("qrcode: failed to encode: %w", err)
	}
	return png, nil
}
