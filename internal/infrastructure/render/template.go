package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

const sheetTemplateName = "certificate_sheet.html"

// CertificateSheetData feeds the printable certificate template
type CertificateSheetData struct {
	BrandName       string
	ProductName     string
	ProductSKU      string
	SerialNumber    string
	BatchNumber     string
	Description     string
	TokenID         string
	ContractAddress string
	TxHash          string
	OwnerAddress    string
	IssuedAt        time.Time
	MintedAt        *time.Time
	VerifyURL       string
	QRCodePNG       []byte
}

// SheetTemplate renders certificate data into the printable HTML sheet
type SheetTemplate struct {
	tmpl *template.Template
}

// NewSheetTemplate parses the embedded certificate sheet template
func NewSheetTemplate() (*SheetTemplate, error) {
	tmpl, err := template.New("").Funcs(sheetFuncMap()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("render: failed to parse sheet template: %w", err)
	}
	return &SheetTemplate{tmpl: tmpl}, nil
}

// Render fills the template with certificate data
func (t *SheetTemplate) Render(data CertificateSheetData) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, sheetTemplateName, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute sheet template", err)
	}
	return buf.String(), nil
}

func sheetFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"upper":          strings.ToUpper,
		"title":          titleCase,
		"truncate":       truncate,
		"shortHex":       shortHex,
		"qrDataURL":      qrDataURL,
	}
}

// toTime normalizes time.Time and *time.Time template values
func toTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

// formatDate formats a time value as a date string
// Example: time.Now() -> "2024-01-15"
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatDateTime formats a time value as a datetime string
// Example: time.Now() -> "2024-01-15 14:30:00"
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// truncate shortens a string to max runes, appending a suffix when cut
func truncate(s string, max int, suffix ...string) string {
	suf := "..."
	if len(suffix) > 0 {
		suf = suffix[0]
	}
	runes := []rune(s)
	sufRunes := []rune(suf)
	if len(runes) <= max {
		return s
	}
	if max <= len(sufRunes) {
		return string(runes[:max])
	}
	return string(runes[:max-len(sufRunes)]) + suf
}

// titleCase converts a string to title case
func titleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}

// shortHex abbreviates long hashes for print: 0x12345678…abcdef
func shortHex(s string) string {
	if len(s) <= 18 {
		return s
	}
	return s[:10] + "…" + s[len(s)-6:]
}

// qrDataURL embeds a PNG as an inline data URL so the sheet needs no
// external fetches at print time
func qrDataURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
