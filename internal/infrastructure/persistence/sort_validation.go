package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// Common allowed sort fields for entities with base fields
// These are the common fields present in most entities

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// BrandSortFields contains allowed sort fields for brands
var BrandSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"industry":   true,
	"status":     true,
	"plan":       true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// ManufacturerSortFields contains allowed sort fields for manufacturers
var ManufacturerSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"name":             true,
	"country":          true,
	"status":           true,
	"verified":         true,
	"rating":           true,
	"min_order_qty":    true,
	"lead_time_days":   true,
	"monthly_capacity": true,
}

// CertificateSortFields contains allowed sort fields for certificates
var CertificateSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"serial_number":  true,
	"product_name":   true,
	"product_sku":    true,
	"batch_number":   true,
	"status":         true,
	"minted_at":      true,
	"transferred_at": true,
}

// MediaSortFields contains allowed sort fields for media
var MediaSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"file_name":  true,
	"kind":       true,
	"status":     true,
	"size_bytes": true,
}

// NotificationSortFields contains allowed sort fields for notifications
var NotificationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"is_read":    true,
}

// SecurityEventSortFields contains allowed sort fields for security events
var SecurityEventSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"type":       true,
	"severity":   true,
	"risk_score": true,
}
