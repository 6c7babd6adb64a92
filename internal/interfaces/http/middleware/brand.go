package middleware

import (
	"net/http"
	"strings"

	"github.com/brandcert/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BrandContextKey is the key used to store brand information in gin.Context
const (
	BrandIDKey     = "brand_id"
	BrandCodeKey   = "brand_code"
	BrandHeaderKey = "X-Brand-ID"
)

// BrandInfo holds the extracted brand information
type BrandInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// BrandValidator defines the interface for validating a brand
type BrandValidator interface {
	ValidateBrand(brandID string) (*BrandInfo, error)
}

// BrandMiddlewareConfig holds configuration for brand middleware
type BrandMiddlewareConfig struct {
	// HeaderEnabled enables X-Brand-ID header extraction
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SubdomainEnabled enables subdomain extraction
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g., "brandcert.io")
	BaseDomain string
	// SkipPaths are paths that don't require brand context (e.g., health check)
	SkipPaths []string
	// Required determines if brand context is mandatory
	Required bool
	// Validator is an optional validator to check if the brand exists and is active
	Validator BrandValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultBrandConfig returns default brand middleware configuration
func DefaultBrandConfig() BrandMiddlewareConfig {
	return BrandMiddlewareConfig{
		HeaderEnabled:    true,
		JWTEnabled:       true,
		SubdomainEnabled: false,
		BaseDomain:       "",
		SkipPaths:        []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:         true,
		Validator:        nil,
		Logger:           nil,
	}
}

// BrandMiddleware extracts brand information from the request
// Extraction order: JWT claims > X-Brand-ID header > subdomain
func BrandMiddleware() gin.HandlerFunc {
	return BrandMiddlewareWithConfig(DefaultBrandConfig())
}

// BrandMiddlewareWithConfig returns brand middleware with custom configuration
func BrandMiddlewareWithConfig(cfg BrandMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var brandID string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if jwtBrandID, exists := c.Get(JWTBrandIDKey); exists {
				if bid, ok := jwtBrandID.(string); ok && bid != "" {
					brandID = bid
					extractionMethod = "jwt"
				}
			}
		}

		// Priority 2: X-Brand-ID header
		if brandID == "" && cfg.HeaderEnabled {
			if headerBrandID := c.GetHeader(BrandHeaderKey); headerBrandID != "" {
				brandID = headerBrandID
				extractionMethod = "header"
			}
		}

		// Priority 3: Subdomain extraction
		if brandID == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" {
			if subdomainBrandID := extractBrandFromSubdomain(c.Request.Host, cfg.BaseDomain); subdomainBrandID != "" {
				brandID = subdomainBrandID
				extractionMethod = "subdomain"
			}
		}

		// Validate brand ID format if present
		if brandID != "" {
			if err := validateBrandIDFormat(brandID); err != nil {
				respondUnauthorized(c, "Invalid brand ID format")
				return
			}
		}

		// Check if brand is required
		if brandID == "" && cfg.Required {
			respondUnauthorized(c, "Brand identification required")
			return
		}

		// Optional: Validate brand exists and is active
		var brandInfo *BrandInfo
		if brandID != "" && cfg.Validator != nil {
			var err error
			brandInfo, err = cfg.Validator.ValidateBrand(brandID)
			if err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Brand validation failed",
					zap.String("brand_id", brandID),
					zap.Error(err),
				)
				respondUnauthorized(c, "Invalid or inactive brand")
				return
			}
		}

		// Set brand information in context
		if brandID != "" {
			// Set in gin context for easy access in handlers
			c.Set(BrandIDKey, brandID)
			if brandInfo != nil {
				c.Set(BrandCodeKey, brandInfo.Code)
			}

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithBrandID(ctx, log, brandID)
			c.Request = c.Request.WithContext(ctx)

			// Log extraction method for debugging
			if cfg.Logger != nil {
				cfg.Logger.Debug("Brand identified",
					zap.String("brand_id", brandID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// extractBrandFromSubdomain extracts a brand code from the subdomain
// e.g., "acme.brandcert.io" with baseDomain "brandcert.io" returns "acme"
func extractBrandFromSubdomain(host, baseDomain string) string {
	// Remove port if present
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}

	// Check if host ends with base domain
	if !strings.HasSuffix(host, baseDomain) {
		return ""
	}

	// Extract subdomain
	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == host || subdomain == "" || subdomain == "www" {
		return ""
	}

	// Return the first part of subdomain (in case of multi-level subdomains)
	parts := strings.Split(subdomain, ".")
	return parts[0]
}

// validateBrandIDFormat validates that the brand ID is a valid UUID
func validateBrandIDFormat(brandID string) error {
	_, err := uuid.Parse(brandID)
	return err
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetBrandID retrieves the brand ID from gin.Context
func GetBrandID(c *gin.Context) string {
	if brandID, exists := c.Get(BrandIDKey); exists {
		if bid, ok := brandID.(string); ok {
			return bid
		}
	}
	return ""
}

// GetBrandUUID retrieves the brand ID as UUID from gin.Context
func GetBrandUUID(c *gin.Context) (uuid.UUID, error) {
	brandID := GetBrandID(c)
	if brandID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(brandID)
}

// GetBrandCode retrieves the brand code from gin.Context
func GetBrandCode(c *gin.Context) string {
	if brandCode, exists := c.Get(BrandCodeKey); exists {
		if code, ok := brandCode.(string); ok {
			return code
		}
	}
	return ""
}

// MustGetBrandID retrieves the brand ID from gin.Context or panics if not found
// Use this only in handlers where brand context is guaranteed to exist
func MustGetBrandID(c *gin.Context) string {
	brandID := GetBrandID(c)
	if brandID == "" {
		panic("brand_id not found in context")
	}
	return brandID
}

// MustGetBrandUUID retrieves the brand ID as UUID or panics if not found
func MustGetBrandUUID(c *gin.Context) uuid.UUID {
	brandUUID, err := GetBrandUUID(c)
	if err != nil || brandUUID == uuid.Nil {
		panic("valid brand_id not found in context")
	}
	return brandUUID
}

// OptionalBrandMiddleware creates middleware that doesn't require brand context
func OptionalBrandMiddleware() gin.HandlerFunc {
	cfg := DefaultBrandConfig()
	cfg.Required = false
	return BrandMiddlewareWithConfig(cfg)
}
