package middleware

import (
	"net/http"

	"github.com/brandcert/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires one of the specified roles.
// Platform administrators always pass regardless of their brand role.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		if !claims.PlatformAdmin && !hasAnyRole(claims.Role, roles) {
			handleRoleDenied(c, cfg, roles, "User lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.Strings("required_any", roles),
				zap.String("user_role", claims.Role),
			)
		}

		c.Next()
	}
}

// RequirePlatformAdmin creates middleware that only admits platform operators
func RequirePlatformAdmin() gin.HandlerFunc {
	return RequirePlatformAdminWithConfig(RoleConfig{})
}

// RequirePlatformAdminWithConfig creates platform admin middleware with custom config
func RequirePlatformAdminWithConfig(cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, []string{"platform_admin"}, "No authentication claims found")
			return
		}

		if !claims.PlatformAdmin {
			handleRoleDenied(c, cfg, []string{"platform_admin"}, "User is not a platform administrator")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Platform admin check passed",
				zap.String("user_id", claims.UserID),
			)
		}

		c.Next()
	}
}

// hasAnyRole reports whether role is one of the required roles
func hasAnyRole(role string, required []string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userRole := ""
		if claims != nil {
			userID = claims.UserID
			userRole = claims.Role
		}

		cfg.Logger.Warn("Role denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.Strings("required_roles", requiredRoles),
			zap.String("user_role", userRole),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}

// HasRole is a helper function to check the caller's role in handlers.
// Platform administrators satisfy every role requirement.
func HasRole(c *gin.Context, roles ...string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	if claims.PlatformAdmin {
		return true
	}
	return hasAnyRole(claims.Role, roles)
}

// MustHaveRole aborts the request if the caller lacks all of the roles.
// Returns true if the caller passes, false if aborted.
func MustHaveRole(c *gin.Context, roles ...string) bool {
	if !HasRole(c, roles...) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Access denied: insufficient role",
			},
		})
		return false
	}
	return true
}

// CheckClaimsFunc is a function type for custom authorization checks
type CheckClaimsFunc func(claims *auth.Claims, c *gin.Context) bool

// RequireClaimsCheck creates middleware with a custom authorization check.
// This covers logic that cannot be expressed with a plain role list, such
// as owner-or-self rules.
func RequireClaimsCheck(checkFunc CheckClaimsFunc) gin.HandlerFunc {
	return RequireClaimsCheckWithConfig(checkFunc, RoleConfig{})
}

// RequireClaimsCheckWithConfig creates custom check middleware with config
func RequireClaimsCheckWithConfig(checkFunc CheckClaimsFunc, cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, []string{"custom"}, "No authentication claims found")
			return
		}

		if !checkFunc(claims, c) {
			handleRoleDenied(c, cfg, []string{"custom"}, "Custom authorization check failed")
			return
		}

		c.Next()
	}
}
