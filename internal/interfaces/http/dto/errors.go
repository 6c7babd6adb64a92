package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes used by handlers and middleware for
// failures that never reach the application layer.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes absent from the map fall back to GetHTTPStatus's prefix rules.
var ErrorCodeHTTPStatus = map[string]int{
	// 400 Bad Request
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	"CAPTCHA_FAILED":   http.StatusBadRequest,

	// 401 Unauthorized
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_INVALID":       http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":   http.StatusUnauthorized,
	"SESSION_REVOKED":     http.StatusUnauthorized,

	// 403 Forbidden
	ErrCodeForbidden:         http.StatusForbidden,
	"BRAND_SUSPENDED":        http.StatusForbidden,
	"BRAND_INACTIVE":         http.StatusForbidden,
	"ACCOUNT_LOCKED":         http.StatusForbidden,
	"ACCOUNT_INACTIVE":       http.StatusForbidden,
	"ACCOUNT_DEACTIVATED":    http.StatusForbidden,
	"ACCOUNT_PENDING":        http.StatusForbidden,
	"USER_DEACTIVATED":       http.StatusForbidden,
	"CANNOT_DEACTIVATE_SELF": http.StatusForbidden,
	"QUOTA_EXCEEDED":         http.StatusForbidden,

	// 404 Not Found
	ErrCodeNotFound:          http.StatusNotFound,
	"BRAND_NOT_FOUND":        http.StatusNotFound,
	"USER_NOT_FOUND":         http.StatusNotFound,
	"MANUFACTURER_NOT_FOUND": http.StatusNotFound,
	"PARTNERSHIP_NOT_FOUND":  http.StatusNotFound,
	"CERTIFICATE_NOT_FOUND":  http.StatusNotFound,
	"MEDIA_NOT_FOUND":        http.StatusNotFound,
	"NOTIFICATION_NOT_FOUND": http.StatusNotFound,
	"SESSION_NOT_FOUND":      http.StatusNotFound,
	"UPLOAD_NOT_FOUND":       http.StatusNotFound,

	// 409 Conflict
	ErrCodeConflict:         http.StatusConflict,
	"ALREADY_EXISTS":        http.StatusConflict,
	"CODE_EXISTS":           http.StatusConflict,
	"EMAIL_EXISTS":          http.StatusConflict,
	"USERNAME_EXISTS":       http.StatusConflict,
	"PARTNERSHIP_EXISTS":    http.StatusConflict,
	"ALREADY_ACTIVE":        http.StatusConflict,
	"ALREADY_INACTIVE":      http.StatusConflict,
	"ALREADY_SUSPENDED":     http.StatusConflict,
	"ALREADY_DEACTIVATED":   http.StatusConflict,
	"ALREADY_REVOKED":       http.StatusConflict,
	"CONCURRENCY_CONFLICT":  http.StatusConflict,
	"OPTIMISTIC_LOCK_ERROR": http.StatusConflict,
	"CERTIFICATE_ON_CHAIN":  http.StatusConflict,
	"MEDIA_NOT_READY":       http.StatusConflict,

	// 413 Payload Too Large
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	"FILE_TOO_LARGE":       http.StatusRequestEntityTooLarge,

	// 415 Unsupported Media Type
	"UNSUPPORTED_CONTENT_TYPE": http.StatusUnsupportedMediaType,

	// 422 Unprocessable Entity
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"MINT_ATTEMPTS_EXHAUSTED": http.StatusUnprocessableEntity,
	"MANUFACTURER_NOT_LISTED": http.StatusUnprocessableEntity,
	"BLOCKCHAIN_REJECTED":     http.StatusUnprocessableEntity,
	"EXTENSION_MISMATCH":      http.StatusUnprocessableEntity,

	// 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// 500 Internal Server Error
	ErrCodeInternal: http.StatusInternalServerError,

	// 503 Service Unavailable
	"BLOCKCHAIN_UNAVAILABLE": http.StatusServiceUnavailable,
	"CAPTCHA_UNAVAILABLE":    http.StatusServiceUnavailable,
}

// GetHTTPStatus resolves a domain error code to its HTTP status.
// Validation-style codes (INVALID_*) default to 400; anything else
// unmapped is treated as an internal failure.
func GetHTTPStatus(errorCode string) int {
	if status, ok := ErrorCodeHTTPStatus[errorCode]; ok {
		return status
	}
	if strings.HasPrefix(errorCode, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
