package identity

import (
	"context"

	"github.com/brandcert/backend/internal/domain/shared"
)

// Captcha verification errors. Invalid means the provider looked at the
// token and said no; Unavailable means the provider could not be asked.
// Login fails closed on the former and open on the latter.
var (
	ErrCaptchaInvalid     = shared.NewDomainError("CAPTCHA_FAILED", "Captcha verification failed")
	ErrCaptchaUnavailable = shared.NewDomainError("CAPTCHA_UNAVAILABLE", "Captcha provider is unreachable")
)

// CaptchaVerifier checks a human-verification token with the provider.
// Implementations live in the infrastructure layer.
type CaptchaVerifier interface {
	// Verify checks the token, returning ErrCaptchaInvalid when the
	// provider rejects it and ErrCaptchaUnavailable when the provider
	// cannot be reached.
	Verify(ctx context.Context, token, remoteIP string) error
}
