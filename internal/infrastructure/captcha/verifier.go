// Package captcha verifies human-verification tokens against a
// siteverify-compatible provider. Turnstile, hCaptcha, and reCAPTCHA
// all share the same wire format, so one adapter covers the three.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	identityapp "github.com/brandcert/backend/internal/application/identity"
	infraconfig "github.com/brandcert/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// providerVerifyURLs maps provider names to their siteverify endpoints,
// used when the configuration does not override the URL.
var providerVerifyURLs = map[string]string{
	"turnstile": "https://challenges.cloudflare.com/turnstile/v0/siteverify",
	"hcaptcha":  "https://api.hcaptcha.com/siteverify",
	"recaptcha": "https://www.google.com/recaptcha/api/siteverify",
}

// Ensure Verifier implements the application port
var _ identityapp.CaptchaVerifier = (*Verifier)(nil)

// Verifier posts tokens to the provider's siteverify endpoint
type Verifier struct {
	secretKey  string
	verifyURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option is a functional option for configuring the Verifier
type Option func(*Verifier)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// NewVerifier creates a verifier from configuration
func NewVerifier(cfg *infraconfig.CaptchaConfig, opts ...Option) (*Verifier, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("captcha: secret key is required")
	}

	verifyURL := cfg.VerifyURL
	if verifyURL == "" {
		var ok bool
		verifyURL, ok = providerVerifyURLs[cfg.Provider]
		if !ok {
			return nil, fmt.Errorf("captcha: unknown provider %q", cfg.Provider)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	verifier := &Verifier{
		secretKey: cfg.SecretKey,
		verifyURL: verifyURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: zap.L().Named("captcha"),
	}

	for _, opt := range opts {
		opt(verifier)
	}

	return verifier, nil
}

// verifyResponse is the provider's siteverify answer
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks the token with the provider
func (v *Verifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: token is empty", identityapp.ErrCaptchaInvalid)
	}

	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("captcha: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Warn("captcha provider unreachable", zap.Error(err))
		return fmt.Errorf("%w: %v", identityapp.ErrCaptchaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		v.logger.Warn("captcha provider error", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: HTTP %d", identityapp.ErrCaptchaUnavailable, resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to parse response: %v", identityapp.ErrCaptchaUnavailable, err)
	}

	if !result.Success {
		v.logger.Info("captcha rejected", zap.Strings("error_codes", result.ErrorCodes))
		return fmt.Errorf("%w: %s", identityapp.ErrCaptchaInvalid, strings.Join(result.ErrorCodes, ", "))
	}

	return nil
}

// Noop is a verifier that accepts every token; it is wired when captcha
// verification is disabled.
type Noop struct{}

// Verify always passes
func (Noop) Verify(ctx context.Context, token, remoteIP string) error {
	return nil
}

var _ identityapp.CaptchaVerifier = Noop{}
