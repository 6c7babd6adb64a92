package identity

import (
	"context"
	"errors"
	"time"

	securityapp "github.com/brandcert/backend/internal/application/security"
	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/auth"
	"github.com/brandcert/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: identity.MaxFailedLoginAttempts,
		LockDuration:     identity.AccountLockDuration,
	}
}

// eventCarrier is the slice of an aggregate the services need for
// publishing its pending domain events
type eventCarrier interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// AuthService handles registration, login, token refresh and logout
type AuthService struct {
	userRepo   identity.UserRepository
	brandRepo  brand.Repository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	security   *securityapp.Service
	captcha    CaptchaVerifier
	metrics    *telemetry.BusinessMetrics
	eventBus   shared.EventPublisher
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	brandRepo brand.Repository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	securityService *securityapp.Service,
	captcha CaptchaVerifier,
	metrics *telemetry.BusinessMetrics,
	eventBus shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.MaxLoginAttempts <= 0 {
		config.MaxLoginAttempts = identity.MaxFailedLoginAttempts
	}
	if config.LockDuration <= 0 {
		config.LockDuration = identity.AccountLockDuration
	}

	return &AuthService{
		userRepo:   userRepo,
		brandRepo:  brandRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		security:   securityService,
		captcha:    captcha,
		metrics:    metrics,
		eventBus:   eventBus,
		config:     config,
		logger:     logger,
	}
}

// Register creates a new brand together with its owner account. The brand
// starts in pending status and activates on the owner's first login.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	s.logger.Info("Registration attempt",
		zap.String("brand_code", input.BrandCode),
		zap.String("username", input.Username))

	if err := s.verifyCaptcha(ctx, input.CaptchaToken, input.IP); err != nil {
		return nil, err
	}

	codeExists, err := s.brandRepo.ExistsByCode(ctx, input.BrandCode)
	if err != nil {
		s.logger.Error("Failed to check brand code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check brand code")
	}
	if codeExists {
		return nil, shared.NewDomainError("CODE_EXISTS", "Brand code is already taken")
	}

	usernameExists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check username")
	}
	if usernameExists {
		return nil, shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
	}

	if input.Email != "" {
		emailExists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
		if err != nil {
			s.logger.Error("Failed to check email", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email")
		}
		if emailExists {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
		}
	}

	industry := brand.Industry(input.Industry)
	if input.Industry == "" {
		industry = brand.IndustryOther
	}

	b, err := brand.NewBrand(input.BrandCode, input.BrandName, industry)
	if err != nil {
		return nil, err
	}

	owner, err := identity.NewActiveUser(b.ID, input.Username, input.Password, identity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := owner.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}

	if err := s.brandRepo.Create(ctx, b); err != nil {
		s.logger.Error("Failed to create brand", zap.String("brand_code", input.BrandCode), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create brand")
	}

	if err := s.userRepo.Create(ctx, owner); err != nil {
		s.logger.Error("Failed to create owner account", zap.String("username", input.Username), zap.Error(err))
		// Roll back the brand so the code is not burned by a half-finished registration
		b.MarkDeleted()
		if rollbackErr := s.brandRepo.Update(ctx, b); rollbackErr != nil {
			s.logger.Error("Failed to roll back brand after owner creation failure",
				zap.String("brand_id", b.ID.String()),
				zap.Error(rollbackErr))
		}
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create owner account")
	}

	s.publishEvents(ctx, b, owner)

	s.logger.Info("Brand registered",
		zap.String("brand_id", b.ID.String()),
		zap.String("brand_code", b.Code),
		zap.String("owner_id", owner.ID.String()))

	return &RegisterResult{
		Brand: toBrandSummary(b),
		User:  toUserInfo(owner),
	}, nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	if err := s.verifyCaptcha(ctx, input.CaptchaToken, input.IP); err != nil {
		if user, lookupErr := s.userRepo.FindByUsername(ctx, input.Username); lookupErr == nil {
			s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
				BrandID:     user.BrandID,
				UserID:      &user.ID,
				Type:        security.EventCaptchaFailed,
				IP:          input.IP,
				UserAgent:   input.UserAgent,
				Description: "Captcha verification failed during login",
			})
		}
		s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeBlocked)
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("username", input.Username))
		s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeFailed)
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
			BrandID:     user.BrandID,
			UserID:      &user.ID,
			Type:        security.EventLoginBlocked,
			IP:          input.IP,
			UserAgent:   input.UserAgent,
			Description: "Login blocked: account is " + string(user.Status),
		})
		s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeBlocked)

		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
		}
		if user.IsDeactivated() {
			s.logger.Warn("Login attempt for deactivated account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		if user.IsPending() {
			s.logger.Warn("Login attempt for pending account", zap.String("username", input.Username))
			return nil, shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
		}
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	b, err := s.brandRepo.FindByID(ctx, user.BrandID)
	if err != nil {
		s.logger.Error("Failed to load brand during login",
			zap.String("brand_id", user.BrandID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}
	if b.IsSuspended() || b.Status == brand.StatusInactive || b.DeletedAt != nil {
		s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
			BrandID:     user.BrandID,
			UserID:      &user.ID,
			Type:        security.EventLoginBlocked,
			IP:          input.IP,
			UserAgent:   input.UserAgent,
			Description: "Login blocked: brand is " + string(b.Status),
		})
		s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeBlocked)

		if b.IsSuspended() {
			s.logger.Warn("Login attempt for suspended brand", zap.String("brand_id", b.ID.String()))
			return nil, shared.NewDomainError("BRAND_SUSPENDED", "Brand account is suspended")
		}
		return nil, shared.NewDomainError("BRAND_INACTIVE", "Brand account is not active")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", input.Username),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
				BrandID:     user.BrandID,
				UserID:      &user.ID,
				Type:        security.EventAccountLocked,
				IP:          input.IP,
				UserAgent:   input.UserAgent,
				Description: "Account locked after repeated failed logins",
			})
			s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeBlocked)
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}

		s.logger.Warn("Invalid password attempt",
			zap.String("username", input.Username),
			zap.Int("failed_attempts", user.FailedAttempts))
		s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
			BrandID:     user.BrandID,
			UserID:      &user.ID,
			Type:        security.EventLoginFailed,
			IP:          input.IP,
			UserAgent:   input.UserAgent,
			Description: "Invalid password",
		})
		if _, err := s.security.DetectSuspiciousActivity(ctx, user.BrandID, user.ID, input.IP, input.UserAgent); err != nil {
			s.logger.Warn("Suspicious activity detection failed", zap.Error(err))
		}
		s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeFailed)
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		BrandID:       user.BrandID,
		UserID:        user.ID,
		Username:      user.Username,
		Role:          string(user.Role),
		PlatformAdmin: user.PlatformAdmin,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	if _, err := s.security.CreateSession(ctx, securityapp.CreateSessionInput{
		UserID:         user.ID,
		BrandID:        user.BrandID,
		AccessTokenID:  tokenPair.AccessTokenID,
		RefreshTokenID: tokenPair.RefreshTokenID,
		IP:             input.IP,
		UserAgent:      input.UserAgent,
		ExpiresAt:      tokenPair.RefreshTokenExpiresAt,
	}); err != nil {
		// Session tracking is best-effort; the tokens are already issued
		s.logger.Error("Failed to create session", zap.Error(err))
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
		// Don't fail the login - just log the error
	}

	// The first owner login completes registration
	if b.Status == brand.StatusPending && user.Role == identity.RoleOwner {
		if err := b.Activate(); err == nil {
			if err := s.brandRepo.Update(ctx, b); err != nil {
				s.logger.Error("Failed to activate brand on first login",
					zap.String("brand_id", b.ID.String()),
					zap.Error(err))
			} else {
				s.publishEvents(ctx, b)
				s.logger.Info("Brand activated on first owner login", zap.String("brand_id", b.ID.String()))
			}
		}
	}

	s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
		BrandID:     user.BrandID,
		UserID:      &user.ID,
		Type:        security.EventLoginSuccess,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		Description: "Logged in",
	})
	s.metrics.RecordLogin(ctx, telemetry.LoginOutcomeSuccess)

	s.logger.Info("User logged in successfully",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User:                  toUserInfo(user),
	}, nil
}

// RefreshToken rotates the token pair using a valid refresh token. The old
// pair is blacklisted through the session rotation so it cannot be replayed.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Warn("Blacklist check failed during refresh", zap.Error(err))
	} else if blacklisted {
		s.logger.Warn("Refresh attempted with a revoked token", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		s.logger.Error("Invalid user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		s.logger.Warn("User invalidation check failed during refresh", zap.Error(err))
	} else if invalidated {
		s.logger.Warn("Refresh attempted after user-wide token revocation", zap.String("user_id", claims.UserID))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Refresh token has been revoked")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	b, err := s.brandRepo.FindByID(ctx, user.BrandID)
	if err != nil {
		s.logger.Error("Failed to load brand during refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}
	if b.IsSuspended() {
		return nil, shared.NewDomainError("BRAND_SUSPENDED", "Brand account is suspended")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, user.Username, string(user.Role), user.PlatformAdmin)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	if err := s.security.RotateSession(ctx, claims.ID, tokenPair.AccessTokenID, tokenPair.RefreshTokenID, tokenPair.RefreshTokenExpiresAt); err != nil {
		// No tracked session for this token (e.g. issued before session
		// tracking, or already purged). Blacklist the spent refresh token
		// directly so it cannot be replayed.
		s.logger.Warn("Session rotation failed during refresh",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		s.security.BlacklistToken(ctx, claims.ID, user.ID, user.BrandID,
			security.TokenTypeRefresh, string(security.RevokeReasonRotation), claims.GetExpiresAtTime())
	}

	s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
		BrandID:     user.BrandID,
		UserID:      &user.ID,
		Type:        security.EventTokenRefreshed,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		Description: "Token pair rotated",
	})

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// Logout revokes the caller's session and blacklists its tokens. Logout
// never fails: revocation problems are logged and the client still drops
// its tokens.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout",
		zap.String("user_id", input.UserID.String()),
		zap.String("brand_id", input.BrandID.String()))

	if input.TokenID != "" {
		err := s.security.RevokeSessionByAccessToken(ctx, input.TokenID, security.RevokeReasonLogout)
		if errors.Is(err, shared.ErrNotFound) {
			// No tracked session; blacklist the access token directly,
			// audit row included
			s.security.BlacklistToken(ctx, input.TokenID, input.UserID, input.BrandID,
				security.TokenTypeAccess, string(security.RevokeReasonLogout), input.TokenExpiresAt)
		} else if err != nil {
			s.logger.Warn("Failed to revoke session on logout", zap.Error(err))
		}
	}

	s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
		BrandID:     input.BrandID,
		UserID:      &input.UserID,
		Type:        security.EventLogout,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		Description: "Logged out",
	})

	return nil
}

// ChangePassword changes a user's password and revokes every other session
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil || user.BrandID != input.BrandID {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	if _, err := s.security.RevokeAllSessions(ctx, user.BrandID, user.ID, security.RevokeReasonPasswordChange); err != nil {
		s.logger.Warn("Failed to revoke sessions after password change",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
	}

	s.recordSecurityEvent(ctx, securityapp.RecordEventInput{
		BrandID:     user.BrandID,
		UserID:      &user.ID,
		Type:        security.EventPasswordChanged,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		Description: "Password changed",
	})
	s.publishEvents(ctx, user)

	s.logger.Info("User password changed", zap.String("user_id", input.UserID.String()))

	return nil
}

// GetCurrentUser retrieves the authenticated user's own account
func (s *AuthService) GetCurrentUser(ctx context.Context, brandID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.BrandID != brandID {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	info := toUserInfo(user)
	return &info, nil
}

// verifyCaptcha checks the captcha token. An unreachable provider fails
// open: availability over a stricter gate the provider cannot back.
func (s *AuthService) verifyCaptcha(ctx context.Context, token, ip string) error {
	if err := s.captcha.Verify(ctx, token, ip); err != nil {
		if errors.Is(err, ErrCaptchaUnavailable) {
			s.logger.Warn("Captcha provider unavailable, allowing request")
			return nil
		}
		return err
	}
	return nil
}

// recordSecurityEvent appends to the audit log without failing the caller
func (s *AuthService) recordSecurityEvent(ctx context.Context, input securityapp.RecordEventInput) {
	if _, err := s.security.RecordEvent(ctx, input); err != nil {
		s.logger.Warn("Failed to record security event",
			zap.String("type", string(input.Type)),
			zap.Error(err))
	}
}

// publishEvents drains pending domain events onto the bus. Publish failures
// are logged; handlers are best-effort consumers.
func (s *AuthService) publishEvents(ctx context.Context, carriers ...eventCarrier) {
	for _, carrier := range carriers {
		events := carrier.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish domain events", zap.Error(err))
		}
		carrier.ClearDomainEvents()
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
	}
}
