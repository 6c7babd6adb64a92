package security

import (
	"context"
	"fmt"
	"time"

	notificationapp "github.com/brandcert/backend/internal/application/notification"
	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/brandcert/backend/internal/infrastructure/auth"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Cache keys and TTLs. The summary backs a dashboard widget, so a short TTL
// keeps it cheap without going stale; the suspicion marker suppresses
// duplicate admin alerts while an incident is still fresh.
const (
	summaryCachePrefix   = "security:summary:"
	summaryCacheTTL      = time.Minute
	suspicionCachePrefix = "security:suspicious:"
	suspicionCacheTTL    = 30 * time.Minute
)

// ServiceConfig tunes suspicious-activity thresholds and session handling
type ServiceConfig struct {
	SuspiciousFailedLogins  int
	SuspiciousDistinctIPs   int
	SuspiciousWarningEvents int
	// SessionTTL bounds how long revoked user tokens stay blacklisted;
	// it matches the refresh token lifetime.
	SessionTTL time.Duration
}

// Service owns the security audit log, risk scoring, suspicious-activity
// detection and server-side session tracking.
type Service struct {
	eventRepo     security.EventRepository
	sessionRepo   security.SessionRepository
	blacklistRepo security.BlacklistedTokenRepository
	blacklist     auth.TokenBlacklist
	userRepo      identity.UserRepository
	cache         cache.Cache
	notifier      *notificationapp.Service
	config        ServiceConfig
	logger        *zap.Logger
}

// NewService creates a security service. Zero config values fall back to
// the built-in thresholds.
func NewService(
	eventRepo security.EventRepository,
	sessionRepo security.SessionRepository,
	blacklistRepo security.BlacklistedTokenRepository,
	blacklist auth.TokenBlacklist,
	userRepo identity.UserRepository,
	cacheClient cache.Cache,
	notifier *notificationapp.Service,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	if config.SuspiciousFailedLogins <= 0 {
		config.SuspiciousFailedLogins = security.SuspiciousFailedLoginThreshold
	}
	if config.SuspiciousDistinctIPs <= 0 {
		config.SuspiciousDistinctIPs = security.SuspiciousDistinctIPThreshold
	}
	if config.SuspiciousWarningEvents <= 0 {
		config.SuspiciousWarningEvents = security.SuspiciousWarningEventThreshold
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 168 * time.Hour
	}

	return &Service{
		eventRepo:     eventRepo,
		sessionRepo:   sessionRepo,
		blacklistRepo: blacklistRepo,
		blacklist:     blacklist,
		userRepo:      userRepo,
		cache:         cacheClient,
		notifier:      notifier,
		config:        config,
		logger:        logger,
	}
}

// RecordEventInput carries the facts of a security-relevant action
type RecordEventInput struct {
	BrandID uuid.UUID
	UserID  *uuid.UUID
	Type    security.EventType
	// Severity overrides the default for the event type when set
	Severity    security.Severity
	IP          string
	UserAgent   string
	Description string
	Metadata    map[string]any
}

// EventDTO is the API view of a security event
type EventDTO struct {
	ID          uuid.UUID      `json:"id"`
	BrandID     uuid.UUID      `json:"brand_id"`
	UserID      *uuid.UUID     `json:"user_id,omitempty"`
	Type        string         `json:"type"`
	Severity    string         `json:"severity"`
	IP          string         `json:"ip"`
	UserAgent   string         `json:"user_agent"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	RiskScore   int            `json:"risk_score"`
	CreatedAt   time.Time      `json:"created_at"`
}

// EventListResult is a paginated list of security events
type EventListResult struct {
	Events     []EventDTO `json:"events"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// ListEventsInput contains filter options for the audit log
type ListEventsInput struct {
	UserID   *uuid.UUID
	Type     string
	Severity string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
}

// RecordEvent appends one event to the audit log, scoring its risk from
// what is known about the user
func (s *Service) RecordEvent(ctx context.Context, input RecordEventInput) (*EventDTO, error) {
	event, err := security.NewEvent(input.BrandID, input.UserID, input.Type, input.IP, input.UserAgent, input.Description)
	if err != nil {
		return nil, err
	}
	if input.Severity != "" {
		event.WithSeverity(input.Severity)
	}
	if len(input.Metadata) > 0 {
		event.WithMetadata(input.Metadata)
	}
	event.WithRiskScore(s.scoreEvent(ctx, input))

	if err := s.eventRepo.Create(ctx, event); err != nil {
		s.logger.Error("Failed to record security event",
			zap.String("type", string(input.Type)),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to record security event")
	}

	dto := toEventDTO(event)
	return &dto, nil
}

// scoreEvent gathers the risk signals: the IP of the user's last successful
// login and the user agents of their active sessions. Lookups are
// best-effort; a missing user simply contributes no signal.
func (s *Service) scoreEvent(ctx context.Context, input RecordEventInput) int {
	riskInput := security.RiskInput{
		EventType: input.Type,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		At:        time.Now(),
	}

	if input.UserID != nil {
		if user, err := s.userRepo.FindByID(ctx, *input.UserID); err == nil {
			riskInput.LastKnownIP = user.LastLoginIP
		}
		if sessions, err := s.sessionRepo.FindActiveByUser(ctx, *input.UserID); err == nil {
			for _, session := range sessions {
				if session.UserAgent != "" {
					riskInput.KnownUserAgents = append(riskInput.KnownUserAgents, session.UserAgent)
				}
			}
		}
	}

	return security.RiskScore(riskInput)
}

// ListEvents returns a brand's audit log page
func (s *Service) ListEvents(ctx context.Context, brandID uuid.UUID, input ListEventsInput) (*EventListResult, error) {
	filter := security.NewEventFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir).
		WithTimeRange(input.From, input.To)
	if input.UserID != nil {
		filter = filter.WithUser(*input.UserID)
	}
	if input.Type != "" {
		filter = filter.WithType(security.EventType(input.Type))
	}
	if input.Severity != "" {
		filter = filter.WithSeverity(security.Severity(input.Severity))
	}

	events, total, err := s.eventRepo.FindAll(ctx, brandID, filter)
	if err != nil {
		s.logger.Error("Failed to list security events",
			zap.String("brand_id", brandID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list security events")
	}

	dtos := make([]EventDTO, len(events))
	for i, event := range events {
		dtos[i] = toEventDTO(event)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &EventListResult{
		Events:     dtos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages,
	}, nil
}

// Summary aggregates a brand's security events over the trailing window
func (s *Service) Summary(ctx context.Context, brandID uuid.UUID, window time.Duration) (*security.EventSummary, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}

	cacheKey := fmt.Sprintf("%s%s:%s", summaryCachePrefix, brandID, window)
	var cached security.EventSummary
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	summary, err := s.eventRepo.Summarize(ctx, brandID, time.Now().Add(-window))
	if err != nil {
		s.logger.Error("Failed to summarize security events",
			zap.String("brand_id", brandID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to summarize security events")
	}

	if err := s.cache.Set(ctx, cacheKey, summary, summaryCacheTTL); err != nil {
		s.logger.Warn("Failed to cache security summary", zap.Error(err))
	}

	return summary, nil
}

// DetectSuspiciousActivity checks a user's recent history against the
// detection thresholds: repeated failed logins, logins from many distinct
// IPs, and an accumulation of warning-grade events. Tripping any threshold
// records a suspicious_activity event and alerts the brand's admins;
// repeat alerts for the same user are suppressed while the marker is fresh.
func (s *Service) DetectSuspiciousActivity(ctx context.Context, brandID, userID uuid.UUID, ip, userAgent string) (bool, error) {
	now := time.Now()
	reasons := make(map[string]any)

	failed, err := s.eventRepo.CountByUserAndType(ctx, userID, security.EventLoginFailed, now.Add(-security.SuspiciousFailedLoginWindow))
	if err != nil {
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to inspect security events")
	}
	if failed >= int64(s.config.SuspiciousFailedLogins) {
		reasons["failed_logins"] = failed
	}

	distinctIPs, err := s.eventRepo.CountDistinctIPs(ctx, userID, now.Add(-security.SuspiciousDistinctIPWindow))
	if err != nil {
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to inspect security events")
	}
	if distinctIPs >= int64(s.config.SuspiciousDistinctIPs) {
		reasons["distinct_ips"] = distinctIPs
	}

	warnings, err := s.eventRepo.CountBySeverityAtLeast(ctx, userID, security.SeverityWarning, now.Add(-security.SuspiciousWarningEventWindow))
	if err != nil {
		return false, shared.NewDomainError("INTERNAL_ERROR", "Failed to inspect security events")
	}
	if warnings >= int64(s.config.SuspiciousWarningEvents) {
		reasons["warning_events"] = warnings
	}

	if len(reasons) == 0 {
		return false, nil
	}

	suppressKey := suspicionCachePrefix + userID.String()
	var flagged bool
	if found, err := s.cache.Get(ctx, suppressKey, &flagged); err == nil && found {
		return true, nil
	}
	if err := s.cache.Set(ctx, suppressKey, true, suspicionCacheTTL); err != nil {
		s.logger.Warn("Failed to set suspicion marker", zap.Error(err))
	}

	username := userID.String()
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		username = user.Username
	}

	if _, err := s.RecordEvent(ctx, RecordEventInput{
		BrandID:     brandID,
		UserID:      &userID,
		Type:        security.EventSuspiciousActivity,
		IP:          ip,
		UserAgent:   userAgent,
		Description: fmt.Sprintf("Suspicious activity detected for %s", username),
		Metadata:    reasons,
	}); err != nil {
		s.logger.Error("Failed to record suspicious activity event", zap.Error(err))
	}

	if _, err := s.notifier.NotifyBrandAdmins(ctx, brandID, notification.TypeSecurityAlert,
		fmt.Sprintf("Suspicious activity on account %s", username),
		fmt.Sprintf("Security thresholds were exceeded for %s. Review the recent security events and consider revoking the account's sessions.", username),
		"user", userID); err != nil {
		s.logger.Error("Failed to notify brand admins about suspicious activity", zap.Error(err))
	}

	s.logger.Warn("Suspicious activity detected",
		zap.String("brand_id", brandID.String()),
		zap.String("user_id", userID.String()),
		zap.Any("reasons", reasons))

	return true, nil
}

func toEventDTO(event *security.Event) EventDTO {
	return EventDTO{
		ID:          event.ID,
		BrandID:     event.BrandID,
		UserID:      event.UserID,
		Type:        string(event.Type),
		Severity:    string(event.Severity),
		IP:          event.IP,
		UserAgent:   event.UserAgent,
		Description: event.Description,
		Metadata:    event.Metadata,
		RiskScore:   event.RiskScore,
		CreatedAt:   event.CreatedAt,
	}
}
