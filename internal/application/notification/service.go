package notification

import (
	"context"
	"time"

	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles in-app notifications and their best-effort email copies
type Service struct {
	notificationRepo notification.Repository
	userRepo         identity.UserRepository
	emailSender      EmailSender
	logger           *zap.Logger
}

// NewService creates a new notification service
func NewService(
	notificationRepo notification.Repository,
	userRepo identity.UserRepository,
	emailSender EmailSender,
	logger *zap.Logger,
) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
		logger:           logger,
	}
}

// NotifyInput contains input for creating a notification
type NotifyInput struct {
	BrandID           uuid.UUID
	RecipientUserID   uuid.UUID
	Type              notification.Type
	Title             string
	Body              string
	RelatedEntityType string
	RelatedEntityID   uuid.UUID
	// SendEmail requests a best-effort email copy to the recipient
	SendEmail bool
}

// ListInput contains filter options for listing a user's notifications
type ListInput struct {
	Type       string
	UnreadOnly bool
	Page       int
	PageSize   int
}

// NotificationDTO represents notification data transfer object
type NotificationDTO struct {
	ID                uuid.UUID  `json:"id"`
	BrandID           uuid.UUID  `json:"brand_id"`
	RecipientUserID   uuid.UUID  `json:"recipient_user_id"`
	Type              string     `json:"type"`
	Title             string     `json:"title"`
	Body              string     `json:"body,omitempty"`
	Read              bool       `json:"read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   *uuid.UUID `json:"related_entity_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

// ListResult represents a paginated notification list
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	Total         int64             `json:"total"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalPages    int               `json:"total_pages"`
}

// Notify creates an in-app notification for one user. When SendEmail is
// set and the recipient has an email address, an email copy goes out
// best-effort: delivery failures are logged and never fail the call.
func (s *Service) Notify(ctx context.Context, input NotifyInput) (*NotificationDTO, error) {
	n, err := notification.NewNotification(input.BrandID, input.RecipientUserID, input.Type, input.Title, input.Body)
	if err != nil {
		return nil, err
	}
	n.WithRelatedEntity(input.RelatedEntityType, input.RelatedEntityID)

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.String("recipient_user_id", input.RecipientUserID.String()),
			zap.String("type", string(input.Type)),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create notification")
	}

	if input.SendEmail {
		s.sendEmailCopy(ctx, n)
	}

	s.logger.Debug("Notification created",
		zap.String("notification_id", n.ID.String()),
		zap.String("type", string(n.Type)))

	return toNotificationDTO(n), nil
}

// NotifyBrandAdmins fans one notification out to every active owner and
// admin of a brand. Returns how many notifications were created.
func (s *Service) NotifyBrandAdmins(ctx context.Context, brandID uuid.UUID, notificationType notification.Type, title, body, relatedEntityType string, relatedEntityID uuid.UUID) (int, error) {
	activeStatus := identity.UserStatusActive
	filter := identity.NewUserFilter().WithPagination(1, 100)
	filter.Status = &activeStatus

	users, _, err := s.userRepo.FindAll(ctx, brandID, filter)
	if err != nil {
		s.logger.Error("Failed to find brand admins for notification",
			zap.String("brand_id", brandID.String()),
			zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to find notification recipients")
	}

	notifications := make([]*notification.Notification, 0, len(users))
	for _, u := range users {
		if !u.Role.CanManageUsers() {
			continue
		}
		n, err := notification.NewNotification(brandID, u.ID, notificationType, title, body)
		if err != nil {
			return 0, err
		}
		n.WithRelatedEntity(relatedEntityType, relatedEntityID)
		notifications = append(notifications, n)
	}

	if len(notifications) == 0 {
		s.logger.Warn("Brand has no active admins to notify",
			zap.String("brand_id", brandID.String()),
			zap.String("type", string(notificationType)))
		return 0, nil
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		s.logger.Error("Failed to create admin notifications",
			zap.String("brand_id", brandID.String()),
			zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to create notifications")
	}

	for _, n := range notifications {
		s.sendEmailCopy(ctx, n)
	}

	s.logger.Info("Brand admins notified",
		zap.String("brand_id", brandID.String()),
		zap.String("type", string(notificationType)),
		zap.Int("recipients", len(notifications)))

	return len(notifications), nil
}

// ListForUser retrieves a user's notifications with filtering and pagination
func (s *Service) ListForUser(ctx context.Context, brandID, userID uuid.UUID, input ListInput) (*ListResult, error) {
	filter := notification.NewFilter().
		WithPage(input.Page).
		WithPageSize(input.PageSize)
	if input.Type != "" {
		filter = filter.WithType(notification.Type(input.Type))
	}
	if input.UnreadOnly {
		filter = filter.WithUnreadOnly()
	}

	notifications, total, err := s.notificationRepo.FindForUser(ctx, brandID, userID, filter)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}

	pageSize := filter.Limit()
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = *toNotificationDTO(n)
	}

	return &ListResult{
		Notifications: dtos,
		Total:         total,
		Page:          filter.Page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
	}, nil
}

// UnreadCount returns the number of unread notifications for a user
func (s *Service) UnreadCount(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	count, err := s.notificationRepo.CountUnread(ctx, brandID, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count unread notifications")
	}
	return count, nil
}

// MarkRead marks one notification as read. Repeat calls are idempotent.
func (s *Service) MarkRead(ctx context.Context, brandID, userID, id uuid.UUID) (*NotificationDTO, error) {
	n, err := s.notificationRepo.FindByID(ctx, brandID, id)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewDomainError("NOTIFICATION_NOT_FOUND", "Notification not found")
		}
		s.logger.Error("Failed to find notification", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find notification")
	}

	if !n.IsFor(userID) {
		return nil, shared.ErrForbidden
	}

	if n.Read {
		return toNotificationDTO(n), nil
	}

	n.MarkRead()
	if err := s.notificationRepo.Update(ctx, n); err != nil {
		s.logger.Error("Failed to mark notification read", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update notification")
	}

	return toNotificationDTO(n), nil
}

// MarkAllRead marks every unread notification of a user as read and
// returns how many changed
func (s *Service) MarkAllRead(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	changed, err := s.notificationRepo.MarkAllRead(ctx, brandID, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications read", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to update notifications")
	}

	s.logger.Debug("Marked all notifications read",
		zap.String("user_id", userID.String()),
		zap.Int64("changed", changed))

	return changed, nil
}

// sendEmailCopy emails the notification to its recipient when they have
// an address on file. Failures are logged at Warn; the in-app row is the
// source of truth.
func (s *Service) sendEmailCopy(ctx context.Context, n *notification.Notification) {
	user, err := s.userRepo.FindByID(ctx, n.RecipientUserID)
	if err != nil {
		s.logger.Warn("Skipping notification email, recipient lookup failed",
			zap.String("recipient_user_id", n.RecipientUserID.String()),
			zap.Error(err))
		return
	}
	if user.Email == "" {
		return
	}

	if err := s.emailSender.Send(ctx, user.Email, n.Title, n.Body, ""); err != nil {
		s.logger.Warn("Failed to send notification email",
			zap.String("recipient_user_id", n.RecipientUserID.String()),
			zap.String("type", string(n.Type)),
			zap.Error(err))
	}
}

// toNotificationDTO converts a domain Notification to NotificationDTO
func toNotificationDTO(n *notification.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:                n.ID,
		BrandID:           n.BrandID,
		RecipientUserID:   n.RecipientUserID,
		Type:              string(n.Type),
		Title:             n.Title,
		Body:              n.Body,
		Read:              n.Read,
		ReadAt:            n.ReadAt,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		CreatedAt:         n.CreatedAt,
	}
}
