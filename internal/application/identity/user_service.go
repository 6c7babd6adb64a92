package identity

import (
	"context"

	securityapp "github.com/brandcert/backend/internal/application/security"
	"github.com/brandcert/backend/internal/domain/brand"
	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/security"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService handles team member management within a brand
type UserService struct {
	userRepo  identity.UserRepository
	brandRepo brand.Repository
	security  *securityapp.Service
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	brandRepo brand.Repository,
	securityService *securityapp.Service,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		brandRepo: brandRepo,
		security:  securityService,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// Create adds a team member to the brand, enforcing the plan's user quota
func (s *UserService) Create(ctx context.Context, brandID uuid.UUID, input CreateUserInput) (*UserInfo, error) {
	role := identity.Role(input.Role)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == identity.RoleOwner {
		return nil, shared.NewDomainError("INVALID_ROLE", "Cannot create another owner account")
	}

	b, err := s.brandRepo.FindByID(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to load brand", zap.String("brand_id", brandID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load brand")
	}

	userCount, err := s.userRepo.CountByBrand(ctx, brandID)
	if err != nil {
		s.logger.Error("Failed to count users", zap.String("brand_id", brandID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count users")
	}
	if !b.CanAddUser(int(userCount)) {
		return nil, shared.NewDomainError("QUOTA_EXCEEDED", "User limit for the current plan has been reached")
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

	user, err := identity.NewActiveUser(brandID, input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := user.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.CreatedBy != uuid.Nil {
		user.SetCreatedBy(input.CreatedBy)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("username", input.Username), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create user")
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("brand_id", brandID.String()),
		zap.String("role", string(user.Role)))

	info := toUserInfo(user)
	return &info, nil
}

// GetByID retrieves one of the brand's users
func (s *UserService) GetByID(ctx context.Context, brandID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// List returns the brand's users with filters and pagination
func (s *UserService) List(ctx context.Context, brandID uuid.UUID, input ListUsersInput) (*UserListResult, error) {
	filter := identity.NewUserFilter().
		WithPagination(input.Page, input.PageSize).
		WithSorting(input.SortBy, input.SortDir)
	if input.Keyword != "" {
		filter = filter.WithKeyword(input.Keyword)
	}
	if input.Role != "" {
		filter = filter.WithRole(identity.Role(input.Role))
	}
	if input.Status != "" {
		filter = filter.WithStatus(identity.UserStatus(input.Status))
	}

	users, total, err := s.userRepo.FindAll(ctx, brandID, filter)
	if err != nil {
		s.logger.Error("Failed to list users", zap.String("brand_id", brandID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list users")
	}

	infos := make([]UserInfo, len(users))
	for i, user := range users {
		infos[i] = toUserInfo(user)
	}

	totalPages := int(total) / filter.Limit()
	if int(total)%filter.Limit() > 0 {
		totalPages++
	}

	return &UserListResult{
		Users:      infos,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
		TotalPages: totalPages,
	}, nil
}

// Update applies partial profile changes to a user
func (s *UserService) Update(ctx context.Context, brandID, userID uuid.UUID, input UpdateUserInput) (*UserInfo, error) {
	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if *input.Email != "" {
			emailExists, err := s.userRepo.ExistsByEmail(ctx, *input.Email)
			if err != nil {
				s.logger.Error("Failed to check email", zap.Error(err))
				return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email")
			}
			if emailExists {
				return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
			}
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.AvatarURL != nil {
		if err := user.SetAvatarURL(*input.AvatarURL); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	info := toUserInfo(user)
	return &info, nil
}

// ChangeRole changes a user's role within the brand. The owner role can
// neither be assigned nor taken away here.
func (s *UserService) ChangeRole(ctx context.Context, brandID, userID uuid.UUID, newRole string) (*UserInfo, error) {
	role := identity.Role(newRole)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == identity.RoleOwner {
		return nil, shared.NewDomainError("INVALID_ROLE", "Ownership cannot be assigned through role changes")
	}

	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == identity.RoleOwner {
		return nil, shared.NewDomainError("FORBIDDEN", "The owner's role cannot be changed")
	}

	if err := user.ChangeRole(role); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user role", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User role changed",
		zap.String("user_id", userID.String()),
		zap.String("role", string(role)))

	info := toUserInfo(user)
	return &info, nil
}

// Activate re-activates a deactivated or pending user
func (s *UserService) Activate(ctx context.Context, brandID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Activate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to activate user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	s.publishEvents(ctx, user)

	info := toUserInfo(user)
	return &info, nil
}

// Deactivate disables a user account and revokes all of their sessions
func (s *UserService) Deactivate(ctx context.Context, brandID, userID, actorID uuid.UUID) (*UserInfo, error) {
	if userID == actorID {
		return nil, shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}

	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == identity.RoleOwner {
		return nil, shared.NewDomainError("FORBIDDEN", "The owner account cannot be deactivated")
	}

	if err := user.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to deactivate user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	if _, err := s.security.RevokeAllSessions(ctx, brandID, userID, security.RevokeReasonAdmin); err != nil {
		s.logger.Warn("Failed to revoke sessions for deactivated user",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}

	s.publishEvents(ctx, user)

	s.logger.Info("User deactivated",
		zap.String("user_id", userID.String()),
		zap.String("actor_id", actorID.String()))

	info := toUserInfo(user)
	return &info, nil
}

// Unlock clears a lockout before its timer expires
func (s *UserService) Unlock(ctx context.Context, brandID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.findBrandUser(ctx, brandID, userID)
	if err != nil {
		return nil, err
	}

	if err := user.Unlock(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to unlock user", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	if _, err := s.security.RecordEvent(ctx, securityapp.RecordEventInput{
		BrandID:     brandID,
		UserID:      &userID,
		Type:        security.EventAccountUnlocked,
		Description: "Account unlocked by an administrator",
	}); err != nil {
		s.logger.Warn("Failed to record unlock event", zap.Error(err))
	}

	s.publishEvents(ctx, user)

	info := toUserInfo(user)
	return &info, nil
}

// ResetPassword sets a new password administratively. The user must change
// it on their next login, and every existing session is revoked.
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.findBrandUser(ctx, input.BrandID, input.UserID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	user.ForcePasswordChange()

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to reset password", zap.String("user_id", input.UserID.String()), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update user")
	}

	if _, err := s.security.RevokeAllSessions(ctx, input.BrandID, input.UserID, security.RevokeReasonAdmin); err != nil {
		s.logger.Warn("Failed to revoke sessions after password reset",
			zap.String("user_id", input.UserID.String()),
			zap.Error(err))
	}

	s.publishEvents(ctx, user)

	s.logger.Info("Password reset",
		zap.String("user_id", input.UserID.String()),
		zap.String("reset_by", input.ResetBy.String()))

	return nil
}

// findBrandUser loads a user and confirms they belong to the brand.
// Users outside the brand are reported as missing.
func (s *UserService) findBrandUser(ctx context.Context, brandID, userID uuid.UUID) (*identity.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user.BrandID != brandID {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return user, nil
}

func (s *UserService) publishEvents(ctx context.Context, carriers ...eventCarrier) {
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
