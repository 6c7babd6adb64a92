package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/brandcert/backend/internal/domain/identity"
	"github.com/brandcert/backend/internal/domain/notification"
	"github.com/brandcert/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock implementation of notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, ns []*notification.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, brandID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, brandID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindForUser(ctx context.Context, brandID, userID uuid.UUID, filter notification.Filter) ([]*notification.Notification, int64, error) {
	args := m.Called(ctx, brandID, userID, filter)
	return args.Get(0).([]*notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, brandID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, brandID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, brandID, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, brandID uuid.UUID, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, brandID, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByBrand(ctx context.Context, brandID uuid.UUID) (int64, error) {
	args := m.Called(ctx, brandID)
	return args.Get(0).(int64), args.Error(1)
}

// spySender records sent emails and can be told to fail
type spySender struct {
	sent []spyEmail
	err  error
}

type spyEmail struct {
	To      string
	Subject string
}

func (s *spySender) Send(_ context.Context, to, subject, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, spyEmail{To: to, Subject: subject})
	return nil
}

func newTestUser(t *testing.T, brandID uuid.UUID, username, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewActiveUser(brandID, username, "Password123", role)
	require.NoError(t, err)
	if email != "" {
		require.NoError(t, user.SetEmail(email))
	}
	return user
}

func TestService_Notify_CreatesNotification(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	recipient := newTestUser(t, brandID, "alice", "alice@example.com", identity.RoleMember)

	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &spySender{}

	repo.On("Create", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	userRepo.On("FindByID", ctx, recipient.ID).Return(recipient, nil)

	svc := NewService(repo, userRepo, sender, zap.NewNop())

	dto, err := svc.Notify(ctx, NotifyInput{
		BrandID:         brandID,
		RecipientUserID: recipient.ID,
		Type:            notification.TypeCertificateMinted,
		Title:           "Certificate BC-2025-00a1b2c3d4 minted",
		Body:            "The certificate is now on chain.",
		SendEmail:       true,
	})

	require.NoError(t, err)
	assert.Equal(t, "certificate_minted", dto.Type)
	assert.False(t, dto.Read)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0].To)
	repo.AssertExpectations(t)
}

func TestService_Notify_EmailFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	recipient := newTestUser(t, brandID, "alice", "alice@example.com", identity.RoleMember)

	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &spySender{err: errors.New("smtp down")}

	repo.On("Create", ctx, mock.Anything).Return(nil)
	userRepo.On("FindByID", ctx, recipient.ID).Return(recipient, nil)

	svc := NewService(repo, userRepo, sender, zap.NewNop())

	dto, err := svc.Notify(ctx, NotifyInput{
		BrandID:         brandID,
		RecipientUserID: recipient.ID,
		Type:            notification.TypeSystem,
		Title:           "Maintenance window",
		SendEmail:       true,
	})

	require.NoError(t, err)
	assert.NotNil(t, dto)
	assert.Empty(t, sender.sent)
}

func TestService_Notify_InvalidType(t *testing.T) {
	ctx := context.Background()

	svc := NewService(new(MockNotificationRepository), new(MockUserRepository), &spySender{}, zap.NewNop())

	_, err := svc.Notify(ctx, NotifyInput{
		BrandID:         uuid.New(),
		RecipientUserID: uuid.New(),
		Type:            notification.Type("bogus"),
		Title:           "x",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TYPE", domainErr.Code)
}

func TestService_NotifyBrandAdmins_FansOutToManagers(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()

	owner := newTestUser(t, brandID, "owner", "owner@example.com", identity.RoleOwner)
	admin := newTestUser(t, brandID, "admin", "", identity.RoleAdmin)
	member := newTestUser(t, brandID, "member", "member@example.com", identity.RoleMember)

	repo := new(MockNotificationRepository)
	userRepo := new(MockUserRepository)
	sender := &spySender{}

	userRepo.On("FindAll", ctx, brandID, mock.AnythingOfType("identity.UserFilter")).
		Return([]*identity.User{owner, admin, member}, int64(3), nil)
	userRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
	userRepo.On("FindByID", ctx, admin.ID).Return(admin, nil)
	repo.On("CreateBatch", ctx, mock.MatchedBy(func(ns []*notification.Notification) bool {
		return len(ns) == 2
	})).Return(nil)

	svc := NewService(repo, userRepo, sender, zap.NewNop())

	count, err := svc.NotifyBrandAdmins(ctx, brandID, notification.TypeSecurityAlert,
		"Suspicious activity detected", "Multiple failed logins.", "user", member.ID)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	// Only the owner has an email address on file
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "owner@example.com", sender.sent[0].To)
	repo.AssertExpectations(t)
}

func TestService_MarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	userID := uuid.New()

	n, err := notification.NewNotification(brandID, userID, notification.TypeSystem, "Hello", "")
	require.NoError(t, err)
	n.MarkRead()
	readAt := *n.ReadAt

	repo := new(MockNotificationRepository)
	repo.On("FindByID", ctx, brandID, n.ID).Return(n, nil)

	svc := NewService(repo, new(MockUserRepository), &spySender{}, zap.NewNop())

	dto, err := svc.MarkRead(ctx, brandID, userID, n.ID)

	require.NoError(t, err)
	assert.True(t, dto.Read)
	assert.Equal(t, readAt, *dto.ReadAt)
	// No Update call expected for an already-read notification
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_MarkRead_WrongRecipient(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()

	n, err := notification.NewNotification(brandID, uuid.New(), notification.TypeSystem, "Hello", "")
	require.NoError(t, err)

	repo := new(MockNotificationRepository)
	repo.On("FindByID", ctx, brandID, n.ID).Return(n, nil)

	svc := NewService(repo, new(MockUserRepository), &spySender{}, zap.NewNop())

	_, err = svc.MarkRead(ctx, brandID, uuid.New(), n.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "FORBIDDEN", domainErr.Code)
}

func TestService_MarkRead_NotFound(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	id := uuid.New()

	repo := new(MockNotificationRepository)
	repo.On("FindByID", ctx, brandID, id).Return(nil, shared.ErrNotFound)

	svc := NewService(repo, new(MockUserRepository), &spySender{}, zap.NewNop())

	_, err := svc.MarkRead(ctx, brandID, uuid.New(), id)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOTIFICATION_NOT_FOUND", domainErr.Code)
}

func TestService_ListForUser_Paginates(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	userID := uuid.New()

	n1, _ := notification.NewNotification(brandID, userID, notification.TypeSystem, "One", "")
	n2, _ := notification.NewNotification(brandID, userID, notification.TypeSystem, "Two", "")

	repo := new(MockNotificationRepository)
	repo.On("FindForUser", ctx, brandID, userID, mock.AnythingOfType("notification.Filter")).
		Return([]*notification.Notification{n1, n2}, int64(42), nil)

	svc := NewService(repo, new(MockUserRepository), &spySender{}, zap.NewNop())

	result, err := svc.ListForUser(ctx, brandID, userID, ListInput{Page: 1, PageSize: 20})

	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, int64(42), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	brandID := uuid.New()
	userID := uuid.New()

	repo := new(MockNotificationRepository)
	repo.On("CountUnread", ctx, brandID, userID).Return(int64(7), nil)

	svc := NewService(repo, new(MockUserRepository), &spySender{}, zap.NewNop())

	count, err := svc.UnreadCount(ctx, brandID, userID)

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}
