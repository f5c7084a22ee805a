package mocks

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edulegal/internal/domain"
	"edulegal/internal/service/auth"
	"edulegal/internal/service/email"
	"edulegal/internal/service/storage"
)

type AuthService struct {
	mock.Mock
}

func (m *AuthService) Register(ctx context.Context, input domain.CreateUserInput, actor *domain.User) (*domain.User, string, error) {
	args := m.Called(ctx, input, actor)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *AuthService) Login(ctx context.Context, input domain.LoginInput) (*domain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *AuthService) IssueToken(userID uuid.UUID, role domain.Role) (string, error) {
	args := m.Called(userID, role)
	return args.String(0), args.Error(1)
}

func (m *AuthService) ValidateToken(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type ActivityService struct {
	mock.Mock
}

func (m *ActivityService) Record(ctx context.Context, input domain.CreateActivityInput) {
	m.Called(ctx, input)
}

func (m *ActivityService) Timeline(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error) {
	args := m.Called(ctx, caseID)
	return args.Get(0).([]domain.CaseActivity), args.Error(1)
}

func (m *ActivityService) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	args := m.Called(ctx, caseID)
	return args.Error(0)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).(domain.PaginatedResponse[domain.Notification]), args.Error(1)
}

func (m *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *NotificationService) NotifyNewCase(ctx context.Context, c *domain.Case) []domain.Notification {
	args := m.Called(ctx, c)
	return args.Get(0).([]domain.Notification)
}

func (m *NotificationService) NotifyCaseAssigned(ctx context.Context, c *domain.Case) []domain.Notification {
	args := m.Called(ctx, c)
	return args.Get(0).([]domain.Notification)
}

func (m *NotificationService) NotifyCaseStatusChanged(ctx context.Context, c *domain.Case, oldStatus domain.CaseStatus) []domain.Notification {
	args := m.Called(ctx, c, oldStatus)
	return args.Get(0).([]domain.Notification)
}

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendCaseAssignedEmail(ctx context.Context, to email.Recipient, caseTitle, caseID string) error {
	args := m.Called(ctx, to, caseTitle, caseID)
	return args.Error(0)
}

func (m *EmailService) SendCaseStatusEmail(ctx context.Context, to email.Recipient, caseTitle, caseID, status string) error {
	args := m.Called(ctx, to, caseTitle, caseID, status)
	return args.Error(0)
}

type StorageService struct {
	mock.Mock
}

func (m *StorageService) SaveUpload(ctx context.Context, dir string, fh *multipart.FileHeader) (*storage.StoredFile, error) {
	args := m.Called(ctx, dir, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StoredFile), args.Error(1)
}

func (m *StorageService) Open(ctx context.Context, storedPath string) (io.ReadCloser, error) {
	args := m.Called(ctx, storedPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *StorageService) Remove(ctx context.Context, storedPath string) error {
	args := m.Called(ctx, storedPath)
	return args.Error(0)
}

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) GetStats(ctx context.Context) (*domain.CaseStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CaseStats), args.Error(1)
}

func (m *DashboardService) Invalidate(ctx context.Context) {
	m.Called(ctx)
}
