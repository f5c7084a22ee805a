package notification_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"edulegal/internal/domain"
	"edulegal/internal/mocks"
	"edulegal/internal/service/email"
	"edulegal/internal/service/notification"
)

func recipients(notifs []domain.Notification) []uuid.UUID {
	out := make([]uuid.UUID, len(notifs))
	for i, n := range notifs {
		out[i] = n.UserID
	}
	return out
}

func TestNotificationService_NotifyCaseStatusChanged(t *testing.T) {
	ctx := context.Background()
	admin := domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	officer := &domain.User{ID: uuid.New(), Name: "Olu", Email: "olu@example.com", Role: domain.RoleLegalOfficer,
		Preferences: domain.Preferences{EmailNotifications: true, Language: "fr"}}

	t.Run("Recipients are deduplicated", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		emailSvc := new(mocks.EmailService)
		svc := notification.NewService(notifRepo, userRepo, emailSvc)

		// The creator is also the assignee and an admin appears twice.
		c := &domain.Case{ID: uuid.New(), Title: "T", Status: domain.StatusClosed,
			AssignedToID: &officer.ID, CreatedByID: &officer.ID}

		userRepo.On("ListByRoles", ctx, []domain.Role{domain.RoleAdmin}).Return([]domain.User{admin, admin}, nil).Once()
		userRepo.On("GetByID", ctx, officer.ID).Return(officer, nil).Once()
		notifRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return !n.Read && n.Type == domain.NotifSuccess && n.RelatedEntityType == domain.EntityCase
		})).Return(nil).Twice()
		emailSvc.On("SendCaseStatusEmail", ctx, email.Recipient{Email: officer.Email, Name: officer.Name, Language: "fr"},
			"T", c.ID.String(), "closed").Return(nil).Once()

		created := svc.NotifyCaseStatusChanged(ctx, c, domain.StatusOpen)

		assert.Equal(t, []uuid.UUID{officer.ID, admin.ID}, recipients(created))
		notifRepo.AssertExpectations(t)
		emailSvc.AssertExpectations(t)
	})

	t.Run("Lookup failure yields an empty list", func(t *testing.T) {
		notifRepo := new(mocks.NotificationRepository)
		userRepo := new(mocks.UserRepository)
		svc := notification.NewService(notifRepo, userRepo, new(mocks.EmailService))
		userRepo.On("ListByRoles", ctx, []domain.Role{domain.RoleAdmin}).Return([]domain.User(nil), errors.New("db down")).Once()

		created := svc.NotifyCaseStatusChanged(ctx, &domain.Case{ID: uuid.New()}, domain.StatusOpen)

		assert.NotNil(t, created)
		assert.Empty(t, created)
		notifRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_NotifyCaseAssigned(t *testing.T) {
	ctx := context.Background()
	admin := domain.User{ID: uuid.New(), Role: domain.RoleAdmin}
	officer := &domain.User{ID: uuid.New(), Role: domain.RoleLegalOfficer,
		Preferences: domain.Preferences{EmailNotifications: false}}

	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	emailSvc := new(mocks.EmailService)
	svc := notification.NewService(notifRepo, userRepo, emailSvc)

	c := &domain.Case{ID: uuid.New(), Title: "T", AssignedToID: &officer.ID, AssignedTo: officer.Ref()}
	userRepo.On("ListByRoles", ctx, []domain.Role{domain.RoleAdmin}).Return([]domain.User{admin}, nil).Once()
	userRepo.On("GetByID", ctx, officer.ID).Return(officer, nil).Once()
	notifRepo.On("Create", ctx, mock.Anything).Return(errors.New("insert failed")).Once()
	notifRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

	created := svc.NotifyCaseAssigned(ctx, c)

	// The first insert failed; the second recipient still gets theirs.
	assert.Equal(t, []uuid.UUID{admin.ID}, recipients(created))
	emailSvc.AssertNotCalled(t, "SendCaseAssignedEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_NotifyNewCase(t *testing.T) {
	ctx := context.Background()
	staff := []domain.User{
		{ID: uuid.New(), Role: domain.RoleAdmin},
		{ID: uuid.New(), Role: domain.RoleLegalOfficer},
	}

	notifRepo := new(mocks.NotificationRepository)
	userRepo := new(mocks.UserRepository)
	svc := notification.NewService(notifRepo, userRepo, new(mocks.EmailService))
	userRepo.On("ListByRoles", ctx, []domain.Role{domain.RoleAdmin, domain.RoleLegalOfficer}).Return(staff, nil).Once()
	notifRepo.On("Create", ctx, mock.Anything).Return(nil).Twice()

	created := svc.NotifyNewCase(ctx, &domain.Case{ID: uuid.New(), Title: "T", Category: domain.CategoryBullying})

	assert.Equal(t, []uuid.UUID{staff[0].ID, staff[1].ID}, recipients(created))
}

func TestNotificationService_OwnerScope(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	notifRepo := new(mocks.NotificationRepository)
	svc := notification.NewService(notifRepo, new(mocks.UserRepository), new(mocks.EmailService))
	notifRepo.On("GetByID", ctx, id).Return(&domain.Notification{ID: id, UserID: owner}, nil)
	notifRepo.On("MarkAsRead", ctx, id).Return(nil).Once()

	require.NoError(t, svc.MarkAsRead(ctx, owner, id))
	assert.ErrorIs(t, svc.MarkAsRead(ctx, uuid.New(), id), domain.ErrNotificationNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, uuid.New(), id), domain.ErrNotificationNotFound)
	notifRepo.AssertNumberOfCalls(t, "MarkAsRead", 1)
	notifRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
