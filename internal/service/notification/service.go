package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/domain"
	"edulegal/internal/repository"
	"edulegal/internal/service/email"
)

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// Fan-out entry points never fail; they return whatever was created.
	NotifyNewCase(ctx context.Context, c *domain.Case) []domain.Notification
	NotifyCaseAssigned(ctx context.Context, c *domain.Case) []domain.Notification
	NotifyCaseStatusChanged(ctx context.Context, c *domain.Case, oldStatus domain.CaseStatus) []domain.Notification
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	emailSvc  email.Service
}

func NewService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, emailSvc email.Service) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
	}
}

func (s *service) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	params.Validate()

	notifications, total, err := s.notifRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, goerr.Wrap(err, "failed to list notifications", goerr.V("user_id", userID))
	}

	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *service) owned(ctx context.Context, userID, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to load notification", goerr.V("notification_id", id))
	}
	if notif == nil || notif.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (s *service) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.notifRepo.MarkAsRead(ctx, id)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifRepo.MarkAllAsRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.notifRepo.Delete(ctx, id)
}

func (s *service) NotifyNewCase(ctx context.Context, c *domain.Case) []domain.Notification {
	staff, err := s.userRepo.ListByRoles(ctx, []domain.Role{domain.RoleAdmin, domain.RoleLegalOfficer})
	if err != nil {
		slog.Warn("failed to load staff for new case notification", "case_id", c.ID, "error", err)
		return []domain.Notification{}
	}

	recipients := newRecipientSet()
	for _, u := range staff {
		recipients.add(u.ID)
	}

	return s.fanOut(ctx, recipients.ids, c.ID, domain.NotifInfo, "New case submitted",
		fmt.Sprintf("A new %s case \"%s\" was submitted", c.Category, c.Title))
}

func (s *service) NotifyCaseAssigned(ctx context.Context, c *domain.Case) []domain.Notification {
	if c.AssignedToID == nil {
		return []domain.Notification{}
	}

	admins, err := s.userRepo.ListByRoles(ctx, []domain.Role{domain.RoleAdmin})
	if err != nil {
		slog.Warn("failed to load admins for assignment notification", "case_id", c.ID, "error", err)
		return []domain.Notification{}
	}

	recipients := newRecipientSet()
	recipients.add(*c.AssignedToID)
	for _, u := range admins {
		recipients.add(u.ID)
	}

	assigneeName := "a legal officer"
	if c.AssignedTo != nil {
		assigneeName = c.AssignedTo.Name
	}

	created := s.fanOut(ctx, recipients.ids, c.ID, domain.NotifInfo, "Case assigned",
		fmt.Sprintf("Case \"%s\" was assigned to %s", c.Title, assigneeName))

	s.emailAssignee(ctx, c, func(u *domain.User) error {
		return s.emailSvc.SendCaseAssignedEmail(ctx, recipientOf(u), c.Title, c.ID.String())
	})

	return created
}

func (s *service) NotifyCaseStatusChanged(ctx context.Context, c *domain.Case, oldStatus domain.CaseStatus) []domain.Notification {
	admins, err := s.userRepo.ListByRoles(ctx, []domain.Role{domain.RoleAdmin})
	if err != nil {
		slog.Warn("failed to load admins for status notification", "case_id", c.ID, "error", err)
		return []domain.Notification{}
	}

	recipients := newRecipientSet()
	if c.AssignedToID != nil {
		recipients.add(*c.AssignedToID)
	}
	if c.CreatedByID != nil {
		recipients.add(*c.CreatedByID)
	}
	for _, u := range admins {
		recipients.add(u.ID)
	}

	notifType := domain.NotifInfo
	if c.Status == domain.StatusClosed {
		notifType = domain.NotifSuccess
	}

	created := s.fanOut(ctx, recipients.ids, c.ID, notifType, "Case status updated",
		fmt.Sprintf("Case \"%s\" moved from %s to %s", c.Title, oldStatus, c.Status))

	s.emailAssignee(ctx, c, func(u *domain.User) error {
		return s.emailSvc.SendCaseStatusEmail(ctx, recipientOf(u), c.Title, c.ID.String(), string(c.Status))
	})

	return created
}

func (s *service) fanOut(ctx context.Context, userIDs []uuid.UUID, caseID uuid.UUID, notifType domain.NotificationType, title, message string) []domain.Notification {
	created := make([]domain.Notification, 0, len(userIDs))
	entityID := caseID

	for _, userID := range userIDs {
		notif := &domain.Notification{
			ID:                uuid.New(),
			UserID:            userID,
			Type:              notifType,
			Title:             title,
			Message:           message,
			Read:              false,
			RelatedEntityType: domain.EntityCase,
			RelatedEntityID:   &entityID,
		}

		if err := s.notifRepo.Create(ctx, notif); err != nil {
			slog.Warn("failed to create notification", "user_id", userID, "case_id", caseID, "error", err)
			continue
		}
		created = append(created, *notif)
	}

	return created
}

func (s *service) emailAssignee(ctx context.Context, c *domain.Case, send func(u *domain.User) error) {
	if s.emailSvc == nil || c.AssignedToID == nil {
		return
	}

	assignee, err := s.userRepo.GetByID(ctx, *c.AssignedToID)
	if err != nil || assignee == nil {
		return
	}
	if !assignee.Preferences.EmailNotifications || assignee.Email == "" {
		return
	}

	if err := send(assignee); err != nil {
		slog.Warn("failed to send case email", "case_id", c.ID, "user_id", assignee.ID, "error", err)
	}
}

func recipientOf(u *domain.User) email.Recipient {
	return email.Recipient{Email: u.Email, Name: u.Name, Language: u.Preferences.Language}
}

// recipientSet keeps insertion order so notifications are created predictably.
type recipientSet struct {
	seen map[uuid.UUID]struct{}
	ids  []uuid.UUID
}

func newRecipientSet() *recipientSet {
	return &recipientSet{seen: map[uuid.UUID]struct{}{}}
}

func (r *recipientSet) add(id uuid.UUID) {
	if _, ok := r.seen[id]; ok {
		return
	}
	r.seen[id] = struct{}{}
	r.ids = append(r.ids, id)
}
