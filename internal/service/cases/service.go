package cases

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"sort"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/config"
	"edulegal/internal/domain"
	"edulegal/internal/pkg/async"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/repository"
	"edulegal/internal/service/activity"
	"edulegal/internal/service/dashboard"
	"edulegal/internal/service/notification"
	"edulegal/internal/service/storage"
)

var (
	ErrForbidden          = errors.New("you do not have access to this case")
	ErrAssignForbidden    = errors.New("only admins can assign cases")
	ErrAssigneeNotFound   = errors.New("assignee not found")
	ErrAssigneeNotOfficer = errors.New("cases can only be assigned to legal officers")
	ErrNotCaseOwner       = errors.New("you can only delete cases you submitted")
	ErrCaseNotOpen        = errors.New("case can only be deleted while it is still open")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidStatus      = errors.New("status must be one of: open, inProgress, closed")
	ErrInvalidPriority    = errors.New("priority must be one of: low, medium, high")
)

type Service interface {
	Create(ctx context.Context, actor *domain.User, input domain.CreateCaseInput) (*domain.Case, error)
	List(ctx context.Context, actor *domain.User, filter domain.CaseFilter) ([]domain.Case, error)
	GetByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Case, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateCaseInput) (*domain.Case, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
	ListAssigned(ctx context.Context, actor *domain.User) ([]domain.CaseView, error)
	Categories() []domain.Category

	ListNotes(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseNote, error)
	AddNote(ctx context.Context, actor *domain.User, caseID uuid.UUID, input domain.CreateNoteInput) (*domain.CaseNote, error)
	UpdateNote(ctx context.Context, actor *domain.User, caseID, noteID uuid.UUID, input domain.UpdateNoteInput) (*domain.CaseNote, error)
	DeleteNote(ctx context.Context, actor *domain.User, caseID, noteID uuid.UUID) error

	ListDocuments(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseDocument, error)
	UploadDocument(ctx context.Context, actor *domain.User, caseID uuid.UUID, fh *multipart.FileHeader) (*domain.CaseDocument, error)
	DeleteDocument(ctx context.Context, actor *domain.User, caseID, documentID uuid.UUID) error

	Timeline(ctx context.Context, actor *domain.User, caseID uuid.UUID) ([]domain.CaseActivity, error)

	SetNotificationService(notifSvc notification.Service)
	SetDispatcher(dispatch async.Dispatcher)
}

type service struct {
	caseRepo      repository.CaseRepository
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
	noteRepo      repository.NoteRepository
	documentRepo  repository.DocumentRepository
	activitySvc   activity.Service
	storageSvc    storage.Service
	dashboardSvc  dashboard.Service
	notifSvc      notification.Service
	dispatch      async.Dispatcher
	cfg           *config.Config
}

func NewService(
	caseRepo repository.CaseRepository,
	complaintRepo repository.ComplaintRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NoteRepository,
	documentRepo repository.DocumentRepository,
	activitySvc activity.Service,
	storageSvc storage.Service,
	dashboardSvc dashboard.Service,
	cfg *config.Config,
) Service {
	return &service{
		caseRepo:      caseRepo,
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		noteRepo:      noteRepo,
		documentRepo:  documentRepo,
		activitySvc:   activitySvc,
		storageSvc:    storageSvc,
		dashboardSvc:  dashboardSvc,
		dispatch:      async.Dispatch,
		cfg:           cfg,
	}
}

func (s *service) SetNotificationService(notifSvc notification.Service) {
	s.notifSvc = notifSvc
}

func (s *service) SetDispatcher(dispatch async.Dispatcher) {
	s.dispatch = dispatch
}

func (s *service) Categories() []domain.Category {
	return domain.Categories
}

func (s *service) Create(ctx context.Context, actor *domain.User, input domain.CreateCaseInput) (*domain.Case, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		priority = input.Priority
	}

	c := &domain.Case{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Status:      domain.StatusOpen,
		Priority:    priority,
		Role:        domain.RoleGuest,
		Name:        input.Name,
		Gender:      input.Gender,
	}

	if actor != nil {
		actorID := actor.ID
		c.CreatedByID = &actorID
		c.CreatedBy = actor.Ref()
		c.Role = actor.Role
		if c.Name == nil {
			name := actor.Name
			c.Name = &name
		}
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, goerr.Wrap(err, "failed to create case")
	}

	s.activitySvc.Record(ctx, domain.CreateActivityInput{
		CaseID:  c.ID,
		UserID:  c.CreatedByID,
		Action:  domain.ActivityCreated,
		Details: "Case submitted",
	})

	snapshot := *c
	s.notify("notify new case", func(ctx context.Context, notifSvc notification.Service) {
		notifSvc.NotifyNewCase(ctx, &snapshot)
	})

	s.dashboardSvc.Invalidate(ctx)

	return c, nil
}

// List is scoped by role. Legal officers see their own and unassigned cases
// unless they pass an explicit assignedTo filter, which replaces the scope.
func (s *service) List(ctx context.Context, actor *domain.User, filter domain.CaseFilter) ([]domain.Case, error) {
	if err := validateFilter(filter.Category, filter.Status); err != nil {
		return nil, err
	}

	switch {
	case actor == nil || !actor.IsStaff():
		return nil, ErrForbidden
	case actor.Role == domain.RoleLegalOfficer:
		actorID := actor.ID
		filter.ScopeOfficer = &actorID
	default:
		filter.ScopeOfficer = nil
	}

	cases, err := s.caseRepo.List(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}
	return cases, nil
}

func (s *service) GetByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Case, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateCaseInput) (*domain.Case, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if input.Category != nil && !input.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if input.Status != nil && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, c) {
		return nil, ErrForbidden
	}

	oldStatus := c.Status
	oldPriority := c.Priority
	oldAssignee := c.AssignedToID

	// A body echoing the current assignee is not an assignment.
	if input.AssignedTo.Set && !input.AssignedTo.Matches(c.AssignedToID) {
		if actor.Role != domain.RoleAdmin {
			return nil, ErrAssignForbidden
		}
		if input.AssignedTo.Value == nil {
			c.AssignedToID = nil
			c.AssignedTo = nil
		} else {
			assignee, err := s.resolveOfficer(ctx, *input.AssignedTo.Value)
			if err != nil {
				return nil, err
			}
			assigneeID := assignee.ID
			c.AssignedToID = &assigneeID
			c.AssignedTo = assignee.Ref()
		}
	}

	edited := false
	if input.Title != nil && *input.Title != c.Title {
		c.Title = *input.Title
		edited = true
	}
	if input.Description != nil && *input.Description != c.Description {
		c.Description = *input.Description
		edited = true
	}
	if input.Category != nil && *input.Category != c.Category {
		c.Category = *input.Category
		edited = true
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.Priority != nil {
		c.Priority = *input.Priority
	}

	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("case_id", id))
	}

	actorID := actor.ID

	if c.Status != oldStatus {
		s.activitySvc.Record(ctx, domain.CreateActivityInput{
			CaseID:   c.ID,
			UserID:   &actorID,
			Action:   domain.ActivityStatusChanged,
			Details:  "Status changed from " + string(oldStatus) + " to " + string(c.Status),
			Metadata: map[string]string{"from": string(oldStatus), "to": string(c.Status)},
		})

		snapshot := *c
		s.notify("notify case status changed", func(ctx context.Context, notifSvc notification.Service) {
			notifSvc.NotifyCaseStatusChanged(ctx, &snapshot, oldStatus)
		})
	}

	if c.AssignedToID != nil && (oldAssignee == nil || *oldAssignee != *c.AssignedToID) {
		s.activitySvc.Record(ctx, domain.CreateActivityInput{
			CaseID:   c.ID,
			UserID:   &actorID,
			Action:   domain.ActivityAssigned,
			Details:  "Case assigned to " + c.AssignedTo.Name,
			Metadata: map[string]string{"assignedTo": c.AssignedToID.String()},
		})

		snapshot := *c
		s.notify("notify case assigned", func(ctx context.Context, notifSvc notification.Service) {
			notifSvc.NotifyCaseAssigned(ctx, &snapshot)
		})
	}

	if c.Priority != oldPriority {
		s.activitySvc.Record(ctx, domain.CreateActivityInput{
			CaseID:   c.ID,
			UserID:   &actorID,
			Action:   domain.ActivityPriorityChanged,
			Details:  "Priority changed from " + string(oldPriority) + " to " + string(c.Priority),
			Metadata: map[string]string{"from": string(oldPriority), "to": string(c.Priority)},
		})
	}

	if edited {
		s.activitySvc.Record(ctx, domain.CreateActivityInput{
			CaseID:  c.ID,
			UserID:  &actorID,
			Action:  domain.ActivityUpdated,
			Details: "Case details updated",
		})
	}

	s.dashboardSvc.Invalidate(ctx)

	return c, nil
}

// Delete lets staff remove any case. Guests may only remove their own case
// while it is still open.
func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	if actor == nil {
		return ErrForbidden
	}

	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsStaff() {
		if !c.IsCreatedBy(actor.ID) {
			return ErrNotCaseOwner
		}
		if c.Status != domain.StatusOpen {
			return ErrCaseNotOpen
		}
	}

	docs, err := s.documentRepo.ListByCase(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to list case documents", goerr.V("case_id", id))
	}

	if err := s.noteRepo.DeleteByCase(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case notes", goerr.V("case_id", id))
	}
	if err := s.documentRepo.DeleteByCase(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case documents", goerr.V("case_id", id))
	}
	if err := s.activitySvc.DeleteByCase(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case activity", goerr.V("case_id", id))
	}
	if err := s.caseRepo.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("case_id", id))
	}

	// Files go last so a failed delete never leaves rows pointing at missing files.
	for _, doc := range docs {
		if err := s.storageSvc.Remove(ctx, doc.FilePath); err != nil {
			slog.Warn("failed to remove case document file", "case_id", id, "path", doc.FilePath, "error", err)
		}
	}

	s.dashboardSvc.Invalidate(ctx)

	return nil
}

// ListAssigned merges cases and complaints into one newest-first list.
// Officers get their scoped cases plus unassigned complaints.
func (s *service) ListAssigned(ctx context.Context, actor *domain.User) ([]domain.CaseView, error) {
	if actor == nil || !actor.IsStaff() {
		return nil, ErrForbidden
	}

	caseFilter := domain.CaseFilter{}
	complaintFilter := domain.ComplaintFilter{}
	if actor.Role == domain.RoleLegalOfficer {
		actorID := actor.ID
		caseFilter.ScopeOfficer = &actorID
		complaintFilter.UnassignedOnly = true
	}

	cases, err := s.caseRepo.List(ctx, caseFilter)
	if err != nil {
		return s.assignedFallback(err)
	}
	complaints, err := s.complaintRepo.List(ctx, complaintFilter)
	if err != nil {
		return s.assignedFallback(err)
	}

	views := make([]domain.CaseView, 0, len(cases)+len(complaints))
	for i := range cases {
		views = append(views, cases[i].View())
	}
	for i := range complaints {
		views = append(views, complaints[i].View())
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	return views, nil
}

func (s *service) assignedFallback(err error) ([]domain.CaseView, error) {
	if s.cfg != nil && s.cfg.DemoMode {
		slog.Warn("store unavailable, serving demo assigned cases", "error", err)
		return demoAssignedCases(), nil
	}
	return nil, goerr.Wrap(err, "failed to load assigned cases")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load case", goerr.V("case_id", id))
	}
	if c == nil {
		return nil, domain.ErrCaseNotFound
	}
	return c, nil
}

func (s *service) resolveOfficer(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load assignee", goerr.V("user_id", id))
	}
	if user == nil {
		return nil, ErrAssigneeNotFound
	}
	if user.Role != domain.RoleLegalOfficer {
		return nil, ErrAssigneeNotOfficer
	}
	return user, nil
}

func (s *service) notify(task string, fn func(ctx context.Context, notifSvc notification.Service)) {
	if s.notifSvc == nil || s.dispatch == nil {
		return
	}
	notifSvc := s.notifSvc
	s.dispatch(context.Background(), task, func(ctx context.Context) error {
		fn(ctx, notifSvc)
		return nil
	})
}

// canView reports whether a staff member may read or change the case.
// Officers are limited to cases assigned to them or still unassigned.
func canView(actor *domain.User, c *domain.Case) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleLegalOfficer:
		return c.AssignedToID == nil || c.IsAssignedTo(actor.ID)
	default:
		return false
	}
}

func validateFilter(category *domain.Category, status *domain.CaseStatus) error {
	if category != nil && !category.IsValid() {
		return ErrInvalidCategory
	}
	if status != nil && !status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}
