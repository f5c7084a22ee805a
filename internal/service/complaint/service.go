package complaint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/repository"
	"edulegal/internal/service/dashboard"
	"edulegal/internal/service/storage"
)

const MaxAttachments = 5

var (
	ErrTooManyFiles          = &storage.UploadError{Message: fmt.Sprintf("Too many files. Maximum is %d files per complaint", MaxAttachments)}
	ErrInvalidReporterType   = errors.New("reporterType must be one of: student, staff, anonymous")
	ErrReporterNameRequired  = errors.New("reporterName is required for student and staff reports")
	ErrInvalidCategory       = errors.New("invalid category")
	ErrInvalidStatus         = errors.New("status must be one of: open, inProgress, closed")
	ErrInvalidPriority       = errors.New("priority must be one of: low, medium, high")
	ErrForbidden             = errors.New("you do not have access to this complaint")
	ErrAssignForbidden       = errors.New("only admins can assign complaints")
	ErrAssigneeNotFound      = errors.New("assignee not found")
	ErrAssigneeNotOfficer    = errors.New("complaints can only be assigned to legal officers")
	ErrNotComplaintOwner     = errors.New("reporter details do not match this complaint")
	ErrAnonymousNotDeletable = errors.New("anonymous complaints cannot be deleted by the reporter")
	ErrComplaintNotOpen      = errors.New("complaint can only be deleted while it is still open")
)

type Service interface {
	Submit(ctx context.Context, input domain.CreateComplaintInput, files []*multipart.FileHeader) (*domain.Complaint, error)
	List(ctx context.Context, actor *domain.User, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	GetByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Complaint, error)
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateComplaintInput) (*domain.Complaint, error)
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID, owner domain.ComplaintOwnership) error
}

type service struct {
	complaintRepo repository.ComplaintRepository
	userRepo      repository.UserRepository
	storageSvc    storage.Service
	dashboardSvc  dashboard.Service
}

func NewService(complaintRepo repository.ComplaintRepository, userRepo repository.UserRepository, storageSvc storage.Service, dashboardSvc dashboard.Service) Service {
	return &service{
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		storageSvc:    storageSvc,
		dashboardSvc:  dashboardSvc,
	}
}

// Submit stores a public complaint. Anonymous reports never keep reporter
// details, even when the form carries them.
func (s *service) Submit(ctx context.Context, input domain.CreateComplaintInput, files []*multipart.FileHeader) (*domain.Complaint, error) {
	if len(files) > MaxAttachments {
		return nil, ErrTooManyFiles
	}
	if input.ReporterType == domain.ReporterAnonymous {
		input.ReporterName = ""
		input.ReporterEmail = ""
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.ReporterType.IsValid() {
		return nil, ErrInvalidReporterType
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

	c := &domain.Complaint{
		ID:           uuid.New(),
		ReporterType: input.ReporterType,
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		Status:       domain.StatusOpen,
		Priority:     priority,
		Attachments:  pq.StringArray{},
	}

	if input.ReporterType != domain.ReporterAnonymous {
		name := strings.TrimSpace(input.ReporterName)
		if name == "" {
			return nil, ErrReporterNameRequired
		}
		c.ReporterName = &name
		if email := domain.NormalizeEmail(input.ReporterEmail); email != "" {
			c.ReporterEmail = &email
		}
	}

	for _, fh := range files {
		stored, err := s.storageSvc.SaveUpload(ctx, "complaints", fh)
		if err != nil {
			s.removeAttachments(ctx, c.Attachments)
			return nil, err
		}
		c.Attachments = append(c.Attachments, stored.Path)
	}

	if err := s.complaintRepo.Create(ctx, c); err != nil {
		s.removeAttachments(ctx, c.Attachments)
		return nil, goerr.Wrap(err, "failed to create complaint")
	}

	s.dashboardSvc.Invalidate(ctx)

	return c, nil
}

func (s *service) List(ctx context.Context, actor *domain.User, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	if filter.Category != nil && !filter.Category.IsValid() {
		return nil, ErrInvalidCategory
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
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
	filter.UnassignedOnly = false

	complaints, err := s.complaintRepo.List(ctx, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list complaints")
	}
	return complaints, nil
}

func (s *service) GetByID(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Complaint, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, c) {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *service) Update(ctx context.Context, actor *domain.User, id uuid.UUID, input domain.UpdateComplaintInput) (*domain.Complaint, error) {
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

	// A body echoing the current assignee is not an assignment.
	if input.AssignedTo.Set && !input.AssignedTo.Matches(c.AssignedToID) {
		if actor.Role != domain.RoleAdmin {
			return nil, ErrAssignForbidden
		}
		if input.AssignedTo.Value == nil {
			c.AssignedToID = nil
			c.AssignedTo = nil
		} else {
			assignee, err := s.userRepo.GetByID(ctx, *input.AssignedTo.Value)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to load assignee", goerr.V("user_id", *input.AssignedTo.Value))
			}
			if assignee == nil {
				return nil, ErrAssigneeNotFound
			}
			if assignee.Role != domain.RoleLegalOfficer {
				return nil, ErrAssigneeNotOfficer
			}
			assigneeID := assignee.ID
			c.AssignedToID = &assigneeID
			c.AssignedTo = assignee.Ref()
		}
	}
	if input.Status != nil {
		c.Status = *input.Status
	}
	if input.Priority != nil {
		c.Priority = *input.Priority
	}

	if err := s.complaintRepo.Update(ctx, c); err != nil {
		return nil, goerr.Wrap(err, "failed to update complaint", goerr.V("complaint_id", id))
	}

	s.dashboardSvc.Invalidate(ctx)

	return c, nil
}

// Delete lets staff remove any complaint. Everyone else must present the
// reporter name and, when one was stored, the reporter email.
func (s *service) Delete(ctx context.Context, actor *domain.User, id uuid.UUID, owner domain.ComplaintOwnership) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsStaff() {
		if c.ReporterType == domain.ReporterAnonymous || c.ReporterName == nil {
			return ErrAnonymousNotDeletable
		}
		if !matchesOwner(c, owner) {
			return ErrNotComplaintOwner
		}
		if c.Status != domain.StatusOpen {
			return ErrComplaintNotOpen
		}
	}

	if err := s.complaintRepo.Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete complaint", goerr.V("complaint_id", id))
	}

	s.removeAttachments(ctx, c.Attachments)
	s.dashboardSvc.Invalidate(ctx)

	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	c, err := s.complaintRepo.GetByID(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load complaint", goerr.V("complaint_id", id))
	}
	if c == nil {
		return nil, domain.ErrComplaintNotFound
	}
	return c, nil
}

func (s *service) removeAttachments(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.storageSvc.Remove(ctx, p); err != nil {
			slog.Warn("failed to remove complaint attachment", "path", p, "error", err)
		}
	}
}

func canView(actor *domain.User, c *domain.Complaint) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleLegalOfficer:
		return c.AssignedToID == nil || *c.AssignedToID == actor.ID
	default:
		return false
	}
}

func matchesOwner(c *domain.Complaint, owner domain.ComplaintOwnership) bool {
	if strings.TrimSpace(owner.ReporterName) != *c.ReporterName {
		return false
	}
	if c.ReporterEmail != nil {
		return strings.EqualFold(strings.TrimSpace(owner.ReporterEmail), *c.ReporterEmail)
	}
	return true
}
