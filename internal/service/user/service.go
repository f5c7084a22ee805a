package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"edulegal/internal/domain"
	"edulegal/internal/pkg/validate"
	"edulegal/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidRole      = errors.New("invalid role")
	ErrCannotModifySelf = errors.New("cannot modify your own role")
)

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListOfficers(ctx context.Context) ([]domain.User, error)
	AssignRole(ctx context.Context, actor *domain.User, targetID uuid.UUID, input domain.AssignRoleInput) (*domain.User, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (*domain.Preferences, error)
}

type service struct {
	userRepo repository.UserRepository
}

func NewService(userRepo repository.UserRepository) Service {
	return &service{userRepo: userRepo}
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *service) ListOfficers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListByRoles(ctx, []domain.Role{domain.RoleLegalOfficer})
}

func (s *service) AssignRole(ctx context.Context, actor *domain.User, targetID uuid.UUID, input domain.AssignRoleInput) (*domain.User, error) {
	if actor != nil && actor.ID == targetID {
		return nil, ErrCannotModifySelf
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", targetID))
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	if err := s.userRepo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, goerr.Wrap(err, "failed to update role", goerr.V("user_id", targetID))
	}

	target.Role = role
	return target, nil
}

func (s *service) GetPreferences(ctx context.Context, userID uuid.UUID) (*domain.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("user_id", userID))
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &user.Preferences, nil
}

func (s *service) UpdatePreferences(ctx context.Context, userID uuid.UUID, input domain.UpdatePreferencesInput) (*domain.Preferences, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	prefs, err := s.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.EmailNotifications != nil {
		prefs.EmailNotifications = *input.EmailNotifications
	}
	if input.Language != nil {
		prefs.Language = *input.Language
	}
	if input.Theme != nil {
		prefs.Theme = *input.Theme
	}

	if err := s.userRepo.UpdatePreferences(ctx, userID, *prefs); err != nil {
		return nil, goerr.Wrap(err, "failed to update preferences", goerr.V("user_id", userID))
	}
	return prefs, nil
}
