package activity

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"edulegal/internal/domain"
	"edulegal/internal/repository"
)

type Service interface {
	// Record appends a timeline entry. Failures are logged and never returned.
	Record(ctx context.Context, input domain.CreateActivityInput)
	Timeline(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error)
	DeleteByCase(ctx context.Context, caseID uuid.UUID) error
}

type service struct {
	activityRepo repository.ActivityRepository
}

func NewService(activityRepo repository.ActivityRepository) Service {
	return &service{
		activityRepo: activityRepo,
	}
}

func (s *service) Record(ctx context.Context, input domain.CreateActivityInput) {
	if err := repository.RecordActivity(s.activityRepo, ctx, input); err != nil {
		slog.Warn("failed to record case activity", "case_id", input.CaseID, "action", input.Action, "error", err)
	}
}

func (s *service) Timeline(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error) {
	return s.activityRepo.ListByCase(ctx, caseID)
}

func (s *service) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	return s.activityRepo.DeleteByCase(ctx, caseID)
}
