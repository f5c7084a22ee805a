package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.CaseActivity) error
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error)
	DeleteByCase(ctx context.Context, caseID uuid.UUID) error
}

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

type activityRow struct {
	domain.CaseActivity
	Actor refColumns `db:"actor"`
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.CaseActivity) error {
	query := `
		INSERT INTO case_activities (activity_id, case_id, user_id, action, details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	metadata := "{}"
	if len(activity.Metadata) > 0 {
		metadata = string(activity.Metadata)
	}

	return r.db.QueryRowxContext(ctx, query,
		activity.ID, activity.CaseID, activity.UserID, activity.Action, activity.Details, metadata,
	).Scan(&activity.CreatedAt)
}

func (r *activityRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseActivity, error) {
	query := `
		SELECT a.*,
			u.name AS "actor.name", u.email AS "actor.email", u.role AS "actor.role"
		FROM case_activities a
		LEFT JOIN users u ON u.user_id = a.user_id
		WHERE a.case_id = $1
		ORDER BY a.created_at DESC`

	var rows []activityRow
	if err := r.db.SelectContext(ctx, &rows, query, caseID); err != nil {
		return nil, err
	}

	activities := make([]domain.CaseActivity, 0, len(rows))
	for _, row := range rows {
		a := row.CaseActivity
		a.User = row.Actor.toRef(a.UserID)
		activities = append(activities, a)
	}
	return activities, nil
}

func (r *activityRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_activities WHERE case_id = $1`, caseID)
	return err
}

// RecordActivity builds and persists a timeline entry. Callers treat the
// returned error as log-only.
func RecordActivity(repo ActivityRepository, ctx context.Context, input domain.CreateActivityInput) error {
	var metadata json.RawMessage
	if input.Metadata != nil {
		raw, err := json.Marshal(input.Metadata)
		if err != nil {
			return err
		}
		metadata = raw
	}

	activity := &domain.CaseActivity{
		ID:       uuid.New(),
		CaseID:   input.CaseID,
		UserID:   input.UserID,
		Action:   input.Action,
		Details:  input.Details,
		Metadata: metadata,
	}

	return repo.Create(ctx, activity)
}
