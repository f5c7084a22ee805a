package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error)
	List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*domain.CaseStats, error)
}

type caseRepository struct {
	db *sqlx.DB
}

func NewCaseRepository(db *sqlx.DB) CaseRepository {
	return &caseRepository{db: db}
}

type caseRow struct {
	domain.Case
	Creator  refColumns `db:"creator"`
	Assignee refColumns `db:"assignee"`
}

func (row caseRow) toDomain() domain.Case {
	c := row.Case
	c.CreatedBy = row.Creator.toRef(c.CreatedByID)
	c.AssignedTo = row.Assignee.toRef(c.AssignedToID)
	return c
}

const caseSelect = `
	SELECT c.*,
		cu.name AS "creator.name", cu.email AS "creator.email", cu.role AS "creator.role",
		au.name AS "assignee.name", au.email AS "assignee.email", au.role AS "assignee.role"
	FROM cases c
	LEFT JOIN users cu ON cu.user_id = c.created_by
	LEFT JOIN users au ON au.user_id = c.assigned_to`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	query := `
		INSERT INTO cases (case_id, title, description, category, status, priority, created_by, assigned_to, submitter_role, submitter_name, gender)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Status, c.Priority,
		c.CreatedByID, c.AssignedToID, c.Role, c.Name, c.Gender,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	var row caseRow
	err := r.db.GetContext(ctx, &row, caseSelect+` WHERE c.case_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.toDomain()
	return &c, nil
}

// List applies the optional filters. An explicit AssignedTo replaces the
// officer scope rather than narrowing it.
func (r *caseRepository) List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	var w whereBuilder
	if filter.Category != nil {
		w.add("c.category = $%d", *filter.Category)
	}
	if filter.Status != nil {
		w.add("c.status = $%d", *filter.Status)
	}
	switch {
	case filter.AssignedTo != nil:
		w.add("c.assigned_to = $%d", *filter.AssignedTo)
	case filter.ScopeOfficer != nil:
		w.add("(c.assigned_to = $%d OR c.assigned_to IS NULL)", *filter.ScopeOfficer)
	}

	var rows []caseRow
	if err := r.db.SelectContext(ctx, &rows, caseSelect+w.String()+` ORDER BY c.created_at DESC`, w.args...); err != nil {
		return nil, err
	}

	cases := make([]domain.Case, 0, len(rows))
	for _, row := range rows {
		cases = append(cases, row.toDomain())
	}
	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	query := `
		UPDATE cases
		SET title = $2, description = $3, category = $4, status = $5, priority = $6, assigned_to = $7, updated_at = NOW()
		WHERE case_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query,
		c.ID, c.Title, c.Description, c.Category, c.Status, c.Priority, c.AssignedToID,
	).Scan(&c.UpdatedAt)
}

func (r *caseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE case_id = $1`, id)
	return err
}

type statBucket struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

func (r *caseRepository) Stats(ctx context.Context) (*domain.CaseStats, error) {
	stats := &domain.CaseStats{
		ByStatus:   map[string]int64{},
		ByPriority: map[string]int64{},
		ByCategory: map[string]int64{},
	}

	if err := r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM cases`); err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.Unassigned, `SELECT COUNT(*) FROM cases WHERE assigned_to IS NULL`); err != nil {
		return nil, err
	}
	if err := r.db.GetContext(ctx, &stats.Complaints, `SELECT COUNT(*) FROM complaints`); err != nil {
		return nil, err
	}

	groups := []struct {
		column string
		into   map[string]int64
	}{
		{"status", stats.ByStatus},
		{"priority", stats.ByPriority},
		{"category", stats.ByCategory},
	}
	for _, g := range groups {
		var buckets []statBucket
		query := `SELECT ` + g.column + ` AS key, COUNT(*) AS count FROM cases GROUP BY ` + g.column
		if err := r.db.SelectContext(ctx, &buckets, query); err != nil {
			return nil, err
		}
		for _, b := range buckets {
			g.into[b.Key] = b.Count
		}
	}

	var lastUpdate sql.NullTime
	if err := r.db.GetContext(ctx, &lastUpdate, `SELECT MAX(updated_at) FROM cases`); err != nil {
		return nil, err
	}
	if lastUpdate.Valid {
		t := lastUpdate.Time.UTC().Truncate(time.Second)
		stats.LastUpdate = &t
	}

	return stats, nil
}
