package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	Update(ctx context.Context, c *domain.Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type complaintRepository struct {
	db *sqlx.DB
}

func NewComplaintRepository(db *sqlx.DB) ComplaintRepository {
	return &complaintRepository{db: db}
}

type complaintRow struct {
	domain.Complaint
	Assignee refColumns `db:"assignee"`
}

const complaintSelect = `
	SELECT c.*,
		au.name AS "assignee.name", au.email AS "assignee.email", au.role AS "assignee.role"
	FROM complaints c
	LEFT JOIN users au ON au.user_id = c.assigned_to`

func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	query := `
		INSERT INTO complaints (complaint_id, reporter_type, reporter_name, reporter_email, title, description, category, status, priority, assigned_to, attachments)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		c.ID, c.ReporterType, c.ReporterName, c.ReporterEmail, c.Title, c.Description,
		c.Category, c.Status, c.Priority, c.AssignedToID, c.Attachments,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	var row complaintRow
	err := r.db.GetContext(ctx, &row, complaintSelect+` WHERE c.complaint_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := row.Complaint
	c.AssignedTo = row.Assignee.toRef(c.AssignedToID)
	return &c, nil
}

func (r *complaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	var w whereBuilder
	if filter.Category != nil {
		w.add("c.category = $%d", *filter.Category)
	}
	if filter.Status != nil {
		w.add("c.status = $%d", *filter.Status)
	}
	switch {
	case filter.UnassignedOnly:
		w.raw("c.assigned_to IS NULL")
	case filter.AssignedTo != nil:
		w.add("c.assigned_to = $%d", *filter.AssignedTo)
	case filter.ScopeOfficer != nil:
		w.add("(c.assigned_to = $%d OR c.assigned_to IS NULL)", *filter.ScopeOfficer)
	}

	var rows []complaintRow
	if err := r.db.SelectContext(ctx, &rows, complaintSelect+w.String()+` ORDER BY c.created_at DESC`, w.args...); err != nil {
		return nil, err
	}

	complaints := make([]domain.Complaint, 0, len(rows))
	for _, row := range rows {
		c := row.Complaint
		c.AssignedTo = row.Assignee.toRef(c.AssignedToID)
		complaints = append(complaints, c)
	}
	return complaints, nil
}

func (r *complaintRepository) Update(ctx context.Context, c *domain.Complaint) error {
	query := `
		UPDATE complaints
		SET status = $2, priority = $3, assigned_to = $4, updated_at = NOW()
		WHERE complaint_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query, c.ID, c.Status, c.Priority, c.AssignedToID).Scan(&c.UpdatedAt)
}

func (r *complaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM complaints WHERE complaint_id = $1`, id)
	return err
}
