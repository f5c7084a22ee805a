package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.CaseNote) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseNote, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseNote, error)
	Update(ctx context.Context, note *domain.CaseNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCase(ctx context.Context, caseID uuid.UUID) error
}

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) NoteRepository {
	return &noteRepository{db: db}
}

type noteRow struct {
	domain.CaseNote
	AuthorRef refColumns `db:"author"`
}

func (row noteRow) toDomain() domain.CaseNote {
	n := row.CaseNote
	n.Author = row.AuthorRef.toRef(&n.AuthorID)
	return n
}

const noteSelect = `
	SELECT n.*,
		u.name AS "author.name", u.email AS "author.email", u.role AS "author.role"
	FROM case_notes n
	LEFT JOIN users u ON u.user_id = n.author_id`

func (r *noteRepository) Create(ctx context.Context, note *domain.CaseNote) error {
	query := `
		INSERT INTO case_notes (note_id, case_id, author_id, note, confidential)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		note.ID, note.CaseID, note.AuthorID, note.Note, note.Confidential,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseNote, error) {
	var row noteRow
	err := r.db.GetContext(ctx, &row, noteSelect+` WHERE n.note_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n := row.toDomain()
	return &n, nil
}

func (r *noteRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseNote, error) {
	var rows []noteRow
	if err := r.db.SelectContext(ctx, &rows, noteSelect+` WHERE n.case_id = $1 ORDER BY n.created_at DESC`, caseID); err != nil {
		return nil, err
	}

	notes := make([]domain.CaseNote, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, row.toDomain())
	}
	return notes, nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.CaseNote) error {
	query := `
		UPDATE case_notes
		SET note = $2, updated_at = NOW()
		WHERE note_id = $1
		RETURNING updated_at`

	return r.db.QueryRowxContext(ctx, query, note.ID, note.Note).Scan(&note.UpdatedAt)
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_notes WHERE note_id = $1`, id)
	return err
}

func (r *noteRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_notes WHERE case_id = $1`, caseID)
	return err
}
