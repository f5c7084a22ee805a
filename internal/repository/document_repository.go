package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"edulegal/internal/domain"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.CaseDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseDocument, error)
	ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCase(ctx context.Context, caseID uuid.UUID) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

type documentRow struct {
	domain.CaseDocument
	Uploader refColumns `db:"uploader"`
}

func (row documentRow) toDomain() domain.CaseDocument {
	d := row.CaseDocument
	d.UploadedBy = row.Uploader.toRef(&d.UploadedByID)
	return d
}

const documentSelect = `
	SELECT d.*,
		u.name AS "uploader.name", u.email AS "uploader.email", u.role AS "uploader.role"
	FROM case_documents d
	LEFT JOIN users u ON u.user_id = d.uploaded_by`

func (r *documentRepository) Create(ctx context.Context, doc *domain.CaseDocument) error {
	query := `
		INSERT INTO case_documents (document_id, case_id, filename, original_name, file_path, file_type, file_size, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		doc.ID, doc.CaseID, doc.Filename, doc.OriginalName,
		doc.FilePath, doc.FileType, doc.FileSize, doc.UploadedByID,
	).Scan(&doc.CreatedAt)
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseDocument, error) {
	var row documentRow
	err := r.db.GetContext(ctx, &row, documentSelect+` WHERE d.document_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := row.toDomain()
	return &d, nil
}

func (r *documentRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.CaseDocument, error) {
	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, documentSelect+` WHERE d.case_id = $1 ORDER BY d.created_at DESC`, caseID); err != nil {
		return nil, err
	}

	docs := make([]domain.CaseDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDomain())
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_documents WHERE document_id = $1`, id)
	return err
}

func (r *documentRepository) DeleteByCase(ctx context.Context, caseID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM case_documents WHERE case_id = $1`, caseID)
	return err
}
