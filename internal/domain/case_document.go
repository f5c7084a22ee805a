package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

type CaseDocument struct {
	ID           uuid.UUID `json:"id" db:"document_id"`
	CaseID       uuid.UUID `json:"case" db:"case_id"`
	Filename     string    `json:"filename" db:"filename"`
	OriginalName string    `json:"originalName" db:"original_name"`
	FilePath     string    `json:"filePath" db:"file_path"`
	FileType     string    `json:"fileType" db:"file_type"`
	FileSize     int64     `json:"fileSize" db:"file_size"`
	UploadedByID uuid.UUID `json:"-" db:"uploaded_by"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	UploadedBy *UserRef `json:"uploadedBy,omitempty" db:"-"`
}
