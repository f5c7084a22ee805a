package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoteNotFound = errors.New("note not found")
)

// CaseNote is always confidential: visible only to admins and legal officers.
type CaseNote struct {
	ID           uuid.UUID `json:"id" db:"note_id"`
	CaseID       uuid.UUID `json:"case" db:"case_id"`
	AuthorID     uuid.UUID `json:"-" db:"author_id"`
	Note         string    `json:"note" db:"note"`
	Confidential bool      `json:"confidential" db:"confidential"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	Author *UserRef `json:"author,omitempty" db:"-"`
}

type CreateNoteInput struct {
	Note string `json:"note" validate:"required,min=1,max=5000"`
}

type UpdateNoteInput struct {
	Note string `json:"note" validate:"required,min=1,max=5000"`
}
