package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActivityCreated          ActivityAction = "created"
	ActivityAssigned         ActivityAction = "assigned"
	ActivityStatusChanged    ActivityAction = "status_changed"
	ActivityPriorityChanged  ActivityAction = "priority_changed"
	ActivityNoteAdded        ActivityAction = "note_added"
	ActivityDocumentUploaded ActivityAction = "document_uploaded"
	ActivityDocumentDeleted  ActivityAction = "document_deleted"
	ActivityUpdated          ActivityAction = "updated"
	ActivityDeleted          ActivityAction = "deleted"
)

// CaseActivity is an append-only timeline entry. Rows are only removed together
// with their case.
type CaseActivity struct {
	ID        uuid.UUID       `json:"id" db:"activity_id"`
	CaseID    uuid.UUID       `json:"case" db:"case_id"`
	UserID    *uuid.UUID      `json:"-" db:"user_id"`
	Action    ActivityAction  `json:"action" db:"action"`
	Details   string          `json:"details" db:"details"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`

	User *UserRef `json:"user" db:"-"`
}

type CreateActivityInput struct {
	CaseID   uuid.UUID
	UserID   *uuid.UUID
	Action   ActivityAction
	Details  string
	Metadata interface{}
}
