package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrComplaintNotFound = errors.New("complaint not found")
)

type ReporterType string

const (
	ReporterStudent   ReporterType = "student"
	ReporterStaff     ReporterType = "staff"
	ReporterAnonymous ReporterType = "anonymous"
)

func (r ReporterType) IsValid() bool {
	switch r {
	case ReporterStudent, ReporterStaff, ReporterAnonymous:
		return true
	default:
		return false
	}
}

// Complaint is a public submission, never tied to an account.
type Complaint struct {
	ID            uuid.UUID      `json:"id" db:"complaint_id"`
	ReporterType  ReporterType   `json:"reporterType" db:"reporter_type"`
	ReporterName  *string        `json:"reporterName" db:"reporter_name"`
	ReporterEmail *string        `json:"reporterEmail" db:"reporter_email" masq:"secret"`
	Title         string         `json:"title" db:"title"`
	Description   string         `json:"description" db:"description"`
	Category      Category       `json:"category" db:"category"`
	Status        CaseStatus     `json:"status" db:"status"`
	Priority      Priority       `json:"priority" db:"priority"`
	AssignedToID  *uuid.UUID     `json:"-" db:"assigned_to"`
	Attachments   pq.StringArray `json:"attachments" db:"attachments"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time      `json:"updatedAt" db:"updated_at"`

	AssignedTo *UserRef `json:"assignedTo" db:"-"`
}

type CreateComplaintInput struct {
	ReporterType  ReporterType `form:"reporterType" validate:"required"`
	ReporterName  string       `form:"reporterName" validate:"omitempty,max=100"`
	ReporterEmail string       `form:"reporterEmail" validate:"omitempty,email"`
	Title         string       `form:"title" validate:"required,max=200"`
	Description   string       `form:"description" validate:"required,max=10000"`
	Category      Category     `form:"category" validate:"required"`
	Priority      Priority     `form:"priority"`
}

type UpdateComplaintInput struct {
	Status     *CaseStatus  `json:"status"`
	Priority   *Priority    `json:"priority"`
	AssignedTo NullableUUID `json:"assignedTo"`
}

// ComplaintOwnership is what a guest presents to prove they filed a complaint.
type ComplaintOwnership struct {
	ReporterName  string `json:"reporterName" query:"reporterName"`
	ReporterEmail string `json:"reporterEmail" query:"reporterEmail"`
}

// View projects the complaint into the case-shaped aggregate row.
func (c *Complaint) View() CaseView {
	return CaseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Status:      c.Status,
		Priority:    c.Priority,
		CreatedBy:   nil,
		AssignedTo:  c.AssignedTo,
		Name:        c.ReporterName,
		IsComplaint: true,
		Attachments: []string(c.Attachments),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ComplaintFilter mirrors CaseFilter. UnassignedOnly is used by the
// assigned-cases aggregate, where officers only pick up unclaimed complaints.
type ComplaintFilter struct {
	Category       *Category
	Status         *CaseStatus
	AssignedTo     *uuid.UUID
	ScopeOfficer   *uuid.UUID
	UnassignedOnly bool
}
