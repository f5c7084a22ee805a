package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCaseNotFound = errors.New("case not found")
)

type CaseStatus string

const (
	StatusOpen       CaseStatus = "open"
	StatusInProgress CaseStatus = "inProgress"
	StatusClosed     CaseStatus = "closed"
)

func (s CaseStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	default:
		return false
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Category string

const (
	CategoryHarassment         Category = "harassment"
	CategorySexualHarassment   Category = "sexual_harassment"
	CategoryDiscrimination     Category = "discrimination"
	CategoryBullying           Category = "bullying"
	CategoryAcademicMisconduct Category = "academic_misconduct"
	CategoryGradingDispute     Category = "grading_dispute"
	CategoryAdmission          Category = "admission"
	CategoryFinancialAid       Category = "financial_aid"
	CategoryEmployment         Category = "employment"
	CategoryContract           Category = "contract"
	CategoryProperty           Category = "property"
	CategoryHousing            Category = "housing"
	CategoryPrivacy            Category = "privacy"
	CategoryIntellectualProp   Category = "intellectual_property"
	CategoryDisciplinary       Category = "disciplinary"
	CategorySafety             Category = "safety"
	CategoryCybercrime         Category = "cybercrime"
	CategoryOther              Category = "other"
)

// Categories is ordered for display; GET /api/cases/categories returns it as-is.
var Categories = []Category{
	CategoryHarassment,
	CategorySexualHarassment,
	CategoryDiscrimination,
	CategoryBullying,
	CategoryAcademicMisconduct,
	CategoryGradingDispute,
	CategoryAdmission,
	CategoryFinancialAid,
	CategoryEmployment,
	CategoryContract,
	CategoryProperty,
	CategoryHousing,
	CategoryPrivacy,
	CategoryIntellectualProp,
	CategoryDisciplinary,
	CategorySafety,
	CategoryCybercrime,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}

type Case struct {
	ID           uuid.UUID  `json:"id" db:"case_id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     Category   `json:"category" db:"category"`
	Status       CaseStatus `json:"status" db:"status"`
	Priority     Priority   `json:"priority" db:"priority"`
	CreatedByID  *uuid.UUID `json:"-" db:"created_by"`
	AssignedToID *uuid.UUID `json:"-" db:"assigned_to"`
	Role         Role       `json:"role" db:"submitter_role"`
	Name         *string    `json:"name" db:"submitter_name"`
	Gender       *string    `json:"gender" db:"gender"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`

	CreatedBy  *UserRef `json:"createdBy" db:"-"`
	AssignedTo *UserRef `json:"assignedTo" db:"-"`
}

func (c *Case) IsAssignedTo(userID uuid.UUID) bool {
	return c.AssignedToID != nil && *c.AssignedToID == userID
}

func (c *Case) IsCreatedBy(userID uuid.UUID) bool {
	return c.CreatedByID != nil && *c.CreatedByID == userID
}

type CreateCaseInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required,max=10000"`
	Category    Category `json:"category" validate:"required"`
	Priority    Priority `json:"priority"`
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Gender      *string  `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
}

type UpdateCaseInput struct {
	Title       *string      `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string      `json:"description" validate:"omitempty,min=1,max=10000"`
	Category    *Category    `json:"category"`
	Status      *CaseStatus  `json:"status"`
	Priority    *Priority    `json:"priority"`
	AssignedTo  NullableUUID `json:"assignedTo"`
}

// CaseFilter carries the optional list query. AssignedTo, when set, replaces the
// legal-officer visibility scope instead of narrowing it.
type CaseFilter struct {
	Category   *Category
	Status     *CaseStatus
	AssignedTo *uuid.UUID

	// Scope limits results to cases assigned to ScopeOfficer or unassigned.
	ScopeOfficer *uuid.UUID
}

// NullableUUID distinguishes an absent field from an explicit null.
type NullableUUID struct {
	Value *uuid.UUID
	Set   bool
}

func (n *NullableUUID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" || string(data) == `""` {
		n.Value = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// Matches reports whether the value names the same assignee as id, treating
// two nils as equal.
func (n NullableUUID) Matches(id *uuid.UUID) bool {
	if n.Value == nil || id == nil {
		return n.Value == nil && id == nil
	}
	return *n.Value == *id
}

// CaseView is the read-only projection used by the assigned-cases aggregate,
// unifying cases and complaints without sharing a schema.
type CaseView struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Status      CaseStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedBy   *UserRef   `json:"createdBy"`
	AssignedTo  *UserRef   `json:"assignedTo"`
	Name        *string    `json:"name,omitempty"`
	IsComplaint bool       `json:"isComplaint"`
	Attachments []string   `json:"attachments,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (c *Case) View() CaseView {
	return CaseView{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Status:      c.Status,
		Priority:    c.Priority,
		CreatedBy:   c.CreatedBy,
		AssignedTo:  c.AssignedTo,
		Name:        c.Name,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CaseStats struct {
	Total      int64            `json:"total"`
	Unassigned int64            `json:"unassigned"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
	ByCategory map[string]int64 `json:"byCategory"`
	Complaints int64            `json:"complaints"`
	LastUpdate *time.Time       `json:"lastUpdate,omitempty"`
}
