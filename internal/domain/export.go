package domain

import "time"

type ExportType string

const (
	ExportCases      ExportType = "cases"
	ExportComplaints ExportType = "complaints"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
	FormatXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return true
	default:
		return false
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// ExportRow is one flattened record; cases and complaints share the columns.
type ExportRow struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	Submitter  string    `json:"submitter"`
	AssignedTo string    `json:"assignedTo"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

var ExportColumns = []string{"id", "kind", "title", "category", "status", "priority", "submitter", "assignedTo", "createdAt", "updatedAt"}

func (r ExportRow) Values() []string {
	return []string{
		r.ID, r.Kind, r.Title, r.Category, r.Status, r.Priority, r.Submitter, r.AssignedTo,
		r.CreatedAt.UTC().Format(time.RFC3339), r.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type Export struct {
	Type       ExportType  `json:"type"`
	ExportedAt time.Time   `json:"exportedAt"`
	Rows       []ExportRow `json:"rows"`
}
