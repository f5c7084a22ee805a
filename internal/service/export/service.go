package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"

	"edulegal/internal/domain"
	"edulegal/internal/repository"
)

var (
	ErrInvalidType   = errors.New("type must be one of: cases, complaints")
	ErrInvalidFormat = errors.New("format must be one of: csv, json, xlsx")
)

// File is a rendered export ready to be sent as an attachment.
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Service interface {
	Export(ctx context.Context, exportType domain.ExportType, format domain.ExportFormat) (*File, error)
}

type service struct {
	caseRepo      repository.CaseRepository
	complaintRepo repository.ComplaintRepository
	now           func() time.Time
}

func NewService(caseRepo repository.CaseRepository, complaintRepo repository.ComplaintRepository) Service {
	return &service{
		caseRepo:      caseRepo,
		complaintRepo: complaintRepo,
		now:           time.Now,
	}
}

func (s *service) Export(ctx context.Context, exportType domain.ExportType, format domain.ExportFormat) (*File, error) {
	if format == "" {
		format = domain.FormatJSON
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if exportType == "" {
		exportType = domain.ExportCases
	}

	rows, err := s.rows(ctx, exportType)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	export := domain.Export{Type: exportType, ExportedAt: now, Rows: rows}

	var body []byte
	switch format {
	case domain.FormatCSV:
		body, err = renderCSV(export)
	case domain.FormatXLSX:
		body, err = renderXLSX(export)
	default:
		body, err = json.MarshalIndent(export, "", "  ")
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to render export", goerr.V("format", format))
	}

	return &File{
		Filename:    fmt.Sprintf("%s-%s.%s", exportType, now.Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func (s *service) rows(ctx context.Context, exportType domain.ExportType) ([]domain.ExportRow, error) {
	switch exportType {
	case domain.ExportCases:
		cases, err := s.caseRepo.List(ctx, domain.CaseFilter{})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load cases for export")
		}
		rows := make([]domain.ExportRow, 0, len(cases))
		for _, c := range cases {
			row := domain.ExportRow{
				ID:        c.ID.String(),
				Kind:      "case",
				Title:     c.Title,
				Category:  string(c.Category),
				Status:    string(c.Status),
				Priority:  string(c.Priority),
				Submitter: "anonymous",
				CreatedAt: c.CreatedAt,
				UpdatedAt: c.UpdatedAt,
			}
			if c.CreatedBy != nil {
				row.Submitter = c.CreatedBy.Name
			} else if c.Name != nil && *c.Name != "" {
				row.Submitter = *c.Name
			}
			if c.AssignedTo != nil {
				row.AssignedTo = c.AssignedTo.Name
			}
			rows = append(rows, row)
		}
		return rows, nil

	case domain.ExportComplaints:
		complaints, err := s.complaintRepo.List(ctx, domain.ComplaintFilter{})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load complaints for export")
		}
		rows := make([]domain.ExportRow, 0, len(complaints))
		for _, c := range complaints {
			row := domain.ExportRow{
				ID:        c.ID.String(),
				Kind:      "complaint",
				Title:     c.Title,
				Category:  string(c.Category),
				Status:    string(c.Status),
				Priority:  string(c.Priority),
				Submitter: string(c.ReporterType),
				CreatedAt: c.CreatedAt,
				UpdatedAt: c.UpdatedAt,
			}
			if c.ReporterName != nil && *c.ReporterName != "" {
				row.Submitter = *c.ReporterName
			}
			if c.AssignedTo != nil {
				row.AssignedTo = c.AssignedTo.Name
			}
			rows = append(rows, row)
		}
		return rows, nil

	default:
		return nil, ErrInvalidType
	}
}

func renderCSV(export domain.Export) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(domain.ExportColumns); err != nil {
		return nil, err
	}
	for _, row := range export.Rows {
		if err := w.Write(row.Values()); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderXLSX(export domain.Export) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(export.Type)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, col := range domain.ExportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}

	for r, row := range export.Rows {
		values := row.Values()
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
