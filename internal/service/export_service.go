package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
	"github.com/stempro/academy-api/pkg/export"
)

// ExportFormat selects the rendered output.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type exportEnrollmentLister interface {
	List(ctx context.Context, skip, limit int) ([]models.Enrollment, int, error)
}

type exportScheduleLister interface {
	All(ctx context.Context) ([]models.Schedule, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered admin export ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders admin data exports.
type ExportService struct {
	enrollments exportEnrollmentLister
	schedules   exportScheduleLister
	csv         csvRenderer
	pdf         pdfRenderer
	logger      *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(enrollments exportEnrollmentLister, schedules exportScheduleLister, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{enrollments: enrollments, schedules: schedules, csv: csv, pdf: pdf, logger: logger}
}

// Enrollments renders the full enrollment list.
func (s *ExportService) Enrollments(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	enrollments, _, err := s.enrollments.List(ctx, 0, 0)
	if err != nil {
		return nil, storeError(err, "failed to load enrollments")
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "First Name", "Last Name", "Email", "Phone", "Course", "Student Type", "Country", "Status", "Created At"},
	}
	for _, e := range enrollments {
		dataset.Rows = append(dataset.Rows, []string{
			e.ID, e.FirstName, e.LastName, e.Email, e.Phone,
			e.Course, e.StudentType, e.Country, string(e.Status),
			e.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.render(dataset, "enrollments", "Enrollments", format)
}

// Schedules renders the full consultation list.
func (s *ExportService) Schedules(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	schedules, err := s.schedules.All(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load schedules")
	}

	dataset := export.Dataset{
		Headers: []string{"ID", "First Name", "Last Name", "Email", "Phone", "Service Type", "Status", "Scheduled Date", "Created At"},
	}
	for _, sched := range schedules {
		scheduled := ""
		if sched.ScheduledDate != nil {
			scheduled = sched.ScheduledDate.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, []string{
			sched.ID, sched.FirstName, sched.LastName, sched.Email, sched.Phone,
			orUnknown(sched.ServiceType), string(sched.Status), scheduled,
			sched.CreatedAt.Format(time.RFC3339),
		})
	}
	return s.render(dataset, "schedules", "Consultation Schedules", format)
}

func (s *ExportService) render(dataset export.Dataset, name, title string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.csv", name, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.pdf", name, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}
}
