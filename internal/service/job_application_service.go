package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type jobApplicationRepository interface {
	Create(ctx context.Context, application *models.JobApplication) (*models.JobApplication, error)
	FindByID(ctx context.Context, id string) (*models.JobApplication, error)
	List(ctx context.Context, skip, limit int) ([]models.JobApplication, int, error)
	All(ctx context.Context) ([]models.JobApplication, error)
	Update(ctx context.Context, id string, partial filedb.Record) (*models.JobApplication, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// openPositions is the static careers listing.
var openPositions = []models.Position{
	{ID: "ai-instructor", Title: "AI Program Instructor", Type: "Part-time", Location: "Remote"},
	{ID: "fullstack-developer", Title: "Full-Stack Developer", Type: "Contract", Location: "Remote"},
	{ID: "program-coordinator", Title: "Program Coordinator", Type: "Part-time", Location: "Remote"},
	{ID: "marketing-partner", Title: "Marketing Partner", Type: "Contract", Location: "Remote"},
}

// JobApplicationService provides hiring pipeline use cases.
type JobApplicationService struct {
	repo       jobApplicationRepository
	validator  *validator.Validate
	logger     *zap.Logger
	mail       MailDispatcher
	adminEmail string
}

// NewJobApplicationService constructs a JobApplicationService instance.
func NewJobApplicationService(repo jobApplicationRepository, validate *validator.Validate, logger *zap.Logger, mail MailDispatcher, adminEmail string) *JobApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mail == nil {
		mail = NopDispatcher()
	}
	return &JobApplicationService{repo: repo, validator: validate, logger: logger, mail: mail, adminEmail: adminEmail}
}

// Create records a public job application. The applicant gets a
// confirmation and the admin inbox a notification, both best effort.
func (s *JobApplicationService) Create(ctx context.Context, req models.JobApplicationCreateRequest) (*models.JobApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	application := &models.JobApplication{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Position:     req.Position,
		ResumeURL:    req.ResumeURL,
		CoverLetter:  req.CoverLetter,
		LinkedinURL:  req.LinkedinURL,
		PortfolioURL: req.PortfolioURL,
	}

	created, err := s.repo.Create(ctx, application)
	if err != nil {
		return nil, storeError(err, "failed to create application")
	}

	s.mail.Dispatch(mailer.ApplicationConfirmationMessage(created.Email, created.Name, created.Position))
	if s.adminEmail != "" {
		s.mail.Dispatch(mailer.ApplicationNotificationMessage(s.adminEmail, created.Name, created.Position, created.Email))
	}
	return created, nil
}

// List returns applications newest first, optionally filtered by status
// and position.
func (s *JobApplicationService) List(ctx context.Context, skip, limit int, status models.JobApplicationStatus, position string) ([]models.JobApplication, *models.Pagination, error) {
	if status != "" && !models.ValidJobApplicationStatus(status) {
		return nil, nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status filter")
	}
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	applications, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, nil, storeError(err, "failed to list applications")
	}

	if status != "" || position != "" {
		filtered := applications[:0]
		for _, app := range applications {
			if status != "" && app.Status != status {
				continue
			}
			if position != "" && !strings.EqualFold(app.Position, position) {
				continue
			}
			filtered = append(filtered, app)
		}
		applications = filtered
	}

	return applications, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// Positions returns the static careers listing.
func (s *JobApplicationService) Positions() []models.Position {
	return openPositions
}

// Get returns a single application.
func (s *JobApplicationService) Get(ctx context.Context, id string) (*models.JobApplication, error) {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to fetch application")
	}
	if application == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "job application not found")
	}
	return application, nil
}

// Update applies an admin status or notes change.
func (s *JobApplicationService) Update(ctx context.Context, id string, req models.JobApplicationUpdateRequest) (*models.JobApplication, error) {
	partial := filedb.Record{}
	if req.Status != nil {
		if !models.ValidJobApplicationStatus(*req.Status) {
			return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status, must be one of: new, reviewing, interviewed, rejected, accepted")
		}
		partial[filedb.FieldStatus] = string(*req.Status)
	}
	if req.Notes != nil {
		partial["notes"] = *req.Notes
	}

	application, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, storeError(err, "failed to update application")
	}
	if application == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "job application not found")
	}
	return application, nil
}

// Delete removes an application.
func (s *JobApplicationService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete application")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "job application not found")
	}
	return nil
}

// Stats summarises applications for the admin dashboard, including the
// five most recent submissions.
func (s *JobApplicationService) Stats(ctx context.Context) (*models.JobApplicationStats, error) {
	applications, err := s.repo.All(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load applications")
	}

	stats := &models.JobApplicationStats{
		Total:      len(applications),
		ByStatus:   map[string]int{},
		ByPosition: map[string]int{},
		Recent:     []models.JobApplicationSummary{},
	}
	for _, app := range applications {
		stats.ByStatus[string(app.Status)]++
		stats.ByPosition[app.Position]++
	}

	// Listings are already newest first.
	for i := 0; i < len(applications) && i < 5; i++ {
		app := applications[i]
		stats.Recent = append(stats.Recent, models.JobApplicationSummary{
			ID:        app.ID,
			Name:      app.Name,
			Position:  app.Position,
			CreatedAt: app.CreatedAt,
		})
	}
	return stats, nil
}
