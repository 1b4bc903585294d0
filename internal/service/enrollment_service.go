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

type enrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, skip, limit int) ([]models.Enrollment, int, error)
	ListByEmail(ctx context.Context, email string) ([]models.Enrollment, error)
	Update(ctx context.Context, id string, partial filedb.Record) (*models.Enrollment, error)
}

// EnrollmentService provides course enrollment use cases.
type EnrollmentService struct {
	repo      enrollmentRepository
	validator *validator.Validate
	logger    *zap.Logger
	mail      MailDispatcher
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(repo enrollmentRepository, validate *validator.Validate, logger *zap.Logger, mail MailDispatcher) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mail == nil {
		mail = NopDispatcher()
	}
	return &EnrollmentService{repo: repo, validator: validate, logger: logger, mail: mail}
}

// Create records a public enrollment request and queues a confirmation.
func (s *EnrollmentService) Create(ctx context.Context, req models.EnrollmentCreateRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	enrollment := &models.Enrollment{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		ZipCode:     req.ZipCode,
		Course:      req.Course,
		StudentType: req.StudentType,
		Country:     req.Country,
		Comments:    req.Comments,
	}

	created, err := s.repo.Create(ctx, enrollment)
	if err != nil {
		return nil, storeError(err, "failed to create enrollment")
	}

	s.mail.Dispatch(mailer.EnrollmentConfirmationMessage(created.Email, created.FirstName, created.Course))
	return created, nil
}

// List returns enrollments newest first. Admin only, enforced by the router.
func (s *EnrollmentService) List(ctx context.Context, skip, limit int) ([]models.Enrollment, *models.Pagination, error) {
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	enrollments, total, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, nil, storeError(err, "failed to list enrollments")
	}
	return enrollments, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// ListMine returns the caller's own enrollments.
func (s *EnrollmentService) ListMine(ctx context.Context, email string) ([]models.Enrollment, error) {
	enrollments, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// Get returns an enrollment. Non-admins may only read their own.
func (s *EnrollmentService) Get(ctx context.Context, caller models.JWTClaims, id string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to fetch enrollment")
	}
	if enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if !caller.IsAdmin && !strings.EqualFold(enrollment.Email, caller.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enough permissions")
	}
	return enrollment, nil
}

// Update applies an admin status change.
func (s *EnrollmentService) Update(ctx context.Context, id string, req models.EnrollmentUpdateRequest) (*models.Enrollment, error) {
	partial := filedb.Record{}
	if req.Status != nil {
		if !models.ValidEnrollmentStatus(*req.Status) {
			return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status, must be one of: pending, confirmed, completed")
		}
		partial[filedb.FieldStatus] = string(*req.Status)
	}

	enrollment, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, storeError(err, "failed to update enrollment")
	}
	if enrollment == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return enrollment, nil
}
