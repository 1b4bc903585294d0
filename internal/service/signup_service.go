package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/mailer"
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type signupRepository interface {
	CreateStudent(ctx context.Context, signup *models.StudentSignup) (*models.StudentSignup, error)
	CreateCounselor(ctx context.Context, signup *models.CounselorSignup) (*models.CounselorSignup, error)
	ListStudents(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.StudentSignup, int, error)
	ListCounselors(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.CounselorSignup, int, error)
	UpdateStudentStatus(ctx context.Context, id string, status models.SignupStatus) (filedb.Record, error)
	UpdateCounselorStatus(ctx context.Context, id string, status models.SignupStatus) (filedb.Record, error)
}

// SignupService provides early-access signup use cases.
type SignupService struct {
	repo       signupRepository
	validator  *validator.Validate
	logger     *zap.Logger
	mail       MailDispatcher
	adminEmail string
}

// NewSignupService constructs a SignupService instance.
func NewSignupService(repo signupRepository, validate *validator.Validate, logger *zap.Logger, mail MailDispatcher, adminEmail string) *SignupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mail == nil {
		mail = NopDispatcher()
	}
	return &SignupService{repo: repo, validator: validate, logger: logger, mail: mail, adminEmail: adminEmail}
}

// SignupStudent records a student early-access signup.
func (s *SignupService) SignupStudent(ctx context.Context, req models.StudentSignupRequest) (*models.StudentSignup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	signup := &models.StudentSignup{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		ZipCode:       req.ZipCode,
		CurrentSchool: req.CurrentSchool,
		GradeLevel:    req.GradeLevel,
	}

	created, err := s.repo.CreateStudent(ctx, signup)
	if err != nil {
		return nil, storeError(err, "failed to create signup")
	}

	s.mail.Dispatch(mailer.SignupConfirmationMessage(created.Email, created.Name))
	if s.adminEmail != "" {
		s.mail.Dispatch(mailer.SignupNotificationMessage(s.adminEmail, "student", created.Name, created.Email, created.GradeLevel))
	}
	return created, nil
}

// SignupCounselor records a counselor early-access signup.
func (s *SignupService) SignupCounselor(ctx context.Context, req models.CounselorSignupRequest) (*models.CounselorSignup, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}

	signup := &models.CounselorSignup{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		ZipCode: req.ZipCode,
	}

	created, err := s.repo.CreateCounselor(ctx, signup)
	if err != nil {
		return nil, storeError(err, "failed to create signup")
	}

	s.mail.Dispatch(mailer.SignupConfirmationMessage(created.Email, created.Name))
	if s.adminEmail != "" {
		s.mail.Dispatch(mailer.SignupNotificationMessage(s.adminEmail, "counselor", created.Name, created.Email, ""))
	}
	return created, nil
}

// ListStudents returns student signups newest first.
func (s *SignupService) ListStudents(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.StudentSignup, *models.Pagination, error) {
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	signups, total, err := s.repo.ListStudents(ctx, skip, limit, status)
	if err != nil {
		return nil, nil, storeError(err, "failed to list signups")
	}
	return signups, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// ListCounselors returns counselor signups newest first.
func (s *SignupService) ListCounselors(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.CounselorSignup, *models.Pagination, error) {
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	signups, total, err := s.repo.ListCounselors(ctx, skip, limit, status)
	if err != nil {
		return nil, nil, storeError(err, "failed to list signups")
	}
	return signups, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// UpdateStudentStatus moves a student signup through the outreach workflow.
func (s *SignupService) UpdateStudentStatus(ctx context.Context, id string, status models.SignupStatus) error {
	switch status {
	case models.SignupPending, models.SignupContacted, models.SignupEnrolled:
	default:
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status, must be one of: pending, contacted, enrolled")
	}

	rec, err := s.repo.UpdateStudentStatus(ctx, id, status)
	if err != nil {
		return storeError(err, "failed to update signup")
	}
	if rec == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "student signup not found")
	}
	return nil
}

// UpdateCounselorStatus moves a counselor signup through the outreach
// workflow.
func (s *SignupService) UpdateCounselorStatus(ctx context.Context, id string, status models.SignupStatus) error {
	switch status {
	case models.SignupPending, models.SignupContacted, models.SignupPartner:
	default:
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status, must be one of: pending, contacted, partner")
	}

	rec, err := s.repo.UpdateCounselorStatus(ctx, id, status)
	if err != nil {
		return storeError(err, "failed to update signup")
	}
	if rec == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "counselor signup not found")
	}
	return nil
}

// Stats summarises early-access signups for the admin dashboard.
func (s *SignupService) Stats(ctx context.Context) (*models.SignupStats, error) {
	students, _, err := s.repo.ListStudents(ctx, 0, 0, "")
	if err != nil {
		return nil, storeError(err, "failed to load signups")
	}
	counselors, _, err := s.repo.ListCounselors(ctx, 0, 0, "")
	if err != nil {
		return nil, storeError(err, "failed to load signups")
	}

	stats := &models.SignupStats{
		TotalStudents:     len(students),
		TotalCounselors:   len(counselors),
		TotalSignups:      len(students) + len(counselors),
		GradeDistribution: map[string]int{},
		StudentStatus:     map[string]int{},
		CounselorStatus:   map[string]int{},
	}
	for _, st := range students {
		grade := st.GradeLevel
		if grade == "" {
			grade = "unknown"
		}
		stats.GradeDistribution[grade]++
		stats.StudentStatus[string(st.Status)]++
	}
	for _, c := range counselors {
		stats.CounselorStatus[string(c.Status)]++
	}
	return stats, nil
}
