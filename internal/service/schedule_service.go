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

type scheduleRepository interface {
	Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	List(ctx context.Context, skip, limit int, status models.ScheduleStatus) ([]models.Schedule, int, error)
	ListByEmail(ctx context.Context, email string) ([]models.Schedule, error)
	All(ctx context.Context) ([]models.Schedule, error)
	Update(ctx context.Context, id string, partial filedb.Record) (*models.Schedule, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ScheduleService provides consultation scheduling use cases.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
	mail      MailDispatcher
}

// NewScheduleService constructs a ScheduleService instance.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger, mail MailDispatcher) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if mail == nil {
		mail = NopDispatcher()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger, mail: mail}
}

// Create records a public consultation request and queues a confirmation.
func (s *ScheduleService) Create(ctx context.Context, req models.ScheduleCreateRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	schedule := &models.Schedule{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		Country:     req.Country,
		ServiceType: req.ServiceType,
		Message:     req.Message,
	}

	created, err := s.repo.Create(ctx, schedule)
	if err != nil {
		return nil, storeError(err, "failed to create schedule")
	}

	s.mail.Dispatch(mailer.ScheduleConfirmationMessage(created.Email, created.FirstName))
	return created, nil
}

// List returns schedules newest first, optionally filtered by status.
func (s *ScheduleService) List(ctx context.Context, skip, limit int, status models.ScheduleStatus) ([]models.Schedule, *models.Pagination, error) {
	if status != "" && !models.ValidScheduleStatus(status) {
		return nil, nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status filter")
	}
	skip = normalizeSkip(skip)
	limit = normalizeLimit(limit, 100, 1000)

	schedules, total, err := s.repo.List(ctx, skip, limit, status)
	if err != nil {
		return nil, nil, storeError(err, "failed to list schedules")
	}
	return schedules, &models.Pagination{Skip: skip, Limit: limit, Count: total}, nil
}

// ListMine returns the caller's own schedule requests.
func (s *ScheduleService) ListMine(ctx context.Context, email string) ([]models.Schedule, error) {
	schedules, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, storeError(err, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns a schedule. Non-admins may only read their own.
func (s *ScheduleService) Get(ctx context.Context, caller models.JWTClaims, id string) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to fetch schedule")
	}
	if schedule == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	if !caller.IsAdmin && !strings.EqualFold(schedule.Email, caller.Email) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not enough permissions")
	}
	return schedule, nil
}

// Update applies admin changes. Confirming a slot notifies the requester
// once, on the transition into the scheduled state.
func (s *ScheduleService) Update(ctx context.Context, id string, req models.ScheduleUpdateRequest) (*models.Schedule, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "failed to fetch schedule")
	}
	if existing == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	partial := filedb.Record{}
	if req.Status != nil {
		if !models.ValidScheduleStatus(*req.Status) {
			return nil, appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status, must be one of: pending, scheduled, completed, cancelled")
		}
		partial[filedb.FieldStatus] = string(*req.Status)
	}
	if req.ScheduledDate != nil {
		partial["scheduled_date"] = req.ScheduledDate.UTC().Format(filedb.TimeFormat)
	}
	if req.Notes != nil {
		partial["notes"] = *req.Notes
	}

	updated, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, storeError(err, "failed to update schedule")
	}
	if updated == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	if req.Status != nil && *req.Status == models.ScheduleScheduled &&
		existing.Status != models.ScheduleScheduled && updated.ScheduledDate != nil {
		s.mail.Dispatch(mailer.ScheduleConfirmedMessage(updated.Email, updated.FirstName, *updated.ScheduledDate))
	}

	return updated, nil
}

// Complete marks a schedule as completed.
func (s *ScheduleService) Complete(ctx context.Context, id string) (*models.Schedule, error) {
	return s.setStatus(ctx, id, filedb.Record{filedb.FieldStatus: string(models.ScheduleCompleted)})
}

// Cancel cancels a schedule, recording the reason when given.
func (s *ScheduleService) Cancel(ctx context.Context, id, reason string) (*models.Schedule, error) {
	partial := filedb.Record{filedb.FieldStatus: string(models.ScheduleCancelled)}
	if reason != "" {
		partial["cancellation_reason"] = reason
	}
	return s.setStatus(ctx, id, partial)
}

// Delete removes a schedule request.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "failed to delete schedule")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return nil
}

// Stats summarises all schedule requests for the admin dashboard.
func (s *ScheduleService) Stats(ctx context.Context) (*models.ScheduleStats, error) {
	schedules, err := s.repo.All(ctx)
	if err != nil {
		return nil, storeError(err, "failed to load schedules")
	}

	stats := &models.ScheduleStats{
		Total:         len(schedules),
		ByServiceType: map[string]int{},
		ByCountry:     map[string]int{},
	}
	for _, sched := range schedules {
		switch sched.Status {
		case models.SchedulePending:
			stats.Pending++
		case models.ScheduleScheduled:
			stats.Scheduled++
		case models.ScheduleCompleted:
			stats.Completed++
		case models.ScheduleCancelled:
			stats.Cancelled++
		}
		stats.ByServiceType[orUnknown(sched.ServiceType)]++
		stats.ByCountry[orUnknown(sched.Country)]++
	}
	return stats, nil
}

func (s *ScheduleService) setStatus(ctx context.Context, id string, partial filedb.Record) (*models.Schedule, error) {
	updated, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, storeError(err, "failed to update schedule")
	}
	if updated == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return updated, nil
}

func orUnknown(v *string) string {
	if v == nil || *v == "" {
		return "unknown"
	}
	return *v
}
