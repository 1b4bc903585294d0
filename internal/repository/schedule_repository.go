package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

// ScheduleRepository provides store access for consultation schedules.
type ScheduleRepository struct {
	db *filedb.Store
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *filedb.Store) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create persists a new schedule request and returns the stored record.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error) {
	attrs, err := createAttrs(schedule)
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	rec, err := r.db.Collection(filedb.CollectionSchedules).Create(ctx, attrs)
	return decodeSchedule(rec, err)
}

// FindByID returns the schedule with the given identifier, or nil.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	rec, err := r.db.Collection(filedb.CollectionSchedules).GetByID(ctx, id)
	return decodeSchedule(rec, err)
}

// List returns schedules newest first with the collection total. A non-empty
// status narrows the listing before pagination.
func (r *ScheduleRepository) List(ctx context.Context, skip, limit int, status models.ScheduleStatus) ([]models.Schedule, int, error) {
	var pred func(filedb.Record) bool
	if status != "" {
		pred = func(rec filedb.Record) bool {
			return rec.String(filedb.FieldStatus) == string(status)
		}
	}
	records, err := r.db.Collection(filedb.CollectionSchedules).ListWhere(ctx, "schedules", pred)
	if err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}
	var schedules []models.Schedule
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &schedules); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, len(records), nil
}

// ListByEmail returns the schedules submitted under the given address,
// matched case-insensitively, newest first.
func (r *ScheduleRepository) ListByEmail(ctx context.Context, email string) ([]models.Schedule, error) {
	needle := strings.ToLower(email)
	records, err := r.db.Collection(filedb.CollectionSchedules).ListWhere(ctx, "schedules", func(rec filedb.Record) bool {
		return strings.ToLower(rec.String("email")) == needle
	})
	if err != nil {
		return nil, fmt.Errorf("list schedules by email: %w", err)
	}
	var schedules []models.Schedule
	if err := filedb.DecodeAll(records, &schedules); err != nil {
		return nil, fmt.Errorf("list schedules by email: %w", err)
	}
	return schedules, nil
}

// All returns every schedule, for stats aggregation.
func (r *ScheduleRepository) All(ctx context.Context) ([]models.Schedule, error) {
	schedules, _, err := r.List(ctx, 0, 0, "")
	return schedules, err
}

// Update shallow-merges partial attributes into the schedule record.
func (r *ScheduleRepository) Update(ctx context.Context, id string, partial filedb.Record) (*models.Schedule, error) {
	rec, err := r.db.Collection(filedb.CollectionSchedules).Update(ctx, id, partial)
	return decodeSchedule(rec, err)
}

// Delete removes the schedule; the boolean reports whether a removal occurred.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.db.Collection(filedb.CollectionSchedules).Delete(ctx, id)
}

func decodeSchedule(rec filedb.Record, err error) (*models.Schedule, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	var schedule models.Schedule
	if err := filedb.Decode(rec, &schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &schedule, nil
}
