package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

// EnrollmentRepository provides store access for course enrollments.
type EnrollmentRepository struct {
	db *filedb.Store
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository.
func NewEnrollmentRepository(db *filedb.Store) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment and returns the stored record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	attrs, err := createAttrs(enrollment)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	rec, err := r.db.Collection(filedb.CollectionEnrollments).Create(ctx, attrs)
	return decodeEnrollment(rec, err)
}

// FindByID returns the enrollment with the given identifier, or nil.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	rec, err := r.db.Collection(filedb.CollectionEnrollments).GetByID(ctx, id)
	return decodeEnrollment(rec, err)
}

// List returns enrollments newest first with the collection total.
func (r *EnrollmentRepository) List(ctx context.Context, skip, limit int) ([]models.Enrollment, int, error) {
	records, err := r.db.Collection(filedb.CollectionEnrollments).ListWhere(ctx, "enrollments", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	var enrollments []models.Enrollment
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &enrollments); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, len(records), nil
}

// ListByEmail returns the enrollments submitted under the given address,
// matched case-insensitively, newest first.
func (r *EnrollmentRepository) ListByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	needle := strings.ToLower(email)
	records, err := r.db.Collection(filedb.CollectionEnrollments).ListWhere(ctx, "enrollments", func(rec filedb.Record) bool {
		return strings.ToLower(rec.String("email")) == needle
	})
	if err != nil {
		return nil, fmt.Errorf("list enrollments by email: %w", err)
	}
	var enrollments []models.Enrollment
	if err := filedb.DecodeAll(records, &enrollments); err != nil {
		return nil, fmt.Errorf("list enrollments by email: %w", err)
	}
	return enrollments, nil
}

// Update shallow-merges partial attributes into the enrollment record.
func (r *EnrollmentRepository) Update(ctx context.Context, id string, partial filedb.Record) (*models.Enrollment, error) {
	rec, err := r.db.Collection(filedb.CollectionEnrollments).Update(ctx, id, partial)
	return decodeEnrollment(rec, err)
}

func decodeEnrollment(rec filedb.Record, err error) (*models.Enrollment, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	var enrollment models.Enrollment
	if err := filedb.Decode(rec, &enrollment); err != nil {
		return nil, fmt.Errorf("decode enrollment: %w", err)
	}
	return &enrollment, nil
}
