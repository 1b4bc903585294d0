package repository

import (
	"context"
	"fmt"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

// JobApplicationRepository provides store access for job applications.
type JobApplicationRepository struct {
	db *filedb.Store
}

// NewJobApplicationRepository creates a new instance of JobApplicationRepository.
func NewJobApplicationRepository(db *filedb.Store) *JobApplicationRepository {
	return &JobApplicationRepository{db: db}
}

// Create persists a new application and returns the stored record.
func (r *JobApplicationRepository) Create(ctx context.Context, application *models.JobApplication) (*models.JobApplication, error) {
	attrs, err := createAttrs(application)
	if err != nil {
		return nil, fmt.Errorf("create job application: %w", err)
	}
	rec, err := r.db.Collection(filedb.CollectionJobApplications).Create(ctx, attrs)
	return decodeJobApplication(rec, err)
}

// FindByID returns the application with the given identifier, or nil.
func (r *JobApplicationRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	rec, err := r.db.Collection(filedb.CollectionJobApplications).GetByID(ctx, id)
	return decodeJobApplication(rec, err)
}

// List returns applications newest first with the collection total.
func (r *JobApplicationRepository) List(ctx context.Context, skip, limit int) ([]models.JobApplication, int, error) {
	records, err := r.db.Collection(filedb.CollectionJobApplications).ListWhere(ctx, "applications", nil)
	if err != nil {
		return nil, 0, fmt.Errorf("list job applications: %w", err)
	}
	var applications []models.JobApplication
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &applications); err != nil {
		return nil, 0, fmt.Errorf("list job applications: %w", err)
	}
	return applications, len(records), nil
}

// All returns every application, for stats aggregation.
func (r *JobApplicationRepository) All(ctx context.Context) ([]models.JobApplication, error) {
	applications, _, err := r.List(ctx, 0, 0)
	return applications, err
}

// Update shallow-merges partial attributes into the application record.
func (r *JobApplicationRepository) Update(ctx context.Context, id string, partial filedb.Record) (*models.JobApplication, error) {
	rec, err := r.db.Collection(filedb.CollectionJobApplications).Update(ctx, id, partial)
	return decodeJobApplication(rec, err)
}

// Delete removes the application; the boolean reports whether a removal occurred.
func (r *JobApplicationRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.db.Collection(filedb.CollectionJobApplications).Delete(ctx, id)
}

func decodeJobApplication(rec filedb.Record, err error) (*models.JobApplication, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	var application models.JobApplication
	if err := filedb.Decode(rec, &application); err != nil {
		return nil, fmt.Errorf("decode job application: %w", err)
	}
	return &application, nil
}
