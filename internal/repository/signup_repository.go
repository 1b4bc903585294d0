package repository

import (
	"context"
	"fmt"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

// Sequence names inside the early-access signup collection.
const (
	signupStudents   = "students"
	signupCounselors = "counselors"
)

// SignupRepository provides store access for early-access signups. Students
// and counselors share one collection file under separate sequences.
type SignupRepository struct {
	db *filedb.Store
}

// NewSignupRepository creates a new instance of SignupRepository.
func NewSignupRepository(db *filedb.Store) *SignupRepository {
	return &SignupRepository{db: db}
}

// CreateStudent persists a student/parent signup.
func (r *SignupRepository) CreateStudent(ctx context.Context, signup *models.StudentSignup) (*models.StudentSignup, error) {
	attrs, err := createAttrs(signup)
	if err != nil {
		return nil, fmt.Errorf("create student signup: %w", err)
	}
	rec, err := r.db.Collection(filedb.CollectionSignups).Create(ctx, attrs, filedb.InSequence(signupStudents))
	if err != nil || rec == nil {
		return nil, err
	}
	var stored models.StudentSignup
	if err := filedb.Decode(rec, &stored); err != nil {
		return nil, fmt.Errorf("decode student signup: %w", err)
	}
	return &stored, nil
}

// CreateCounselor persists a counselor signup.
func (r *SignupRepository) CreateCounselor(ctx context.Context, signup *models.CounselorSignup) (*models.CounselorSignup, error) {
	attrs, err := createAttrs(signup)
	if err != nil {
		return nil, fmt.Errorf("create counselor signup: %w", err)
	}
	rec, err := r.db.Collection(filedb.CollectionSignups).Create(ctx, attrs, filedb.InSequence(signupCounselors))
	if err != nil || rec == nil {
		return nil, err
	}
	var stored models.CounselorSignup
	if err := filedb.Decode(rec, &stored); err != nil {
		return nil, fmt.Errorf("decode counselor signup: %w", err)
	}
	return &stored, nil
}

// ListStudents returns student signups newest first with the total. A
// non-empty status narrows the listing before pagination.
func (r *SignupRepository) ListStudents(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.StudentSignup, int, error) {
	records, err := r.db.Collection(filedb.CollectionSignups).ListWhere(ctx, signupStudents, statusPred(status))
	if err != nil {
		return nil, 0, fmt.Errorf("list student signups: %w", err)
	}
	var signups []models.StudentSignup
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &signups); err != nil {
		return nil, 0, fmt.Errorf("list student signups: %w", err)
	}
	return signups, len(records), nil
}

// ListCounselors returns counselor signups newest first with the total.
func (r *SignupRepository) ListCounselors(ctx context.Context, skip, limit int, status models.SignupStatus) ([]models.CounselorSignup, int, error) {
	records, err := r.db.Collection(filedb.CollectionSignups).ListWhere(ctx, signupCounselors, statusPred(status))
	if err != nil {
		return nil, 0, fmt.Errorf("list counselor signups: %w", err)
	}
	var signups []models.CounselorSignup
	if err := filedb.DecodeAll(pageSlice(records, skip, limit), &signups); err != nil {
		return nil, 0, fmt.Errorf("list counselor signups: %w", err)
	}
	return signups, len(records), nil
}

// UpdateStudentStatus shallow-merges a status change into the student
// signup with the given identifier. The update is scoped to the students
// sequence: a counselor id yields nil with nothing written.
func (r *SignupRepository) UpdateStudentStatus(ctx context.Context, id string, status models.SignupStatus) (filedb.Record, error) {
	return r.db.Collection(filedb.CollectionSignups).UpdateIn(ctx, signupStudents, id, filedb.Record{
		filedb.FieldStatus: string(status),
	})
}

// UpdateCounselorStatus is UpdateStudentStatus for the counselors sequence.
func (r *SignupRepository) UpdateCounselorStatus(ctx context.Context, id string, status models.SignupStatus) (filedb.Record, error) {
	return r.db.Collection(filedb.CollectionSignups).UpdateIn(ctx, signupCounselors, id, filedb.Record{
		filedb.FieldStatus: string(status),
	})
}

func statusPred(status models.SignupStatus) func(filedb.Record) bool {
	if status == "" {
		return nil
	}
	return func(rec filedb.Record) bool {
		return rec.String(filedb.FieldStatus) == string(status)
	}
}
