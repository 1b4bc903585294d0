package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempro/academy-api/internal/models"
)

func TestSignupRepositorySequencesStayIndependent(t *testing.T) {
	repo := NewSignupRepository(newTestStore(t))
	ctx := context.Background()

	student, err := repo.CreateStudent(ctx, &models.StudentSignup{
		Name:          "Kid",
		Email:         "kid@example.com",
		Phone:         "555-0100",
		ZipCode:       "98004",
		CurrentSchool: "Northside High",
		GradeLevel:    "10",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SignupPending, student.Status)
	assert.NotEmpty(t, student.ID)

	counselor, err := repo.CreateCounselor(ctx, &models.CounselorSignup{
		Name:    "Guide",
		Email:   "guide@example.com",
		Phone:   "555-0101",
		ZipCode: "98004",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SignupPending, counselor.Status)

	students, total, err := repo.ListStudents(ctx, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, students, 1)
	assert.Equal(t, "10", students[0].GradeLevel)

	counselors, total, err := repo.ListCounselors(ctx, 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, counselors, 1)
}

func TestSignupRepositoryStatusFilterAndUpdate(t *testing.T) {
	repo := NewSignupRepository(newTestStore(t))
	ctx := context.Background()

	first, err := repo.CreateStudent(ctx, &models.StudentSignup{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = repo.CreateStudent(ctx, &models.StudentSignup{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	rec, err := repo.UpdateStudentStatus(ctx, first.ID, models.SignupContacted)
	require.NoError(t, err)
	require.NotNil(t, rec)

	contacted, total, err := repo.ListStudents(ctx, 0, 0, models.SignupContacted)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, contacted, 1)
	assert.Equal(t, first.ID, contacted[0].ID)

	missing, err := repo.UpdateStudentStatus(ctx, "ghost", models.SignupContacted)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSignupRepositoryStatusUpdateScopedToSequence(t *testing.T) {
	repo := NewSignupRepository(newTestStore(t))
	ctx := context.Background()

	counselor, err := repo.CreateCounselor(ctx, &models.CounselorSignup{
		Name:    "Guide",
		Email:   "guide@example.com",
		Phone:   "555-0101",
		ZipCode: "98004",
	})
	require.NoError(t, err)
	student, err := repo.CreateStudent(ctx, &models.StudentSignup{Name: "Kid", Email: "kid@example.com"})
	require.NoError(t, err)

	// A counselor id through the student path is a miss, not a write.
	rec, err := repo.UpdateStudentStatus(ctx, counselor.ID, models.SignupEnrolled)
	require.NoError(t, err)
	assert.Nil(t, rec)

	counselors, _, err := repo.ListCounselors(ctx, 0, 0, "")
	require.NoError(t, err)
	require.Len(t, counselors, 1)
	assert.Equal(t, models.SignupPending, counselors[0].Status)
	assert.Nil(t, counselors[0].UpdatedAt)

	rec, err = repo.UpdateCounselorStatus(ctx, student.ID, models.SignupPartner)
	require.NoError(t, err)
	assert.Nil(t, rec)

	students, _, err := repo.ListStudents(ctx, 0, 0, "")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, models.SignupPending, students[0].Status)
}
