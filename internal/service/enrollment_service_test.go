package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]*models.Enrollment
	nextID      int
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: map[string]*models.Enrollment{}}
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	m.nextID++
	stored := *enrollment
	stored.ID = fmt.Sprintf("enr-%d", m.nextID)
	stored.Status = models.EnrollmentPending
	stored.CreatedAt = time.Now().UTC()
	m.enrollments[stored.ID] = &stored
	return &stored, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	return m.enrollments[id], nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context, skip, limit int) ([]models.Enrollment, int, error) {
	var out []models.Enrollment
	for _, e := range m.enrollments {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (m *mockEnrollmentRepo) ListByEmail(ctx context.Context, email string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range m.enrollments {
		if strings.EqualFold(e.Email, email) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, id string, partial filedb.Record) (*models.Enrollment, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return nil, nil
	}
	if status, ok := partial[filedb.FieldStatus].(string); ok {
		e.Status = models.EnrollmentStatus(status)
	}
	return e, nil
}

func testEnrollmentRequest() models.EnrollmentCreateRequest {
	return models.EnrollmentCreateRequest{
		FirstName:   "Mei",
		LastName:    "Tanaka",
		Email:       "mei@example.com",
		Phone:       "555-0103",
		ZipCode:     "98004",
		Course:      "junior-ai",
		StudentType: "high-school",
		Country:     "US",
	}
}

func TestEnrollmentCreateQueuesConfirmation(t *testing.T) {
	repo := newMockEnrollmentRepo()
	mail := &recordingDispatcher{}
	svc := NewEnrollmentService(repo, nil, nil, mail)

	created, err := svc.Create(context.Background(), testEnrollmentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentPending, created.Status)

	messages := mail.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "mei@example.com", messages[0].To)
	assert.Contains(t, messages[0].Subject, "junior-ai")
}

func TestEnrollmentCreateValidation(t *testing.T) {
	svc := NewEnrollmentService(newMockEnrollmentRepo(), nil, nil, nil)

	req := testEnrollmentRequest()
	req.Course = ""
	_, err := svc.Create(context.Background(), req)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestEnrollmentGetOwnership(t *testing.T) {
	repo := newMockEnrollmentRepo()
	svc := NewEnrollmentService(repo, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testEnrollmentRequest())
	require.NoError(t, err)

	owner := models.JWTClaims{Email: "MEI@example.com"}
	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	stranger := models.JWTClaims{Email: "other@example.com"}
	_, err = svc.Get(ctx, stranger, created.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	_, err = svc.Get(ctx, owner, "ghost")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestEnrollmentUpdateStatus(t *testing.T) {
	repo := newMockEnrollmentRepo()
	svc := NewEnrollmentService(repo, nil, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, testEnrollmentRequest())
	require.NoError(t, err)

	status := models.EnrollmentConfirmed
	updated, err := svc.Update(ctx, created.ID, models.EnrollmentUpdateRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentConfirmed, updated.Status)

	bad := models.EnrollmentStatus("rejected")
	_, err = svc.Update(ctx, created.ID, models.EnrollmentUpdateRequest{Status: &bad})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = svc.Update(ctx, "ghost", models.EnrollmentUpdateRequest{Status: &status})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestEnrollmentListMine(t *testing.T) {
	repo := newMockEnrollmentRepo()
	svc := NewEnrollmentService(repo, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, testEnrollmentRequest())
	require.NoError(t, err)

	other := testEnrollmentRequest()
	other.Email = "other@example.com"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "mei@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mei@example.com", mine[0].Email)
}
