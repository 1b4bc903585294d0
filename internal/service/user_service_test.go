package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
	appErrors "github.com/stempro/academy-api/pkg/errors"
)

type mockAdminUserRepo struct {
	users map[string]*models.User
}

func newMockAdminUserRepo(users ...*models.User) *mockAdminUserRepo {
	m := &mockAdminUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockAdminUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.users[id], nil
}

func (m *mockAdminUserRepo) List(ctx context.Context, skip, limit int) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockAdminUserRepo) Update(ctx context.Context, id string, partial filedb.Record) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if name, ok := partial["name"].(string); ok {
		u.Name = name
	}
	if active, ok := partial["is_active"].(bool); ok {
		u.IsActive = active
	}
	if admin, ok := partial["is_admin"].(bool); ok {
		u.IsAdmin = admin
	}
	return u, nil
}

func (m *mockAdminUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func testUser(id, email string) *models.User {
	return &models.User{
		ID:        id,
		Email:     email,
		Name:      "Test User",
		Role:      models.RoleStudent,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

func TestUserGetSelfOnly(t *testing.T) {
	repo := newMockAdminUserRepo(testUser("u1", "a@example.com"), testUser("u2", "b@example.com"))
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	self := models.JWTClaims{UserID: "u1", Email: "a@example.com"}
	got, err := svc.Get(ctx, self, "u1")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = svc.Get(ctx, self, "u2")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	admin := models.JWTClaims{UserID: "u2", IsAdmin: true}
	_, err = svc.Get(ctx, admin, "u1")
	require.NoError(t, err)
}

func TestUserUpdateGuards(t *testing.T) {
	repo := newMockAdminUserRepo(testUser("u1", "a@example.com"), testUser("u2", "b@example.com"))
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()
	self := models.JWTClaims{UserID: "u1"}

	name := "Renamed"
	updated, err := svc.Update(ctx, self, "u1", models.UserUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	_, err = svc.Update(ctx, self, "u2", models.UserUpdateRequest{Name: &name})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))

	// Self-promotion to admin is blocked.
	grant := true
	_, err = svc.Update(ctx, self, "u1", models.UserUpdateRequest{IsAdmin: &grant})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrForbidden))
	assert.False(t, repo.users["u1"].IsAdmin)

	admin := models.JWTClaims{UserID: "u2", IsAdmin: true}
	_, err = svc.Update(ctx, admin, "u1", models.UserUpdateRequest{IsAdmin: &grant})
	require.NoError(t, err)
	assert.True(t, repo.users["u1"].IsAdmin)
}

func TestUserDeleteGuards(t *testing.T) {
	repo := newMockAdminUserRepo(testUser("u1", "a@example.com"), testUser("u2", "b@example.com"))
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()
	admin := models.JWTClaims{UserID: "u1", IsAdmin: true}

	err := svc.Delete(ctx, admin, "u1")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	require.NoError(t, svc.Delete(ctx, admin, "u2"))
	err = svc.Delete(ctx, admin, "u2")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestUserMakeAdminAndToggleActive(t *testing.T) {
	repo := newMockAdminUserRepo(testUser("u1", "a@example.com"))
	svc := NewUserService(repo, nil, nil)
	ctx := context.Background()

	promoted, err := svc.MakeAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	active, err := svc.ToggleActive(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, repo.users["u1"].IsActive)

	active, err = svc.ToggleActive(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, active)

	_, err = svc.MakeAdmin(ctx, "ghost")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestUserListStripsSensitiveFields(t *testing.T) {
	u := testUser("u1", "a@example.com")
	u.PasswordHash = "secret-hash"
	repo := newMockAdminUserRepo(u)
	svc := NewUserService(repo, nil, nil)

	users, page, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "a@example.com", users[0].Email)
}
