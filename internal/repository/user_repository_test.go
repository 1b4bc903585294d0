package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

func newTestStore(t *testing.T) *filedb.Store {
	t.Helper()
	store, err := filedb.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	return store
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{
		Email:        "Ada@Example.com",
		Name:         "Ada",
		Role:         models.RoleStudent,
		Country:      "US",
		PostalCode:   "98004",
		PasswordHash: "hash",
		IsActive:     true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.IsActive)

	byEmail, err := repo.FindByEmail(ctx, "ada@example.COM")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Ada", byID.Name)

	missing, err := repo.FindByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepositoryDuplicateEmailCaseInsensitive(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.User{Email: "taken@example.com", Name: "First"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Email: "TAKEN@EXAMPLE.COM", Name: "Second"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, total, err := repo.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestUserRepositoryUpdatePreservesUnrelatedFields(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{
		Email:        "ada@example.com",
		Name:         "Ada",
		PasswordHash: "hash",
		IsActive:     true,
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, filedb.Record{"name": "Ada Lovelace"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "hash", updated.PasswordHash)
	assert.True(t, updated.IsActive)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUserRepositoryDelete(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.User{Email: "ada@example.com"})
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestResetCodeRoundTrip(t *testing.T) {
	repo := NewUserRepository(newTestStore(t))
	ctx := context.Background()

	code := models.ResetCode{
		Code:       "123456",
		Expiration: time.Now().UTC().Add(15 * time.Minute).Truncate(time.Second),
	}
	require.NoError(t, repo.SaveResetCode(ctx, "User@Example.com", code))

	// Lookup is keyed by lowercased address.
	got, err := repo.FindResetCode(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.Code)
	assert.True(t, code.Expiration.Equal(got.Expiration))

	require.NoError(t, repo.DeleteResetCode(ctx, "USER@example.com"))

	gone, err := repo.FindResetCode(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
