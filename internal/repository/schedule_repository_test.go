package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stempro/academy-api/internal/filedb"
	"github.com/stempro/academy-api/internal/models"
)

func TestScheduleRepositoryCreateDefaultsToPending(t *testing.T) {
	repo := NewScheduleRepository(newTestStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.Schedule{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-0100",
		Message:   "please call",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SchedulePending, created.Status)
	assert.NotEmpty(t, created.ID)
}

func TestScheduleRepositoryListFiltersByStatus(t *testing.T) {
	repo := NewScheduleRepository(newTestStore(t))
	ctx := context.Background()

	first, err := repo.Create(ctx, &models.Schedule{FirstName: "A", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Schedule{FirstName: "B", Email: "b@example.com"})
	require.NoError(t, err)

	_, err = repo.Update(ctx, first.ID, filedb.Record{filedb.FieldStatus: string(models.ScheduleCompleted)})
	require.NoError(t, err)

	completed, total, err := repo.List(ctx, 0, 0, models.ScheduleCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, completed, 1)
	assert.Equal(t, first.ID, completed[0].ID)

	pending, total, err := repo.List(ctx, 0, 0, models.SchedulePending)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, pending, 1)
}

func TestScheduleRepositoryListByEmailIsCaseInsensitive(t *testing.T) {
	repo := NewScheduleRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &models.Schedule{FirstName: "A", Email: "Ada@Example.com"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Schedule{FirstName: "B", Email: "other@example.com"})
	require.NoError(t, err)

	mine, err := repo.ListByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "A", mine[0].FirstName)
}
