package filedb

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Initialize())
	return store
}

func TestInitializeCreatesCollectionFiles(t *testing.T) {
	store := newTestStore(t)

	for _, spec := range defaultSpecs {
		_, err := os.Stat(filepath.Join(store.Dir(), spec.File))
		assert.NoError(t, err, "expected %s to exist", spec.File)
	}

	raw, err := os.ReadFile(filepath.Join(store.Dir(), "early_access_signups.json"))
	require.NoError(t, err)
	var doc map[string][]Record
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "students")
	assert.Contains(t, doc, "counselors")
}

func TestInitializeIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Collection(CollectionSchedules).Create(ctx, Record{"first_name": "Ada"})
	require.NoError(t, err)

	require.NoError(t, store.Initialize())

	got, err := store.Collection(CollectionSchedules).GetByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.String("first_name"))
}

func TestInitializeMigratesLegacyArray(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"legacy-1","email":"old@example.com","created_at":"2024-01-01T00:00:00Z"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enrollments.json"), []byte(legacy), 0o644))

	store, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, store.Initialize())

	got, err := store.Collection(CollectionEnrollments).GetByID(context.Background(), "legacy-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "old@example.com", got.String("email"))

	// The persisted file is now the mapping layout.
	raw, err := os.ReadFile(filepath.Join(dir, "enrollments.json"))
	require.NoError(t, err)
	var doc map[string][]Record
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc["enrollments"], 1)
}

func TestCreateAssignsServerFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Collection(CollectionEnrollments).Create(ctx, Record{
		"email":      "kid@example.com",
		"id":         "caller-supplied",
		"created_at": "caller-supplied",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "caller-supplied", created.ID())
	assert.NotEqual(t, "caller-supplied", created.String(FieldCreatedAt))
	assert.Equal(t, "pending", created.String(FieldStatus))

	got, err := store.Collection(CollectionEnrollments).GetByID(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "kid@example.com", got.String("email"))
}

func TestCreateCallerStatusWins(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Collection(CollectionJobApplications).Create(context.Background(), Record{
		"name":   "Jo",
		"status": "reviewing",
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewing", created.String(FieldStatus))
}

func TestCreatePreconditionRunsInsideLock(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	users := store.Collection(CollectionUsers)

	_, err := users.Create(ctx, Record{"email": "First@Example.com"})
	require.NoError(t, err)

	sentinel := errors.New("duplicate")
	_, err = users.Create(ctx, Record{"email": "other"}, WithPrecondition(func(existing []Record) error {
		require.Len(t, existing, 1)
		return sentinel
	}))
	assert.ErrorIs(t, err, sentinel)

	// The aborted create left nothing behind.
	records, err := users.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGetByIDMissingIsNilNotError(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Collection(CollectionUsers).GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListNewestFirstAndPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	schedules := store.Collection(CollectionSchedules)

	var ids []string
	for _, name := range []string{"a", "b", "c", "d"} {
		rec, err := schedules.Create(ctx, Record{"first_name": name})
		require.NoError(t, err)
		ids = append(ids, rec.ID())
	}

	all, err := schedules.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID(), "newest first")
	assert.Equal(t, ids[0], all[3].ID())

	page, err := schedules.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].ID(), page[0].ID())

	empty, err := schedules.List(ctx, 1000000, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpdateShallowMergePreservesOtherFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	schedules := store.Collection(CollectionSchedules)

	created, err := schedules.Create(ctx, Record{
		"first_name": "Ada",
		"email":      "ada@example.com",
		"message":    "please call",
	})
	require.NoError(t, err)

	updated, err := schedules.Update(ctx, created.ID(), Record{"status": "scheduled"})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "scheduled", updated.String(FieldStatus))
	assert.Equal(t, "ada@example.com", updated.String("email"))
	assert.Equal(t, "please call", updated.String("message"))
	assert.NotEmpty(t, updated.String(FieldUpdatedAt))
	assert.Equal(t, created.String(FieldCreatedAt), updated.String(FieldCreatedAt))
}

func TestUpdateMissingIsNilNotError(t *testing.T) {
	store := newTestStore(t)

	updated, err := store.Collection(CollectionSchedules).Update(context.Background(), "ghost", Record{"status": "completed"})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteReportsRemoval(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	schedules := store.Collection(CollectionSchedules)

	created, err := schedules.Create(ctx, Record{"first_name": "Ada"})
	require.NoError(t, err)

	removed, err := schedules.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = schedules.Delete(ctx, created.ID())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestConcurrentDisjointUpdatesBothSurvive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	schedules := store.Collection(CollectionSchedules)

	a, err := schedules.Create(ctx, Record{"first_name": "A"})
	require.NoError(t, err)
	b, err := schedules.Create(ctx, Record{"first_name": "B"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := schedules.Update(ctx, a.ID(), Record{"notes": "first"})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := schedules.Update(ctx, b.ID(), Record{"notes": "second"})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	gotA, err := schedules.GetByID(ctx, a.ID())
	require.NoError(t, err)
	gotB, err := schedules.GetByID(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, "first", gotA.String("notes"))
	assert.Equal(t, "second", gotB.String("notes"))
}

func TestConcurrentUpdatesToSameRecordDisjointFieldsBothSurvive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	schedules := store.Collection(CollectionSchedules)

	created, err := schedules.Create(ctx, Record{"first_name": "Ada"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := schedules.Update(ctx, created.ID(), Record{FieldStatus: "scheduled"})
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := schedules.Update(ctx, created.ID(), Record{"notes": "bring transcript"})
		errs <- err
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// The lock serializes both read-modify-write cycles, so neither field
	// overwrites the other.
	got, err := schedules.GetByID(ctx, created.ID())
	require.NoError(t, err)
	assert.Equal(t, "scheduled", got.String(FieldStatus))
	assert.Equal(t, "bring transcript", got.String("notes"))
}

func TestUpdateInScopedToSequence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	signups := store.Collection(CollectionSignups)

	counselor, err := signups.Create(ctx, Record{"name": "Guide"}, InSequence("counselors"))
	require.NoError(t, err)

	rec, err := signups.UpdateIn(ctx, "students", counselor.ID(), Record{FieldStatus: "enrolled"})
	require.NoError(t, err)
	assert.Nil(t, rec)

	got, err := signups.GetByID(ctx, counselor.ID())
	require.NoError(t, err)
	assert.Equal(t, "pending", got.String(FieldStatus))

	rec, err = signups.UpdateIn(ctx, "counselors", counselor.ID(), Record{FieldStatus: "partner"})
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "partner", rec.String(FieldStatus))

	_, err = signups.UpdateIn(ctx, "ghosts", counselor.ID(), Record{FieldStatus: "partner"})
	assert.Error(t, err)
}

func TestConcurrentCreatesAllPersist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	enrollments := store.Collection(CollectionEnrollments)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := enrollments.Create(ctx, Record{"email": "x@example.com"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records, err := enrollments.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, n)
}

func TestCorruptFileQuarantinedAndHealed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	path := filepath.Join(store.Dir(), "users.json")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	records, err := store.Collection(CollectionUsers).List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	// The unparseable payload is preserved as a sibling file.
	matches, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.NotEmpty(t, matches)

	// The next write heals the main file.
	_, err = store.Collection(CollectionUsers).Create(ctx, Record{"email": "new@example.com"})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][]Record
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Len(t, doc["users"], 1)
}

func TestKeyedCollectionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	codes := store.Collection(CollectionResetCodes)

	require.NoError(t, codes.SetKey(ctx, "user@example.com", Record{"code": "123456"}))

	got, err := codes.GetKey(ctx, "user@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.String("code"))

	missing, err := codes.GetKey(ctx, "other@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	removed, err := codes.DeleteKey(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = codes.DeleteKey(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSignupSequencesAreIndependent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	signups := store.Collection(CollectionSignups)

	student, err := signups.Create(ctx, Record{"name": "kid"}, InSequence("students"))
	require.NoError(t, err)
	_, err = signups.Create(ctx, Record{"name": "guide"}, InSequence("counselors"))
	require.NoError(t, err)

	students, err := signups.ListIn(ctx, "students", 0, 0)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, student.ID(), students[0].ID())

	counselors, err := signups.ListIn(ctx, "counselors", 0, 0)
	require.NoError(t, err)
	assert.Len(t, counselors, 1)

	// Cross-sequence lookup by id still works.
	got, err := signups.GetByID(ctx, student.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestUnknownCollectionPanics(t *testing.T) {
	store := newTestStore(t)
	assert.Panics(t, func() {
		store.Collection("no-such-collection")
	})
}

func TestShapeMismatchIsRejected(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Collection(CollectionResetCodes).Create(ctx, Record{"x": "y"})
	assert.Error(t, err)

	err = store.Collection(CollectionUsers).SetKey(ctx, "k", Record{"x": "y"})
	assert.Error(t, err)
}
