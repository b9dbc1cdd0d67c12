package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack/internal/domain"
	"github.com/phrazzld/tasktrack/internal/platform/postgres"
	"github.com/phrazzld/tasktrack/internal/store"
	"github.com/phrazzld/tasktrack/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var storeNow = time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)

func newTask(name string, dueOffset int, status domain.TaskStatus) *domain.Task {
	return &domain.Task{
		Name:      name,
		DueDate:   domain.DateOf(storeNow).AddDate(0, 0, dueOffset),
		Status:    status,
		OwnerID:   1,
		CreatedAt: storeNow,
		UpdatedAt: storeNow,
	}
}

func setupStore(t *testing.T) (*postgres.PostgresTaskStore, *sql.DB) {
	t.Helper()
	db := testdb.OpenSQLite(t)
	return postgres.NewPostgresTaskStore(db, nil), db
}

func mustCreate(t *testing.T, s store.TaskStore, task *domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func taskIDs(tasks []*domain.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestPostgresTaskStore_CreateAndGet(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, newTask("Write store tests", 3, domain.StatusInProgress))
	assert.Positive(t, task.ID)
	assert.Equal(t, 1, task.Version)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Write store tests", got.Name)
	assert.Equal(t, domain.DateOf(storeNow).AddDate(0, 0, 3), got.DueDate)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, int64(1), got.OwnerID)
	assert.Equal(t, 1, got.Version)
	assert.True(t, storeNow.Equal(got.CreatedAt))

	second := mustCreate(t, s, newTask("Another task", 0, domain.StatusPending))
	assert.Greater(t, second.ID, task.ID)
}

func TestPostgresTaskStore_CreateRejectsInvalidTask(t *testing.T) {
	s, _ := setupStore(t)

	err := s.Create(context.Background(), newTask("no", 0, domain.StatusPending))
	assert.ErrorIs(t, err, domain.ErrValidation)

	bad := newTask("Bad status", 0, "archived")
	assert.ErrorIs(t, s.Create(context.Background(), bad), domain.ErrInvalidTaskStatus)
}

func TestPostgresTaskStore_GetByIDNotFound(t *testing.T) {
	s, _ := setupStore(t)

	_, err := s.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.True(t, store.IsNotFoundError(err))
}

func TestPostgresTaskStore_Listing(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	a := mustCreate(t, s, newTask("Pending early", 1, domain.StatusPending))
	b := mustCreate(t, s, newTask("Working late", 5, domain.StatusInProgress))
	c := mustCreate(t, s, newTask("Done task", 3, domain.StatusCompleted))
	d := mustCreate(t, s, newTask("Dropped task", 5, domain.StatusCancelled))
	e := mustCreate(t, s, newTask("Pending same day", 1, domain.StatusPending))

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{d.ID, b.ID, c.ID, e.ID, a.ID}, taskIDs(all))

	active, err := s.ListByStatuses(ctx, domain.ActiveStatuses)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID, e.ID, a.ID}, taskIDs(active))

	cancelled, err := s.ListByStatuses(ctx, []domain.TaskStatus{domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, []int64{d.ID}, taskIDs(cancelled))

	none, err := s.ListByStatuses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	count, err := s.CountByStatus(ctx, domain.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = s.CountByStatus(ctx, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPostgresTaskStore_UpdateVersioning(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, newTask("Versioned", 2, domain.StatusPending))

	first, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	second, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)

	first.Name = "Versioned and renamed"
	first.Status = domain.StatusCompleted
	require.NoError(t, s.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	second.Name = "Stale write"
	err = s.Update(ctx, second)
	assert.ErrorIs(t, err, store.ErrConcurrencyConflict)

	stored, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Versioned and renamed", stored.Name)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
	assert.Equal(t, 2, stored.Version)
}

func TestPostgresTaskStore_UpdateNotFound(t *testing.T) {
	s, _ := setupStore(t)

	ghost := newTask("Ghost task", 0, domain.StatusPending)
	ghost.ID = 4242
	ghost.Version = 1
	assert.ErrorIs(t, s.Update(context.Background(), ghost), store.ErrTaskNotFound)
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	task := mustCreate(t, s, newTask("Delete me", 0, domain.StatusPending))
	require.NoError(t, s.Delete(ctx, task.ID))

	_, err := s.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete(ctx, task.ID), store.ErrTaskNotFound)

	next := mustCreate(t, s, newTask("After delete", 0, domain.StatusPending))
	assert.Greater(t, next.ID, task.ID, "ids are never reused")
}

func TestPostgresTaskStore_WithTx(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		txStore := s.WithTx(tx)
		task := newTask("Rolled back", 0, domain.StatusPending)
		require.NoError(t, txStore.Create(ctx, task))

		_, err := txStore.GetByID(ctx, task.ID)
		require.NoError(t, err)
	})

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostgresTaskStore_RunInTransaction(t *testing.T) {
	s, db := setupStore(t)
	ctx := context.Background()
	task := mustCreate(t, s, newTask("Transactional", 0, domain.StatusPending))

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		current, err := txStore.GetByID(ctx, task.ID)
		if err != nil {
			return err
		}
		if err := current.Complete(domain.PolicyLastWriteWins, storeNow); err != nil {
			return err
		}
		return txStore.Update(ctx, current)
	})
	require.NoError(t, err)

	stored, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)
}
