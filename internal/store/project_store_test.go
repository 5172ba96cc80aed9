package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/renovo/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestProjectStoreCreate(t *testing.T) {
	store := NewProjectStore(openTestDB(t))
	ctx := context.Background()

	project, err := store.Create(ctx, "Maple Street Kitchen", "dana@example.com")
	require.NoError(t, err)
	assert.NotZero(t, project.ID)
	assert.Equal(t, "Maple Street Kitchen", project.Name)
	assert.Equal(t, "dana@example.com", project.Owner)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestProjectStoreGetByID(t *testing.T) {
	store := NewProjectStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, "Basement Finish", "")
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, created.ID, retrieved.ID)
	assert.Equal(t, created.Name, retrieved.Name)
}

func TestProjectStoreGetByID_Missing(t *testing.T) {
	store := NewProjectStore(openTestDB(t))

	retrieved, err := store.GetByID(context.Background(), 99999)
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestProjectStoreList(t *testing.T) {
	store := NewProjectStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, "patio", "")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Bathroom Refresh", "")
	require.NoError(t, err)

	projects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Bathroom Refresh", projects[0].Name)
	assert.Equal(t, "patio", projects[1].Name)
}

func TestProjectStoreUpdate(t *testing.T) {
	store := NewProjectStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, "Old Name", "")
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, created.ID, "New Name"))

	updated, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
}

func TestProjectStoreUpdate_NotFound(t *testing.T) {
	store := NewProjectStore(openTestDB(t))

	err := store.Update(context.Background(), 99999, "Name")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectStoreDelete(t *testing.T) {
	store := NewProjectStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.Create(ctx, "Temp Project", "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, created.ID))

	retrieved, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved)
}

func TestProjectStoreDelete_NotFound(t *testing.T) {
	store := NewProjectStore(openTestDB(t))

	err := store.Delete(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}
