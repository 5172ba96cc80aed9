package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/renovo/internal/areaphotos"
	"github.com/vbonduro/renovo/internal/domain"
)

func TestPreferencesStoreGet_Missing(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	record, err := prefs.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestPreferencesStorePutAndGet(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	doc := domain.NewDesignPreferences()
	doc.Style = "shaker"
	doc.BeforePhotos = areaphotos.Map{"kitchen": {"https://a", "https://b"}}

	version, err := prefs.Put(ctx, project.ID, doc, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	record, err := prefs.Get(ctx, project.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, int64(1), record.Version)
	assert.Equal(t, "shaker", record.Preferences.Style)
	assert.Equal(t, doc.BeforePhotos, record.Preferences.BeforePhotos)
}

func TestPreferencesStorePut_VersionIncrements(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	version, err := prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0)
	require.NoError(t, err)

	doc := domain.NewDesignPreferences()
	doc.Notes = "keep the island"
	version, err = prefs.Put(ctx, project.ID, doc, version)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	record, err := prefs.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Version)
	assert.Equal(t, "keep the island", record.Preferences.Notes)
}

func TestPreferencesStorePut_StaleVersionConflicts(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	version, err := prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0)
	require.NoError(t, err)
	_, err = prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), version)
	require.NoError(t, err)

	// A writer still holding the first version must lose.
	_, err = prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), version)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestPreferencesStorePut_DoubleCreateConflicts(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	_, err = prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0)
	require.NoError(t, err)
	_, err = prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestPreferencesStoreGet_PreservesUnknownFields(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)

	_, err = d.ExecContext(ctx, `INSERT INTO design_preferences (project_id, document) VALUES (?, ?)`,
		project.ID, `{"palette":["sage"],"before_photos":{"Primary Bedroom":["https://a"]}}`)
	require.NoError(t, err)

	record, err := prefs.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, areaphotos.Map{"Primary Bedroom": {"https://a"}}, record.Preferences.BeforePhotos)
	assert.JSONEq(t, `["sage"]`, string(record.Preferences.Extra["palette"]))

	_, err = prefs.Put(ctx, project.ID, record.Preferences, record.Version)
	require.NoError(t, err)

	var document string
	require.NoError(t, d.QueryRowContext(ctx, `SELECT document FROM design_preferences WHERE project_id = ?`, project.ID).Scan(&document))
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(document), &fields))
	assert.Contains(t, fields, "palette")
}

func TestPreferencesStoreListProjectIDs(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	first, err := projects.Create(ctx, "First", "")
	require.NoError(t, err)
	_, err = projects.Create(ctx, "No Document", "")
	require.NoError(t, err)
	third, err := projects.Create(ctx, "Third", "")
	require.NoError(t, err)

	for _, id := range []int64{third.ID, first.ID} {
		_, err := prefs.Put(ctx, id, domain.NewDesignPreferences(), 0)
		require.NoError(t, err)
	}

	ids, err := prefs.ListProjectIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, third.ID}, ids)
}

func TestPreferencesCascadeOnProjectDelete(t *testing.T) {
	d := openTestDB(t)
	projects := NewProjectStore(d)
	prefs := NewPreferencesStore(d)
	ctx := context.Background()

	project, err := projects.Create(ctx, "Kitchen", "")
	require.NoError(t, err)
	_, err = prefs.Put(ctx, project.ID, domain.NewDesignPreferences(), 0)
	require.NoError(t, err)

	require.NoError(t, projects.Delete(ctx, project.ID))

	record, err := prefs.Get(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, record)
}
