package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktimer/internal/core/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	return store, dir
}

func mustAddProject(t *testing.T, store *Store, name string, programs ...string) model.Project {
	t.Helper()
	project, err := store.AddProject(model.Project{Name: name, Programs: programs})
	require.NoError(t, err)
	return project
}

func TestOpenCreatesDocumentWithDefaults(t *testing.T) {
	store, dir := openTestStore(t)

	assert.Equal(t, filepath.Join(dir, documentName), store.Path())
	assert.FileExists(t, store.Path())

	settings := store.Settings()
	assert.Equal(t, model.DefaultSettings(), settings)
	assert.Empty(t, store.Projects())
	assert.Empty(t, store.CurrentProject())
}

func TestOpenFillsMissingSections(t *testing.T) {
	dir := t.TempDir()
	partial := []byte(`{"projects":[{"id":"p1","name":"Writer"}]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentName), partial, 0o644))

	store, err := Open(dir)
	require.NoError(t, err)

	require.Len(t, store.Projects(), 1)
	settings := store.Settings()
	assert.Equal(t, 300, settings.RestingThreshold)
	assert.Equal(t, 1800, settings.SleepingThreshold)
	assert.Equal(t, 1200, settings.HardworkingThreshold)
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentName), []byte("{not json"), 0o644))

	_, err := Open(dir)
	assert.Error(t, err)
}

func TestDataSurvivesReopen(t *testing.T) {
	store, dir := openTestStore(t)

	project := mustAddProject(t, store, "Writer", "Word")
	require.NoError(t, store.SetCurrentProject(project.ID))

	now := time.Now().Truncate(time.Second)
	_, err := store.AppendWorkLog(model.WorkLog{
		ProjectID: project.ID,
		State:     model.StateWorking,
		StartTime: now.Add(-10 * time.Minute),
		EndTime:   now,
	})
	require.NoError(t, err)

	reopened, err := Open(dir)
	require.NoError(t, err)

	restored, ok := reopened.Project(project.ID)
	require.True(t, ok)
	assert.Equal(t, "Writer", restored.Name)
	assert.Equal(t, project.ID, reopened.CurrentProject())
	require.Len(t, reopened.WorkLogs(time.Time{}, time.Time{}), 1)
}

func TestAddProjectAssignsIdentity(t *testing.T) {
	store, _ := openTestStore(t)

	project := mustAddProject(t, store, "Writer")
	assert.NotEmpty(t, project.ID)
	assert.False(t, project.CreatedAt.IsZero())

	_, err := store.AddProject(model.Project{})
	assert.Error(t, err, "a project needs a name")
}

func TestUpdateProjectPreservesCreationTime(t *testing.T) {
	store, _ := openTestStore(t)
	project := mustAddProject(t, store, "Writer", "Word")

	project.Name = "Novel"
	project.CreatedAt = time.Time{}
	require.NoError(t, store.UpdateProject(project))

	updated, ok := store.Project(project.ID)
	require.True(t, ok)
	assert.Equal(t, "Novel", updated.Name)
	assert.False(t, updated.CreatedAt.IsZero())

	assert.Error(t, store.UpdateProject(model.Project{ID: "missing"}))
}

func TestDeleteProjectCascades(t *testing.T) {
	store, _ := openTestStore(t)
	writer := mustAddProject(t, store, "Writer")
	coder := mustAddProject(t, store, "Coder")
	require.NoError(t, store.SetCurrentProject(writer.ID))

	now := time.Now()
	for _, projectID := range []string{writer.ID, writer.ID, coder.ID} {
		_, err := store.AppendWorkLog(model.WorkLog{
			ProjectID: projectID,
			State:     model.StateWorking,
			StartTime: now.Add(-time.Hour),
			EndTime:   now,
		})
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteProject(writer.ID))

	_, ok := store.Project(writer.ID)
	assert.False(t, ok)
	assert.Empty(t, store.CurrentProject(), "deleting the selected project clears the selection")

	remaining := store.WorkLogs(time.Time{}, time.Time{})
	require.Len(t, remaining, 1)
	assert.Equal(t, coder.ID, remaining[0].ProjectID)

	assert.Error(t, store.DeleteProject("missing"))
}

func TestSetCurrentProjectValidates(t *testing.T) {
	store, _ := openTestStore(t)
	project := mustAddProject(t, store, "Writer")

	assert.Error(t, store.SetCurrentProject("missing"))
	require.NoError(t, store.SetCurrentProject(project.ID))
	require.NoError(t, store.SetCurrentProject(""))
	assert.Empty(t, store.CurrentProject())
}

func TestAppendWorkLogValidatesAndRecomputesDuration(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Now()

	_, err := store.AppendWorkLog(model.WorkLog{
		State:     model.StateWorking,
		StartTime: now,
		EndTime:   now,
	})
	assert.Error(t, err, "an empty interval is rejected")

	_, err = store.AppendWorkLog(model.WorkLog{
		State:     model.WorkState("daydreaming"),
		StartTime: now.Add(-time.Minute),
		EndTime:   now,
	})
	assert.Error(t, err)

	saved, err := store.AppendWorkLog(model.WorkLog{
		State:     model.StateResting,
		StartTime: now.Add(-90 * time.Second),
		EndTime:   now,
		Duration:  12345,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, int64(90), saved.Duration, "duration always derives from the endpoints")
}

func TestWorkLogsRangeIsInclusive(t *testing.T) {
	store, _ := openTestStore(t)
	base := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, time.Hour, 2 * time.Hour, 3 * time.Hour} {
		_, err := store.AppendWorkLog(model.WorkLog{
			State:     model.StateResting,
			StartTime: base.Add(offset),
			EndTime:   base.Add(offset + 30*time.Minute),
		})
		require.NoError(t, err)
	}

	matched := store.WorkLogs(base.Add(time.Hour), base.Add(2*time.Hour))
	require.Len(t, matched, 2, "both boundary entries are included")

	assert.Len(t, store.WorkLogs(time.Time{}, base.Add(time.Hour)), 2)
	assert.Len(t, store.WorkLogs(base.Add(3*time.Hour), time.Time{}), 1)
	assert.Len(t, store.WorkLogs(time.Time{}, time.Time{}), 4)
}

func TestPurgeOlderThan(t *testing.T) {
	store, _ := openTestStore(t)
	now := time.Now()

	for _, age := range []time.Duration{48 * time.Hour, 24 * time.Hour, time.Hour} {
		_, err := store.AppendWorkLog(model.WorkLog{
			State:     model.StateResting,
			StartTime: now.Add(-age),
			EndTime:   now.Add(-age + time.Minute),
		})
		require.NoError(t, err)
	}

	purged, err := store.PurgeOlderThan(now.Add(-36 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
	assert.Len(t, store.WorkLogs(time.Time{}, time.Time{}), 2)

	purged, err = store.PurgeOlderThan(now.Add(-36 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestOpenPurgesExpiredLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	doc := document{
		WorkLogs: []model.WorkLog{
			{ID: "old", State: model.StateWorking, StartTime: now.Add(-31 * 24 * time.Hour), EndTime: now.Add(-31*24*time.Hour + time.Hour), Duration: 3600},
			{ID: "recent", State: model.StateWorking, StartTime: now.Add(-time.Hour), EndTime: now, Duration: 3600},
		},
		Settings: model.DefaultSettings(),
	}
	rawData, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentName), rawData, 0o644))

	store, err := Open(dir)
	require.NoError(t, err)

	remaining := store.WorkLogs(time.Time{}, time.Time{})
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].ID)
}

func TestSetSettingsNormalizes(t *testing.T) {
	store, _ := openTestStore(t)

	require.NoError(t, store.SetSettings(model.Settings{SleepingThreshold: 900}))

	settings := store.Settings()
	assert.Equal(t, 900, settings.SleepingThreshold)
	assert.Equal(t, 300, settings.RestingThreshold, "unset fields fall back to defaults")
	assert.Equal(t, 1200, settings.HardworkingThreshold)
}
