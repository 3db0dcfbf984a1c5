package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/hbt/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestNew_CreatesTables(t *testing.T) {
	database := newTestDB(t)

	for _, table := range []string{"settings", "activity"} {
		var count int
		err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestNew_DefaultPathUsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hbt", "hbt.db"), path)

	database, err := New("")
	require.NoError(t, err)
	defer database.Close()
}

func TestSettings(t *testing.T) {
	database := newTestDB(t)

	_, ok, err := database.GetSetting("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, database.SetSetting("k", "v1"))
	require.NoError(t, database.SetSetting("k", "v2"))

	v, ok, err := database.GetSetting("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}

func TestGoals_EmptyBeforeFirstSave(t *testing.T) {
	database := newTestDB(t)

	goals, ok, err := database.LoadGoals()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotNil(t, goals)
	assert.Empty(t, goals)
}

func TestGoals_SaveLoadRoundTrip(t *testing.T) {
	database := newTestDB(t)
	updated := models.NewTimestamp(time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC))

	goals := models.GoalCollection{
		{
			ID:          "3f1c",
			Text:        "Drink water",
			Type:        models.Daily,
			Category:    "health",
			Priority:    models.Medium,
			Completed:   true,
			Progress:    100,
			Streak:      4,
			CreatedAt:   models.NewTimestamp(time.Date(2026, 5, 1, 7, 30, 0, 0, time.UTC)),
			UpdatedAt:   &updated,
			Description: "8 glasses",
		},
		{
			ID:         "local-0192",
			Text:       "Read a chapter",
			Type:       models.Weekly,
			Category:   "learning",
			Priority:   models.Low,
			TargetDate: "2026-06-30",
			Progress:   30,
			CreatedAt:  models.NewTimestamp(time.Date(2026, 5, 1, 8, 0, 0, 123, time.UTC)),
		},
	}

	require.NoError(t, database.SaveGoals(goals))

	loaded, ok, err := database.LoadGoals()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, goals, loaded)
}

func TestGoals_SaveOverwritesInFull(t *testing.T) {
	database := newTestDB(t)

	require.NoError(t, database.SaveGoals(models.GoalCollection{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, database.SaveGoals(models.GoalCollection{{ID: "c"}}))

	loaded, _, err := database.LoadGoals()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c", loaded[0].ID)

	require.NoError(t, database.SaveGoals(nil))
	loaded, ok, err := database.LoadGoals()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, loaded)
}

func TestGoals_CorruptValue(t *testing.T) {
	database := newTestDB(t)
	require.NoError(t, database.SetSetting(GoalsKey, "{not json"))

	_, _, err := database.LoadGoals()
	assert.Error(t, err)
}

func TestSnapshot_Transcript(t *testing.T) {
	database := newTestDB(t)
	msgs := []models.Message{
		{Role: models.RoleUser, Text: "hello", Timestamp: models.NewTimestamp(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))},
		{Role: models.RoleAI, Text: "hi there", Timestamp: models.NewTimestamp(time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC))},
	}
	require.NoError(t, database.SaveTranscript(msgs))
	require.NoError(t, database.SaveGoals(models.GoalCollection{{ID: "g"}}))

	got, ok, err := database.LoadTranscript()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, msgs, got)

	goals, _, err := database.LoadGoals()
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "g", goals[0].ID)
}

func TestActivity_RecordListPrune(t *testing.T) {
	database := newTestDB(t)

	for _, op := range []string{"create", "toggle", "delete"} {
		require.NoError(t, database.RecordActivity(Activity{Op: op, GoalID: "g1", Outcome: "ok", Status: 200}))
	}

	entries, err := database.ListActivity(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "delete", entries[0].Op)
	assert.Equal(t, "toggle", entries[1].Op)
	assert.False(t, entries[0].CreatedAt.IsZero())

	require.NoError(t, database.PruneActivity(1))
	entries, err = database.ListActivity(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "delete", entries[0].Op)
}
