package database

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}))
	return db
}

func TestProjectRepoRoundTrip(t *testing.T) {
	repo := NewProjectRepo(newTestDB(t))

	project := &models.Project{Name: "Riverside Loft", Budget: 85000}
	require.NoError(t, repo.Add(project))
	require.NotZero(t, project.ID)
	require.Equal(t, models.ProjectPlanning, project.Status)

	loaded, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.Equal(t, "Riverside Loft", loaded.Name)
	require.NotNil(t, loaded.Rooms)
	require.Empty(t, loaded.Rooms)
}

func TestProjectRepoAggregateOps(t *testing.T) {
	repo := NewProjectRepo(newTestDB(t))

	project := &models.Project{Name: "Harbor House"}
	require.NoError(t, repo.Add(project))

	_, err := repo.AddRoom(project.ID, "Kitchen", "")
	require.NoError(t, err)
	roomID := uint(1)

	_, err = repo.AddTask(project.ID, models.TaskInput{Name: "Tile floor", RoomID: &roomID})
	require.NoError(t, err)
	updated, err := repo.AddTask(project.ID, models.TaskInput{Name: "Order lights", Status: models.TaskDone})
	require.NoError(t, err)
	require.Equal(t, 50, updated.Progress)

	updated, err = repo.AddLog(project.ID, models.LogInput{
		Text:      "demo day",
		RoomID:    &roomID,
		PhotoURL:  "https://cdn.example.com/demo.jpg",
		CreatedBy: 1,
	})
	require.NoError(t, err)
	require.Len(t, updated.Photos, 1)

	// Everything survives a reload through the collection columns
	loaded, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Rooms, 1)
	require.Len(t, loaded.Tasks, 2)
	require.Len(t, loaded.Logs, 1)
	require.Len(t, loaded.Photos, 1)
	require.Equal(t, 50, loaded.Progress)
	require.Equal(t, roomID, *loaded.Tasks[0].RoomID)
	require.Equal(t, loaded.Logs[0].ID, loaded.Photos[0].LogID)
}

func TestStoredCollectionsUseSnakeCaseKeys(t *testing.T) {
	db := newTestDB(t)
	repo := NewProjectRepo(db)

	project := &models.Project{Name: "Casing Check"}
	require.NoError(t, repo.Add(project))
	roomProject, err := repo.AddRoom(project.ID, "Study", "")
	require.NoError(t, err)
	_, err = repo.AddTask(project.ID, models.TaskInput{Name: "Shelving", RoomID: &roomProject.Rooms[0].ID})
	require.NoError(t, err)

	var rawTasks string
	require.NoError(t, db.Raw("SELECT tasks FROM projects WHERE id = ?", project.ID).Scan(&rawTasks).Error)
	require.Contains(t, rawTasks, `"room_id"`)
	require.Contains(t, rawTasks, `"created_at"`)
	require.NotContains(t, rawTasks, `"roomId"`)
	require.NotContains(t, rawTasks, `"createdAt"`)

	// And the scan path converts back to the caller-facing shape
	loaded, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.Equal(t, "Shelving", loaded.Tasks[0].Name)
	require.NotNil(t, loaded.Tasks[0].RoomID)
	require.False(t, loaded.Tasks[0].CreatedAt.IsZero())
}

func TestProjectRepoNotFound(t *testing.T) {
	repo := NewProjectRepo(newTestDB(t))

	_, err := repo.FindByID(123)
	require.True(t, errs.IsNotFound(err))
	require.True(t, errs.IsNotFound(repo.Delete(123)))
	_, err = repo.AddRoom(123, "x", "")
	require.True(t, errs.IsNotFound(err))
}

func TestProjectRepoUpdateMergesFields(t *testing.T) {
	repo := NewProjectRepo(newTestDB(t))

	project := &models.Project{Name: "Old Name", Location: "Lisbon"}
	require.NoError(t, repo.Add(project))

	updated, err := repo.Update(project.ID, map[string]any{
		"name":   "New Name",
		"status": string(models.ProjectInProgress),
	})
	require.NoError(t, err)
	require.Equal(t, "New Name", updated.Name)
	require.Equal(t, models.ProjectInProgress, updated.Status)
	require.Equal(t, "Lisbon", updated.Location)

	loaded, err := repo.FindByID(project.ID)
	require.NoError(t, err)
	require.Equal(t, "New Name", loaded.Name)
}

func TestBothBackendsAgreeOnAggregateSemantics(t *testing.T) {
	backends := map[string]ProjectStore{
		"memory":     NewMemoryStore().Projects(),
		"relational": NewProjectRepo(newTestDB(t)),
	}

	for name, store := range backends {
		t.Run(name, func(t *testing.T) {
			project := &models.Project{Name: "Parity"}
			require.NoError(t, store.Add(project))

			_, err := store.AddRoom(project.ID, "Kitchen", "")
			require.NoError(t, err)
			_, err = store.AddTask(project.ID, models.TaskInput{Name: "a", Status: models.TaskDone})
			require.NoError(t, err)
			_, err = store.AddTask(project.ID, models.TaskInput{Name: "b"})
			require.NoError(t, err)
			_, err = store.AddTask(project.ID, models.TaskInput{Name: "c"})
			require.NoError(t, err)

			loaded, err := store.FindByID(project.ID)
			require.NoError(t, err)
			require.Equal(t, 33, loaded.Progress)
			require.Equal(t, uint(3), loaded.Tasks[2].ID)

			loaded, err = store.DeleteTask(project.ID, 2)
			require.NoError(t, err)
			require.Equal(t, 50, loaded.Progress)
		})
	}
}

func TestTaskListValueUsesSnakeCase(t *testing.T) {
	// Guard against the stored-side casing convention drifting: the column
	// codec, not gorm, owns the snake_case form.
	value, err := models.TaskList{{ID: 1, Name: "x"}}.Value()
	require.NoError(t, err)
	require.True(t, strings.Contains(value.(string), "created_at"))
}
