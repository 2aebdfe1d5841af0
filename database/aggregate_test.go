package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

func newTestProjects(t *testing.T) (ProjectStore, uint) {
	t.Helper()
	store := NewMemoryStore().Projects()
	project := &models.Project{Name: "Riverside Loft"}
	require.NoError(t, store.Add(project))
	return store, project.ID
}

func uintPtr(v uint) *uint { return &v }

func TestAddRoomAssignsSequentialIDs(t *testing.T) {
	store, projectID := newTestProjects(t)

	for i, name := range []string{"Living Room", "Kitchen", "Study"} {
		project, err := store.AddRoom(projectID, name, "")
		require.NoError(t, err)
		require.Len(t, project.Rooms, i+1)
		require.Equal(t, uint(i+1), project.Rooms[i].ID)
	}
}

func TestAddRoomRequiresName(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "", "no name")
	require.Error(t, err)
	require.True(t, errs.IsMissingRequiredFieldError(err))
}

func TestRoomIDReusedOnlyWhenMaxDeleted(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "Living Room", "")
	require.NoError(t, err)
	_, err = store.AddRoom(projectID, "Kitchen", "")
	require.NoError(t, err)
	_, err = store.AddRoom(projectID, "Study", "")
	require.NoError(t, err)

	// Deleting a middle room must not free its id
	_, err = store.DeleteRoom(projectID, 2)
	require.NoError(t, err)
	project, err := store.AddRoom(projectID, "Bedroom", "")
	require.NoError(t, err)
	require.Equal(t, uint(4), project.Rooms[len(project.Rooms)-1].ID)

	// Deleting the max does free it
	_, err = store.DeleteRoom(projectID, 4)
	require.NoError(t, err)
	project, err = store.AddRoom(projectID, "Hallway", "")
	require.NoError(t, err)
	require.Equal(t, uint(4), project.Rooms[len(project.Rooms)-1].ID)
}

func TestUpdateRoomMergesPatchAndKeepsID(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "Living Room", "street side")
	require.NoError(t, err)

	project, err := store.UpdateRoom(projectID, 1, map[string]any{
		"name": "Salon",
		"id":   99,
	})
	require.NoError(t, err)
	require.Equal(t, uint(1), project.Rooms[0].ID)
	require.Equal(t, "Salon", project.Rooms[0].Name)
	require.Equal(t, "street side", project.Rooms[0].Description)
}

func TestUpdateRoomNotFound(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.UpdateRoom(projectID, 7, map[string]any{"name": "x"})
	require.True(t, errs.IsNotFound(err))
}

func TestDeleteRoomCascadesToItsTasks(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "Living Room", "")
	require.NoError(t, err)
	_, err = store.AddRoom(projectID, "Kitchen", "")
	require.NoError(t, err)

	_, err = store.AddTask(projectID, models.TaskInput{Name: "Paint walls", RoomID: uintPtr(1), Status: models.TaskDone})
	require.NoError(t, err)
	_, err = store.AddTask(projectID, models.TaskInput{Name: "Install cabinets", RoomID: uintPtr(2)})
	require.NoError(t, err)
	_, err = store.AddTask(projectID, models.TaskInput{Name: "Order furniture"})
	require.NoError(t, err)

	project, err := store.DeleteRoom(projectID, 1)
	require.NoError(t, err)
	require.Len(t, project.Rooms, 1)
	require.Len(t, project.Tasks, 2)
	for _, task := range project.Tasks {
		if task.RoomID != nil {
			require.NotEqual(t, uint(1), *task.RoomID)
		}
	}
	// The only done task went with the room
	require.Equal(t, 0, project.Progress)
}

func TestTaskIDsShareOneSpaceAcrossRooms(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "Living Room", "")
	require.NoError(t, err)
	_, err = store.AddRoom(projectID, "Kitchen", "")
	require.NoError(t, err)

	p1, err := store.AddTask(projectID, models.TaskInput{Name: "a", RoomID: uintPtr(1)})
	require.NoError(t, err)
	p2, err := store.AddTask(projectID, models.TaskInput{Name: "b", RoomID: uintPtr(2)})
	require.NoError(t, err)

	require.Equal(t, uint(1), p1.Tasks[0].ID)
	require.Equal(t, uint(2), p2.Tasks[1].ID)
}

func TestAddTaskValidation(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddTask(projectID, models.TaskInput{})
	require.True(t, errs.IsMissingRequiredFieldError(err))

	_, err = store.AddTask(projectID, models.TaskInput{Name: "x", Status: "finished"})
	require.True(t, errs.IsInvalidFieldError(err))

	// Unknown room reference is rejected and the project is untouched
	_, err = store.AddTask(projectID, models.TaskInput{Name: "x", RoomID: uintPtr(9)})
	require.True(t, errs.IsNotFound(err))

	project, err := store.FindByID(projectID)
	require.NoError(t, err)
	require.Empty(t, project.Tasks)
}

func TestAddTaskDefaultsStatus(t *testing.T) {
	store, projectID := newTestProjects(t)

	project, err := store.AddTask(projectID, models.TaskInput{Name: "Order tiles"})
	require.NoError(t, err)
	require.Equal(t, models.TaskNotStarted, project.Tasks[0].Status)
}

func TestProgressFormula(t *testing.T) {
	store, projectID := newTestProjects(t)

	project, err := store.FindByID(projectID)
	require.NoError(t, err)
	require.Equal(t, 0, project.Progress)

	for _, name := range []string{"a", "b", "c"} {
		_, err = store.AddTask(projectID, models.TaskInput{Name: name})
		require.NoError(t, err)
	}

	// 1 of 3 done rounds to 33
	project, err = store.UpdateTask(projectID, 1, map[string]any{"status": "done"})
	require.NoError(t, err)
	require.Equal(t, 33, project.Progress)

	// 2 of 3 done rounds to 67
	project, err = store.UpdateTask(projectID, 2, map[string]any{"status": "done"})
	require.NoError(t, err)
	require.Equal(t, 67, project.Progress)

	// Deleting the unfinished task leaves 2 of 2
	project, err = store.DeleteTask(projectID, 3)
	require.NoError(t, err)
	require.Equal(t, 100, project.Progress)

	// Deleting everything resets to zero
	project, err = store.DeleteTask(projectID, 1)
	require.NoError(t, err)
	project, err = store.DeleteTask(projectID, 2)
	require.NoError(t, err)
	require.Equal(t, 0, project.Progress)
}

func TestUpdateTaskRejectsUnknownRoom(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddTask(projectID, models.TaskInput{Name: "x"})
	require.NoError(t, err)

	_, err = store.UpdateTask(projectID, 1, map[string]any{"roomId": 5})
	require.True(t, errs.IsNotFound(err))

	// Failed update left the task unchanged
	project, err := store.FindByID(projectID)
	require.NoError(t, err)
	require.Nil(t, project.Tasks[0].RoomID)
}

func TestLogsArePrependedNewestFirst(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddLog(projectID, models.LogInput{Text: "first", CreatedBy: 1})
	require.NoError(t, err)
	project, err := store.AddLog(projectID, models.LogInput{Text: "second", CreatedBy: 1})
	require.NoError(t, err)

	require.Len(t, project.Logs, 2)
	require.Equal(t, "second", project.Logs[0].Text)
	require.Equal(t, uint(2), project.Logs[0].ID)
	require.Equal(t, "first", project.Logs[1].Text)
}

func TestLogWithPhotoURLDerivesPhoto(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddRoom(projectID, "Kitchen", "")
	require.NoError(t, err)

	_, err = store.AddLog(projectID, models.LogInput{Text: "no photo", CreatedBy: 1})
	require.NoError(t, err)

	project, err := store.AddLog(projectID, models.LogInput{
		Text:         "tiling done",
		RoomID:       uintPtr(1),
		PhotoURL:     "https://cdn.example.com/p.jpg",
		PhotoCaption: "backsplash",
		CreatedBy:    2,
	})
	require.NoError(t, err)

	require.Len(t, project.Logs, 2)
	require.Len(t, project.Photos, 1)

	photo := project.Photos[0]
	require.Equal(t, uint(1), photo.ID)
	require.Equal(t, "https://cdn.example.com/p.jpg", photo.URL)
	require.Equal(t, "backsplash", photo.Caption)
	require.Equal(t, uint(1), *photo.RoomID)
	require.Equal(t, project.Logs[0].ID, photo.LogID)
	require.Equal(t, uint(2), photo.CreatedBy)
}

func TestAddLogValidation(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddLog(projectID, models.LogInput{})
	require.True(t, errs.IsMissingRequiredFieldError(err))

	_, err = store.AddLog(projectID, models.LogInput{Text: "x", RoomID: uintPtr(3)})
	require.True(t, errs.IsNotFound(err))
}

func TestConfigureReportsStampsAndStripsGenerateNow(t *testing.T) {
	store, projectID := newTestProjects(t)

	project, err := store.ConfigureReports(projectID, models.ReportSettings{
		"enabled":     true,
		"frequency":   "weekly",
		"generateNow": true,
	})
	require.NoError(t, err)
	require.NotNil(t, project.LastReportDate)
	require.NotContains(t, project.ReportSettings, "generateNow")
	require.Equal(t, true, project.ReportSettings["enabled"])

	// Without the flag the timestamp is untouched
	first := *project.LastReportDate
	project, err = store.ConfigureReports(projectID, models.ReportSettings{"enabled": false})
	require.NoError(t, err)
	require.Equal(t, first, *project.LastReportDate)
	require.Equal(t, false, project.ReportSettings["enabled"])
}

func TestProjectUpdateProtectsDerivedFields(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.AddTask(projectID, models.TaskInput{Name: "a", Status: models.TaskDone})
	require.NoError(t, err)

	project, err := store.Update(projectID, map[string]any{
		"name":     "Harbor House",
		"budget":   120000.0,
		"progress": 5,
		"tasks":    []any{},
		"id":       42,
	})
	require.NoError(t, err)
	require.Equal(t, projectID, project.ID)
	require.Equal(t, "Harbor House", project.Name)
	require.Equal(t, 120000.0, project.Budget)
	require.Equal(t, 100, project.Progress)
	require.Len(t, project.Tasks, 1)
}

func TestProjectUpdateRejectsUnknownStatus(t *testing.T) {
	store, projectID := newTestProjects(t)

	_, err := store.Update(projectID, map[string]any{"status": "paused"})
	require.True(t, errs.IsInvalidFieldError(err))
}

func TestOperationsOnMissingProject(t *testing.T) {
	store := NewMemoryStore().Projects()

	_, err := store.FindByID(99)
	require.True(t, errs.IsNotFound(err))
	_, err = store.AddRoom(99, "x", "")
	require.True(t, errs.IsNotFound(err))
	_, err = store.AddTask(99, models.TaskInput{Name: "x"})
	require.True(t, errs.IsNotFound(err))
	require.True(t, errs.IsNotFound(store.Delete(99)))
}
