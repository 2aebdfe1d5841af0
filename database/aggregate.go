package database

import (
	"encoding/json"
	"math"
	"time"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

// projectSource is the minimal capability a backend must supply for embedded
// collection mutations: load the whole aggregate, save the whole aggregate.
// The mutation rules themselves live here and are shared by the gorm-backed
// repo and the in-memory store.
type projectSource interface {
	loadProject(id uint) (*models.Project, error)
	saveProject(p *models.Project) error
}

// aggregateStore implements every embedded-collection operation as
// load -> mutate in memory -> save. There is no locking between load and
// save: concurrent mutations of the same project are last-write-wins.
type aggregateStore struct {
	src projectSource
}

// protectedProjectFields are top-level keys a caller patch can never set:
// identity, timestamps, the derived progress value and the embedded
// collections, which only change through their own operations.
var protectedProjectFields = []string{
	"id", "createdAt", "updatedAt", "progress",
	"rooms", "tasks", "logs", "photos",
	"reportSettings", "lastReportDate",
}

// Update merges patch over the project's own fields. Embedded collections
// and derived fields are untouchable from here.
func (a aggregateStore) Update(id uint, patch map[string]any) (*models.Project, error) {
	if s, ok := patch["status"].(string); ok && !models.ValidProjectStatus(models.ProjectStatus(s)) {
		return nil, errs.NewInvalidFieldError("status", "unknown project status")
	}

	project, err := a.src.loadProject(id)
	if err != nil {
		return nil, err
	}

	scrubbed := make(map[string]any, len(patch))
	for k, v := range patch {
		scrubbed[k] = v
	}
	for _, field := range protectedProjectFields {
		delete(scrubbed, field)
	}

	rooms, tasks, logs, photos := project.Rooms, project.Tasks, project.Logs, project.Photos
	settings, lastReport := project.ReportSettings, project.LastReportDate
	progress := project.Progress

	if err := mergeRecord(project, scrubbed); err != nil {
		return nil, err
	}
	project.ID = id
	project.Rooms, project.Tasks, project.Logs, project.Photos = rooms, tasks, logs, photos
	project.ReportSettings, project.LastReportDate = settings, lastReport
	project.Progress = progress
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// AddRoom appends a room with the next free room id.
func (a aggregateStore) AddRoom(projectID uint, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}

	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	room := models.Room{
		ID:          nextRoomID(project.Rooms),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	project.Rooms = append(project.Rooms, room)
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateRoom merges patch over the room with the given id. The room id is
// immutable; a patch carrying one is ignored.
func (a aggregateStore) UpdateRoom(projectID, roomID uint, patch map[string]any) (*models.Project, error) {
	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	idx := roomIndex(project.Rooms, roomID)
	if idx < 0 {
		return nil, errs.NewNotFound("room")
	}

	if err := mergeRecord(&project.Rooms[idx], patch); err != nil {
		return nil, err
	}
	project.Rooms[idx].ID = roomID
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteRoom removes the room and every task assigned to it, then recomputes
// progress over the remaining tasks.
func (a aggregateStore) DeleteRoom(projectID, roomID uint) (*models.Project, error) {
	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	idx := roomIndex(project.Rooms, roomID)
	if idx < 0 {
		return nil, errs.NewNotFound("room")
	}

	project.Rooms = append(project.Rooms[:idx], project.Rooms[idx+1:]...)

	kept := project.Tasks[:0]
	for _, task := range project.Tasks {
		if task.RoomID == nil || *task.RoomID != roomID {
			kept = append(kept, task)
		}
	}
	project.Tasks = kept

	project.Progress = computeProgress(project.Tasks)
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// AddTask appends a task with the next free task id and recomputes progress.
// A non-nil room reference must name a room currently in the project.
func (a aggregateStore) AddTask(projectID uint, input models.TaskInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, errs.NewMissingRequiredFieldError("name")
	}
	status := input.Status
	if status == "" {
		status = models.TaskNotStarted
	}
	if !models.ValidTaskStatus(status) {
		return nil, errs.NewInvalidFieldError("status", "unknown task status")
	}

	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if input.RoomID != nil && roomIndex(project.Rooms, *input.RoomID) < 0 {
		return nil, errs.NewNotFound("room")
	}

	task := models.Task{
		ID:          nextTaskID(project.Tasks),
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
		RoomID:      input.RoomID,
		DueDate:     input.DueDate,
		AssigneeID:  input.AssigneeID,
		CreatedAt:   time.Now(),
	}
	project.Tasks = append(project.Tasks, task)

	project.Progress = computeProgress(project.Tasks)
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateTask merges patch over the task with the given id and recomputes
// progress (the status may have changed). The task id is immutable.
func (a aggregateStore) UpdateTask(projectID, taskID uint, patch map[string]any) (*models.Project, error) {
	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	idx := taskIndex(project.Tasks, taskID)
	if idx < 0 {
		return nil, errs.NewNotFound("task")
	}

	if err := mergeRecord(&project.Tasks[idx], patch); err != nil {
		return nil, err
	}
	project.Tasks[idx].ID = taskID

	if !models.ValidTaskStatus(project.Tasks[idx].Status) {
		return nil, errs.NewInvalidFieldError("status", "unknown task status")
	}
	if ref := project.Tasks[idx].RoomID; ref != nil && roomIndex(project.Rooms, *ref) < 0 {
		return nil, errs.NewNotFound("room")
	}

	project.Progress = computeProgress(project.Tasks)
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteTask removes the task and recomputes progress.
func (a aggregateStore) DeleteTask(projectID, taskID uint) (*models.Project, error) {
	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	idx := taskIndex(project.Tasks, taskID)
	if idx < 0 {
		return nil, errs.NewNotFound("task")
	}
	project.Tasks = append(project.Tasks[:idx], project.Tasks[idx+1:]...)

	project.Progress = computeProgress(project.Tasks)
	project.UpdatedAt = time.Now()

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// AddLog prepends a log entry (logs are newest-first). A log carrying a
// photo URL also derives one photo record, prepended to the photo collection
// with the new log's id.
func (a aggregateStore) AddLog(projectID uint, input models.LogInput) (*models.Project, error) {
	if input.Text == "" {
		return nil, errs.NewMissingRequiredFieldError("text")
	}

	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if input.RoomID != nil && roomIndex(project.Rooms, *input.RoomID) < 0 {
		return nil, errs.NewNotFound("room")
	}

	now := time.Now()
	log := models.Log{
		ID:           nextLogID(project.Logs),
		Text:         input.Text,
		RoomID:       input.RoomID,
		PhotoURL:     input.PhotoURL,
		PhotoCaption: input.PhotoCaption,
		CreatedAt:    now,
		CreatedBy:    input.CreatedBy,
	}
	project.Logs = append(models.LogList{log}, project.Logs...)

	if input.PhotoURL != "" {
		photo := models.Photo{
			ID:        nextPhotoID(project.Photos),
			URL:       input.PhotoURL,
			Caption:   input.PhotoCaption,
			RoomID:    input.RoomID,
			LogID:     log.ID,
			CreatedAt: now,
			CreatedBy: input.CreatedBy,
		}
		project.Photos = append(models.PhotoList{photo}, project.Photos...)
	}

	project.UpdatedAt = now

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// ConfigureReports replaces the report settings wholesale. A true
// "generateNow" stamps the last-report timestamp; the flag itself is one-shot
// and never stored.
func (a aggregateStore) ConfigureReports(projectID uint, settings models.ReportSettings) (*models.Project, error) {
	project, err := a.src.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if settings != nil {
		stored := make(models.ReportSettings, len(settings))
		for k, v := range settings {
			stored[k] = v
		}
		if generate, ok := stored["generateNow"].(bool); ok && generate {
			project.LastReportDate = &now
		}
		delete(stored, "generateNow")
		project.ReportSettings = stored
	} else {
		project.ReportSettings = nil
	}
	project.UpdatedAt = now

	if err := a.src.saveProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Embedded ids are max(existing)+1 within their own collection, never a
// shared counter, so deleted ids are only reused when they were the max.

func nextRoomID(rooms models.RoomList) uint {
	var max uint
	for _, r := range rooms {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

func nextTaskID(tasks models.TaskList) uint {
	var max uint
	for _, t := range tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max + 1
}

func nextLogID(logs models.LogList) uint {
	var max uint
	for _, l := range logs {
		if l.ID > max {
			max = l.ID
		}
	}
	return max + 1
}

func nextPhotoID(photos models.PhotoList) uint {
	var max uint
	for _, p := range photos {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func roomIndex(rooms models.RoomList, id uint) int {
	for i, r := range rooms {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func taskIndex(tasks models.TaskList, id uint) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// computeProgress returns round(100 * done / total), 0 for an empty
// collection.
func computeProgress(tasks models.TaskList) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == models.TaskDone {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(len(tasks))))
}

// mergeRecord overlays a caller patch (lowerCamel keys, matching the json
// tags) onto an existing record via a JSON round trip.
func mergeRecord(record any, patch map[string]any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode record for patch", err)
	}
	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return errs.NewInternalErrorWithCause("decode record for patch", err)
	}
	for k, v := range patch {
		if k == "id" || k == "createdAt" {
			continue
		}
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode patched record", err)
	}
	if err := json.Unmarshal(out, record); err != nil {
		return errs.Malformed("patch")
	}
	return nil
}
