package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo database.ProjectStore
}

func newProjectHandler(projectRepo database.ProjectStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// ProjectCollection represents multiple projects
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total,omitempty"`
}

// getAllProjects retrieves all projects
// @Summary Get all projects
// @Description Retrieves all projects with their embedded rooms, tasks, logs and photos
// @Tags Projects
// @Accept json
// @Produce json
// @Success 200 {object} ProjectCollection "List of projects"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := h.projectRepo.FindAll()

		response := ProjectCollection{
			Projects: projects,
			Total:    len(projects),
		}

		h.responder.WriteJSON(w, response)
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves a single project aggregate by ID
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Success 200 {object} models.Project "Project details"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a new project with empty collections and derived defaults
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project data"
// @Success 201 {object} models.Project "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Router /project [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project models.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.projectRepo.Add(&project); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateProject merges a partial update over a project's own fields
// @Summary Update project
// @Description Merges the given fields over the project; collections and derived fields are not writable here
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path int true "Project ID"
// @Param patch body object true "Fields to update"
// @Success 200 {object} models.Project "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid patch"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode project patch")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.Update(projectID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Description Deletes the project and everything embedded in it
// @Tags Projects
// @Param projectID path int true "Project ID"
// @Success 200 {object} map[string]string "Success message"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /project/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "project deleted successfully",
		})
	}
}

type roomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// addRoom adds a room to a project
// @Summary Add room
// @Description Adds a room to the project's embedded room collection
// @Tags Projects
// @Param projectID path int true "Project ID"
// @Param room body roomRequest true "Room data"
// @Success 201 {object} models.Project "Updated project"
// @Router /project/{projectID}/rooms [post]
func (h projectHandler) addRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var room roomRequest
		if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.AddRoom(projectID, room.Name, room.Description)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateRoom merges a partial update over one room
// @Router /project/{projectID}/room/{roomID} [put]
func (h projectHandler) updateRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		roomID, err := urlID(r, "roomID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.UpdateRoom(projectID, roomID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteRoom removes a room and cascades to its tasks
// @Router /project/{projectID}/room/{roomID} [delete]
func (h projectHandler) deleteRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		roomID, err := urlID(r, "roomID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.DeleteRoom(projectID, roomID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// addTask adds a task to a project
// @Router /project/{projectID}/tasks [post]
func (h projectHandler) addTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.TaskInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.AddTask(projectID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateTask merges a partial update over one task
// @Router /project/{projectID}/task/{taskID} [put]
func (h projectHandler) updateTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := urlID(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch map[string]any
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.UpdateTask(projectID, taskID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteTask removes a task
// @Router /project/{projectID}/task/{taskID} [delete]
func (h projectHandler) deleteTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		taskID, err := urlID(r, "taskID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.DeleteTask(projectID, taskID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// addLog adds a site-diary entry, deriving a photo record when the entry
// carries a photo URL
// @Router /project/{projectID}/logs [post]
func (h projectHandler) addLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input models.LogInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// The author comes from the session, not the payload
		if userID, err := ctxGetUserID(r.Context()); err == nil {
			input.CreatedBy = userID
		}

		project, err := h.projectRepo.AddLog(projectID, input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, project)
	}
}

// updateReportSettings replaces the project's report configuration
// @Router /project/{projectID}/report-settings [put]
func (h projectHandler) updateReportSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := urlID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var settings models.ReportSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		project, err := h.projectRepo.ConfigureReports(projectID, settings)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, project)
	}
}
