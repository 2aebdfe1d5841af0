package database

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

// ProjectRepo is the relational project backend. Embedded collections travel
// inside the project row as JSON columns, so every operation reads and writes
// whole aggregates; the shared mutation rules come from aggregateStore.
type ProjectRepo struct {
	aggregateStore
	db     *gorm.DB
	logger zerolog.Logger
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	repo := &ProjectRepo{
		db:     db,
		logger: log.With().Str("handlerName", "projectRepo").Logger(),
	}
	repo.aggregateStore = aggregateStore{src: repo}
	return repo
}

// FindAll returns every project, newest first. A query failure degrades to an
// empty list so list views render instead of erroring.
func (r *ProjectRepo) FindAll() []models.Project {
	var projects []models.Project
	if err := r.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch projects")
		return []models.Project{}
	}
	return projects
}

func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	return r.loadProject(id)
}

// Add inserts a new project, filling defaults: planning status, empty
// collections, progress zero.
func (r *ProjectRepo) Add(project *models.Project) error {
	if project.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	applyProjectDefaults(project)

	if err := r.db.Create(project).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create project")
		return errs.NewDatabaseError("create", "project", err)
	}
	return nil
}

func (r *ProjectRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Project{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("projectId", id).Msg("Failed to delete project")
		return errs.NewDatabaseError("delete", "project", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

func (r *ProjectRepo) loadProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("project")
		}
		r.logger.Error().Err(err).Uint("projectId", id).Msg("Failed to fetch project")
		return nil, errs.NewDatabaseError("fetch", "project", err)
	}
	return &project, nil
}

func (r *ProjectRepo) saveProject(project *models.Project) error {
	result := r.db.Save(project)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("projectId", project.ID).Msg("Failed to save project")
		return errs.NewDatabaseError("update", "project", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// applyProjectDefaults normalizes a project before its first insert.
func applyProjectDefaults(project *models.Project) {
	if project.Status == "" {
		project.Status = models.ProjectPlanning
	}
	if project.Rooms == nil {
		project.Rooms = models.RoomList{}
	}
	if project.Tasks == nil {
		project.Tasks = models.TaskList{}
	}
	if project.Logs == nil {
		project.Logs = models.LogList{}
	}
	if project.Photos == nil {
		project.Photos = models.PhotoList{}
	}
	project.Progress = computeProgress(project.Tasks)
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
}
