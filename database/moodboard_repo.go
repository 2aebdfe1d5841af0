package database

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type MoodboardRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewMoodboardRepo(db *gorm.DB) *MoodboardRepo {
	return &MoodboardRepo{
		db:     db,
		logger: log.With().Str("handlerName", "moodboardRepo").Logger(),
	}
}

func (r *MoodboardRepo) FindAll() []models.Moodboard {
	var moodboards []models.Moodboard
	if err := r.db.Order("created_at DESC").Find(&moodboards).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch moodboards")
		return []models.Moodboard{}
	}
	return moodboards
}

func (r *MoodboardRepo) FindByID(id uint) (*models.Moodboard, error) {
	var moodboard models.Moodboard
	if err := r.db.First(&moodboard, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("moodboard")
		}
		r.logger.Error().Err(err).Uint("moodboardId", id).Msg("Failed to fetch moodboard")
		return nil, errs.NewDatabaseError("fetch", "moodboard", err)
	}
	return &moodboard, nil
}

func (r *MoodboardRepo) Add(moodboard *models.Moodboard) error {
	if moodboard.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if err := r.db.Create(moodboard).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create moodboard")
		return errs.NewDatabaseError("create", "moodboard", err)
	}
	return nil
}

func (r *MoodboardRepo) Update(moodboard *models.Moodboard) error {
	result := r.db.Save(moodboard)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("moodboardId", moodboard.ID).Msg("Failed to update moodboard")
		return errs.NewDatabaseError("update", "moodboard", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("moodboard")
	}
	return nil
}

func (r *MoodboardRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Moodboard{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("moodboardId", id).Msg("Failed to delete moodboard")
		return errs.NewDatabaseError("delete", "moodboard", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("moodboard")
	}
	return nil
}
