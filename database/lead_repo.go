package database

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type LeadRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewLeadRepo(db *gorm.DB) *LeadRepo {
	return &LeadRepo{
		db:     db,
		logger: log.With().Str("handlerName", "leadRepo").Logger(),
	}
}

func (r *LeadRepo) FindAll() []models.Lead {
	var leads []models.Lead
	if err := r.db.Order("created_at DESC").Find(&leads).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch leads")
		return []models.Lead{}
	}
	return leads
}

func (r *LeadRepo) FindByID(id uint) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("lead")
		}
		r.logger.Error().Err(err).Uint("leadId", id).Msg("Failed to fetch lead")
		return nil, errs.NewDatabaseError("fetch", "lead", err)
	}
	return &lead, nil
}

func (r *LeadRepo) Add(lead *models.Lead) error {
	if lead.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if lead.Status == "" {
		lead.Status = models.LeadNew
	}
	if err := r.db.Create(lead).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create lead")
		return errs.NewDatabaseError("create", "lead", err)
	}
	return nil
}

func (r *LeadRepo) Update(lead *models.Lead) error {
	result := r.db.Save(lead)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("leadId", lead.ID).Msg("Failed to update lead")
		return errs.NewDatabaseError("update", "lead", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("lead")
	}
	return nil
}

func (r *LeadRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Lead{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("leadId", id).Msg("Failed to delete lead")
		return errs.NewDatabaseError("delete", "lead", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("lead")
	}
	return nil
}
