package database

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type ProposalRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewProposalRepo(db *gorm.DB) *ProposalRepo {
	return &ProposalRepo{
		db:     db,
		logger: log.With().Str("handlerName", "proposalRepo").Logger(),
	}
}

func (r *ProposalRepo) FindAll() []models.Proposal {
	var proposals []models.Proposal
	if err := r.db.Order("created_at DESC").Find(&proposals).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch proposals")
		return []models.Proposal{}
	}
	return proposals
}

func (r *ProposalRepo) FindByID(id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := r.db.First(&proposal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("proposal")
		}
		r.logger.Error().Err(err).Uint("proposalId", id).Msg("Failed to fetch proposal")
		return nil, errs.NewDatabaseError("fetch", "proposal", err)
	}
	return &proposal, nil
}

func (r *ProposalRepo) Add(proposal *models.Proposal) error {
	if proposal.Title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if proposal.ClientID == 0 {
		return errs.NewMissingRequiredFieldError("clientId")
	}
	if proposal.Status == "" {
		proposal.Status = models.ProposalDraft
	}
	if err := r.db.Create(proposal).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create proposal")
		return errs.NewDatabaseError("create", "proposal", err)
	}
	return nil
}

func (r *ProposalRepo) Update(proposal *models.Proposal) error {
	result := r.db.Save(proposal)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("proposalId", proposal.ID).Msg("Failed to update proposal")
		return errs.NewDatabaseError("update", "proposal", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("proposal")
	}
	return nil
}

func (r *ProposalRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Proposal{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("proposalId", id).Msg("Failed to delete proposal")
		return errs.NewDatabaseError("delete", "proposal", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("proposal")
	}
	return nil
}
