package database

import (
	"errors"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type EstimateRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewEstimateRepo(db *gorm.DB) *EstimateRepo {
	return &EstimateRepo{
		db:     db,
		logger: log.With().Str("handlerName", "estimateRepo").Logger(),
	}
}

func (r *EstimateRepo) FindAll() []models.Estimate {
	var estimates []models.Estimate
	if err := r.db.Order("created_at DESC").Find(&estimates).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch estimates")
		return []models.Estimate{}
	}
	return estimates
}

func (r *EstimateRepo) FindByID(id uint) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := r.db.First(&estimate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("estimate")
		}
		r.logger.Error().Err(err).Uint("estimateId", id).Msg("Failed to fetch estimate")
		return nil, errs.NewDatabaseError("fetch", "estimate", err)
	}
	return &estimate, nil
}

func (r *EstimateRepo) Add(estimate *models.Estimate) error {
	if estimate.Brief == "" {
		return errs.NewMissingRequiredFieldError("brief")
	}
	if err := r.db.Create(estimate).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create estimate")
		return errs.NewDatabaseError("create", "estimate", err)
	}
	return nil
}

func (r *EstimateRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Estimate{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("estimateId", id).Msg("Failed to delete estimate")
		return errs.NewDatabaseError("delete", "estimate", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("estimate")
	}
	return nil
}

// FindSimilar orders by L2 distance between the stored brief embeddings and
// the query embedding. Requires the pgvector extension.
func (r *EstimateRepo) FindSimilar(embedding pgvector.Vector, limit int) ([]models.Estimate, error) {
	if limit <= 0 {
		limit = 5
	}
	var estimates []models.Estimate
	err := r.db.
		Where("embedding IS NOT NULL").
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []any{embedding}},
		}).
		Limit(limit).
		Find(&estimates).Error
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to run similarity query")
		return nil, errs.NewDatabaseError("query", "estimates", err)
	}
	return estimates, nil
}
