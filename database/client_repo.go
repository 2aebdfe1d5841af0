package database

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type ClientRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewClientRepo(db *gorm.DB) *ClientRepo {
	return &ClientRepo{
		db:     db,
		logger: log.With().Str("handlerName", "clientRepo").Logger(),
	}
}

func (r *ClientRepo) FindAll() []models.Client {
	var clients []models.Client
	if err := r.db.Order("name ASC").Find(&clients).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch clients")
		return []models.Client{}
	}
	return clients
}

func (r *ClientRepo) FindByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("client")
		}
		r.logger.Error().Err(err).Uint("clientId", id).Msg("Failed to fetch client")
		return nil, errs.NewDatabaseError("fetch", "client", err)
	}
	return &client, nil
}

func (r *ClientRepo) Add(client *models.Client) error {
	if client.Name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	if err := r.db.Create(client).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create client")
		return errs.NewDatabaseError("create", "client", err)
	}
	return nil
}

func (r *ClientRepo) Update(client *models.Client) error {
	result := r.db.Save(client)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("clientId", client.ID).Msg("Failed to update client")
		return errs.NewDatabaseError("update", "client", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("client")
	}
	return nil
}

func (r *ClientRepo) Delete(id uint) error {
	result := r.db.Delete(&models.Client{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("clientId", id).Msg("Failed to delete client")
		return errs.NewDatabaseError("delete", "client", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("client")
	}
	return nil
}
