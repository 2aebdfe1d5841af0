package database

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type UserRepo struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{
		db:     db,
		logger: log.With().Str("handlerName", "userRepo").Logger(),
	}
}

func (r *UserRepo) FindAll() []models.User {
	var users []models.User
	if err := r.db.Order("name ASC").Find(&users).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to fetch users")
		return []models.User{}
	}
	return users
}

func (r *UserRepo) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		r.logger.Error().Err(err).Uint("userId", id).Msg("Failed to fetch user")
		return nil, errs.NewDatabaseError("fetch", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		r.logger.Error().Err(err).Str("email", email).Msg("Failed to fetch user by email")
		return nil, errs.NewDatabaseError("fetch", "user", err)
	}
	return &user, nil
}

func (r *UserRepo) Add(user *models.User) error {
	if user.Email == "" {
		return errs.NewMissingRequiredFieldError("email")
	}
	if user.Role == "" {
		user.Role = models.RoleViewer
	}
	if err := r.db.Create(user).Error; err != nil {
		r.logger.Error().Err(err).Msg("Failed to create user")
		return errs.NewDatabaseError("create", "user", err)
	}
	return nil
}

func (r *UserRepo) Update(user *models.User) error {
	result := r.db.Save(user)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("userId", user.ID).Msg("Failed to update user")
		return errs.NewDatabaseError("update", "user", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("user")
	}
	return nil
}

func (r *UserRepo) Delete(id uint) error {
	result := r.db.Delete(&models.User{}, id)
	if result.Error != nil {
		r.logger.Error().Err(result.Error).Uint("userId", id).Msg("Failed to delete user")
		return errs.NewDatabaseError("delete", "user", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("user")
	}
	return nil
}
