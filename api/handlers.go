package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct.
// Outbound services are optional: one that cannot be configured logs a
// warning and its endpoints answer 503.
func initializeHandlers(db *database.Database, conf map[string]string) *routeHandlers {
	whatsapp, err := services.NewWhatsAppService(conf)
	if err != nil {
		log.Warn().Err(err).Msg("WhatsApp service not configured")
	}
	photos, err := services.NewPhotoService(context.Background(), conf)
	if err != nil {
		log.Warn().Err(err).Msg("Photo upload service not configured")
	}
	estimates, err := services.NewEstimateService(conf, db.EstimateRepo())
	if err != nil {
		log.Warn().Err(err).Msg("Estimate service not configured")
	}

	jwtSecret := []byte(config.GetString(conf, "JWT_SECRET", ""))
	tokenTTL := time.Duration(config.GetInt(conf, "TOKEN_TTL_HOURS", 24)) * time.Hour

	return &routeHandlers{
		authHandler:      newAuthHandler(db.UserRepo(), jwtSecret, tokenTTL),
		projectHandler:   newProjectHandler(db.ProjectRepo()),
		clientHandler:    newClientHandler(db.ClientRepo()),
		leadHandler:      newLeadHandler(db.LeadRepo()),
		userHandler:      newUserHandler(db.UserRepo()),
		proposalHandler:  newProposalHandler(db.ProposalRepo()),
		moodboardHandler: newMoodboardHandler(db.MoodboardRepo()),
		estimateHandler:  newEstimateHandler(db.EstimateRepo(), estimates),
		photoHandler:     newPhotoHandler(photos),
		webhookHandler:   newWebhookHandler(db.LeadRepo(), whatsapp),
	}
}

// urlID parses a numeric id path parameter.
func urlID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}
