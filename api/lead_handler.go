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

type leadHandler struct {
	responder Responder
	logger    zerolog.Logger
	leadRepo  database.LeadStore
}

func newLeadHandler(leadRepo database.LeadStore) leadHandler {
	logger := log.With().Str("handlerName", "leadHandler").Logger()

	return leadHandler{
		responder: NewResponder(logger),
		logger:    logger,
		leadRepo:  leadRepo,
	}
}

func (h leadHandler) getAllLeads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leads := h.leadRepo.FindAll()
		h.responder.WriteJSON(w, map[string]any{
			"leads": leads,
			"total": len(leads),
		})
	}
}

func (h leadHandler) getLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := urlID(r, "leadID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		lead, err := h.leadRepo.FindByID(leadID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, lead)
	}
}

func (h leadHandler) createLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lead models.Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode lead request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.leadRepo.Add(&lead); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, lead)
	}
}

func (h leadHandler) updateLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := urlID(r, "leadID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var lead models.Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches
		lead.ID = leadID

		if err := h.leadRepo.Update(&lead); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, lead)
	}
}

func (h leadHandler) deleteLead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		leadID, err := urlID(r, "leadID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.leadRepo.Delete(leadID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "lead deleted successfully",
		})
	}
}
