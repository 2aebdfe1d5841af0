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

type clientHandler struct {
	responder  Responder
	logger     zerolog.Logger
	clientRepo database.ClientStore
}

func newClientHandler(clientRepo database.ClientStore) clientHandler {
	logger := log.With().Str("handlerName", "clientHandler").Logger()

	return clientHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		clientRepo: clientRepo,
	}
}

func (h clientHandler) getAllClients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients := h.clientRepo.FindAll()
		h.responder.WriteJSON(w, map[string]any{
			"clients": clients,
			"total":   len(clients),
		})
	}
}

func (h clientHandler) getClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := urlID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		client, err := h.clientRepo.FindByID(clientID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, client)
	}
}

func (h clientHandler) createClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var client models.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode client request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.clientRepo.Add(&client); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, client)
	}
}

func (h clientHandler) updateClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := urlID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var client models.Client
		if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches
		client.ID = clientID

		if err := h.clientRepo.Update(&client); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, client)
	}
}

func (h clientHandler) deleteClient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID, err := urlID(r, "clientID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.clientRepo.Delete(clientID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "client deleted successfully",
		})
	}
}
