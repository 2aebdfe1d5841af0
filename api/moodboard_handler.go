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

type moodboardHandler struct {
	responder     Responder
	logger        zerolog.Logger
	moodboardRepo database.MoodboardStore
}

func newMoodboardHandler(moodboardRepo database.MoodboardStore) moodboardHandler {
	logger := log.With().Str("handlerName", "moodboardHandler").Logger()

	return moodboardHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		moodboardRepo: moodboardRepo,
	}
}

func (h moodboardHandler) getAllMoodboards() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moodboards := h.moodboardRepo.FindAll()
		h.responder.WriteJSON(w, map[string]any{
			"moodboards": moodboards,
			"total":      len(moodboards),
		})
	}
}

func (h moodboardHandler) getMoodboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moodboardID, err := urlID(r, "moodboardID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		moodboard, err := h.moodboardRepo.FindByID(moodboardID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, moodboard)
	}
}

func (h moodboardHandler) createMoodboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var moodboard models.Moodboard
		if err := json.NewDecoder(r.Body).Decode(&moodboard); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode moodboard request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.moodboardRepo.Add(&moodboard); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, moodboard)
	}
}

func (h moodboardHandler) updateMoodboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moodboardID, err := urlID(r, "moodboardID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var moodboard models.Moodboard
		if err := json.NewDecoder(r.Body).Decode(&moodboard); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches
		moodboard.ID = moodboardID

		if err := h.moodboardRepo.Update(&moodboard); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, moodboard)
	}
}

func (h moodboardHandler) deleteMoodboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moodboardID, err := urlID(r, "moodboardID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.moodboardRepo.Delete(moodboardID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "moodboard deleted successfully",
		})
	}
}
