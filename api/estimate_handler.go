package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/services"
)

type estimateHandler struct {
	responder       Responder
	logger          zerolog.Logger
	estimateRepo    database.EstimateStore
	estimateService *services.EstimateService // nil when not configured
}

func newEstimateHandler(estimateRepo database.EstimateStore, estimateService *services.EstimateService) estimateHandler {
	logger := log.With().Str("handlerName", "estimateHandler").Logger()

	return estimateHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		estimateRepo:    estimateRepo,
		estimateService: estimateService,
	}
}

type draftEstimateRequest struct {
	Brief     string `json:"brief"`
	ProjectID *uint  `json:"projectId"`
	ClientID  *uint  `json:"clientId"`
}

type similarEstimatesRequest struct {
	Brief string `json:"brief"`
	Limit int    `json:"limit"`
}

func (h estimateHandler) getAllEstimates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimates := h.estimateRepo.FindAll()
		h.responder.WriteJSON(w, map[string]any{
			"estimates": estimates,
			"total":     len(estimates),
		})
	}
}

func (h estimateHandler) getEstimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimateID, err := urlID(r, "estimateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		estimate, err := h.estimateRepo.FindByID(estimateID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, estimate)
	}
}

// draftEstimate asks the model for a priced line-item breakdown of the brief
// and stores the result.
func (h estimateHandler) draftEstimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.estimateService == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("estimate drafting", nil))
			return
		}

		var req draftEstimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		estimate, err := h.estimateService.Draft(r.Context(), req.Brief, req.ProjectID, req.ClientID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, estimate)
	}
}

// findSimilarEstimates returns past estimates whose briefs are closest to the
// given one.
func (h estimateHandler) findSimilarEstimates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.estimateService == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("estimate search", nil))
			return
		}

		var req similarEstimatesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		estimates, err := h.estimateService.FindComparable(r.Context(), req.Brief, req.Limit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"estimates": estimates,
			"total":     len(estimates),
		})
	}
}

func (h estimateHandler) deleteEstimate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		estimateID, err := urlID(r, "estimateID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.estimateRepo.Delete(estimateID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "estimate deleted successfully",
		})
	}
}
