package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

type proposalHandler struct {
	responder    Responder
	logger       zerolog.Logger
	proposalRepo database.ProposalStore
}

func newProposalHandler(proposalRepo database.ProposalStore) proposalHandler {
	logger := log.With().Str("handlerName", "proposalHandler").Logger()

	return proposalHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		proposalRepo: proposalRepo,
	}
}

func (h proposalHandler) getAllProposals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposals := h.proposalRepo.FindAll()
		h.responder.WriteJSON(w, map[string]any{
			"proposals": proposals,
			"total":     len(proposals),
		})
	}
}

func (h proposalHandler) getProposal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposalID, err := urlID(r, "proposalID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		proposal, err := h.proposalRepo.FindByID(proposalID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, proposal)
	}
}

func (h proposalHandler) createProposal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var proposal models.Proposal
		if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode proposal request body")
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		if err := h.proposalRepo.Add(&proposal); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, proposal)
	}
}

func (h proposalHandler) updateProposal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposalID, err := urlID(r, "proposalID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		existing, err := h.proposalRepo.FindByID(proposalID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var proposal models.Proposal
		if err := json.NewDecoder(r.Body).Decode(&proposal); err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		// Ensure ID matches
		proposal.ID = proposalID

		// Moving into "sent" stamps the send time once
		if proposal.Status == models.ProposalSent && existing.Status != models.ProposalSent {
			now := time.Now()
			proposal.SentAt = &now
		} else if proposal.SentAt == nil {
			proposal.SentAt = existing.SentAt
		}

		if err := h.proposalRepo.Update(&proposal); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, proposal)
	}
}

func (h proposalHandler) deleteProposal() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proposalID, err := urlID(r, "proposalID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.proposalRepo.Delete(proposalID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "proposal deleted successfully",
		})
	}
}
