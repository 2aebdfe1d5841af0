package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/services"
)

type webhookHandler struct {
	responder Responder
	logger    zerolog.Logger
	leadRepo  database.LeadStore
	whatsapp  *services.WhatsAppService // nil when not configured
}

func newWebhookHandler(leadRepo database.LeadStore, whatsapp *services.WhatsAppService) webhookHandler {
	logger := log.With().Str("handlerName", "webhookHandler").Logger()

	return webhookHandler{
		responder: NewResponder(logger),
		logger:    logger,
		leadRepo:  leadRepo,
		whatsapp:  whatsapp,
	}
}

// incomingWhatsApp receives Twilio's inbound-message webhook and records the
// sender as a new lead. Twilio retries on non-2xx, so storage failures are
// returned as errors.
func (h webhookHandler) incomingWhatsApp() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.whatsapp == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("whatsapp intake", nil))
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("form", err))
			return
		}

		lead, err := h.whatsapp.LeadFromInbound(r.PostForm)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.leadRepo.Add(lead); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Uint("leadId", lead.ID).Str("phone", lead.Phone).Msg("Lead captured from WhatsApp")
		h.responder.WriteJSON(w, map[string]string{"status": "received"})
	}
}
