package services

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

// WhatsAppService sends outbound WhatsApp messages through Twilio and turns
// inbound webhook posts into leads.
type WhatsAppService struct {
	client *twilio.RestClient
	from   string
	logger zerolog.Logger
}

func NewWhatsAppService(conf map[string]string) (*WhatsAppService, error) {
	accountSID := config.GetString(conf, "TWILIO_ACCOUNT_SID", "")
	authToken := config.GetString(conf, "TWILIO_AUTH_TOKEN", "")
	from := config.GetString(conf, "TWILIO_WHATSAPP_FROM", "")
	if accountSID == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_ACCOUNT_SID")
	}
	if authToken == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_AUTH_TOKEN")
	}
	if from == "" {
		return nil, errs.NewEnvironmentVariableError("TWILIO_WHATSAPP_FROM")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &WhatsAppService{
		client: client,
		from:   from,
		logger: log.With().Str("handlerName", "whatsappService").Logger(),
	}, nil
}

// Send delivers one WhatsApp message. The to number is in E.164 form; the
// whatsapp: channel prefix is added here.
func (s *WhatsAppService) Send(to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddress(to))
	params.SetFrom(whatsAppAddress(s.from))
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error().Err(err).Str("to", to).Msg("Failed to send WhatsApp message")
		return errs.NewDeliveryFailedError("whatsapp", to, err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	s.logger.Info().Str("to", to).Str("messageSid", sid).Msg("WhatsApp message sent")
	return nil
}

// LeadFromInbound maps a Twilio inbound-message webhook form to a lead. The
// sender's number lands in metadata so follow-ups can reply on the same
// channel.
func (s *WhatsAppService) LeadFromInbound(form url.Values) (*models.Lead, error) {
	from := strings.TrimPrefix(form.Get("From"), "whatsapp:")
	body := form.Get("Body")
	if from == "" {
		return nil, errs.NewMissingRequiredFieldError("From")
	}

	name := form.Get("ProfileName")
	if name == "" {
		name = from
	}

	return &models.Lead{
		Name:   name,
		Phone:  from,
		Source: "whatsapp",
		Status: models.LeadNew,
		Notes:  body,
		Metadata: map[string]any{
			"waId":       form.Get("WaId"),
			"messageSid": form.Get("MessageSid"),
		},
	}, nil
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
