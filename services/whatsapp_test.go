package services

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

func TestLeadFromInbound(t *testing.T) {
	svc := &WhatsAppService{}

	form := url.Values{}
	form.Set("From", "whatsapp:+351912345678")
	form.Set("Body", "Hi, I'd like a quote for my apartment")
	form.Set("ProfileName", "Marta")
	form.Set("WaId", "351912345678")
	form.Set("MessageSid", "SM123")

	lead, err := svc.LeadFromInbound(form)
	require.NoError(t, err)
	require.Equal(t, "Marta", lead.Name)
	require.Equal(t, "+351912345678", lead.Phone)
	require.Equal(t, "whatsapp", lead.Source)
	require.Equal(t, models.LeadNew, lead.Status)
	require.Equal(t, "Hi, I'd like a quote for my apartment", lead.Notes)
	require.Equal(t, "SM123", lead.Metadata["messageSid"])
}

func TestLeadFromInboundFallsBackToNumberAsName(t *testing.T) {
	svc := &WhatsAppService{}

	form := url.Values{}
	form.Set("From", "whatsapp:+351912345678")

	lead, err := svc.LeadFromInbound(form)
	require.NoError(t, err)
	require.Equal(t, "+351912345678", lead.Name)
}

func TestLeadFromInboundRequiresSender(t *testing.T) {
	svc := &WhatsAppService{}

	_, err := svc.LeadFromInbound(url.Values{})
	require.True(t, errs.IsMissingRequiredFieldError(err))
}

func TestWhatsAppAddress(t *testing.T) {
	require.Equal(t, "whatsapp:+14155550100", whatsAppAddress("+14155550100"))
	require.Equal(t, "whatsapp:+14155550100", whatsAppAddress("whatsapp:+14155550100"))
}
