package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/errs"
)

const resendEndpoint = "https://api.resend.com/emails"

// EmailService sends transactional mail through the Resend API.
type EmailService struct {
	apiKey string
	from   string
	logger zerolog.Logger
}

// NewEmailService requires RESEND_API_KEY; EMAIL_FROM defaults to a
// placeholder sender that Resend rejects outside sandbox mode.
func NewEmailService(conf map[string]string) (*EmailService, error) {
	apiKey := config.GetString(conf, "RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewEnvironmentVariableError("RESEND_API_KEY")
	}
	return &EmailService{
		apiKey: apiKey,
		from:   config.GetString(conf, "EMAIL_FROM", "onboarding@resend.dev"),
		logger: log.With().Str("handlerName", "emailService").Logger(),
	}, nil
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (s *EmailService) Send(ctx context.Context, to, subject, html string) error {
	payload, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return errs.NewDeliveryFailedError("email", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error().
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("Resend returned an error")
		return errs.NewDeliveryFailedError("email", to, fmt.Errorf("resend status %d", resp.StatusCode))
	}

	s.logger.Info().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
