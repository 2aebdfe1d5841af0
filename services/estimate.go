package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"gorm.io/datatypes"

	"github.com/studioaurea/atelier-backend/config"
	"github.com/studioaurea/atelier-backend/database"
	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/models"
)

// EstimateService drafts cost estimates from a project brief. The brief is
// embedded, comparable past estimates are pulled in as context, and the model
// returns a line-item breakdown.
type EstimateService struct {
	llm       *openai.LLM
	embedder  embeddings.Embedder
	estimates database.EstimateStore
	logger    zerolog.Logger
}

func NewEstimateService(conf map[string]string, estimates database.EstimateStore) (*EstimateService, error) {
	if config.GetString(conf, "OPENAI_API_KEY", "") == "" {
		return nil, errs.NewEnvironmentVariableError("OPENAI_API_KEY")
	}

	llm, err := openai.New()
	if err != nil {
		return nil, errs.NewConfigError("openai", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, errs.NewConfigError("openai embeddings", err)
	}

	return &EstimateService{
		llm:       llm,
		embedder:  embedder,
		estimates: estimates,
		logger:    log.With().Str("handlerName", "estimateService").Logger(),
	}, nil
}

type estimateDraft struct {
	Total     float64 `json:"total"`
	LineItems []struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		UnitCost    float64 `json:"unitCost"`
		Subtotal    float64 `json:"subtotal"`
	} `json:"lineItems"`
}

// Draft produces and stores a new estimate for the brief.
func (s *EstimateService) Draft(ctx context.Context, brief string, projectID, clientID *uint) (*models.Estimate, error) {
	if brief == "" {
		return nil, errs.NewMissingRequiredFieldError("brief")
	}

	vec, err := s.embedder.EmbedQuery(ctx, brief)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to embed brief")
		return nil, errs.NewServiceUnavailableError("embedding provider", err)
	}
	embedding := pgvector.NewVector(vec)

	comparables, err := s.estimates.FindSimilar(embedding, 3)
	if err != nil {
		// Similarity context is best-effort; draft without it.
		s.logger.Warn().Err(err).Msg("Failed to fetch comparable estimates")
		comparables = nil
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, buildEstimatePrompt(brief, comparables),
		llms.WithTemperature(0.2))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate estimate")
		return nil, errs.NewServiceUnavailableError("language model", err)
	}

	draft, err := parseEstimateDraft(completion)
	if err != nil {
		s.logger.Error().Err(err).Str("completion", completion).Msg("Model returned unparseable estimate")
		return nil, errs.NewInternalErrorWithCause("estimate draft was not valid JSON", err)
	}

	itemsJSON, err := json.Marshal(draft.LineItems)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("encode line items", err)
	}

	estimate := &models.Estimate{
		ProjectID: projectID,
		ClientID:  clientID,
		Brief:     brief,
		Total:     draft.Total,
		LineItems: datatypes.JSON(itemsJSON),
		Embedding: embedding,
	}
	if err := s.estimates.Add(estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

// FindComparable returns stored estimates with briefs closest to the given
// one, nearest first.
func (s *EstimateService) FindComparable(ctx context.Context, brief string, limit int) ([]models.Estimate, error) {
	if brief == "" {
		return nil, errs.NewMissingRequiredFieldError("brief")
	}
	vec, err := s.embedder.EmbedQuery(ctx, brief)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to embed brief")
		return nil, errs.NewServiceUnavailableError("embedding provider", err)
	}
	return s.estimates.FindSimilar(pgvector.NewVector(vec), limit)
}

func buildEstimatePrompt(brief string, comparables []models.Estimate) string {
	var b strings.Builder
	b.WriteString("You are a cost estimator for a residential interior design firm.\n")
	b.WriteString("Produce a cost estimate for the brief below.\n")
	b.WriteString(`Respond with JSON only, shaped as {"total": number, "lineItems": [{"description": string, "quantity": number, "unitCost": number, "subtotal": number}]}.`)
	b.WriteString("\n\nBrief:\n")
	b.WriteString(brief)

	if len(comparables) > 0 {
		b.WriteString("\n\nPast estimates for similar briefs, for calibration:\n")
		for _, c := range comparables {
			fmt.Fprintf(&b, "- %q came to %.2f\n", c.Brief, c.Total)
		}
	}
	return b.String()
}

// parseEstimateDraft tolerates the model wrapping its JSON in a markdown
// fence.
func parseEstimateDraft(completion string) (*estimateDraft, error) {
	text := strings.TrimSpace(completion)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var draft estimateDraft
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
