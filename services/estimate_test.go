package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studioaurea/atelier-backend/models"
)

func TestParseEstimateDraft(t *testing.T) {
	draft, err := parseEstimateDraft(`{"total": 4200, "lineItems": [{"description": "sofa", "quantity": 1, "unitCost": 4200, "subtotal": 4200}]}`)
	require.NoError(t, err)
	require.Equal(t, 4200.0, draft.Total)
	require.Len(t, draft.LineItems, 1)
	require.Equal(t, "sofa", draft.LineItems[0].Description)
}

func TestParseEstimateDraftStripsMarkdownFence(t *testing.T) {
	draft, err := parseEstimateDraft("```json\n{\"total\": 100, \"lineItems\": []}\n```")
	require.NoError(t, err)
	require.Equal(t, 100.0, draft.Total)
}

func TestParseEstimateDraftRejectsProse(t *testing.T) {
	_, err := parseEstimateDraft("Sure! Here is your estimate:")
	require.Error(t, err)
}

func TestBuildEstimatePromptIncludesComparables(t *testing.T) {
	prompt := buildEstimatePrompt("two-bedroom refresh", []models.Estimate{
		{Brief: "one-bedroom refresh", Total: 18000},
	})
	require.Contains(t, prompt, "two-bedroom refresh")
	require.Contains(t, prompt, `"one-bedroom refresh" came to 18000.00`)
}
