package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// InsightsPrompt handles the tether-insights MCP prompt.
// It asks the AI to present the dashboard and the next best step.
type InsightsPrompt struct{}

// NewInsightsPrompt creates an InsightsPrompt.
func NewInsightsPrompt() *InsightsPrompt {
	return &InsightsPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *InsightsPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tether-insights",
		mcp.WithPromptDescription(
			"Review your relationship insights: personality profile, keyboard communication "+
				"patterns, partner and what to do next.",
		),
	)
}

// Handle processes the tether-insights prompt request.
func (p *InsightsPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Relationship insights",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `insights_dashboard` with my session token and then `home_next_step`.\n\n" +
						"Then:\n" +
						"1. Summarise my attachment and communication styles in plain language\n" +
						"2. Describe how my messages have been landing, if there is keyboard data\n" +
						"3. If a partner is linked, explain the couple insight\n" +
						"4. For any empty section, tell me exactly how to fill it\n" +
						"5. End with the single next step",
				),
			},
		},
	}, nil
}
