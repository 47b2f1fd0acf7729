// Package resources implements the MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (tether://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/mark3labs/mcp-go/mcp"
)

// QuestionsURI addresses the active question bank.
const QuestionsURI = "tether://questions"

// Handler manages resource endpoints.
type Handler struct {
	bank *assessment.Bank
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(bank *assessment.Bank) *Handler {
	return &Handler{bank: bank}
}

// QuestionsResource returns the MCP resource definition for the question bank.
func (h *Handler) QuestionsResource() mcp.Resource {
	return mcp.NewResource(
		QuestionsURI,
		"Assessment Questions",
		mcp.WithResourceDescription("The personality assessment question bank: prompts, dimensions and answer options"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleQuestions returns the question bank as JSON.
func (h *Handler) HandleQuestions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.bank, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling question bank: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
