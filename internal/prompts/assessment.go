// Package prompts implements the MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of tool calls. Unlike tools (which the
// AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// AssessmentPrompt handles the tether-assessment MCP prompt.
type AssessmentPrompt struct{}

// NewAssessmentPrompt creates an AssessmentPrompt.
func NewAssessmentPrompt() *AssessmentPrompt {
	return &AssessmentPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *AssessmentPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("tether-assessment",
		mcp.WithPromptDescription(
			"Take the attachment and communication style assessment, one question at a time.",
		),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("How to address you (optional)"),
		),
	)
}

// Handle processes the tether-assessment prompt request.
func (p *AssessmentPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	greeting := "Hi!"
	if name, ok := req.Params.Arguments["name"]; ok && name != "" {
		greeting = fmt.Sprintf("Hi %s!", name)
	}

	return &mcp.GetPromptResult{
		Description: "Personality assessment",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					greeting + " I'd like to take the Tether personality assessment.\n\n" +
						"Please:\n" +
						"1. If I don't have a session token yet, call `account_sign_in` with mode `anonymous`\n" +
						"2. Call `assessment_start` and show me ONE question at a time with its five options\n" +
						"3. Wait for my choice, then record it with `assessment_answer`\n" +
						"4. If I want to change an earlier answer, use `assessment_back`\n" +
						"5. After the last question, call `assessment_finish` and walk me through the results\n\n" +
						"Don't answer on my behalf and don't skip questions.",
				),
			},
		},
	}, nil
}
