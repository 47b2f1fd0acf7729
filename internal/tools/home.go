package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/home"
	"github.com/mark3labs/mcp-go/mcp"
)

// NextStepper picks the home-screen call to action.
type NextStepper interface {
	Next(ctx context.Context, userID string) (home.CTA, home.Facts, error)
}

// HomeTool handles the home_next_step MCP tool.
type HomeTool struct {
	ids      Identifier
	selector NextStepper
}

// NewHomeTool creates a HomeTool.
func NewHomeTool(ids Identifier, selector NextStepper) *HomeTool {
	return &HomeTool{ids: ids, selector: selector}
}

// Definition returns the MCP tool definition for registration.
func (t *HomeTool) Definition() mcp.Tool {
	return mcp.NewTool("home_next_step",
		mcp.WithDescription(
			"Return the single most important next step for the user: enable the keyboard, "+
				"take the personality test, invite a partner, or open the hub.",
		),
		tokenParam(),
	)
}

var nextToolFor = map[home.Action]string{
	home.ActionEnableKeyboard: "onboarding_advance / keyboard_setup_step",
	home.ActionTakeAssessment: "assessment_start",
	home.ActionInvitePartner:  "partner_link",
	home.ActionOpenHub:        "insights_dashboard",
}

// Handle processes the home_next_step tool call.
func (t *HomeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	cta, facts, err := t.selector.Next(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("choosing next step: %w", err)
	}
	text := fmt.Sprintf(
		"# %s\n\n%s\n\n**Use:** `%s`\n\n"+
			"_Keyboard messages: %d · profile: %t · partner: %t_",
		cta.Title, cta.Message, nextToolFor[cta.Action],
		facts.KeyboardInteractions, facts.HasProfile, facts.HasPartner,
	)
	if len(facts.Degraded) > 0 {
		names := make([]string, len(facts.Degraded))
		for i, src := range facts.Degraded {
			names[i] = string(src)
		}
		text += fmt.Sprintf("\n\n> Some data could not be loaded (%s); this suggestion may change once it is available.",
			strings.Join(names, ", "))
	}
	return mcp.NewToolResultText(text), nil
}
