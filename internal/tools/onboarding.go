package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/onboarding"
	"github.com/mark3labs/mcp-go/mcp"
)

// OnboardingStore persists onboarding progress.
type OnboardingStore interface {
	GetOnboarding(ctx context.Context, userID string) (*onboarding.Progress, error)
	SaveOnboarding(ctx context.Context, p *onboarding.Progress) error
}

var stateTitles = map[onboarding.State]string{
	onboarding.StateWelcome:       "Welcome",
	onboarding.StateFeature:       "What Tether does",
	onboarding.StateBeta:          "Beta program",
	onboarding.StateSignup:        "Create your account",
	onboarding.StateKeyboardSetup: "Set up the keyboard",
	onboarding.StateDone:          "All set",
}

var stepTitles = map[onboarding.SetupStep]string{
	onboarding.StepAddKeyboard:     "Add the Tether keyboard in system settings",
	onboarding.StepAllowFullAccess: "Allow full access so tone analysis can run",
	onboarding.StepTryIt:           "Send a test message with the keyboard",
}

// ─── onboarding_advance ──────────────────────────────────────────────────────

// OnboardingAdvanceTool handles the onboarding_advance MCP tool.
type OnboardingAdvanceTool struct {
	ids   Identifier
	store OnboardingStore
}

// NewOnboardingAdvanceTool creates an OnboardingAdvanceTool.
func NewOnboardingAdvanceTool(ids Identifier, store OnboardingStore) *OnboardingAdvanceTool {
	return &OnboardingAdvanceTool{ids: ids, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *OnboardingAdvanceTool) Definition() mcp.Tool {
	return mcp.NewTool("onboarding_advance",
		mcp.WithDescription(
			"Move through the first-run onboarding screens. "+
				"Without an event it reports the current screen and the allowed events.",
		),
		tokenParam(),
		mcp.WithString("event",
			mcp.Description("Navigation event to apply."),
			mcp.Enum("next", "back", "skip", "complete"),
		),
	)
}

// Handle processes the onboarding_advance tool call.
func (t *OnboardingAdvanceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	p, err := t.store.GetOnboarding(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading onboarding: %w", err)
	}

	event := onboarding.Event(req.GetString("event", ""))
	from := p.State
	if event != "" {
		if err := onboarding.Apply(p, event); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := t.store.SaveOnboarding(ctx, p); err != nil {
			return nil, fmt.Errorf("saving onboarding: %w", err)
		}
	}

	var sb strings.Builder
	if event != "" {
		fmt.Fprintf(&sb, "# Onboarding: %s → %s\n\n", from, p.State)
	} else {
		sb.WriteString("# Onboarding\n\n")
	}
	sb.WriteString(renderOnboarding(p))
	return mcp.NewToolResultText(sb.String()), nil
}

func renderOnboarding(p *onboarding.Progress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**Screen:** %s (`%s`)\n\n", stateTitles[p.State], p.State)

	if p.State == onboarding.StateKeyboardSetup {
		sb.WriteString("## Keyboard setup\n\n")
		for _, s := range onboarding.SetupSteps {
			marker := "⬜"
			for _, done := range p.Completed {
				if done == s {
					marker = "✅"
				}
			}
			fmt.Fprintf(&sb, "  %s %s\n", marker, stepTitles[s])
		}
		sb.WriteString("\nUse `keyboard_setup_step` to record each step.\n\n")
	}

	if p.State == onboarding.StateDone {
		sb.WriteString("Onboarding is complete. Call `home_next_step` for what to do next.\n")
		return sb.String()
	}

	events := onboarding.AllowedEvents(p.State)
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = "`" + string(e) + "`"
	}
	fmt.Fprintf(&sb, "**Allowed events:** %s\n", strings.Join(names, ", "))
	return sb.String()
}

// ─── keyboard_setup_step ─────────────────────────────────────────────────────

// KeyboardSetupTool handles the keyboard_setup_step MCP tool.
type KeyboardSetupTool struct {
	ids   Identifier
	store OnboardingStore
}

// NewKeyboardSetupTool creates a KeyboardSetupTool.
func NewKeyboardSetupTool(ids Identifier, store OnboardingStore) *KeyboardSetupTool {
	return &KeyboardSetupTool{ids: ids, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *KeyboardSetupTool) Definition() mcp.Tool {
	return mcp.NewTool("keyboard_setup_step",
		mcp.WithDescription(
			"Record a completed step of the keyboard setup wizard. Steps must be done in order; "+
				"recording the last one finishes onboarding. Omit 'step' to complete the next pending step.",
		),
		tokenParam(),
		mcp.WithString("step",
			mcp.Description("Wizard step that was completed."),
			mcp.Enum("add_keyboard", "allow_full_access", "try_it"),
		),
	)
}

// Handle processes the keyboard_setup_step tool call.
func (t *KeyboardSetupTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	p, err := t.store.GetOnboarding(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading onboarding: %w", err)
	}

	step := onboarding.SetupStep(req.GetString("step", ""))
	if step == "" {
		next, ok := onboarding.NextSetupStep(p)
		if !ok {
			return mcp.NewToolResultError("keyboard setup is already finished"), nil
		}
		step = next
	}

	if err := onboarding.CompleteSetupStep(p, step); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.store.SaveOnboarding(ctx, p); err != nil {
		return nil, fmt.Errorf("saving onboarding: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf("# Step Completed: %s\n\n%s", stepTitles[step], renderOnboarding(p))), nil
}
