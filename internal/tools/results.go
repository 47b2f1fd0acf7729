package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/tether/internal/bridge"
	"github.com/HendryAvila/tether/internal/metrics"
	"github.com/HendryAvila/tether/internal/profile"
	"github.com/HendryAvila/tether/internal/questionnaire"
	"github.com/HendryAvila/tether/internal/results"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ProfileWriter persists completed profiles.
type ProfileWriter interface {
	StorePersonalityResults(ctx context.Context, p *profile.PersistedProfile) error
}

// ProfileReader loads stored profiles.
type ProfileReader interface {
	GetPersonalityResults(ctx context.Context, userID string) (*profile.PersistedProfile, error)
}

// ─── assessment_finish ───────────────────────────────────────────────────────

// AssessmentFinishTool handles the assessment_finish MCP tool. It scores the
// responses, stores the profile, pushes it across the native bridge and
// renders the results.
type AssessmentFinishTool struct {
	ids      Identifier
	sessions *questionnaire.Registry
	store    ProfileWriter
	channel  bridge.Channel
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAssessmentFinishTool creates an AssessmentFinishTool. channel, m and
// logger may be nil.
func NewAssessmentFinishTool(ids Identifier, sessions *questionnaire.Registry, store ProfileWriter, channel bridge.Channel, m *metrics.Metrics, logger *zap.Logger) *AssessmentFinishTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentFinishTool{ids: ids, sessions: sessions, store: store, channel: channel, metrics: m, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessmentFinishTool) Definition() mcp.Tool {
	return mcp.NewTool("assessment_finish",
		mcp.WithDescription(
			"Submit the questionnaire from the last question and show the results: attachment style, "+
				"communication style, dimensional breakdown and a personalised tip.",
		),
		tokenParam(),
	)
}

// Handle processes the assessment_finish tool call.
func (t *AssessmentFinishTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}
	p, ok := t.sessions.Get(user.ID)
	if !ok {
		return mcp.NewToolResultError("No questionnaire in progress. Call `assessment_start` first."), nil
	}

	out, err := p.Finish(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return questionnaireError(err, p), nil
	}
	t.sessions.Remove(user.ID)

	if out.ClassificationErr != nil {
		t.logger.Warn("classification failed, using default result",
			zap.String("user_id", user.ID), zap.Error(out.ClassificationErr))
	}
	t.metrics.ObserveAssessment(string(out.Result.Attachment), string(out.Result.Communication), out.Result.Fallback)

	stored := profile.NewPersistedProfile(user.ID, out.Responses, out.Result)
	saveNote := ""
	if err := t.store.StorePersonalityResults(ctx, stored); err != nil {
		t.logger.Error("storing profile", zap.String("user_id", user.ID), zap.Error(err))
		saveNote = "\n> Your results could not be saved right now. They are shown below but won't appear on the dashboard yet.\n"
	} else if t.channel != nil {
		t.channel.Publish(bridge.EventFromProfile(stored))
	}

	report, err := results.Render(out.Result.Attachment, out.Result.Scores, out.Result.Communication)
	if err != nil {
		return nil, fmt.Errorf("rendering results: %w", err)
	}
	return mcp.NewToolResultText(saveNote + report.Markdown()), nil
}

// ─── assessment_results ──────────────────────────────────────────────────────

// AssessmentResultsTool handles the assessment_results MCP tool.
type AssessmentResultsTool struct {
	ids   Identifier
	store ProfileReader
}

// NewAssessmentResultsTool creates an AssessmentResultsTool.
func NewAssessmentResultsTool(ids Identifier, store ProfileReader) *AssessmentResultsTool {
	return &AssessmentResultsTool{ids: ids, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessmentResultsTool) Definition() mcp.Tool {
	return mcp.NewTool("assessment_results",
		mcp.WithDescription("Show the user's most recent assessment results."),
		tokenParam(),
	)
}

// Handle processes the assessment_results tool call.
func (t *AssessmentResultsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}
	p, err := t.store.GetPersonalityResults(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	if p == nil {
		return mcp.NewToolResultText("No results yet. Call `assessment_start` to take the personality test."), nil
	}
	report, err := results.Render(p.Attachment, p.Scores, p.Communication)
	if err != nil {
		return nil, fmt.Errorf("rendering results: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n_Completed %s._\n", report.Markdown(), p.CompletedAt)), nil
}
