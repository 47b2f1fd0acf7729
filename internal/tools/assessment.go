package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/questionnaire"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// TestTakenMarker records that a user reached the end of the questionnaire.
type TestTakenMarker interface {
	MarkTestTaken(ctx context.Context, userID string) error
}

// formatQuestion renders the current question with its options.
func formatQuestion(pr questionnaire.Progress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Question %d of %d\n\n", pr.Index+1, pr.Total)
	fmt.Fprintf(&sb, "**%s**\n\n", pr.Question.Prompt)
	for _, o := range pr.Question.Options {
		marker := " "
		if pr.Selected != nil && *pr.Selected == o.Value {
			marker = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %d: %s\n", marker, o.Value, o.Label)
	}
	fmt.Fprintf(&sb, "\n_Answered %d of %d._\n", pr.Answered, pr.Total)
	if pr.IsLast {
		sb.WriteString("\nThis is the last question. After answering, call `assessment_finish`.\n")
	}
	return sb.String()
}

// ─── assessment_start ────────────────────────────────────────────────────────

// AssessmentStartTool handles the assessment_start MCP tool.
type AssessmentStartTool struct {
	ids      Identifier
	sessions *questionnaire.Registry
	marker   TestTakenMarker
	logger   *zap.Logger
}

// NewAssessmentStartTool creates an AssessmentStartTool.
func NewAssessmentStartTool(ids Identifier, sessions *questionnaire.Registry, marker TestTakenMarker, logger *zap.Logger) *AssessmentStartTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentStartTool{ids: ids, sessions: sessions, marker: marker, logger: logger}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessmentStartTool) Definition() mcp.Tool {
	return mcp.NewTool("assessment_start",
		mcp.WithDescription(
			"Start (or restart) the attachment and communication style questionnaire. "+
				"Returns the first question. Present one question at a time and record the user's "+
				"choice with assessment_answer. Any unfinished questionnaire is discarded.",
		),
		tokenParam(),
	)
}

// Handle processes the assessment_start tool call.
func (t *AssessmentStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	userID := user.ID
	onTaken := func() {
		// The tool call may already be finished; record with a fresh context.
		if err := t.marker.MarkTestTaken(context.Background(), userID); err != nil {
			t.logger.Warn("marking test taken", zap.String("user_id", userID), zap.Error(err))
		}
	}

	p, err := t.sessions.Start(userID, onTaken)
	if err != nil {
		return nil, fmt.Errorf("starting questionnaire: %w", err)
	}

	return mcp.NewToolResultText(
		"# Personality Assessment\n\n" +
			"Answer each statement on a scale from 1 (strongly disagree) to 5 (strongly agree). " +
			"There are no right answers.\n\n" +
			formatQuestion(p.Progress()),
	), nil
}

// ─── assessment_answer ───────────────────────────────────────────────────────

// AssessmentAnswerTool handles the assessment_answer MCP tool.
type AssessmentAnswerTool struct {
	ids      Identifier
	sessions *questionnaire.Registry
}

// NewAssessmentAnswerTool creates an AssessmentAnswerTool.
func NewAssessmentAnswerTool(ids Identifier, sessions *questionnaire.Registry) *AssessmentAnswerTool {
	return &AssessmentAnswerTool{ids: ids, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessmentAnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("assessment_answer",
		mcp.WithDescription(
			"Record the answer to the current question and move to the next one. "+
				"Omit 'value' to just try to advance; that fails if the current question has no answer yet.",
		),
		tokenParam(),
		mcp.WithNumber("value",
			mcp.Description("Selected option value (1-5)."),
		),
		mcp.WithBoolean("advance",
			mcp.Description("Move to the next question after recording (default true)."),
		),
	)
}

// Handle processes the assessment_answer tool call.
func (t *AssessmentAnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}
	p, ok := t.sessions.Get(user.ID)
	if !ok {
		return mcp.NewToolResultError("No questionnaire in progress. Call `assessment_start` first."), nil
	}

	value, ok, err := intArg(req, "value", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error() + ". Choose one of the listed option values."), nil
	}
	if ok {
		if err := p.Select(value); err != nil {
			return questionnaireError(err, p), nil
		}
	}

	pr := p.Progress()
	if pr.Selected == nil {
		return questionnaireError(questionnaire.ErrAnswerRequired, p), nil
	}
	if pr.IsLast || !boolArg(req, "advance", true) {
		return mcp.NewToolResultText("Answer recorded.\n\n" + formatQuestion(pr)), nil
	}

	next, err := p.Next()
	if err != nil {
		return questionnaireError(err, p), nil
	}
	return mcp.NewToolResultText(formatQuestion(next)), nil
}

// ─── assessment_back ─────────────────────────────────────────────────────────

// AssessmentBackTool handles the assessment_back MCP tool.
type AssessmentBackTool struct {
	ids      Identifier
	sessions *questionnaire.Registry
}

// NewAssessmentBackTool creates an AssessmentBackTool.
func NewAssessmentBackTool(ids Identifier, sessions *questionnaire.Registry) *AssessmentBackTool {
	return &AssessmentBackTool{ids: ids, sessions: sessions}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessmentBackTool) Definition() mcp.Tool {
	return mcp.NewTool("assessment_back",
		mcp.WithDescription("Go back to the previous question. Answers already given are kept."),
		tokenParam(),
	)
}

// Handle processes the assessment_back tool call.
func (t *AssessmentBackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}
	p, ok := t.sessions.Get(user.ID)
	if !ok {
		return mcp.NewToolResultError("No questionnaire in progress. Call `assessment_start` first."), nil
	}
	pr, err := p.Back()
	if err != nil {
		return questionnaireError(err, p), nil
	}
	return mcp.NewToolResultText(formatQuestion(pr)), nil
}

// questionnaireError turns a presenter validation error into a tool error
// that repeats the current question.
func questionnaireError(err error, p *questionnaire.Presenter) *mcp.CallToolResult {
	if errors.Is(err, questionnaire.ErrCompleted) {
		return mcp.NewToolResultError("This questionnaire was already submitted. Call `assessment_start` to retake it.")
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s\n\n%s", err.Error(), formatQuestion(p.Progress())))
}
