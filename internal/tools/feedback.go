package tools

import (
	"context"
	"fmt"

	"github.com/HendryAvila/tether/internal/profile"
	"github.com/mark3labs/mcp-go/mcp"
)

// FeedbackStore persists feedback submissions.
type FeedbackStore interface {
	AddFeedback(ctx context.Context, f *profile.Feedback) (int64, error)
}

// FeedbackTool handles the feedback_submit MCP tool.
type FeedbackTool struct {
	ids   Identifier
	store FeedbackStore
}

// NewFeedbackTool creates a FeedbackTool.
func NewFeedbackTool(ids Identifier, store FeedbackStore) *FeedbackTool {
	return &FeedbackTool{ids: ids, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *FeedbackTool) Definition() mcp.Tool {
	return mcp.NewTool("feedback_submit",
		mcp.WithDescription("Send feedback about the app: a bug, a feature idea or general comments."),
		tokenParam(),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Kind of feedback."),
			mcp.Enum("bug", "feature", "general"),
		),
		mcp.WithNumber("rating",
			mcp.Required(),
			mcp.Description("Overall rating from 1 to 5."),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The feedback itself (up to 2000 characters)."),
		),
		mcp.WithString("email",
			mcp.Description("Optional contact email for follow-up."),
		),
	)
}

// Handle processes the feedback_submit tool call.
func (t *FeedbackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	rating, _, err := intArg(req, "rating", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	f := &profile.Feedback{
		UserID:   user.ID,
		Category: profile.FeedbackCategory(req.GetString("category", "")),
		Rating:   rating,
		Message:  req.GetString("message", ""),
		Email:    req.GetString("email", ""),
	}
	if err := f.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := t.store.AddFeedback(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("storing feedback: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Thanks for the feedback! Reference: #%d", id)), nil
}
