package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, r *mcp.GetPromptResult) string {
	t.Helper()
	if r == nil || len(r.Messages) != 1 {
		t.Fatalf("expected one message, got %+v", r)
	}
	tc, ok := r.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", r.Messages[0].Content)
	}
	return tc.Text
}

func TestAssessmentPrompt(t *testing.T) {
	p := NewAssessmentPrompt()
	if p.Definition().Name != "tether-assessment" {
		t.Errorf("Name = %s", p.Definition().Name)
	}

	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"name": "Sam"}
	r, err := p.Handle(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := promptText(t, r)
	if !strings.HasPrefix(text, "Hi Sam!") {
		t.Errorf("greeting missing: %q", text)
	}
	for _, tool := range []string{"assessment_start", "assessment_answer", "assessment_finish"} {
		if !strings.Contains(text, tool) {
			t.Errorf("prompt should mention %s", tool)
		}
	}
}

func TestInsightsPrompt(t *testing.T) {
	p := NewInsightsPrompt()
	if p.Definition().Name != "tether-insights" {
		t.Errorf("Name = %s", p.Definition().Name)
	}
	r, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(promptText(t, r), "insights_dashboard") {
		t.Error("prompt should mention insights_dashboard")
	}
}
