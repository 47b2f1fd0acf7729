package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/insights"
	"github.com/HendryAvila/tether/internal/keyboard"
	"github.com/mark3labs/mcp-go/mcp"
)

// DashboardLoader builds the insights dashboard.
type DashboardLoader interface {
	Load(ctx context.Context, userID string) (*insights.Dashboard, error)
}

// InsightsTool handles the insights_dashboard MCP tool.
type InsightsTool struct {
	ids    Identifier
	loader DashboardLoader
}

// NewInsightsTool creates an InsightsTool.
func NewInsightsTool(ids Identifier, loader DashboardLoader) *InsightsTool {
	return &InsightsTool{ids: ids, loader: loader}
}

// Definition returns the MCP tool definition for registration.
func (t *InsightsTool) Definition() mcp.Tool {
	return mcp.NewTool("insights_dashboard",
		mcp.WithDescription(
			"Show the insights dashboard: personality profile, keyboard communication analytics and partner. "+
				"Sections without data show what to do to fill them.",
		),
		tokenParam(),
		mcp.WithString("format",
			mcp.Description("Output format (default markdown)."),
			mcp.Enum("markdown", "json"),
		),
	)
}

// Handle processes the insights_dashboard tool call.
func (t *InsightsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	d, err := t.loader.Load(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}

	if req.GetString("format", "markdown") == "json" {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling dashboard: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(formatDashboard(d)), nil
}

func formatDashboard(d *insights.Dashboard) string {
	var sb strings.Builder
	sb.WriteString("# Insights\n\n")

	sb.WriteString("## Your Profile\n\n")
	if d.Profile.Report != nil {
		r := d.Profile.Report
		fmt.Fprintf(&sb, "**%s** (type %s)", r.Label, r.DominantType)
		if r.CommunicationLabel != "" {
			fmt.Fprintf(&sb, " · %s communicator", r.CommunicationLabel)
		}
		sb.WriteString("\n\n")
		for _, s := range r.Segments {
			fmt.Fprintf(&sb, "- %s: %.1f%%\n", s.Label, s.Percent)
		}
		fmt.Fprintf(&sb, "\n%s\n\n", r.Tip)
	} else {
		writeSection(&sb, d.Profile.Section)
	}

	sb.WriteString("## Communication\n\n")
	if a := d.Analytics.Analytics; a != nil {
		fmt.Fprintf(&sb, "**Messages analysed:** %d\n", a.TotalInteractions)
		for _, tone := range keyboard.Tones {
			fmt.Fprintf(&sb, "- %s: %.1f%%\n", tone, a.TonePercentages[tone])
		}
		fmt.Fprintf(&sb, "\n**Suggestions accepted:** %.1f%%\n**Pattern:** %s\n\n", a.AcceptanceRate, a.Pattern)
	} else {
		writeSection(&sb, d.Analytics.Section)
	}

	sb.WriteString("## Partner\n\n")
	if p := d.Partner.Partner; p != nil {
		style := "unknown"
		if p.Attachment != "" {
			style = string(p.Attachment)
		}
		fmt.Fprintf(&sb, "**%s** · attachment style: %s\n\n", p.Name, style)
	} else {
		writeSection(&sb, d.Partner.Section)
	}

	if d.CoupleInsight != "" {
		fmt.Fprintf(&sb, "## Couple Insight\n\n%s\n", d.CoupleInsight)
	}
	return sb.String()
}

func writeSection(sb *strings.Builder, s insights.Section) {
	sb.WriteString("_" + s.Message + "_\n")
	if s.Error != "" {
		fmt.Fprintf(sb, "\n(%s)\n", s.Error)
	}
	sb.WriteString("\n")
}
