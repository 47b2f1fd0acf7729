package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/assessment"
	"github.com/HendryAvila/tether/internal/profile"
	"github.com/mark3labs/mcp-go/mcp"
)

// PartnerWriter persists partner links.
type PartnerWriter interface {
	SavePartnerProfile(ctx context.Context, p *profile.PartnerProfile) error
}

// PartnerLinkTool handles the partner_link MCP tool.
type PartnerLinkTool struct {
	ids   Identifier
	store PartnerWriter
}

// NewPartnerLinkTool creates a PartnerLinkTool.
func NewPartnerLinkTool(ids Identifier, store PartnerWriter) *PartnerLinkTool {
	return &PartnerLinkTool{ids: ids, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *PartnerLinkTool) Definition() mcp.Tool {
	return mcp.NewTool("partner_link",
		mcp.WithDescription(
			"Link the user's partner. The partner's styles are optional; give either the attachment style "+
				"or the partner's type code (A, B, C or D) from their own results.",
		),
		tokenParam(),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Partner's display name."),
		),
		mcp.WithString("attachment_style",
			mcp.Description("Partner's attachment style, if known."),
			mcp.Enum("anxious", "secure", "avoidant", "disorganized"),
		),
		mcp.WithString("type_code",
			mcp.Description("Partner's dominant type code (A=anxious, B=secure, C=avoidant, D=disorganized)."),
		),
		mcp.WithString("communication_style",
			mcp.Description("Partner's communication style, if known."),
			mcp.Enum("assertive", "passive", "aggressive", "passive_aggressive"),
		),
	)
}

// Handle processes the partner_link tool call.
func (t *PartnerLinkTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, res, err := identify(ctx, t.ids, req)
	if user == nil {
		return res, err
	}

	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	attachment := assessment.AttachmentStyle(req.GetString("attachment_style", ""))
	if code := strings.TrimSpace(req.GetString("type_code", "")); code != "" {
		fromCode, err := assessment.AttachmentFromCode(strings.ToUpper(code))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if attachment != "" && attachment != fromCode {
			return mcp.NewToolResultError(fmt.Sprintf(
				"type code %s means %s, which conflicts with attachment_style %s", code, fromCode, attachment)), nil
		}
		attachment = fromCode
	}

	partner := &profile.PartnerProfile{
		UserID:        user.ID,
		Name:          name,
		Attachment:    attachment,
		Communication: assessment.CommunicationStyle(req.GetString("communication_style", "")),
	}
	if err := partner.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := t.store.SavePartnerProfile(ctx, partner); err != nil {
		return nil, fmt.Errorf("saving partner: %w", err)
	}

	style := "not known yet"
	if partner.Attachment != "" {
		style = string(partner.Attachment)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Partner Linked\n\n**Name:** %s\n**Attachment style:** %s\n\n"+
			"Call `insights_dashboard` to see couple insights.",
		partner.Name, style,
	)), nil
}
