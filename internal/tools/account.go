package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/tether/internal/auth"
	"github.com/mark3labs/mcp-go/mcp"
)

// Accounts is the sign-in surface of the auth provider.
type Accounts interface {
	SignInAnonymously(ctx context.Context) (*auth.Session, error)
	SignIn(ctx context.Context, displayName, email string) (*auth.Session, error)
	Upgrade(ctx context.Context, token, displayName, email string) (*auth.Session, error)
}

// SignInTool handles the account_sign_in MCP tool.
type SignInTool struct {
	accounts Accounts
}

// NewSignInTool creates a SignInTool.
func NewSignInTool(accounts Accounts) *SignInTool {
	return &SignInTool{accounts: accounts}
}

// Definition returns the MCP tool definition for registration.
func (t *SignInTool) Definition() mcp.Tool {
	return mcp.NewTool("account_sign_in",
		mcp.WithDescription(
			"Sign in and get a session token for the other tools. "+
				"Use mode 'anonymous' to start without an account, or 'email' with a "+
				"display name and email to register. Passing the token of an anonymous session "+
				"together with an email upgrades that account and keeps its results. "+
				"A returning user passes their own token with their email to get a fresh one.",
		),
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("How to sign in."),
			mcp.Enum("anonymous", "email"),
		),
		mcp.WithString("display_name",
			mcp.Description("Name shown in the app (email mode)."),
		),
		mcp.WithString("email",
			mcp.Description("Email address (required for email mode)."),
		),
		mcp.WithString("token",
			mcp.Description("Optional session token: an anonymous token to upgrade, or the token of the account that owns the email."),
		),
	)
}

// Handle processes the account_sign_in tool call.
func (t *SignInTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := req.GetString("mode", "")
	name := req.GetString("display_name", "")
	email := strings.TrimSpace(req.GetString("email", ""))
	token := strings.TrimSpace(req.GetString("token", ""))

	var (
		sess *auth.Session
		err  error
	)
	switch mode {
	case "anonymous":
		sess, err = t.accounts.SignInAnonymously(ctx)
	case "email":
		if email == "" {
			return mcp.NewToolResultError("'email' is required for email sign-in"), nil
		}
		if token != "" {
			sess, err = t.accounts.Upgrade(ctx, token, name, email)
		} else {
			sess, err = t.accounts.SignIn(ctx, name, email)
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q: must be 'anonymous' or 'email'", mode)), nil
	}
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			return mcp.NewToolResultError("That email is already registered. Pass the token from that account's earlier sign-in to continue with it."), nil
		case errors.Is(err, auth.ErrAlreadyRegistered):
			return mcp.NewToolResultError("This account already has a different email. Sign in anonymously to register a new one."), nil
		case errors.Is(err, auth.ErrInvalidToken):
			return mcp.NewToolResultError("The token to upgrade is invalid or expired."), nil
		case errors.Is(err, auth.ErrInvalidEmail):
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("signing in: %w", err)
	}

	who := "anonymous user"
	if !sess.User.Anonymous {
		who = sess.User.Email
		if sess.User.DisplayName != "" {
			who = fmt.Sprintf("%s <%s>", sess.User.DisplayName, sess.User.Email)
		}
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Signed In\n\n"+
			"**User:** %s\n"+
			"**User ID:** `%s`\n"+
			"**Expires:** %s\n\n"+
			"**Token:** `%s`\n\n"+
			"Pass this token to every other tool. Next, call `home_next_step` to see what to do first.",
		who, sess.User.ID, sess.ExpiresAt.UTC().Format("2006-01-02 15:04 MST"), sess.Token,
	)), nil
}
