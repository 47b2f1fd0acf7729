// Package tools implements the MCP tool handlers.
//
// Each tool is a struct that receives its dependencies through its
// constructor and exposes Definition and Handle for registration.
// Validation problems are returned as tool errors so the host can re-prompt
// the user; only infrastructure failures are returned as Go errors.
package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/HendryAvila/tether/internal/auth"
	"github.com/HendryAvila/tether/internal/profile"
	"github.com/mark3labs/mcp-go/mcp"
)

// Identifier resolves a session token to a user.
type Identifier interface {
	Identify(ctx context.Context, token string) (*profile.User, error)
}

// tokenParam is the shared "token" argument every user-scoped tool takes.
func tokenParam() mcp.ToolOption {
	return mcp.WithString("token",
		mcp.Required(),
		mcp.Description("Session token returned by account_sign_in."),
	)
}

// identify resolves the request's token. A nil user with a non-nil result
// means the caller should return that result as-is.
func identify(ctx context.Context, ids Identifier, req mcp.CallToolRequest) (*profile.User, *mcp.CallToolResult, error) {
	token := strings.TrimSpace(req.GetString("token", ""))
	if token == "" {
		return nil, mcp.NewToolResultError("'token' is required. Call account_sign_in first."), nil
	}
	u, err := ids.Identify(ctx, token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, mcp.NewToolResultError("Session expired or invalid. Call account_sign_in again."), nil
		}
		return nil, nil, fmt.Errorf("identifying user: %w", err)
	}
	return u, nil, nil
}

// intArg extracts an integer argument from a tool request. MCP sends
// numbers as float64 in JSON; fractional or out-of-range values are an
// error rather than being truncated. A missing key yields defaultVal and
// false.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) (int, bool, error) {
	raw, present := req.GetArguments()[key]
	if !present || raw == nil {
		return defaultVal, false, nil
	}
	v, ok := raw.(float64)
	if !ok || v != math.Trunc(v) || v < math.MinInt || v >= math.MaxInt {
		return defaultVal, false, fmt.Errorf("'%s' must be a whole number, got %v", key, raw)
	}
	return int(v), true, nil
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
