package server

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teranos/qntx-eurostat/errors"
)

// errorKind classifies an error for logs.
func errorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.IsInvalidRequestError(err):
		return "invalid_request"
	case errors.IsNotFoundError(err):
		return "not_found"
	case errors.IsUpstreamError(err):
		return "upstream"
	case errors.Is(err, errors.ErrMalformedCube):
		return "malformed"
	default:
		return "transport"
	}
}

// toolError renders err as a tool-level failure. Hints attached anywhere in the chain
// are appended on their own lines so the caller sees what to try next.
func toolError(action string, err error) *mcp.CallToolResult {
	var b strings.Builder
	fmt.Fprintf(&b, "Failed to %s: %v", action, err)
	if hint := errors.FlattenHints(err); hint != "" {
		b.WriteString("\nHint: ")
		b.WriteString(strings.ReplaceAll(hint, "\n--\n", "\nHint: "))
	}
	return mcp.NewToolResultError(b.String())
}

// argumentError reports a missing or malformed tool argument.
func argumentError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}
