// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes contract conformance checks as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasguard/oasguard"
)

const serverInstructions = `oasguard MCP server — judges HTTP exchanges against an OpenAPI contract.

Tools accept the contract via file, url, or content (exactly one). Loaded
contracts are cached per session; file entries use path+mtime as key, so
edits are picked up automatically.

Key settings (environment variables in your MCP client config):
- OASGUARD_CACHE_ENABLED (default: true) — disable contract caching entirely
- OASGUARD_CACHE_FILE_TTL (default: 15m) — cache TTL for local contract files
- OASGUARD_CACHE_URL_TTL (default: 5m) — cache TTL for URL-fetched contracts
- OASGUARD_MAX_INLINE_SIZE (default: 4 MiB) — inline content size limit

Typical use: check_request / check_response to judge a single captured
exchange, list_paths to see what the contract declares and which template a
concrete path resolves to.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasguard", Version: oasguard.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_request",
		Description: "Judge one captured HTTP request against an OpenAPI contract: method, path resolution, query parameter alignment, and JSON body schema for POST/PUT. Returns the matched path template and the violation, if any. Validation is observational; a violation is a report, never a rejection.",
	}, handleCheckRequest)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_response",
		Description: "Judge one captured HTTP response against an OpenAPI contract, given the request that produced it. Selects the response descriptor by exact status code with fallback to the declared default, then validates the JSON body against the declared schema for the response content type.",
	}, handleCheckResponse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_paths",
		Description: "List the path templates an OpenAPI contract declares, with their methods. Optionally resolve a concrete request path to the template it instantiates, showing exactly how the engine would route it.",
	}, handleListPaths)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
