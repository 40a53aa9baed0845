package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type listPathsInput struct {
	Spec    specInput `json:"spec"              jsonschema:"The OpenAPI contract to inspect"`
	Resolve string    `json:"resolve,omitempty" jsonschema:"Optional concrete request path to resolve to a template (e.g. /articles/42)"`
}

type pathEntry struct {
	Template string   `json:"template"`
	Methods  []string `json:"methods"`
}

type listPathsOutput struct {
	Paths    []pathEntry `json:"paths"`
	Resolved string      `json:"resolved,omitempty"`
	Matched  bool        `json:"matched,omitempty"`
}

var probeMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE"}

func handleListPaths(ctx context.Context, _ *mcp.CallToolRequest, input listPathsInput) (*mcp.CallToolResult, listPathsOutput, error) {
	eng, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), listPathsOutput{}, nil
	}

	var output listPathsOutput
	for _, template := range eng.doc.PathTemplates() {
		entry := pathEntry{Template: template}
		for _, method := range probeMethods {
			if _, ok := eng.doc.Operation(template, method); ok {
				entry.Methods = append(entry.Methods, method)
			}
		}
		output.Paths = append(output.Paths, entry)
	}

	if input.Resolve != "" {
		output.Resolved, output.Matched = eng.registry.Lookup(input.Resolve)
	}
	return nil, output, nil
}
