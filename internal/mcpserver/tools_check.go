package mcpserver

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oasguard/oasguard/conformance"
)

type checkRequestInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OpenAPI contract to check against"`
	Method      string    `json:"method"                 jsonschema:"HTTP method of the captured request (e.g. GET, POST)"`
	Path        string    `json:"path"                   jsonschema:"Raw request path (e.g. /api/articles/42)"`
	Query       string    `json:"query,omitempty"        jsonschema:"Raw query string without the leading ? (e.g. limit=10&tag=go)"`
	ContentType string    `json:"content_type,omitempty" jsonschema:"Content-Type header value; missing implies application/json"`
	Body        string    `json:"body,omitempty"         jsonschema:"Captured request body"`
	PathPrefix  string    `json:"path_prefix,omitempty"  jsonschema:"Prefix stripped from the path before contract lookup"`
}

type violationOutput struct {
	Provenance string `json:"provenance"`
	Location   string `json:"location"`
	Message    string `json:"message"`
}

type checkRequestOutput struct {
	Conforming bool             `json:"conforming"`
	Template   string           `json:"template,omitempty"`
	Violation  *violationOutput `json:"violation,omitempty"`
}

func handleCheckRequest(ctx context.Context, _ *mcp.CallToolRequest, input checkRequestInput) (*mcp.CallToolResult, checkRequestOutput, error) {
	eng, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), checkRequestOutput{}, nil
	}
	v, err := eng.validator(input.PathPrefix)
	if err != nil {
		return errResult(err), checkRequestOutput{}, nil
	}

	req := buildRequest(input.Method, input.Path, input.Query, input.ContentType, input.Body)
	result, err := v.ValidateRequest(req)
	if err != nil {
		return errResult(err), checkRequestOutput{}, nil
	}

	output := checkRequestOutput{
		Conforming: result.Conforming(),
		Template:   result.Template,
		Violation:  convertViolation(result.Violation),
	}
	return nil, output, nil
}

type checkResponseInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OpenAPI contract to check against"`
	Method      string    `json:"method"                 jsonschema:"HTTP method of the originating request"`
	Path        string    `json:"path"                   jsonschema:"Raw path of the originating request"`
	Status      int       `json:"status"                 jsonschema:"Response status code"`
	ContentType string    `json:"content_type,omitempty" jsonschema:"Response Content-Type header value; missing implies application/json"`
	Body        string    `json:"body,omitempty"         jsonschema:"Captured response body"`
	PathPrefix  string    `json:"path_prefix,omitempty"  jsonschema:"Prefix stripped from the path before contract lookup"`
}

type checkResponseOutput struct {
	Conforming     bool             `json:"conforming"`
	Template       string           `json:"template,omitempty"`
	StatusDeclared bool             `json:"status_declared"`
	Violation      *violationOutput `json:"violation,omitempty"`
}

func handleCheckResponse(ctx context.Context, _ *mcp.CallToolRequest, input checkResponseInput) (*mcp.CallToolResult, checkResponseOutput, error) {
	eng, err := input.Spec.resolve(ctx)
	if err != nil {
		return errResult(err), checkResponseOutput{}, nil
	}
	v, err := eng.validator(input.PathPrefix)
	if err != nil {
		return errResult(err), checkResponseOutput{}, nil
	}

	req := buildRequest(input.Method, input.Path, "", "", "")
	header := http.Header{}
	if input.ContentType != "" {
		header.Set("Content-Type", input.ContentType)
	}
	result, err := v.ValidateResponse(req, input.Status, header, []byte(input.Body))
	if err != nil {
		return errResult(err), checkResponseOutput{}, nil
	}

	output := checkResponseOutput{
		Conforming:     result.Conforming(),
		Template:       result.Template,
		StatusDeclared: result.StatusDeclared,
		Violation:      convertViolation(result.Violation),
	}
	return nil, output, nil
}

// buildRequest assembles a minimal request from captured exchange fields.
func buildRequest(method, path, query, contentType, body string) *http.Request {
	req := &http.Request{
		Method: method,
		URL:    &url.URL{Path: path, RawQuery: query},
		Header: http.Header{},
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if body != "" {
		req.Body = io.NopCloser(strings.NewReader(body))
	}
	return req
}

func convertViolation(v *conformance.Violation) *violationOutput {
	if v == nil {
		return nil
	}
	return &violationOutput{
		Provenance: string(v.Provenance),
		Location:   v.Path,
		Message:    v.Message,
	}
}
