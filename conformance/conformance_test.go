package conformance

import (
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubDocument is a hand-built contract used across the package tests:
//
//	GET  /articles        query: limit (integer), tag (string, required)
//	                      responses: 200 {application/json, text/csv}
//	POST /articles        requestBody: {application/json: article}
//	                      responses: 201 {application/json: article},
//	                                 default {application/json: error}
//	GET  /articles/{id}   responses: 200 {application/json: article}
//	PUT  /articles/{id}   no request body declared
//	                      responses: 200 {application/json: article}
//
// Schema handles are plain strings interpreted by stubChecker.
type stubDocument struct{}

func (stubDocument) PathTemplates() []string {
	return []string{"/articles", "/articles/{id}"}
}

func (stubDocument) Operation(template, method string) (*Operation, bool) {
	switch template + " " + method {
	case "/articles GET":
		return &Operation{
			Template: template,
			Method:   method,
			Parameters: []Parameter{
				{Name: "limit", In: "query", Schema: "integer", SchemaType: "integer"},
				{Name: "tag", In: "query", Required: true, Schema: "string", SchemaType: "string"},
			},
			Responses: map[string]ResponseSpec{
				"200": {Content: map[string]Schema{
					"application/json": "articleList",
					"text/csv":         "csv",
				}},
			},
		}, true
	case "/articles POST":
		return &Operation{
			Template:    template,
			Method:      method,
			RequestBody: map[string]Schema{"application/json": "article"},
			Responses: map[string]ResponseSpec{
				"201":     {Content: map[string]Schema{"application/json": "article"}},
				"default": {Content: map[string]Schema{"application/json": "error"}},
			},
		}, true
	case "/articles/{id} GET":
		return &Operation{
			Template: template,
			Method:   method,
			Responses: map[string]ResponseSpec{
				"200": {Content: map[string]Schema{"application/json": "article"}},
			},
		}, true
	case "/articles/{id} PUT":
		return &Operation{
			Template: template,
			Method:   method,
			Responses: map[string]ResponseSpec{
				"200": {Content: map[string]Schema{"application/json": "article"}},
			},
		}, true
	}
	return nil, false
}

// stubChecker interprets the string schema handles of stubDocument. Its
// failure messages deliberately leak decoder type names so the rewriting
// layer is exercised by the pipeline tests.
type stubChecker struct{}

func (stubChecker) Validate(schema Schema, document []byte) []string {
	switch schema {
	case "article":
		var m map[string]any
		if err := json.Unmarshal(document, &m); err != nil {
			return []string{"expected object, got something else"}
		}
		v, ok := m["title"]
		if !ok {
			return []string{`missing property "title"`}
		}
		if _, ok := v.(string); !ok {
			return []string{`property "title": expected string, got float64`}
		}
		return nil
	case "error":
		var m map[string]any
		if err := json.Unmarshal(document, &m); err != nil {
			return []string{"expected object"}
		}
		if _, ok := m["message"]; !ok {
			return []string{`missing property "message"`}
		}
		return nil
	case "integer":
		var f float64
		if err := json.Unmarshal(document, &f); err != nil || f != math.Trunc(f) {
			return []string{"expected integer, got float64"}
		}
		return nil
	case "string":
		var s string
		if err := json.Unmarshal(document, &s); err != nil {
			return []string{"expected string"}
		}
		return nil
	case "articleList":
		var a []any
		if err := json.Unmarshal(document, &a); err != nil {
			return []string{"expected array, got map[string]interface {}"}
		}
		return nil
	}
	return nil
}

// reportLog is a recording reporter for middleware tests.
type reportLog struct {
	mu      sync.Mutex
	entries []ReportContext
}

func (l *reportLog) reporter() Reporter {
	return func(rc ReportContext) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.entries = append(l.entries, rc)
	}
}

func (l *reportLog) all() []ReportContext {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]ReportContext(nil), l.entries...)
}

func newTestValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	reg, err := NewRegistry(stubDocument{})
	require.NoError(t, err)
	v, err := NewValidator(reg, stubChecker{}, opts...)
	require.NoError(t, err)
	return v
}
