package conformance

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequest_Resolution(t *testing.T) {
	v := newTestValidator(t)

	t.Run("conforming GET", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/articles?tag=go&limit=10", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		assert.True(t, result.Conforming())
		assert.Equal(t, "/articles", result.Template)
	})

	t.Run("unknown HTTP method", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/articles?tag=go", nil)
		req.Method = "FETCH"
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, "request.method", result.Violation.Path)
		assert.Contains(t, result.Violation.Message, `unknown HTTP method "FETCH"`)
	})

	t.Run("undeclared path", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nowhere", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, "request.path", result.Violation.Path)
		assert.Contains(t, result.Violation.Message, `no path "/nowhere" declared`)
		assert.Empty(t, result.Template)
	})

	t.Run("undeclared method on a declared path", func(t *testing.T) {
		req := httptest.NewRequest("DELETE", "/articles", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, "request.method", result.Violation.Path)
		assert.Contains(t, result.Violation.Message, "method DELETE not declared")
	})

	t.Run("provenance is always request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/nowhere", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, ProvenanceRequest, result.Violation.Provenance)
	})
}

func TestValidateRequest_PathPrefix(t *testing.T) {
	v := newTestValidator(t, WithPathPrefix("/api"))

	t.Run("prefix is stripped before lookup", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/articles?tag=go", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		assert.True(t, result.Conforming())
		assert.Equal(t, "/articles", result.Template)
	})

	t.Run("path without the prefix is a violation", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/other/articles?tag=go", nil)
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, "request.path", result.Violation.Path)
		assert.Contains(t, result.Violation.Message, "configured prefix")
	})
}

func TestValidateRequest_Body(t *testing.T) {
	v := newTestValidator(t)

	post := func(body, contentType string) *RequestResult {
		req := httptest.NewRequest("POST", "/articles", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		return result
	}

	t.Run("conforming POST body", func(t *testing.T) {
		result := post(`{"title":"go"}`, "application/json")
		assert.True(t, result.Conforming())
	})

	t.Run("missing Content-Type defaults to JSON", func(t *testing.T) {
		result := post(`{"title":"go"}`, "")
		assert.True(t, result.Conforming())
	})

	t.Run("body that is not valid JSON", func(t *testing.T) {
		result := post(`{"title":`, "application/json")
		require.NotNil(t, result.Violation)
		assert.Equal(t, "requestBody", result.Violation.Path)
		assert.Contains(t, result.Violation.Message, "not valid JSON")
	})

	t.Run("schema mismatch uses the public type vocabulary", func(t *testing.T) {
		result := post(`{"title":42}`, "application/json")
		require.NotNil(t, result.Violation)
		assert.Contains(t, result.Violation.Message, "expected string, got number")
		assert.NotContains(t, result.Violation.Message, "float64")
	})

	t.Run("undeclared content type", func(t *testing.T) {
		req := httptest.NewRequest("PUT", "/articles/9", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Contains(t, result.Violation.Message, `no request body declared for content type "application/json"`)
	})

	t.Run("non-JSON content types are not validated", func(t *testing.T) {
		result := post("not json at all", "text/plain")
		assert.True(t, result.Conforming())
	})

	t.Run("GET bodies are not validated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/articles?tag=go", strings.NewReader("not json"))
		req.Header.Set("Content-Type", "application/json")
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		assert.True(t, result.Conforming())
	})

	t.Run("body violation takes precedence over parameter violations", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/articles?bogus=1", strings.NewReader(`{"views":3}`))
		req.Header.Set("Content-Type", "application/json")
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)
		require.NotNil(t, result.Violation)
		assert.Equal(t, "requestBody", result.Violation.Path)
	})
}

func TestValidateRequest_Capture(t *testing.T) {
	t.Run("body is captured for replay", func(t *testing.T) {
		v := newTestValidator(t)
		req := httptest.NewRequest("POST", "/articles", strings.NewReader(`{"title":"go"}`))
		result, err := v.ValidateRequest(req)
		require.NoError(t, err)

		data, err := io.ReadAll(result.Body.Reader())
		require.NoError(t, err)
		assert.Equal(t, `{"title":"go"}`, string(data))
	})

	t.Run("oversized body is fatal", func(t *testing.T) {
		v := newTestValidator(t, WithMaxBodySize(4))
		req := httptest.NewRequest("POST", "/articles", strings.NewReader(`{"title":"go"}`))
		_, err := v.ValidateRequest(req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "capture limit")
	})
}
