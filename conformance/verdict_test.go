package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolationString(t *testing.T) {
	v := Violation{
		Provenance: ProvenanceRequest,
		Path:       "query.limit",
		Message:    "expected integer",
	}
	assert.Equal(t, "✗ [request] query.limit: expected integer", v.String())
}

func TestRewriteSchemaMessages(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"float64 becomes number", "expected string, got float64", "expected string, got number"},
		{"float32 becomes number", "got float32", "got number"},
		{"int64 becomes integer", "got int64", "got integer"},
		{"bool becomes boolean", "expected bool", "expected boolean"},
		{"boolean stays boolean", "expected boolean", "expected boolean"},
		{"map type becomes object", "got map[string]interface {}", "got object"},
		{"slice type becomes array", "got []interface {}", "got array"},
		{"unrelated text untouched", "missing property \"title\"", "missing property \"title\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := rewriteSchemaMessages([]string{tt.in})
			assert.Equal(t, []string{tt.expected}, out)
		})
	}

	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, rewriteSchemaMessages(nil))
	})
}

func TestJoinSchemaMessages(t *testing.T) {
	msg := joinSchemaMessages([]string{"got float64", "missing \"id\""})
	assert.Equal(t, "got number; missing \"id\"", msg)
}
