package conformance

import (
	"fmt"
	"strings"
)

// Provenance identifies which half of an exchange a violation was detected in.
type Provenance string

// Violation provenances.
const (
	ProvenanceRequest  Provenance = "request"
	ProvenanceResponse Provenance = "response"
)

// Violation represents a single detected mismatch between live traffic and
// the contract. The absence of a Violation is the conforming verdict; there
// is no partial success.
type Violation struct {
	// Provenance is the phase the violation was detected in.
	Provenance Provenance

	// Path is the location within the HTTP message the violation refers to
	// (e.g. "requestBody", "query.limit", "response.body").
	Path string

	// Message is a human-readable description of the mismatch.
	Message string
}

// String returns a formatted representation of the violation.
func (v Violation) String() string {
	return fmt.Sprintf("✗ [%s] %s: %s", v.Provenance, v.Path, v.Message)
}

// schemaTypeRewriter maps type tokens leaked by schema validation engines
// (Go decoder type names and reflected container types) onto the public
// OpenAPI vocabulary: string, number, integer, boolean.
//
// The "boolean" identity pair must precede "bool" so that already-public
// messages are left untouched.
var schemaTypeRewriter = strings.NewReplacer(
	"map[string]interface {}", "object",
	"[]interface {}", "array",
	"float64", "number",
	"float32", "number",
	"int64", "integer",
	"int32", "integer",
	"boolean", "boolean",
	"bool", "boolean",
)

// rewriteSchemaMessages normalizes the error messages returned by a schema
// validation collaborator so that violations always speak the contract's type
// vocabulary rather than the engine's internal one.
func rewriteSchemaMessages(msgs []string) []string {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = schemaTypeRewriter.Replace(m)
	}
	return out
}

// joinSchemaMessages collapses a collaborator's error list into one violation
// message, preserving the collaborator's reporting order.
func joinSchemaMessages(msgs []string) string {
	return strings.Join(rewriteSchemaMessages(msgs), "; ")
}
