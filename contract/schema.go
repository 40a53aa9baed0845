package contract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oasguard/oasguard/conformance"
)

// SchemaChecker validates JSON documents directly against the parsed OpenAPI
// schema model. It is stateless and safe for concurrent use.
type SchemaChecker struct{}

// NewSchemaChecker returns a validator backed by the OpenAPI schema model.
func NewSchemaChecker() *SchemaChecker { return &SchemaChecker{} }

// Validate checks a JSON document against a schema handle produced by
// Document. A nil schema or a handle of an unexpected type yields no
// messages: the engine treats unknown as conforming.
func (c *SchemaChecker) Validate(schema conformance.Schema, document []byte) []string {
	s, ok := schema.(*openapi3.Schema)
	if !ok || s == nil {
		return nil
	}

	var value any
	if err := json.Unmarshal(document, &value); err != nil {
		return []string{fmt.Sprintf("not valid JSON: %v", err)}
	}

	err := s.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return nil
	}
	return flattenSchemaErrors(err)
}

// flattenSchemaErrors walks kin-openapi's error tree into flat messages,
// prefixing each with its JSON pointer location when one exists.
func flattenSchemaErrors(err error) []string {
	if multi, ok := err.(openapi3.MultiError); ok {
		var out []string
		for _, e := range multi {
			out = append(out, flattenSchemaErrors(e)...)
		}
		return out
	}
	if schemaErr, ok := err.(*openapi3.SchemaError); ok {
		reason := schemaErr.Reason
		if reason == "" {
			reason = schemaErr.Error()
		}
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			return []string{fmt.Sprintf("at /%s: %s", strings.Join(pointer, "/"), reason)}
		}
		return []string{reason}
	}
	return []string{err.Error()}
}
