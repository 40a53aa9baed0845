package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/oasguard/oasguard/conformance"
)

// CompiledChecker validates JSON documents against schemas compiled to JSON
// Schema draft 2020-12. Each distinct schema handle is compiled once and
// cached; subsequent validations reuse the compiled form. Safe for
// concurrent use.
type CompiledChecker struct {
	mu    sync.Mutex
	cache map[*openapi3.Schema]*jsonschema.Schema
}

// NewCompiledChecker returns a validator that compiles schemas on first use.
func NewCompiledChecker() *CompiledChecker {
	return &CompiledChecker{cache: make(map[*openapi3.Schema]*jsonschema.Schema)}
}

// Validate checks a JSON document against a schema handle produced by
// Document. Compilation failures surface as validation messages rather than
// panics, so a single pathological schema cannot take down the exchange.
func (c *CompiledChecker) Validate(schema conformance.Schema, document []byte) []string {
	s, ok := schema.(*openapi3.Schema)
	if !ok || s == nil {
		return nil
	}

	compiled, err := c.compiled(s)
	if err != nil {
		return []string{fmt.Sprintf("schema compilation failed: %v", err)}
	}

	var value any
	if err := json.Unmarshal(document, &value); err != nil {
		return []string{fmt.Sprintf("not valid JSON: %v", err)}
	}

	if err := compiled.Validate(value); err != nil {
		var out []string
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			collectCauses(validationErr, &out)
		} else {
			out = append(out, err.Error())
		}
		return out
	}
	return nil
}

func (c *CompiledChecker) compiled(s *openapi3.Schema) (*jsonschema.Schema, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if compiled, ok := c.cache[s]; ok {
		return compiled, nil
	}

	// The OpenAPI schema model marshals to plain JSON Schema, so the
	// compiled form validates the same value space.
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, err
	}

	c.cache[s] = compiled
	return compiled, nil
}

// collectCauses descends to the leaf errors; intermediate nodes only repeat
// their children.
func collectCauses(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		if err.InstanceLocation != "" && err.InstanceLocation != "/" {
			*out = append(*out, fmt.Sprintf("at %s: %s", err.InstanceLocation, err.Message))
		} else {
			*out = append(*out, err.Message)
		}
		return
	}
	for _, cause := range err.Causes {
		collectCauses(cause, out)
	}
}
