package conformance

import (
	"fmt"
)

// Validator runs the request and response validation pipelines for one
// contract. It holds only immutable configuration and the shared registry,
// so a single Validator serves unbounded concurrent exchanges.
//
// Create a Validator with NewValidator:
//
//	v, err := conformance.NewValidator(reg, checker,
//	    conformance.WithPathPrefix("/api"),
//	)
type Validator struct {
	registry    *Registry
	schema      SchemaValidator
	pathPrefix  string
	maxBodySize int64
	reporter    Reporter
}

// NewValidator creates a validator from a registry and a schema-validation
// collaborator.
func NewValidator(registry *Registry, schema SchemaValidator, opts ...Option) (*Validator, error) {
	if registry == nil {
		return nil, fmt.Errorf("conformance: registry cannot be nil")
	}
	if schema == nil {
		return nil, fmt.Errorf("conformance: schema validator cannot be nil")
	}

	v := &Validator{
		registry:    registry,
		schema:      schema,
		maxBodySize: DefaultMaxBodySize,
		reporter:    SlogReporter(nil),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Registry returns the validator's contract registry.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// PathPrefix returns the configured raw-path prefix.
func (v *Validator) PathPrefix() string {
	return v.pathPrefix
}
