package conformance

import (
	"errors"
	"fmt"
)

// Schema is an opaque handle to a schema node owned by the contract document.
// The engine never inspects it; it is only passed through to the
// SchemaValidator collaborator.
type Schema any

// Document is the contract-document collaborator: an already-parsed API
// contract with $refs resolved. Implementations must be safe for concurrent
// use; the contract package provides one backed by kin-openapi.
type Document interface {
	// PathTemplates returns every path template the contract declares.
	PathTemplates() []string

	// Operation returns the resolved descriptor for one (template, method)
	// pair, or false when the template declares no such method.
	Operation(template, method string) (*Operation, bool)
}

// Operation is the resolved descriptor for one (method, path template) pair.
// It is produced per lookup and discarded once the exchange is judged.
type Operation struct {
	// Template is the declared path template (e.g. "/articles/{id}").
	Template string

	// Method is the HTTP method, uppercase.
	Method string

	// Parameters are the declared parameters. Only query-location
	// parameters are validated by the engine.
	Parameters []Parameter

	// RequestBody maps declared request media types to body schemas.
	// Nil when the operation declares no request body.
	RequestBody map[string]Schema

	// Responses maps status codes ("201") or "default" to response specs.
	Responses map[string]ResponseSpec
}

// ResponseSpec describes the declared response for one status code.
type ResponseSpec struct {
	// Content maps declared response media types to body schemas.
	Content map[string]Schema
}

// Parameter is one declared operation parameter.
type Parameter struct {
	Name            string
	In              string
	Required        bool
	AllowEmptyValue bool

	// Schema is the opaque parameter schema, nil when undeclared.
	Schema Schema

	// SchemaType is the declared primitive type of Schema ("string",
	// "integer", ...), used to decide how a raw query value is framed as a
	// JSON document before schema validation.
	SchemaType string
}

// SchemaValidator is the schema-validation collaborator: a black-box
// structural check of a JSON document against a schema node. An empty result
// means the document conforms. The engine guarantees document is well-formed
// JSON before calling Validate.
type SchemaValidator interface {
	Validate(schema Schema, document []byte) []string
}

// Resolution failure sentinels. Callers must preserve the distinction
// between an undeclared path and an undeclared method in error messages.
var (
	ErrPathNotFound     = errors.New("conformance: path not declared in contract")
	ErrMethodNotAllowed = errors.New("conformance: method not declared for path")
)

// Registry is the stable handle passed to the validation pipelines: the
// contract document plus the path index derived from its declared templates.
// The document is borrowed, never copied; the index is owned by the registry.
// A Registry is immutable after construction.
type Registry struct {
	doc   Document
	index *PathIndex
}

// NewRegistry builds a registry from a contract document. Construction fails
// when the contract declares conflicting path templates.
func NewRegistry(doc Document) (*Registry, error) {
	if doc == nil {
		return nil, fmt.Errorf("conformance: contract document cannot be nil")
	}
	index, err := NewPathIndex(doc.PathTemplates())
	if err != nil {
		return nil, err
	}
	return &Registry{doc: doc, index: index}, nil
}

// ResolveOperation maps a concrete request path and method to the declared
// operation. The returned error wraps ErrPathNotFound when no template
// matches the path, and ErrMethodNotAllowed when the template declares no
// such method.
func (r *Registry) ResolveOperation(path, method string) (*Operation, error) {
	template, ok := r.index.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}
	op, ok := r.doc.Operation(template, method)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrMethodNotAllowed, method, template)
	}
	return op, nil
}

// Lookup returns the declared template matching a concrete path, if any.
func (r *Registry) Lookup(path string) (string, bool) {
	return r.index.Lookup(path)
}
