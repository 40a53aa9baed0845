package contract

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/oasguard/oasguard/conformance"
)

// Document adapts a parsed OpenAPI document to the conformance.Document
// interface. All $refs are resolved at load time, so lookups never touch the
// filesystem or network. Document is safe for concurrent use: the underlying
// model is never mutated after construction.
type Document struct {
	doc *openapi3.T
}

// NewDocument wraps an already-loaded and validated OpenAPI model. Callers
// that load from a file or URL should prefer LoadFile and LoadURL, which
// validate before wrapping.
func NewDocument(doc *openapi3.T) *Document {
	return &Document{doc: doc}
}

// Spec returns the underlying OpenAPI model.
func (d *Document) Spec() *openapi3.T { return d.doc }

// PathTemplates returns every declared path template, sorted.
func (d *Document) PathTemplates() []string {
	if d.doc.Paths == nil {
		return nil
	}
	m := d.doc.Paths.Map()
	templates := make([]string, 0, len(m))
	for template := range m {
		templates = append(templates, template)
	}
	sort.Strings(templates)
	return templates
}

// Operation resolves one (template, method) pair into the flat descriptor
// the conformance engine consumes. Path-item level parameters are merged
// with operation-level parameters; the operation level wins on conflict.
func (d *Document) Operation(template, method string) (*conformance.Operation, bool) {
	if d.doc.Paths == nil {
		return nil, false
	}
	pathItem := d.doc.Paths.Value(template)
	if pathItem == nil {
		return nil, false
	}
	op := pathItem.GetOperation(method)
	if op == nil {
		return nil, false
	}

	return &conformance.Operation{
		Template:    template,
		Method:      method,
		Parameters:  mergeParameters(pathItem.Parameters, op.Parameters),
		RequestBody: requestBodyContent(op.RequestBody),
		Responses:   responseSpecs(op.Responses),
	}, true
}

// mergeParameters combines path-item and operation parameters. Per the
// OpenAPI spec an operation parameter overrides a path-item parameter with
// the same (in, name) pair.
func mergeParameters(pathLevel, opLevel openapi3.Parameters) []conformance.Parameter {
	type key struct{ in, name string }
	seen := make(map[key]int)
	var out []conformance.Parameter

	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			p := convertParameter(ref.Value)
			k := key{in: p.In, name: p.Name}
			if i, ok := seen[k]; ok {
				out[i] = p
				continue
			}
			seen[k] = len(out)
			out = append(out, p)
		}
	}
	add(pathLevel)
	add(opLevel)
	return out
}

func convertParameter(p *openapi3.Parameter) conformance.Parameter {
	out := conformance.Parameter{
		Name:            p.Name,
		In:              p.In,
		Required:        p.Required,
		AllowEmptyValue: p.AllowEmptyValue,
	}
	if p.Schema != nil && p.Schema.Value != nil {
		out.Schema = p.Schema.Value
		out.SchemaType = primaryType(p.Schema.Value)
	}
	return out
}

func requestBodyContent(ref *openapi3.RequestBodyRef) map[string]conformance.Schema {
	if ref == nil || ref.Value == nil || len(ref.Value.Content) == 0 {
		return nil
	}
	return schemasFromContent(ref.Value.Content)
}

func responseSpecs(responses *openapi3.Responses) map[string]conformance.ResponseSpec {
	if responses == nil {
		return nil
	}
	m := responses.Map()
	out := make(map[string]conformance.ResponseSpec, len(m))
	for status, ref := range m {
		spec := conformance.ResponseSpec{}
		if ref != nil && ref.Value != nil {
			spec.Content = schemasFromContent(ref.Value.Content)
		}
		out[status] = spec
	}
	return out
}

func schemasFromContent(content openapi3.Content) map[string]conformance.Schema {
	if len(content) == 0 {
		return nil
	}
	out := make(map[string]conformance.Schema, len(content))
	for mediaType, mt := range content {
		if mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			out[mediaType] = mt.Schema.Value
		} else {
			out[mediaType] = nil
		}
	}
	return out
}

// primaryType returns the first declared primitive type of a schema, or ""
// when the schema declares none.
func primaryType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	types := s.Type.Slice()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}
