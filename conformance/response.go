package conformance

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/oasguard/oasguard/internal/httputil"
)

// ResponseResult is the outcome of judging one outbound response.
type ResponseResult struct {
	// Violation is the surfaced response-phase violation, nil when the
	// response conforms.
	Violation *Violation

	// Template is the matched path template, empty when resolution failed.
	Template string

	// StatusDeclared reports whether the contract declares a descriptor for
	// the response status, either exactly or through a default descriptor.
	// The middleware uses it to tolerate undeclared error statuses produced
	// by the application's own error handling.
	StatusDeclared bool
}

// ValidateResponse judges one outbound response against the contract, given
// the request that produced it and the captured response parts. The
// operation is re-resolved from the request; the response phase shares no
// per-exchange state with the request phase beyond the registry.
//
// The error return is reserved for fatal internal conditions; contract
// violations are carried in the result. The original response bytes must
// already be on their way to the client — validation never alters delivery.
func (v *Validator) ValidateResponse(req *http.Request, statusCode int, header http.Header, body []byte) (*ResponseResult, error) {
	result := &ResponseResult{}

	if !httputil.KnownMethod(req.Method) {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       "response.method",
			Message:    fmt.Sprintf("unknown HTTP method %q", req.Method),
		}
		return result, nil
	}

	path, ok := strings.CutPrefix(req.URL.Path, v.pathPrefix)
	if !ok {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       "response.path",
			Message:    fmt.Sprintf("request path %q does not start with configured prefix %q", req.URL.Path, v.pathPrefix),
		}
		return result, nil
	}

	op, err := v.registry.ResolveOperation(path, req.Method)
	if err != nil {
		result.Violation = resolutionViolation(ProvenanceResponse, err, path, req.Method)
		return result, nil
	}
	result.Template = op.Template

	// Select the response descriptor by exact status code, falling back to
	// the declared default descriptor.
	spec, ok := op.Responses[httputil.StatusKey(statusCode)]
	if !ok {
		spec, ok = op.Responses[httputil.DefaultStatusKey]
	}
	if !ok {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       fmt.Sprintf("response.%d", statusCode),
			Message:    fmt.Sprintf("no response declared for status %d on %s %s", statusCode, op.Method, op.Template),
		}
		return result, nil
	}
	result.StatusDeclared = true

	mediaType := EffectiveMediaType(header)
	schema, ok := spec.Content[mediaType]
	if !ok || schema == nil {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       "response.body",
			Message:    fmt.Sprintf("no response schema declared for content type %q on %s %s", mediaType, op.Method, op.Template),
		}
		return result, nil
	}

	if !IsJSON(mediaType) {
		return result, nil
	}

	if !json.Valid(body) {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       "response.body",
			Message:    "response body is not valid JSON",
		}
		return result, nil
	}

	if msgs := v.schema.Validate(schema, body); len(msgs) > 0 {
		result.Violation = &Violation{
			Provenance: ProvenanceResponse,
			Path:       "response.body",
			Message:    joinSchemaMessages(msgs),
		}
	}
	return result, nil
}

// Conforming reports whether no violation was detected.
func (r *ResponseResult) Conforming() bool {
	return r.Violation == nil
}
