package conformance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oasguard/oasguard/internal/httputil"
)

// RequestResult is the outcome of judging one inbound request.
type RequestResult struct {
	// Violation is the surfaced request-phase violation, nil when the
	// request conforms.
	Violation *Violation

	// Body is the captured request body. Callers must hand the wrapped
	// application a replay of it (Body.Reader), never the original stream.
	Body *CapturedBody

	// Template is the matched path template, empty when resolution failed.
	Template string
}

// Conforming reports whether no violation was detected.
func (r *RequestResult) Conforming() bool {
	return r.Violation == nil
}

// ValidateRequest judges one inbound request against the contract. The
// request body is drained as a side effect; the returned result carries the
// captured copy for replay.
//
// The error return is reserved for fatal conditions (body read failure or
// capture-limit overflow), which must abort the exchange; contract
// violations are carried in the result. Validation is observational: a
// violation never prevents the request from reaching the application.
func (v *Validator) ValidateRequest(req *http.Request) (*RequestResult, error) {
	body, err := CaptureBody(req.Body, v.maxBodySize)
	if err != nil {
		return nil, err
	}
	result := &RequestResult{Body: body}

	if !httputil.KnownMethod(req.Method) {
		result.Violation = &Violation{
			Provenance: ProvenanceRequest,
			Path:       "request.method",
			Message:    fmt.Sprintf("unknown HTTP method %q", req.Method),
		}
		return result, nil
	}

	path, ok := strings.CutPrefix(req.URL.Path, v.pathPrefix)
	if !ok {
		result.Violation = &Violation{
			Provenance: ProvenanceRequest,
			Path:       "request.path",
			Message:    fmt.Sprintf("request path %q does not start with configured prefix %q", req.URL.Path, v.pathPrefix),
		}
		return result, nil
	}

	op, err := v.registry.ResolveOperation(path, req.Method)
	if err != nil {
		result.Violation = resolutionViolation(ProvenanceRequest, err, path, req.Method)
		return result, nil
	}
	result.Template = op.Template

	// Body and query parameters are independent checks: both always run to
	// completion, and a body-schema violation takes precedence when both
	// fail.
	bodyViolation := v.validateRequestBody(req, op, body)
	paramViolations := validateQueryParams(v.schema, op.Parameters, req.URL.Query())

	switch {
	case bodyViolation != nil:
		result.Violation = bodyViolation
	case len(paramViolations) > 0:
		result.Violation = &paramViolations[0]
	}
	return result, nil
}

// validateRequestBody checks the captured body of a POST or PUT request
// against the schema declared for its effective content type. Bodies of
// other methods or non-JSON content types are not validated.
func (v *Validator) validateRequestBody(req *http.Request, op *Operation, body *CapturedBody) *Violation {
	if req.Method != http.MethodPost && req.Method != http.MethodPut {
		return nil
	}
	mediaType := EffectiveMediaType(req.Header)
	if !IsJSON(mediaType) {
		return nil
	}

	schema, ok := op.RequestBody[mediaType]
	if !ok || schema == nil {
		return &Violation{
			Provenance: ProvenanceRequest,
			Path:       "requestBody",
			Message:    fmt.Sprintf("no request body declared for content type %q on %s %s", mediaType, op.Method, op.Template),
		}
	}

	if !json.Valid(body.Bytes()) {
		return &Violation{
			Provenance: ProvenanceRequest,
			Path:       "requestBody",
			Message:    "request body is not valid JSON",
		}
	}

	if msgs := v.schema.Validate(schema, body.Bytes()); len(msgs) > 0 {
		return &Violation{
			Provenance: ProvenanceRequest,
			Path:       "requestBody",
			Message:    joinSchemaMessages(msgs),
		}
	}
	return nil
}

// resolutionViolation renders an operation-resolution failure as a
// violation, preserving the distinction between an undeclared path and an
// undeclared method.
func resolutionViolation(prov Provenance, err error, path, method string) *Violation {
	if errors.Is(err, ErrMethodNotAllowed) {
		return &Violation{
			Provenance: prov,
			Path:       string(prov) + ".method",
			Message:    fmt.Sprintf("method %s not declared for path %q", method, path),
		}
	}
	return &Violation{
		Provenance: prov,
		Path:       string(prov) + ".path",
		Message:    fmt.Sprintf("no path %q declared in contract", path),
	}
}
