package conformance

import (
	"bytes"
	"net/http"

	"github.com/google/uuid"
)

// Middleware wraps an http.Handler with contract conformance checking.
//
// The inner handler is invoked exactly once per request, with a body
// reconstructed from the captured bytes; the original response bytes stream
// to the client unaltered regardless of validation outcome. Violations are
// routed to the validator's reporter after the response status is known:
//
//   - Request-phase violations are reported unless the application itself
//     rejected the exchange with an error status (>= 400), in which case the
//     application's own error handling already signalled the mismatch.
//   - Response-phase violations are reported as detected, except that an
//     error status the contract declares no descriptor for is tolerated
//     rather than reported — the contract is only enforced for statuses it
//     actually declares.
//
// A body read failure before the inner handler runs aborts the exchange with
// a 500.
func Middleware(v *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			exchangeID := uuid.NewString()

			reqResult, err := v.ValidateRequest(r)
			if err != nil {
				// Fatal capture failure: the body cannot be replayed, so the
				// exchange cannot proceed.
				http.Error(w, "failed to read request body", http.StatusInternalServerError)
				return
			}
			r.Body = reqResult.Body.Reader()

			rec := newResponseRecorder(w, v.maxBodySize)
			next.ServeHTTP(rec, r)

			if reqResult.Violation != nil && rec.statusCode < 400 {
				v.reporter(ReportContext{
					ExchangeID: exchangeID,
					Request:    r,
					Template:   reqResult.Template,
					Violation:  *reqResult.Violation,
				})
			}

			if rec.overflowed {
				// The response exceeded the capture limit; the client got the
				// full stream but there is nothing trustworthy to validate.
				return
			}

			respResult, err := v.ValidateResponse(r, rec.statusCode, rec.Header(), rec.body.Bytes())
			if err != nil || respResult.Violation == nil {
				return
			}
			if rec.statusCode >= 400 && !respResult.StatusDeclared {
				return
			}
			v.reporter(ReportContext{
				ExchangeID: exchangeID,
				Request:    r,
				Response: &ResponseSnapshot{
					StatusCode: rec.statusCode,
					Header:     rec.Header().Clone(),
					Body:       rec.body.Bytes(),
				},
				Template:  respResult.Template,
				Violation: *respResult.Violation,
			})
		})
	}
}

// responseRecorder streams writes through to the real ResponseWriter while
// buffering a copy for validation. Buffering stops at the capture limit;
// delivery to the client is never truncated.
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        *bytes.Buffer
	limit       int64
	overflowed  bool
}

func newResponseRecorder(w http.ResponseWriter, limit int64) *responseRecorder {
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}
	return &responseRecorder{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
		body:           &bytes.Buffer{},
		limit:          limit,
	}
}

func (r *responseRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.statusCode = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if !r.overflowed {
		if int64(r.body.Len()+len(b)) > r.limit {
			r.overflowed = true
			r.body.Reset()
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer when it supports streaming.
func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
