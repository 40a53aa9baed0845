package conformance

import (
	"log/slog"
	"net/http"
)

// ReportContext carries everything the reporting collaborator receives about
// one detected violation: the originating request, the response parts when
// the violation was detected in the response phase, and the violation
// itself.
type ReportContext struct {
	// ExchangeID correlates the request and response phases of one
	// exchange.
	ExchangeID string

	// Request is the originating request. Its body has already been
	// consumed; use the snapshot fields rather than re-reading it.
	Request *http.Request

	// Response holds the captured response parts for response-phase
	// violations and is nil during the request phase.
	Response *ResponseSnapshot

	// Template is the matched path template, empty when path resolution
	// itself failed.
	Template string

	// Violation is the detected mismatch.
	Violation Violation
}

// ResponseSnapshot is the captured outbound response handed to reporters.
type ResponseSnapshot struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Reporter is the reporting collaborator: a callback invoked at most once
// per violation per phase. The callback must not fail back into the
// pipeline; a panic from a reporter is a fatal condition for the exchange
// and propagates to the host transport.
type Reporter func(ReportContext)

// SlogReporter returns a Reporter that logs violations at Warn level with
// structured fields. A nil logger uses slog.Default.
func SlogReporter(logger *slog.Logger) Reporter {
	return func(rc ReportContext) {
		l := logger
		if l == nil {
			l = slog.Default()
		}
		attrs := []any{
			slog.String("provenance", string(rc.Violation.Provenance)),
			slog.String("location", rc.Violation.Path),
			slog.String("message", rc.Violation.Message),
			slog.String("method", rc.Request.Method),
			slog.String("path", rc.Request.URL.Path),
			slog.String("exchange_id", rc.ExchangeID),
		}
		if rc.Template != "" {
			attrs = append(attrs, slog.String("template", rc.Template))
		}
		if rc.Response != nil {
			attrs = append(attrs, slog.Int("status", rc.Response.StatusCode))
		}
		l.Warn("conformance: contract violation", attrs...)
	}
}

// MultiReporter fans one violation out to several reporters in order.
func MultiReporter(reporters ...Reporter) Reporter {
	return func(rc ReportContext) {
		for _, r := range reporters {
			r(rc)
		}
	}
}
