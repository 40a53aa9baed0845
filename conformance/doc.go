// Package conformance validates live HTTP traffic against an OpenAPI-style
// contract. It is the dispatch engine between a host HTTP server and the
// contract document: inbound requests are matched to declared operations and
// outbound responses to the schemas declared for their status codes, with any
// mismatch handed to a reporting callback instead of interrupting the
// exchange.
//
// The engine is observational by design: the wrapped application always
// receives the request and the client always receives the original response
// bytes, whether or not a violation was detected.
//
// # Basic Usage
//
// Build a registry from a contract document, create a validator, and wrap a
// handler:
//
//	reg, err := conformance.NewRegistry(doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := conformance.NewValidator(reg, checker,
//	    conformance.WithPathPrefix("/api"),
//	    conformance.WithReporter(conformance.SlogReporter(logger)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	handler := conformance.Middleware(v)(mux)
//
// The contract document and the schema checker are collaborators supplied by
// the caller; the contract package provides implementations backed by
// kin-openapi and santhosh-tekuri/jsonschema.
//
// # Resource Model
//
// Request and response bodies are fully buffered in memory for the duration
// of an exchange; the cost is O(body size) per in-flight exchange. This is a
// deliberate trade-off in favor of whole-document JSON validation over
// streaming validation. Use WithMaxBodySize to bound the buffer.
//
// The registry is immutable after construction and is shared without locking
// across any number of concurrent exchanges. The engine starts no goroutines
// and holds no state between exchanges.
package conformance
