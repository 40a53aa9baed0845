// Package oasguard provides runtime conformance checking of HTTP traffic
// against OpenAPI contracts.
//
// oasguard sits in the request/response path of an HTTP server and verifies
// that live traffic matches a machine-readable API contract: each inbound
// request must match a declared operation (method + path + parameters + body
// schema), and each outbound response must match the schema declared for its
// status code and content type. Mismatches are reported through a pluggable
// callback; traffic itself is never blocked or altered.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - conformance: the contract-dispatch engine — path template index,
//     request/response validation pipelines, and the reporting middleware
//   - contract: the kin-openapi-backed contract document adapter and the
//     default JSON Schema validation collaborators
//   - metrics: a Prometheus-backed violation reporter
//
// # Quick Start
//
// Wrap a handler with conformance checking:
//
//	doc, err := contract.LoadFile(ctx, "openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	reg, err := conformance.NewRegistry(doc)
//	if err != nil {
//		log.Fatal(err)
//	}
//	v, err := conformance.NewValidator(reg, contract.NewSchemaChecker())
//	if err != nil {
//		log.Fatal(err)
//	}
//	http.ListenAndServe(":8080", conformance.Middleware(v)(mux))
//
// Violations are logged through slog by default; use
// conformance.WithReporter to route them elsewhere.
package oasguard
