// Package contract loads OpenAPI 3.x documents and adapts them to the
// collaborator interfaces the conformance engine consumes.
//
// The package provides two schema validators with different trade-offs:
//
//   - SchemaChecker validates values directly against the parsed OpenAPI
//     schema model. No compilation step, suitable for small contracts.
//   - CompiledChecker compiles each schema to a JSON Schema (draft 2020-12)
//     on first use and caches the result, amortizing the cost across a
//     high-traffic deployment.
//
// Both accept the opaque schema handles produced by Document, so they are
// interchangeable at the conformance.Validator level.
package contract
