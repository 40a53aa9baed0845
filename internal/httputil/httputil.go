// Package httputil provides HTTP method and status-code helpers shared by the
// conformance and contract packages.
package httputil

import "strconv"

// DefaultStatusKey is the response map key OpenAPI uses for the catch-all
// response descriptor.
const DefaultStatusKey = "default"

// knownMethods are the request methods defined by RFC 9110 plus PATCH
// (RFC 5789). Matching is exact: HTTP methods are case-sensitive on the wire.
var knownMethods = map[string]bool{
	"GET":     true,
	"HEAD":    true,
	"POST":    true,
	"PUT":     true,
	"PATCH":   true,
	"DELETE":  true,
	"CONNECT": true,
	"OPTIONS": true,
	"TRACE":   true,
}

// KnownMethod reports whether m is a standard HTTP request method.
func KnownMethod(m string) bool {
	return knownMethods[m]
}

// StatusKey converts a numeric status code into the string key used to look
// up response descriptors, e.g. 404 -> "404".
func StatusKey(code int) string {
	return strconv.Itoa(code)
}

// ValidStatusCode reports whether code falls inside the range of assignable
// HTTP status codes.
func ValidStatusCode(code int) bool {
	return code >= 100 && code <= 599
}
