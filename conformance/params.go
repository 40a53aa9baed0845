package conformance

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// validateQueryParams aligns the declared query-location parameters of an
// operation against the actual query-string pairs and returns every
// violation found, in name-lexicographic order.
//
// Each name in the union of declared and actual falls into one of three
// cases: present but undeclared, declared but absent, or declared and
// present. All names are evaluated to completion; callers that surface a
// single violation take the first, which is deterministic because of the
// sorted order.
func validateQueryParams(sv SchemaValidator, declared []Parameter, query url.Values) []Violation {
	byName := make(map[string]*Parameter, len(declared))
	for i := range declared {
		p := &declared[i]
		if p.In != "query" {
			continue
		}
		byName[p.Name] = p
	}

	names := make([]string, 0, len(byName)+len(query))
	seen := make(map[string]bool, len(byName)+len(query))
	for name := range byName {
		names = append(names, name)
		seen[name] = true
	}
	for name := range query {
		if !seen[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var violations []Violation
	for _, name := range names {
		param, isDeclared := byName[name]
		values, isPresent := query[name]

		switch {
		case !isDeclared:
			violations = append(violations, Violation{
				Provenance: ProvenanceRequest,
				Path:       "query." + name,
				Message:    fmt.Sprintf("query parameter %q not specified in contract", name),
			})

		case !isPresent:
			if param.Required {
				violations = append(violations, Violation{
					Provenance: ProvenanceRequest,
					Path:       "query." + name,
					Message:    fmt.Sprintf("required query parameter %q is missing", name),
				})
			}

		default:
			if v, ok := validateQueryValue(sv, param, firstValue(values)); !ok {
				violations = append(violations, v)
			}
		}
	}
	return violations
}

// validateQueryValue judges one declared-and-present parameter value.
func validateQueryValue(sv SchemaValidator, param *Parameter, value string) (Violation, bool) {
	path := "query." + param.Name

	if value == "" {
		if param.AllowEmptyValue {
			return Violation{}, true
		}
		return Violation{
			Provenance: ProvenanceRequest,
			Path:       path,
			Message:    fmt.Sprintf("empty value for query parameter %q not allowed", param.Name),
		}, false
	}

	if param.Schema == nil {
		return Violation{}, true
	}

	doc := queryValueDocument(param, value)
	if !json.Valid(doc) {
		return Violation{
			Provenance: ProvenanceRequest,
			Path:       path,
			Message:    fmt.Sprintf("query parameter %q is not a valid JSON value", param.Name),
		}, false
	}

	if msgs := sv.Validate(param.Schema, doc); len(msgs) > 0 {
		return Violation{
			Provenance: ProvenanceRequest,
			Path:       path,
			Message:    fmt.Sprintf("query parameter %q: %s", param.Name, joinSchemaMessages(msgs)),
		}, false
	}
	return Violation{}, true
}

// queryValueDocument frames a raw query value as a standalone JSON document
// for the schema collaborator. String-typed parameters are JSON-quoted
// unless the raw value already carries quotes; all other types pass the raw
// bytes through unchanged.
func queryValueDocument(param *Parameter, value string) []byte {
	if param.SchemaType == "string" && !isQuoted(value) {
		return []byte(strconv.Quote(value))
	}
	return []byte(value)
}

func isQuoted(value string) bool {
	return len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"'
}

// firstValue flattens a repeated query key to its first value, matching the
// flat key-to-value view of the query string the contract alignment uses.
func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
