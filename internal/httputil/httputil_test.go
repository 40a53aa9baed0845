package httputil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownMethod(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		expected bool
	}{
		// Standard methods
		{"GET", "GET", true},
		{"HEAD", "HEAD", true},
		{"POST", "POST", true},
		{"PUT", "PUT", true},
		{"PATCH", "PATCH", true},
		{"DELETE", "DELETE", true},
		{"CONNECT", "CONNECT", true},
		{"OPTIONS", "OPTIONS", true},
		{"TRACE", "TRACE", true},

		// Methods are case-sensitive on the wire
		{"lowercase get", "get", false},
		{"mixed case Post", "Post", false},

		// Unknown verbs
		{"PROPFIND", "PROPFIND", false},
		{"empty string", "", false},
		{"garbage", "FETCHETY", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, KnownMethod(tt.method))
		})
	}
}

func TestStatusKey(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected string
	}{
		{"200 OK", 200, "200"},
		{"404 not found", 404, "404"},
		{"599", 599, "599"},
		{"100 continue", 100, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusKey(tt.code))
		})
	}
}

func TestValidStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected bool
	}{
		{"lower bound", 100, true},
		{"upper bound", 599, true},
		{"common 200", 200, true},
		{"below range", 99, false},
		{"above range", 600, false},
		{"zero", 0, false},
		{"negative", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidStatusCode(tt.code))
		})
	}
}
