package conformance

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveMediaType(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"missing header defaults to JSON", "", "application/json"},
		{"plain media type", "application/json", "application/json"},
		{"parameters are stripped", "application/json; charset=utf-8", "application/json"},
		{"case is normalized", "Application/JSON", "application/json"},
		{"other types pass through", "text/csv", "text/csv"},
		{"malformed value is returned verbatim", "not a media type;;", "not a media type;;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Content-Type", tt.header)
			}
			assert.Equal(t, tt.expected, EffectiveMediaType(h))
		})
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		expected  bool
	}{
		{"application/json", "application/json", true},
		{"no +json suffix handling", "application/problem+json", false},
		{"text/json is not JSON", "text/json", false},
		{"no wildcard", "application/*", false},
		{"empty", "", false},
		{"bare type", "application", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsJSON(tt.mediaType))
		})
	}
}
