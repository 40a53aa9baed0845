package conformance

import (
	"mime"
	"net/http"
	"strings"
)

// MediaTypeJSON is the media type assumed when a message carries no
// Content-Type header. The implied charset=utf-8 is not semantically
// checked.
const MediaTypeJSON = "application/json"

// EffectiveMediaType derives the media type used for contract lookups from
// the message headers. A missing Content-Type defaults to application/json.
// Malformed header values are returned verbatim: they are opaque keys for
// map lookups and JSON equality, never parsed further.
func EffectiveMediaType(header http.Header) string {
	raw := header.Get("Content-Type")
	if raw == "" {
		return MediaTypeJSON
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return raw
	}
	return mediaType
}

// IsJSON reports whether a body of the given media type is treated as JSON
// for validation: main type "application" and subtype exactly "json". There
// is no +json suffix handling and no wildcard matching.
func IsJSON(mediaType string) bool {
	main, sub, ok := strings.Cut(mediaType, "/")
	return ok && main == "application" && sub == "json"
}
