package conformance

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// DefaultMaxBodySize bounds how much of a request or response body is
// buffered for validation. Exceeding it is a fatal capture error for the
// exchange, never a contract violation.
const DefaultMaxBodySize = 10 << 20 // 10 MiB

// CapturedBody holds the fully buffered bytes of a once-readable body
// stream. The buffer is immutable after capture; every call to Reader
// returns an independent cursor starting at offset zero, so any number of
// downstream consumers can replay the identical byte sequence.
type CapturedBody struct {
	data []byte
}

// CaptureBody drains r completely into memory and returns the captured
// body. It must be called exactly once per physical stream: after capture,
// all consumers must read through Reader, never the original stream.
//
// A nil or http.NoBody reader captures as empty. Read failures and bodies
// larger than limit are returned as errors; limit <= 0 applies
// DefaultMaxBodySize.
func CaptureBody(r io.Reader, limit int64) (*CapturedBody, error) {
	if r == nil || r == http.NoBody {
		return &CapturedBody{}, nil
	}
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("conformance: reading body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("conformance: body exceeds %d byte capture limit", limit)
	}
	return &CapturedBody{data: data}, nil
}

// Bytes returns the captured bytes. Callers must not modify the slice.
func (b *CapturedBody) Bytes() []byte {
	return b.data
}

// Len returns the number of captured bytes.
func (b *CapturedBody) Len() int {
	return len(b.data)
}

// Reader returns a fresh single-pass stream over the captured bytes. Each
// call constructs an independent cursor at offset zero; replay is stateless
// per call.
func (b *CapturedBody) Reader() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(b.data))
}
