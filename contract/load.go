package contract

import (
	"context"
	"fmt"
	"net/url"

	"github.com/getkin/kin-openapi/openapi3"
)

func newLoader() *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	return loader
}

// LoadFile loads and validates an OpenAPI document from a file path.
// Both JSON and YAML documents are accepted.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	doc, err := newLoader().LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("contract: failed to load %s: %w", path, err)
	}
	return finishLoad(ctx, doc)
}

// LoadURL loads and validates an OpenAPI document from a URL.
func LoadURL(ctx context.Context, rawURL string) (*Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("contract: invalid URL %s: %w", rawURL, err)
	}
	doc, err := newLoader().LoadFromURI(u)
	if err != nil {
		return nil, fmt.Errorf("contract: failed to load %s: %w", rawURL, err)
	}
	return finishLoad(ctx, doc)
}

// LoadBytes loads and validates an OpenAPI document from raw bytes.
func LoadBytes(ctx context.Context, data []byte) (*Document, error) {
	doc, err := newLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: failed to parse document: %w", err)
	}
	return finishLoad(ctx, doc)
}

func finishLoad(ctx context.Context, doc *openapi3.T) (*Document, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("contract: invalid OpenAPI document: %w", err)
	}
	return NewDocument(doc), nil
}
