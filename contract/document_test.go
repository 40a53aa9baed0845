package contract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to load a document from inline YAML
func mustLoad(t *testing.T, yaml string) *Document {
	t.Helper()
	doc, err := LoadBytes(context.Background(), []byte(yaml))
	require.NoError(t, err)
	return doc
}

const articlesSpec = `
openapi: "3.0.0"
info:
  title: Articles
  version: "1.0"
paths:
  /articles:
    get:
      parameters:
        - name: limit
          in: query
          required: false
          schema:
            type: integer
        - name: tag
          in: query
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
    post:
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [title]
              properties:
                title:
                  type: string
                views:
                  type: integer
      responses:
        "201":
          description: Created
          content:
            application/json:
              schema:
                type: object
        default:
          description: Error
          content:
            application/json:
              schema:
                type: object
  /articles/{id}:
    parameters:
      - name: verbose
        in: query
        schema:
          type: boolean
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
`

func TestLoadBytes(t *testing.T) {
	t.Run("loads a valid document", func(t *testing.T) {
		doc := mustLoad(t, articlesSpec)
		assert.NotNil(t, doc.Spec())
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		_, err := LoadBytes(context.Background(), []byte("{not yaml: ["))
		assert.Error(t, err)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		_, err := LoadBytes(context.Background(), []byte(`
openapi: "3.0.0"
paths: {}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid OpenAPI document")
	})
}

func TestDocumentPathTemplates(t *testing.T) {
	doc := mustLoad(t, articlesSpec)
	assert.Equal(t, []string{"/articles", "/articles/{id}"}, doc.PathTemplates())
}

func TestDocumentOperation(t *testing.T) {
	doc := mustLoad(t, articlesSpec)

	t.Run("resolves a declared operation", func(t *testing.T) {
		op, ok := doc.Operation("/articles", "POST")
		require.True(t, ok)
		assert.Equal(t, "/articles", op.Template)
		assert.Equal(t, "POST", op.Method)
		require.Contains(t, op.RequestBody, "application/json")
		assert.NotNil(t, op.RequestBody["application/json"])
	})

	t.Run("includes the default response descriptor", func(t *testing.T) {
		op, ok := doc.Operation("/articles", "POST")
		require.True(t, ok)
		assert.Contains(t, op.Responses, "201")
		assert.Contains(t, op.Responses, "default")
	})

	t.Run("exposes parameter schema types", func(t *testing.T) {
		op, ok := doc.Operation("/articles", "GET")
		require.True(t, ok)
		require.Len(t, op.Parameters, 2)
		byName := map[string]string{}
		for _, p := range op.Parameters {
			byName[p.Name] = p.SchemaType
		}
		assert.Equal(t, "integer", byName["limit"])
		assert.Equal(t, "string", byName["tag"])
	})

	t.Run("merges path-item level parameters", func(t *testing.T) {
		op, ok := doc.Operation("/articles/{id}", "GET")
		require.True(t, ok)
		names := map[string]string{}
		for _, p := range op.Parameters {
			names[p.Name] = p.In
		}
		assert.Equal(t, "query", names["verbose"])
		assert.Equal(t, "path", names["id"])
	})

	t.Run("returns false for unknown template", func(t *testing.T) {
		_, ok := doc.Operation("/missing", "GET")
		assert.False(t, ok)
	})

	t.Run("returns false for undeclared method", func(t *testing.T) {
		_, ok := doc.Operation("/articles", "DELETE")
		assert.False(t, ok)
	})

	t.Run("operation with no request body", func(t *testing.T) {
		op, ok := doc.Operation("/articles", "GET")
		require.True(t, ok)
		assert.Nil(t, op.RequestBody)
	})
}
