package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPathsTool(t *testing.T) {
	engineCache.reset()

	t.Run("lists templates with methods", func(t *testing.T) {
		input := listPathsInput{Spec: specInput{Content: testContract}}
		_, output, err := handleListPaths(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		require.Len(t, output.Paths, 2)
		assert.Equal(t, "/articles", output.Paths[0].Template)
		assert.Equal(t, []string{"GET", "POST"}, output.Paths[0].Methods)
		assert.Equal(t, "/articles/{id}", output.Paths[1].Template)
		assert.Equal(t, []string{"GET"}, output.Paths[1].Methods)
	})

	t.Run("resolves a concrete path", func(t *testing.T) {
		input := listPathsInput{
			Spec:    specInput{Content: testContract},
			Resolve: "/articles/42",
		}
		_, output, err := handleListPaths(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		assert.True(t, output.Matched)
		assert.Equal(t, "/articles/{id}", output.Resolved)
	})

	t.Run("unresolvable path", func(t *testing.T) {
		input := listPathsInput{
			Spec:    specInput{Content: testContract},
			Resolve: "/nowhere",
		}
		_, output, err := handleListPaths(context.Background(), &mcp.CallToolRequest{}, input)
		require.NoError(t, err)
		assert.False(t, output.Matched)
		assert.Empty(t, output.Resolved)
	})
}
