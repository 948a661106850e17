package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParsePath(t *testing.T) {
	t.Run("Should split dotted expressions", func(t *testing.T) {
		p, err := ParsePath("request.headers.Authorization")
		require.NoError(t, err)
		assert.Equal(t, Path{"request", "headers", "Authorization"}, p)
		assert.Equal(t, "request.headers.Authorization", p.String())
	})
	t.Run("Should reject empty expressions and segments", func(t *testing.T) {
		_, err := ParsePath("")
		assert.True(t, IsCode(err, ErrInvalidPathCode))
		_, err = ParsePath("a..b")
		assert.True(t, IsCode(err, ErrInvalidPathCode))
	})
}

func Test_Path_Find(t *testing.T) {
	tree, err := DecodeJSON([]byte(`{"request":{"headers":{"Authorization":"Bearer x"},"urls":["a","b"]}}`))
	require.NoError(t, err)

	t.Run("Should navigate object keys and list indexes", func(t *testing.T) {
		p, err := ParsePath("request.headers.Authorization")
		require.NoError(t, err)
		node, err := p.Find(tree)
		require.NoError(t, err)
		s, _ := node.StringValue()
		assert.Equal(t, "Bearer x", s)

		p, err = ParsePath("request.urls.1")
		require.NoError(t, err)
		node, err = p.Find(tree)
		require.NoError(t, err)
		s, _ = node.StringValue()
		assert.Equal(t, "b", s)
	})
	t.Run("Should fail on missing keys, bad indexes and scalar descent", func(t *testing.T) {
		for _, expr := range []string{"request.missing", "request.urls.2", "request.urls.x", "request.headers.Authorization.deep"} {
			p, err := ParsePath(expr)
			require.NoError(t, err)
			_, err = p.Find(tree)
			assert.True(t, IsCode(err, ErrInvalidPathCode), "path %s", expr)
		}
	})
}
