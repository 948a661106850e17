package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Node_Basics(t *testing.T) {
	t.Run("Should expose scalar and object accessors", func(t *testing.T) {
		obj := ObjectNode(
			Field{Key: "name", Value: StringNode("tavily")},
			Field{Key: "timeout", Value: NumberNode(json.Number("30"))},
			Field{Key: "enabled", Value: BoolNode(true)},
			Field{Key: "extra", Value: NullNode()},
		)
		name, ok := obj.Prop("name")
		require.True(t, ok)
		s, ok := name.StringValue()
		require.True(t, ok)
		assert.Equal(t, "tavily", s)
		_, ok = obj.Prop("missing")
		assert.False(t, ok)
		_, ok = obj.StringValue()
		assert.False(t, ok)
	})
	t.Run("Should compare numbers by canonical text", func(t *testing.T) {
		a := NumberNode(json.Number("1.50"))
		b := NumberNode(json.Number("1.50"))
		c := NumberNode(json.Number("1.5"))
		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})
	t.Run("Should clone deeply without aliasing", func(t *testing.T) {
		original := ObjectNode(
			Field{Key: "list", Value: ListNode(StringNode("a"), StringNode("b"))},
		)
		copied, err := original.Clone()
		require.NoError(t, err)
		require.True(t, original.Equal(copied))
		copied.Fields[0].Value.Items[0] = StringNode("mutated")
		s, _ := original.Fields[0].Value.Items[0].StringValue()
		assert.Equal(t, "a", s)
	})
}

func Test_Node_WalkStrings(t *testing.T) {
	t.Run("Should visit string leaves in document order with paths", func(t *testing.T) {
		tree := ObjectNode(
			Field{Key: "a", Value: StringNode("first")},
			Field{Key: "b", Value: ListNode(
				StringNode("second"),
				NumberNode(json.Number("7")),
				ObjectNode(Field{Key: "c", Value: StringNode("third")}),
			)},
		)
		var paths []string
		var values []string
		err := tree.WalkStrings(func(path Path, value string) error {
			paths = append(paths, path.String())
			values = append(values, value)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b.0", "b.2.c"}, paths)
		assert.Equal(t, []string{"first", "second", "third"}, values)
	})
}

func Test_Node_MapStrings(t *testing.T) {
	t.Run("Should build a new tree leaving the input untouched", func(t *testing.T) {
		tree := ObjectNode(
			Field{Key: "s", Value: StringNode("x")},
			Field{Key: "n", Value: NumberNode(json.Number("1"))},
		)
		mapped, err := tree.MapStrings(func(_ Path, value string) (string, error) {
			return value + "!", nil
		})
		require.NoError(t, err)
		s, _ := mapped.Fields[0].Value.StringValue()
		assert.Equal(t, "x!", s)
		orig, _ := tree.Fields[0].Value.StringValue()
		assert.Equal(t, "x", orig)
		assert.True(t, tree.Fields[1].Value.Equal(mapped.Fields[1].Value))
	})
	t.Run("Should propagate visitor errors", func(t *testing.T) {
		tree := ListNode(StringNode("x"))
		_, err := tree.MapStrings(func(_ Path, _ string) (string, error) {
			return "", assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
