package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareconf/shareconf/engine/variable"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_LoadMapping(t *testing.T) {
	t.Run("Should layer values, env files and sets in precedence order", func(t *testing.T) {
		dir := t.TempDir()
		values := writeFile(t, dir, "values.yaml", "A: \"1\"\nB: \"2\"\n")
		env := writeFile(t, dir, "clone.env", "B=env\nC=3\n")
		mapping, err := loadMapping(
			[]string{values},
			[]string{env},
			[]string{"C=set", "D=4"},
		)
		require.NoError(t, err)
		assert.Equal(t, variable.Mapping{"A": "1", "B": "env", "C": "set", "D": "4"}, mapping)
	})
	t.Run("Should reject malformed set flags", func(t *testing.T) {
		_, err := loadMapping(nil, nil, []string{"missing-equals"})
		assert.Error(t, err)
		_, err = loadMapping(nil, nil, []string{"=value"})
		assert.Error(t, err)
	})
	t.Run("Should fail on unreadable files", func(t *testing.T) {
		_, err := loadMapping([]string{"/does/not/exist.yaml"}, nil, nil)
		assert.Error(t, err)
	})
}

func Test_TreeFiles(t *testing.T) {
	t.Run("Should round-trip JSON by extension", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "config.json", `{"b":1,"a":"x"}`)
		tree, err := loadTree(in)
		require.NoError(t, err)
		out := filepath.Join(dir, "out.json")
		require.NoError(t, writeTree(out, tree))
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, `{"b":1,"a":"x"}`+"\n", string(data))
	})
	t.Run("Should treat unknown extensions as YAML", func(t *testing.T) {
		dir := t.TempDir()
		in := writeFile(t, dir, "config.yaml", "b: 1\na: x\n")
		tree, err := loadTree(in)
		require.NoError(t, err)
		require.Len(t, tree.Fields, 2)
		assert.Equal(t, "b", tree.Fields[0].Key)
	})
}

func Test_DeclarationFiles(t *testing.T) {
	t.Run("Should parse declarations with nested definitions", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "declarations.yaml", `declarations:
  - path: request.headers.Authorization
    token: "Bearer {{API_KEY}}"
    definition:
      name: API_KEY
      kind: secret
      required: true
      documentation:
        description: Tavily API key
`)
		decls, err := loadDeclarations(path)
		require.NoError(t, err)
		require.Len(t, decls, 1)
		assert.Equal(t, "request.headers.Authorization", decls[0].Path)
		assert.Equal(t, variable.KindSecret, decls[0].Definition.Kind)
		require.NotNil(t, decls[0].Definition.Documentation)
		assert.Equal(t, "Tavily API key", decls[0].Definition.Documentation.Description)
	})
	t.Run("Should round-trip definitions files", func(t *testing.T) {
		dir := t.TempDir()
		defs := []variable.Definition{
			{Name: "API_KEY", Kind: variable.KindSecret, Required: true},
			{Name: "REGION", Kind: variable.KindEnum, AllowedValues: []string{"us-east", "eu-west"}},
		}
		path := filepath.Join(dir, "variables.yaml")
		require.NoError(t, writeDefinitions(path, defs))
		loaded, err := loadDefinitions(path)
		require.NoError(t, err)
		assert.Equal(t, defs, loaded)
	})
}
