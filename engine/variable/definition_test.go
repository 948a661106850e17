package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareconf/shareconf/engine/core"
)

func strPtr(s string) *string { return &s }

func Test_Definition_Validate(t *testing.T) {
	t.Run("Should accept a well-formed secret definition", func(t *testing.T) {
		def := Definition{
			Name:              "API_KEY",
			Kind:              KindSecret,
			Required:          true,
			ValidationPattern: `tvly-[a-zA-Z0-9]{32}`,
			Documentation: &Documentation{
				Description: "Tavily API key",
				HowToObtain: "https://app.tavily.com",
			},
		}
		assert.NoError(t, def.Validate())
	})
	t.Run("Should reject a missing or invalid name", func(t *testing.T) {
		def := Definition{Name: "", Kind: KindString}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
		def = Definition{Name: "9bad", Kind: KindString}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
	t.Run("Should reject an unknown kind", func(t *testing.T) {
		def := Definition{Name: "X", Kind: Kind("mystery")}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
	t.Run("Should reject required with a default value", func(t *testing.T) {
		def := Definition{Name: "X", Kind: KindString, Required: true, DefaultValue: strPtr("v")}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
	t.Run("Should reject enum without allowed values", func(t *testing.T) {
		def := Definition{Name: "X", Kind: KindEnum}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
	t.Run("Should reject allowed values on a non-enum", func(t *testing.T) {
		def := Definition{Name: "X", Kind: KindString, AllowedValues: []string{"a"}}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
	t.Run("Should reject an uncompilable pattern", func(t *testing.T) {
		def := Definition{Name: "X", Kind: KindString, ValidationPattern: "("}
		assert.True(t, core.IsCode(def.Validate(), core.ErrInvalidDefinitionCode))
	})
}

func Test_Definition_Compatible(t *testing.T) {
	base := Definition{Name: "X", Kind: KindString, Required: true, ValidationPattern: "a+"}
	t.Run("Should match identical constraints ignoring documentation", func(t *testing.T) {
		other := base
		other.Documentation = &Documentation{Description: "different docs"}
		assert.True(t, base.Compatible(&other))
	})
	t.Run("Should reject differing kind, flag, default or constraints", func(t *testing.T) {
		other := base
		other.Kind = KindSecret
		assert.False(t, base.Compatible(&other))
		other = base
		other.Required = false
		assert.False(t, base.Compatible(&other))
		other = base
		other.Required = false
		base2 := base
		base2.Required = false
		other.DefaultValue = strPtr("v")
		assert.False(t, base2.Compatible(&other))
		other = base
		other.ValidationPattern = "b+"
		assert.False(t, base.Compatible(&other))
	})
}

func Test_Mapping(t *testing.T) {
	t.Run("Should merge with later layers winning", func(t *testing.T) {
		base := Mapping{"A": "1", "B": "2"}
		merged, err := base.Merge(Mapping{"B": "override", "C": "3"})
		require.NoError(t, err)
		assert.Equal(t, Mapping{"A": "1", "B": "override", "C": "3"}, merged)
		assert.Equal(t, Mapping{"A": "1", "B": "2"}, base)
	})
	t.Run("Should clone independently", func(t *testing.T) {
		base := Mapping{"A": "1"}
		cp := base.Clone()
		cp["A"] = "changed"
		assert.Equal(t, "1", base["A"])
	})
}
