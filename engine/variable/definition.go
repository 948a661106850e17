package variable

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/shareconf/shareconf/engine/core"
)

// -----------------------------------------------------------------------------
// Variable Kind
// -----------------------------------------------------------------------------

type Kind string

const (
	KindSecret  Kind = "secret"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindEnum    Kind = "enum"
)

func (k Kind) String() string {
	return string(k)
}

// -----------------------------------------------------------------------------
// Definition
// -----------------------------------------------------------------------------

// Documentation carries the operator-facing guidance attached to a variable.
type Documentation struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	HowToObtain string `json:"howToObtain,omitempty" yaml:"howToObtain,omitempty"`
	SetupGuide  string `json:"setupGuide,omitempty"  yaml:"setupGuide,omitempty"`
}

// Definition describes one variable a template depends on. A secret-kind
// definition is write-only metadata: the concrete value it abstracted is never
// stored here or anywhere else in engine output.
type Definition struct {
	Name              string         `json:"name"                        yaml:"name"                        validate:"required"`
	Kind              Kind           `json:"kind"                        yaml:"kind"                        validate:"required,oneof=secret string number boolean enum"`
	Required          bool           `json:"required"                    yaml:"required"`
	DefaultValue      *string        `json:"defaultValue,omitempty"      yaml:"defaultValue,omitempty"`
	ValidationPattern string         `json:"validationPattern,omitempty" yaml:"validationPattern,omitempty"`
	AllowedValues     []string       `json:"allowedValues,omitempty"     yaml:"allowedValues,omitempty"`
	Documentation     *Documentation `json:"documentation,omitempty"     yaml:"documentation,omitempty"`
}

var structValidate = validator.New()

// Validate checks the declaration shape before it participates in abstraction
// or resolution.
func (d *Definition) Validate() error {
	if err := structValidate.Struct(d); err != nil {
		return core.NewError(err, core.ErrInvalidDefinitionCode, map[string]any{"variable": d.Name})
	}
	if !identifierRe.MatchString(d.Name) {
		return d.invalid("name is not a valid identifier")
	}
	if d.Required && d.DefaultValue != nil {
		return d.invalid("a required variable cannot declare a default value")
	}
	if d.Kind == KindEnum && len(d.AllowedValues) == 0 {
		return d.invalid("an enum variable needs at least one allowed value")
	}
	if d.Kind != KindEnum && len(d.AllowedValues) > 0 {
		return d.invalid("allowed values are only valid for enum variables")
	}
	if d.ValidationPattern != "" {
		if _, err := regexp.Compile(d.ValidationPattern); err != nil {
			return core.NewError(err, core.ErrInvalidDefinitionCode, map[string]any{
				"variable": d.Name,
				"reason":   "validation pattern does not compile",
			})
		}
	}
	return nil
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (d *Definition) invalid(reason string) error {
	return core.NewError(fmt.Errorf("%s", reason), core.ErrInvalidDefinitionCode, map[string]any{
		"variable": d.Name,
	})
}

// Compatible reports whether a redeclaration of the same name carries
// identical constraints. Documentation is advisory and not compared.
func (d *Definition) Compatible(other *Definition) bool {
	if d.Kind != other.Kind || d.Required != other.Required {
		return false
	}
	if (d.DefaultValue == nil) != (other.DefaultValue == nil) {
		return false
	}
	if d.DefaultValue != nil && *d.DefaultValue != *other.DefaultValue {
		return false
	}
	if d.ValidationPattern != other.ValidationPattern {
		return false
	}
	return slices.Equal(d.AllowedValues, other.AllowedValues)
}
