package variable

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/shareconf/shareconf/engine/core"
)

// Problem is one validation finding for one variable. Messages reference the
// variable by name only; concrete values never appear so secret-kind values
// cannot leak through diagnostics.
type Problem struct {
	Variable string `json:"variable"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ValidateMapping checks a mapping against every definition and returns the
// complete list of findings rather than stopping at the first, so callers can
// surface all fixes in one response.
func ValidateMapping(defs []Definition, mapping Mapping) []Problem {
	var problems []Problem
	for i := range defs {
		problems = append(problems, validateOne(&defs[i], mapping)...)
	}
	return problems
}

func validateOne(def *Definition, mapping Mapping) []Problem {
	value, ok := mapping[def.Name]
	if !ok {
		if def.Required {
			return []Problem{{
				Variable: def.Name,
				Code:     core.ErrMissingRequiredCode,
				Message:  fmt.Sprintf("required variable %q has no value", def.Name),
			}}
		}
		return nil
	}
	var problems []Problem
	if def.ValidationPattern != "" {
		problems = append(problems, checkPattern(def, value)...)
	}
	if def.Kind == KindEnum && !slices.Contains(def.AllowedValues, value) {
		problems = append(problems, Problem{
			Variable: def.Name,
			Code:     core.ErrTypeMismatchCode,
			Message:  fmt.Sprintf("value for %q is not one of the allowed values", def.Name),
		})
	}
	return problems
}

func checkPattern(def *Definition, value string) []Problem {
	// Anchored so the value must match the declared pattern in full.
	re, err := regexp.Compile("^(?:" + def.ValidationPattern + ")$")
	if err != nil {
		return []Problem{{
			Variable: def.Name,
			Code:     core.ErrInvalidDefinitionCode,
			Message:  fmt.Sprintf("validation pattern for %q does not compile", def.Name),
		}}
	}
	if !re.MatchString(value) {
		return []Problem{{
			Variable: def.Name,
			Code:     core.ErrPatternValidationCode,
			Message:  fmt.Sprintf("value for %q does not match the required pattern", def.Name),
		}}
	}
	return nil
}

// HasCode reports whether any problem in the list carries the given code.
func HasCode(problems []Problem, code string) bool {
	return slices.ContainsFunc(problems, func(p Problem) bool { return p.Code == code })
}

// ProblemsError wraps a non-empty problem list into a structured error whose
// details carry the full list for the API layer.
func ProblemsError(problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	return core.NewError(
		fmt.Errorf("%d variable problem(s)", len(problems)),
		core.ErrMappingValidationCode,
		map[string]any{"problems": problems},
	)
}
