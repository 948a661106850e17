// Package resolve materializes a template back into a concrete configuration
// by substituting a caller-supplied mapping, applying declared defaults, and
// validating the mapping against every definition before any substitution
// happens. Resolution is a pure function: the same (template, definitions,
// mapping) triple always yields byte-identical output, so retried clone
// requests are safe to re-run.
package resolve

import (
	"fmt"
	"sort"

	"github.com/shareconf/shareconf/engine/core"
	"github.com/shareconf/shareconf/engine/variable"
	"github.com/shareconf/shareconf/pkg/tplengine"
)

// Result is a fully resolved configuration plus the names whose value came
// from a default (definition-level, inline, or the optional-empty form).
type Result struct {
	Config          *core.Node `json:"configuration"`
	AppliedDefaults []string   `json:"appliedDefaults,omitempty"`
}

// ValidateVariableMapping checks the mapping against all definitions,
// returning every finding. See variable.ValidateMapping.
func ValidateVariableMapping(defs []variable.Definition, mapping variable.Mapping) []variable.Problem {
	return variable.ValidateMapping(defs, mapping)
}

// ResolveVariables substitutes mapping values into every string leaf of the
// template. It fails atomically, with the aggregated problem list, when the
// mapping is invalid, and refuses structurally broken templates (undeclared
// names, conflicting inline defaults) regardless of where they came from.
func ResolveVariables(template *core.Node, defs []variable.Definition, mapping variable.Mapping) (*Result, error) {
	if template == nil {
		return nil, core.NewError(fmt.Errorf("template tree is nil"), core.ErrInvalidDocumentCode, nil)
	}
	embedded, err := sweepTemplate(template, defs)
	if err != nil {
		return nil, err
	}
	problems := variable.ValidateMapping(defs, mapping)
	problems = append(problems, missingPlainValues(defs, mapping, embedded)...)
	if len(problems) > 0 {
		return nil, variable.ProblemsError(problems)
	}
	effective, fromDefinition := applyDefinitionDefaults(defs, mapping, embedded)
	applied := make(map[string]bool, len(fromDefinition))
	for _, name := range fromDefinition {
		applied[name] = true
	}
	config, err := template.MapStrings(func(_ core.Path, value string) (string, error) {
		res, err := tplengine.Process(value, effective)
		if err != nil {
			return "", err
		}
		for _, name := range res.AppliedDefaults {
			applied[name] = true
		}
		return res.Text, nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Config: config, AppliedDefaults: sortedNames(applied)}, nil
}

// sweepTemplate extracts every placeholder, enforcing form agreement across
// leaves and that each name has a declaration. Returns the embedded
// placeholders by name so later checks can see which form each name uses.
func sweepTemplate(template *core.Node, defs []variable.Definition) (map[string]tplengine.Placeholder, error) {
	declared := make(map[string]bool, len(defs))
	for i := range defs {
		declared[defs[i].Name] = true
	}
	seen := make(map[string]tplengine.Placeholder)
	err := template.WalkStrings(func(path core.Path, value string) error {
		phs, err := tplengine.ExtractPlaceholders(value)
		if err != nil {
			return err
		}
		for _, ph := range phs {
			if !declared[ph.Name] {
				return core.NewError(
					fmt.Errorf("template references an undeclared variable"),
					core.ErrUndeclaredVarCode,
					map[string]any{"variable": ph.Name, "path": path.String()},
				)
			}
			first, ok := seen[ph.Name]
			if !ok {
				seen[ph.Name] = ph
				continue
			}
			if first.Token() != ph.Token() {
				return core.NewError(
					fmt.Errorf("placeholder used with differing defaults across the template"),
					core.ErrConflictingDefCode,
					map[string]any{"variable": ph.Name, "path": path.String()},
				)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// missingPlainValues reports definitions that cannot resolve through any
// fallback: no mapping entry, no definition default, and embedded in the plain
// {{NAME}} form. ValidateMapping only covers required definitions, so these
// would otherwise surface one at a time during the walk instead of in the
// aggregated list.
func missingPlainValues(
	defs []variable.Definition,
	mapping variable.Mapping,
	embedded map[string]tplengine.Placeholder,
) []variable.Problem {
	var problems []variable.Problem
	for i := range defs {
		def := &defs[i]
		if def.Required || def.DefaultValue != nil {
			continue
		}
		if _, ok := mapping[def.Name]; ok {
			continue
		}
		ph, ok := embedded[def.Name]
		if !ok || ph.HasDefault || ph.Optional {
			continue
		}
		problems = append(problems, variable.Problem{
			Variable: def.Name,
			Code:     core.ErrMissingRequiredCode,
			Message:  fmt.Sprintf("variable %q has no value, no default, and no optional form", def.Name),
		})
	}
	return problems
}

// applyDefinitionDefaults layers definition-level defaults under the caller's
// mapping. The caller's values always win; only defaults for names actually
// embedded in the template count as applied.
func applyDefinitionDefaults(
	defs []variable.Definition,
	mapping variable.Mapping,
	embedded map[string]tplengine.Placeholder,
) (variable.Mapping, []string) {
	effective := mapping.Clone()
	var applied []string
	for i := range defs {
		def := &defs[i]
		if _, ok := effective[def.Name]; ok || def.DefaultValue == nil {
			continue
		}
		effective[def.Name] = *def.DefaultValue
		if _, ok := embedded[def.Name]; ok {
			applied = append(applied, def.Name)
		}
	}
	return effective, applied
}

func sortedNames(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
