// Package abstract turns a concrete configuration tree into a shareable
// template plus variable metadata. The caller decides which leaf positions are
// variable-bearing and supplies the placeholder text per position; this engine
// performs the substitution and definition collation, and guarantees no
// discarded value (in particular no secret) survives into any output, error,
// or log path.
package abstract

import (
	"fmt"
	"sort"

	"github.com/shareconf/shareconf/engine/core"
	"github.com/shareconf/shareconf/engine/variable"
	"github.com/shareconf/shareconf/pkg/tplengine"
)

// Declaration names one variable-bearing position in the concrete tree. Token
// is the replacement text written into the template at Path; it must embed the
// declared variable as a placeholder and may carry surrounding literal text
// ("Bearer {{API_KEY}}").
type Declaration struct {
	Path       string              `json:"path"       yaml:"path"`
	Token      string              `json:"token"      yaml:"token"`
	Definition variable.Definition `json:"definition" yaml:"definition"`
}

// Result pairs the sanitized template with the definitions it depends on.
type Result struct {
	Template    *core.Node            `json:"template"`
	Definitions []variable.Definition `json:"variableDefinitions"`
}

// AbstractVariables builds a template from a concrete tree and its declared
// positions. The input tree is never mutated. Structural failures (parse
// errors, conflicting or undeclared or unused variables) block the whole
// operation; no partial template is ever returned.
func AbstractVariables(tree *core.Node, decls []Declaration) (*Result, error) {
	if tree == nil {
		return nil, core.NewError(fmt.Errorf("configuration tree is nil"), core.ErrInvalidDocumentCode, nil)
	}
	defs, err := collateDefinitions(decls)
	if err != nil {
		return nil, err
	}
	template, err := tree.Clone()
	if err != nil {
		return nil, err
	}
	for i := range decls {
		if err := substitute(template, &decls[i]); err != nil {
			return nil, err
		}
	}
	embedded, err := embeddedPlaceholders(template)
	if err != nil {
		return nil, err
	}
	if err := checkCoverage(defs, embedded); err != nil {
		return nil, err
	}
	return &Result{Template: template, Definitions: defs}, nil
}

// collateDefinitions validates every declaration and dedupes definitions by
// name, requiring redeclarations to carry identical constraints.
func collateDefinitions(decls []Declaration) ([]variable.Definition, error) {
	byName := make(map[string]variable.Definition)
	var ordered []variable.Definition
	for i := range decls {
		def := decls[i].Definition
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if first, ok := byName[def.Name]; ok {
			if !first.Compatible(&def) {
				return nil, core.NewError(
					fmt.Errorf("variable declared at multiple positions with differing constraints"),
					core.ErrConflictingDefCode,
					map[string]any{"variable": def.Name},
				)
			}
			continue
		}
		ordered = append(ordered, def)
		byName[def.Name] = def
	}
	return ordered, nil
}

// substitute replaces the concrete leaf at the declared position with the
// placeholder token. The previous value is read only to confirm the position
// is a leaf and then dropped; errors past this point reference the variable by
// name, never by value.
func substitute(template *core.Node, decl *Declaration) error {
	phs, err := tplengine.ExtractPlaceholders(decl.Token)
	if err != nil {
		return err
	}
	if len(phs) == 0 {
		return core.NewError(
			fmt.Errorf("declared token embeds no placeholder"),
			core.ErrUnusedVarCode,
			map[string]any{"variable": decl.Definition.Name},
		)
	}
	path, err := core.ParsePath(decl.Path)
	if err != nil {
		return err
	}
	node, err := path.Find(template)
	if err != nil {
		return err
	}
	if node.Kind != core.NodeScalar {
		return core.NewError(
			fmt.Errorf("declared position is not a leaf"),
			core.ErrInvalidPathCode,
			map[string]any{"path": decl.Path, "variable": decl.Definition.Name},
		)
	}
	*node = *core.StringNode(decl.Token)
	return nil
}

// embeddedPlaceholders sweeps every string leaf of the built template,
// enforcing placeholder-form agreement across the whole tree.
func embeddedPlaceholders(template *core.Node) (map[string]tplengine.Placeholder, error) {
	seen := make(map[string]tplengine.Placeholder)
	err := template.WalkStrings(func(path core.Path, value string) error {
		phs, err := tplengine.ExtractPlaceholders(value)
		if err != nil {
			return err
		}
		for _, ph := range phs {
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

// checkCoverage asserts the embedded placeholder names and the declared
// definition names are the same set, and that placeholder forms agree with the
// declared required flag.
func checkCoverage(defs []variable.Definition, embedded map[string]tplengine.Placeholder) error {
	declared := make(map[string]*variable.Definition, len(defs))
	for i := range defs {
		declared[defs[i].Name] = &defs[i]
	}
	if orphans := missingNames(embedded, declared); len(orphans) > 0 {
		return core.NewError(
			fmt.Errorf("template references undeclared variables"),
			core.ErrUndeclaredVarCode,
			map[string]any{"variables": orphans},
		)
	}
	if unused := unusedNames(declared, embedded); len(unused) > 0 {
		return core.NewError(
			fmt.Errorf("declared variables are never embedded"),
			core.ErrUnusedVarCode,
			map[string]any{"variables": unused},
		)
	}
	for name, ph := range embedded {
		if declared[name].Required && (ph.HasDefault || ph.Optional) {
			return core.NewError(
				fmt.Errorf("required variable embedded with a fallback form"),
				core.ErrConflictingDefCode,
				map[string]any{"variable": name},
			)
		}
	}
	return nil
}

func missingNames(embedded map[string]tplengine.Placeholder, declared map[string]*variable.Definition) []string {
	var out []string
	for name := range embedded {
		if _, ok := declared[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func unusedNames(declared map[string]*variable.Definition, embedded map[string]tplengine.Placeholder) []string {
	var out []string
	for name := range declared {
		if _, ok := embedded[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
