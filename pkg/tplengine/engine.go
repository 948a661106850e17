// Package tplengine implements the placeholder grammar used inside shared
// configuration templates: {{NAME}} for a required variable, {{NAME|DEFAULT}}
// for a variable with an inline fallback, and {{NAME?}} for a variable that
// resolves to the empty string when unmapped. Placeholders never nest and
// substitution is a single pass: values substituted into the output are never
// re-scanned, so untrusted values cannot inject new placeholders.
package tplengine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shareconf/shareconf/engine/core"
)

var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Placeholder is one parsed {{...}} token.
type Placeholder struct {
	Name       string
	Default    string
	HasDefault bool
	Optional   bool
}

// Token renders the placeholder back to its wire form.
func (p Placeholder) Token() string {
	switch {
	case p.HasDefault:
		return "{{" + p.Name + "|" + p.Default + "}}"
	case p.Optional:
		return "{{" + p.Name + "?}}"
	default:
		return "{{" + p.Name + "}}"
	}
}

func (p Placeholder) sameForm(other Placeholder) bool {
	return p.HasDefault == other.HasDefault &&
		p.Default == other.Default &&
		p.Optional == other.Optional
}

// HasPlaceholder returns true if the string contains placeholder markers.
func HasPlaceholder(s string) bool {
	return strings.Contains(s, "{{")
}

type span struct {
	start int
	end   int // exclusive, past the closing braces
	ph    Placeholder
}

func scan(text string) ([]span, error) {
	var spans []span
	for i := 0; i < len(text); {
		open := strings.Index(text[i:], "{{")
		if open < 0 {
			break
		}
		open += i
		closing := strings.Index(text[open+2:], "}}")
		if closing < 0 {
			return nil, core.NewError(
				fmt.Errorf("unterminated placeholder"),
				core.ErrParseCode,
				map[string]any{"position": open},
			)
		}
		closing += open + 2
		ph, err := parsePlaceholder(text[open+2:closing], open)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span{start: open, end: closing + 2, ph: ph})
		i = closing + 2
	}
	return spans, nil
}

func parsePlaceholder(content string, pos int) (Placeholder, error) {
	ph := Placeholder{Name: content}
	if pipe := strings.Index(content, "|"); pipe >= 0 {
		ph.Name = content[:pipe]
		ph.Default = content[pipe+1:]
		ph.HasDefault = true
	} else if strings.HasSuffix(content, "?") {
		ph.Name = strings.TrimSuffix(content, "?")
		ph.Optional = true
	}
	if !nameRe.MatchString(ph.Name) {
		return Placeholder{}, core.NewError(
			fmt.Errorf("invalid placeholder name"),
			core.ErrParseCode,
			map[string]any{"position": pos},
		)
	}
	return ph, nil
}

// collate dedupes scanned spans by name in first-occurrence order, failing
// when the same name recurs with a different default or optional flag.
func collate(spans []span) ([]Placeholder, error) {
	seen := make(map[string]Placeholder)
	var ordered []Placeholder
	for _, s := range spans {
		first, ok := seen[s.ph.Name]
		if !ok {
			seen[s.ph.Name] = s.ph
			ordered = append(ordered, s.ph)
			continue
		}
		if !first.sameForm(s.ph) {
			return nil, core.NewError(
				fmt.Errorf("placeholder redeclared with a different default or optional flag"),
				core.ErrConflictingDefCode,
				map[string]any{"variable": s.ph.Name},
			)
		}
	}
	return ordered, nil
}

// ExtractPlaceholders parses every placeholder in the string, returning them
// deduplicated in first-occurrence order.
func ExtractPlaceholders(text string) ([]Placeholder, error) {
	spans, err := scan(text)
	if err != nil {
		return nil, err
	}
	return collate(spans)
}

// ProcessResult carries a substituted string plus the names whose inline
// default or optional-empty form supplied the value.
type ProcessResult struct {
	Text            string
	AppliedDefaults []string
}

// Process substitutes mapping values into every placeholder span. Resolution
// order per placeholder: mapping value, inline default, empty string for the
// optional form; a required name absent from the mapping fails with
// MISSING_REQUIRED_VARIABLE. Literal text outside spans passes through
// untouched and substituted values are not re-scanned.
func Process(text string, mapping map[string]string) (*ProcessResult, error) {
	spans, err := scan(text)
	if err != nil {
		return nil, err
	}
	if _, err := collate(spans); err != nil {
		return nil, err
	}
	var b strings.Builder
	var applied []string
	seenApplied := make(map[string]bool)
	last := 0
	for _, s := range spans {
		b.WriteString(text[last:s.start])
		value, fromDefault, err := resolveSpan(s.ph, mapping)
		if err != nil {
			return nil, err
		}
		if fromDefault && !seenApplied[s.ph.Name] {
			seenApplied[s.ph.Name] = true
			applied = append(applied, s.ph.Name)
		}
		b.WriteString(value)
		last = s.end
	}
	b.WriteString(text[last:])
	return &ProcessResult{Text: b.String(), AppliedDefaults: applied}, nil
}

func resolveSpan(ph Placeholder, mapping map[string]string) (value string, fromDefault bool, err error) {
	if v, ok := mapping[ph.Name]; ok {
		return v, false, nil
	}
	if ph.HasDefault {
		return ph.Default, true, nil
	}
	if ph.Optional {
		return "", true, nil
	}
	return "", false, core.NewError(
		fmt.Errorf("no value supplied for required variable"),
		core.ErrMissingRequiredCode,
		map[string]any{"variable": ph.Name},
	)
}

// ProcessTemplate is the plain-string form of Process.
func ProcessTemplate(text string, mapping map[string]string) (string, error) {
	res, err := Process(text, mapping)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
