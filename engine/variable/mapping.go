package variable

import (
	"fmt"
	"maps"

	"dario.cat/mergo"
)

// Mapping is the flat variable-name to value association supplied for one
// resolution call. It is never persisted by the engine.
type Mapping map[string]string

// Clone returns a shallow copy safe to extend.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	maps.Copy(out, m)
	return out
}

// Merge layers overrides on top of the receiver, returning a new mapping.
// Later layers win, so callers can stack workspace-stored values under
// per-clone overrides.
func (m Mapping) Merge(overrides Mapping) (Mapping, error) {
	dst := m.Clone()
	if err := mergo.Merge(&dst, overrides, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge variable mappings: %w", err)
	}
	return dst, nil
}
