package core

import (
	"strconv"
	"strings"
)

// Path addresses a position inside a configuration tree as a sequence of
// segments. A segment selects an object field by key, or a list element when
// it parses as a non-negative integer and the node at that point is a list.
type Path []string

// ParsePath splits a dotted path expression ("headers.Authorization",
// "body.urls.0") into its segments.
func ParsePath(expr string) (Path, error) {
	if expr == "" {
		return nil, NewError(nil, ErrInvalidPathCode, map[string]any{"path": expr})
	}
	segments := strings.Split(expr, ".")
	for _, seg := range segments {
		if seg == "" {
			return nil, NewError(nil, ErrInvalidPathCode, map[string]any{"path": expr})
		}
	}
	return Path(segments), nil
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Find navigates the tree and returns the node addressed by the path. The
// returned pointer aliases the given tree, so callers that intend to replace
// the node must navigate a clone.
func (p Path) Find(root *Node) (*Node, error) {
	current := root
	for i, seg := range p {
		if current == nil {
			return nil, p.errAt(i)
		}
		switch current.Kind {
		case NodeObject:
			child, ok := current.Prop(seg)
			if !ok {
				return nil, p.errAt(i)
			}
			current = child
		case NodeList:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(current.Items) {
				return nil, p.errAt(i)
			}
			current = current.Items[idx]
		default:
			return nil, p.errAt(i)
		}
	}
	if current == nil {
		return nil, p.errAt(len(p))
	}
	return current, nil
}

func (p Path) errAt(i int) error {
	return NewError(nil, ErrInvalidPathCode, map[string]any{
		"path":    p.String(),
		"segment": strings.Join(p[:i], "."),
	})
}
