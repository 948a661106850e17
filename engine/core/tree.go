package core

import (
	"encoding/json"
	"fmt"

	"github.com/mohae/deepcopy"
)

// -----------------------------------------------------------------------------
// Node Kind
// -----------------------------------------------------------------------------

type NodeKind string

const (
	NodeObject NodeKind = "object"
	NodeList   NodeKind = "list"
	NodeScalar NodeKind = "scalar"
)

func (k NodeKind) String() string {
	return string(k)
}

// -----------------------------------------------------------------------------
// Configuration Tree
// -----------------------------------------------------------------------------

// Field is a single entry of an object node. Objects keep their fields as an
// ordered slice instead of a map so that encoding a tree is stable byte-for-byte.
type Field struct {
	Key   string `json:"key"   yaml:"key"`
	Value *Node  `json:"value" yaml:"value"`
}

// Node is the closed variant over configuration shapes: an object (ordered
// fields), a list, or a scalar (string, number, boolean or null). Exactly one
// of Fields, Items or Value is meaningful, selected by Kind. Scalar numbers are
// held as json.Number so decoded documents re-encode with their original text.
type Node struct {
	Kind   NodeKind `json:"kind"`
	Fields []Field  `json:"fields,omitempty"`
	Items  []*Node  `json:"items,omitempty"`
	Value  any      `json:"value,omitempty"`
}

func ObjectNode(fields ...Field) *Node {
	return &Node{Kind: NodeObject, Fields: fields}
}

func ListNode(items ...*Node) *Node {
	return &Node{Kind: NodeList, Items: items}
}

func StringNode(s string) *Node {
	return &Node{Kind: NodeScalar, Value: s}
}

func NumberNode(n json.Number) *Node {
	return &Node{Kind: NodeScalar, Value: n}
}

func BoolNode(b bool) *Node {
	return &Node{Kind: NodeScalar, Value: b}
}

func NullNode() *Node {
	return &Node{Kind: NodeScalar, Value: nil}
}

// StringValue returns the scalar string payload, reporting false for any other
// node shape.
func (n *Node) StringValue() (string, bool) {
	if n == nil || n.Kind != NodeScalar {
		return "", false
	}
	s, ok := n.Value.(string)
	return s, ok
}

// Prop looks up a direct child of an object node by key.
func (n *Node) Prop(key string) (*Node, bool) {
	if n == nil || n.Kind != NodeObject {
		return nil, false
	}
	for i := range n.Fields {
		if n.Fields[i].Key == key {
			return n.Fields[i].Value, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the tree so callers can build derived trees
// without mutating their input.
func (n *Node) Clone() (*Node, error) {
	if n == nil {
		return nil, nil
	}
	copied, ok := deepcopy.Copy(n).(*Node)
	if !ok {
		return nil, fmt.Errorf("failed to copy configuration tree")
	}
	return copied, nil
}

// Equal reports deep structural equality. Numbers compare by their canonical
// text so a json.Number and an equivalent literal are interchangeable.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Kind != other.Kind {
		return false
	}
	switch n.Kind {
	case NodeObject:
		if len(n.Fields) != len(other.Fields) {
			return false
		}
		for i := range n.Fields {
			if n.Fields[i].Key != other.Fields[i].Key {
				return false
			}
			if !n.Fields[i].Value.Equal(other.Fields[i].Value) {
				return false
			}
		}
		return true
	case NodeList:
		if len(n.Items) != len(other.Items) {
			return false
		}
		for i := range n.Items {
			if !n.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	default:
		return scalarEqual(n.Value, other.Value)
	}
}

func scalarEqual(a, b any) bool {
	na, aNum := a.(json.Number)
	nb, bNum := b.(json.Number)
	if aNum && bNum {
		return na.String() == nb.String()
	}
	return a == b
}

// WalkStrings visits every string scalar in document order. The visitor
// receives the path of the leaf and its value; a non-nil error aborts the walk.
func (n *Node) WalkStrings(fn func(path Path, value string) error) error {
	return n.walkStrings(nil, fn)
}

func (n *Node) walkStrings(path Path, fn func(path Path, value string) error) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeObject:
		for i := range n.Fields {
			child := append(append(Path{}, path...), n.Fields[i].Key)
			if err := n.Fields[i].Value.walkStrings(child, fn); err != nil {
				return err
			}
		}
	case NodeList:
		for i, item := range n.Items {
			child := append(append(Path{}, path...), fmt.Sprintf("%d", i))
			if err := item.walkStrings(child, fn); err != nil {
				return err
			}
		}
	case NodeScalar:
		if s, ok := n.Value.(string); ok {
			return fn(path, s)
		}
	}
	return nil
}

// MapStrings builds a new tree by applying fn to every string scalar, leaving
// all other leaves untouched. The receiver is never mutated.
func (n *Node) MapStrings(fn func(path Path, value string) (string, error)) (*Node, error) {
	return n.mapStrings(nil, fn)
}

func (n *Node) mapStrings(path Path, fn func(path Path, value string) (string, error)) (*Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case NodeObject:
		fields := make([]Field, len(n.Fields))
		for i := range n.Fields {
			child := append(append(Path{}, path...), n.Fields[i].Key)
			mapped, err := n.Fields[i].Value.mapStrings(child, fn)
			if err != nil {
				return nil, err
			}
			fields[i] = Field{Key: n.Fields[i].Key, Value: mapped}
		}
		return &Node{Kind: NodeObject, Fields: fields}, nil
	case NodeList:
		items := make([]*Node, len(n.Items))
		for i, item := range n.Items {
			child := append(append(Path{}, path...), fmt.Sprintf("%d", i))
			mapped, err := item.mapStrings(child, fn)
			if err != nil {
				return nil, err
			}
			items[i] = mapped
		}
		return &Node{Kind: NodeList, Items: items}, nil
	default:
		if s, ok := n.Value.(string); ok {
			out, err := fn(path, s)
			if err != nil {
				return nil, err
			}
			return StringNode(out), nil
		}
		return &Node{Kind: NodeScalar, Value: n.Value}, nil
	}
}
