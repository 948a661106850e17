package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML document into a configuration tree, preserving
// mapping key order via the yaml.Node representation.
func DecodeYAML(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, NewError(err, ErrInvalidDocumentCode, nil)
	}
	root := &doc
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return NullNode(), nil
		}
		root = doc.Content[0]
	}
	node, err := fromYAMLNode(root)
	if err != nil {
		return nil, NewError(err, ErrInvalidDocumentCode, nil)
	}
	return node, nil
}

func fromYAMLNode(y *yaml.Node) (*Node, error) {
	switch y.Kind {
	case yaml.MappingNode:
		fields := make([]Field, 0, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			value, err := fromYAMLNode(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Key: y.Content[i].Value, Value: value})
		}
		return ObjectNode(fields...), nil
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(y.Content))
		for _, c := range y.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return ListNode(items...), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(y)
	case yaml.AliasNode:
		return fromYAMLNode(y.Alias)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", y.Kind)
	}
}

func fromYAMLScalar(y *yaml.Node) (*Node, error) {
	switch y.Tag {
	case "!!str", "":
		return StringNode(y.Value), nil
	case "!!int", "!!float":
		return NumberNode(json.Number(y.Value)), nil
	case "!!bool":
		b, err := strconv.ParseBool(strings.ToLower(y.Value))
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q: %w", y.Value, err)
		}
		return BoolNode(b), nil
	case "!!null":
		return NullNode(), nil
	default:
		return StringNode(y.Value), nil
	}
}

// EncodeYAML serializes the tree as YAML with fields in stored order.
func (n *Node) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(toYAMLNode(n))
}

func toYAMLNode(n *Node) *yaml.Node {
	if n == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	switch n.Kind {
	case NodeObject:
		y := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := range n.Fields {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n.Fields[i].Key}
			y.Content = append(y.Content, key, toYAMLNode(n.Fields[i].Value))
		}
		return y
	case NodeList:
		y := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range n.Items {
			y.Content = append(y.Content, toYAMLNode(item))
		}
		return y
	default:
		return toYAMLScalar(n.Value)
	}
}

func toYAMLScalar(v any) *yaml.Node {
	switch s := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(s)}
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(s.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: s.String()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprintf("%v", v)}
	}
}
