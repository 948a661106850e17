package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeJSON parses a JSON document into a configuration tree, keeping object
// fields in document order and numbers as their original literals.
func DecodeJSON(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	node, err := decodeJSONValue(dec)
	if err != nil {
		return nil, NewError(err, ErrInvalidDocumentCode, nil)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewError(fmt.Errorf("trailing content after document"), ErrInvalidDocumentCode, nil)
	}
	return node, nil
}

func decodeJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONList(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return StringNode(t), nil
	case json.Number:
		return NumberNode(t), nil
	case bool:
		return BoolNode(t), nil
	case nil:
		return NullNode(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (*Node, error) {
	fields := []Field{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, err
	}
	return ObjectNode(fields...), nil
}

func decodeJSONList(dec *json.Decoder) (*Node, error) {
	items := []*Node{}
	for dec.More() {
		item, err := decodeJSONValue(dec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if _, err := dec.Token(); err != nil { // closing bracket
		return nil, err
	}
	return ListNode(items...), nil
}

// EncodeJSON serializes the tree back to JSON, emitting object fields in their
// stored order so identical trees produce identical bytes.
func (n *Node) EncodeJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}
	switch n.Kind {
	case NodeObject:
		buf.WriteByte('{')
		for i := range n.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Fields[i].Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, n.Fields[i].Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case NodeList:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return writeJSONScalar(buf, n.Value)
	}
}

func writeJSONScalar(buf *bytes.Buffer, v any) error {
	switch s := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case json.Number:
		buf.WriteString(s.String())
		return nil
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(out)
		return nil
	}
}
