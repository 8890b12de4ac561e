// Package jsonpath resolves dotted, indexed and wildcard field paths against
// untyped JSON documents.
package jsonpath

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Kind identifies the variant held by a Node.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Node is one value of a JSON tree. The zero value is null.
// Object keys keep their document order.
type Node struct {
	kind   Kind
	b      bool
	num    json.Number
	str    string
	elems  []Node
	keys   []string
	fields map[string]Node
}

var errTrailingData = errors.New("jsonpath: trailing data after JSON value")

// Null returns a null node.
func Null() Node { return Node{} }

// Bool returns a boolean node.
func Bool(v bool) Node { return Node{kind: KindBool, b: v} }

// Number returns a number node holding the literal JSON text of n.
func Number(n json.Number) Node { return Node{kind: KindNumber, num: n} }

// String returns a string node.
func String(s string) Node { return Node{kind: KindString, str: s} }

// Array returns an array node.
func Array(elems ...Node) Node {
	if elems == nil {
		elems = []Node{}
	}
	return Node{kind: KindArray, elems: elems}
}

// Parse decodes a JSON document into a Node.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeNode(dec)
	if err != nil {
		return Node{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Node{}, errTrailingData
	}
	return n, nil
}

// FromValue converts a value produced by encoding/json (or built by hand)
// into a Node. Unsupported types become null.
func FromValue(v any) Node {
	switch val := v.(type) {
	case nil:
		return Null()
	case Node:
		return val
	case bool:
		return Bool(val)
	case json.Number:
		return Number(val)
	case float64:
		return Number(json.Number(strconv.FormatFloat(val, 'f', -1, 64)))
	case int:
		return Number(json.Number(strconv.Itoa(val)))
	case int64:
		return Number(json.Number(strconv.FormatInt(val, 10)))
	case string:
		return String(val)
	case []any:
		elems := make([]Node, len(val))
		for i, e := range val {
			elems[i] = FromValue(e)
		}
		return Array(elems...)
	case map[string]any:
		n := Node{kind: KindObject, fields: make(map[string]Node, len(val))}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			n.keys = append(n.keys, k)
			n.fields[k] = FromValue(val[k])
		}
		return n
	}
	return Null()
}

func decodeNode(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := Node{kind: KindObject, fields: map[string]Node{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("jsonpath: object key is %T", keyTok)
				}
				child, err := decodeNode(dec)
				if err != nil {
					return Node{}, err
				}
				if _, dup := n.fields[key]; !dup {
					n.keys = append(n.keys, key)
				}
				n.fields[key] = child
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return n, nil
		case '[':
			n := Array()
			for dec.More() {
				child, err := decodeNode(dec)
				if err != nil {
					return Node{}, err
				}
				n.elems = append(n.elems, child)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return n, nil
		}
		return Node{}, fmt.Errorf("jsonpath: unexpected delimiter %q", v)
	case nil:
		return Null(), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		return Number(v), nil
	case string:
		return String(v), nil
	}
	return Node{}, fmt.Errorf("jsonpath: unexpected token %T", tok)
}

// Kind returns the variant of the node.
func (n Node) Kind() Kind { return n.kind }

// Field returns the member of an object node. It reports false for
// missing keys and for nodes that are not objects.
func (n Node) Field(key string) (Node, bool) {
	if n.kind != KindObject {
		return Node{}, false
	}
	child, ok := n.fields[key]
	return child, ok
}

// Keys returns the member names of an object node in document order.
func (n Node) Keys() []string {
	if n.kind != KindObject {
		return nil
	}
	return n.keys
}

// Elements returns the elements of an array node, nil for other kinds.
func (n Node) Elements() []Node {
	if n.kind != KindArray {
		return nil
	}
	return n.elems
}

// AsString returns the value of a string node.
func (n Node) AsString() (string, bool) {
	if n.kind != KindString {
		return "", false
	}
	return n.str, true
}

// Text returns the string form of the node: strings verbatim, numbers and
// booleans as their JSON literal, null as "", arrays and objects as compact JSON.
func (n Node) Text() string {
	switch n.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(n.b)
	case KindNumber:
		return n.num.String()
	case KindString:
		return n.str
	}
	var buf bytes.Buffer
	n.writeJSON(&buf)
	return buf.String()
}

// MarshalJSON encodes the node, keeping object key order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	n.writeJSON(&buf)
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindNumber:
		buf.WriteString(n.num.String())
	case KindString:
		writeQuoted(buf, n.str)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range n.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			e.writeJSON(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeQuoted(buf, k)
			buf.WriteByte(':')
			n.fields[k].writeJSON(buf)
		}
		buf.WriteByte('}')
	}
}

func writeQuoted(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
}
