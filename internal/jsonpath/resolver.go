package jsonpath

import (
	"strconv"
	"strings"
)

// Separator joins the values of a multi-valued resolution into one string.
const Separator = "^"

type segmentKind int

const (
	segKey segmentKind = iota
	segIndex
	segWildcard
	segInvalid
)

type segment struct {
	kind  segmentKind
	name  string
	index int
}

// parseSegment classifies one dot-separated path token: "name", "name[N]"
// or "name[*]".
func parseSegment(raw string) segment {
	if strings.HasSuffix(raw, "[*]") {
		return segment{kind: segWildcard, name: raw[:strings.IndexByte(raw, '[')]}
	}
	open := strings.IndexByte(raw, '[')
	if open < 0 {
		return segment{kind: segKey, name: raw}
	}
	if !strings.HasSuffix(raw, "]") {
		return segment{kind: segInvalid}
	}
	idx, err := strconv.Atoi(raw[open+1 : len(raw)-1])
	if err != nil || idx < 0 {
		return segment{kind: segInvalid}
	}
	return segment{kind: segIndex, name: raw[:open], index: idx}
}

// Resolve returns the values found at path inside node. A missing key, a type
// mismatch or an unparseable embedded array yields no values; it never fails.
//
// A "name[*]" segment fans out over the array at name. When it is the last
// segment every element contributes its text; otherwise the rest of the path
// is resolved against each object element, skipping elements that yield nothing.
func Resolve(node Node, path string) []string {
	if path == "" {
		return nil
	}
	return resolve(node, strings.Split(path, "."))
}

// ResolveString resolves path and joins multiple values with Separator.
func ResolveString(node Node, path string) string {
	return strings.Join(Resolve(node, path), Separator)
}

func resolve(node Node, segments []string) []string {
	current := node
	for i, raw := range segments {
		seg := parseSegment(raw)
		terminal := i == len(segments)-1

		switch seg.kind {
		case segWildcard:
			elems, ok := arrayAt(current, seg.name)
			if !ok {
				return nil
			}
			if terminal {
				out := make([]string, 0, len(elems))
				for _, e := range elems {
					out = append(out, e.Text())
				}
				return out
			}
			var out []string
			for _, e := range elems {
				if e.Kind() != KindObject {
					continue
				}
				vals := resolve(e, segments[i+1:])
				if strings.Join(vals, Separator) == "" {
					continue
				}
				out = append(out, vals...)
			}
			return out

		case segIndex:
			elems, ok := arrayAt(current, seg.name)
			if !ok || seg.index >= len(elems) {
				return nil
			}
			current = elems[seg.index]

		case segKey:
			child, ok := current.Field(seg.name)
			if !ok {
				return nil
			}
			current = child

		default:
			return nil
		}

		if terminal {
			return []string{current.Text()}
		}
	}
	return nil
}

// arrayAt finds the array stored under key. The value may be a string holding
// serialized JSON or a real array; the serialized form is tried first.
func arrayAt(node Node, key string) ([]Node, bool) {
	child, ok := node.Field(key)
	if !ok {
		return nil, false
	}
	if elems, ok := serializedArray(child); ok {
		return elems, true
	}
	if child.Kind() == KindArray {
		return child.Elements(), true
	}
	return nil, false
}

func serializedArray(n Node) ([]Node, bool) {
	s, ok := n.AsString()
	if !ok {
		return nil, false
	}
	parsed, err := Parse([]byte(s))
	if err != nil || parsed.Kind() != KindArray {
		return nil, false
	}
	return parsed.Elements(), true
}
