package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
	"host": {"name": "web-1", "ip": "10.0.0.1", "port": 8080, "tags": ["a", "b", "c"]},
	"level": "error",
	"ok": true,
	"empty": null,
	"items": [
		{"name": "disk", "size": 10},
		{"size": 20},
		"not-an-object",
		{"name": "cpu", "meta": {"cores": 4}}
	],
	"payload": "[{\"code\":\"E1\"},{\"code\":\"E2\"}]",
	"csv": "a,b,c",
	"nested": {"list": [[1, 2], [3]]},
	"multi": "x^y"
}`

func mustParse(t *testing.T, doc string) Node {
	t.Helper()
	n, err := Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

func TestResolve(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"top level string", "level", []string{"error"}},
		{"nested key", "host.name", []string{"web-1"}},
		{"number keeps literal", "host.port", []string{"8080"}},
		{"boolean", "ok", []string{"true"}},
		{"null", "empty", []string{""}},
		{"object serialized", "items[3].meta", []string{`{"cores":4}`}},
		{"missing top level", "nope", nil},
		{"missing nested", "host.nope", nil},
		{"descend into scalar", "level.sub", nil},
		{"empty path", "", nil},
		{"indexed", "host.tags[1]", []string{"b"}},
		{"indexed then key", "items[0].name", []string{"disk"}},
		{"indexed missing key", "items[1].name", nil},
		{"index out of range", "host.tags[9]", nil},
		{"negative index", "host.tags[-1]", nil},
		{"non numeric index", "host.tags[x]", nil},
		{"unterminated index", "host.tags[1", nil},
		{"index on non array", "host.name[0]", nil},
		{"terminal wildcard", "host.tags[*]", []string{"a", "b", "c"}},
		{"terminal wildcard mixed", "nested.list[*]", []string{"[1,2]", "[3]"}},
		{"wildcard continuation skips non objects", "items[*].name", []string{"disk", "cpu"}},
		{"wildcard continuation nested", "items[*].meta.cores", []string{"4"}},
		{"wildcard on missing", "nope[*]", nil},
		{"wildcard on scalar string", "csv[*]", nil},
		{"serialized array indexed", "payload[1].code", []string{"E2"}},
		{"serialized array wildcard", "payload[*].code", []string{"E1", "E2"}},
		{"separator inside value", "multi", []string{"x^y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(doc, tt.path))
		})
	}
}

func TestResolve_PlainPathMatchesDirectLookup(t *testing.T) {
	doc := mustParse(t, `{"a":{"b":{"c":"deep"}},"x":"1"}`)

	for _, path := range []string{"a.b.c", "x", "a.b.missing", "a.x.c"} {
		t.Run(path, func(t *testing.T) {
			expected := ""
			cur := doc
			found := true
			for _, key := range splitDots(path) {
				next, ok := cur.Field(key)
				if !ok {
					found = false
					break
				}
				cur = next
			}
			if found {
				expected = cur.Text()
			}
			assert.Equal(t, expected, ResolveString(doc, path))
		})
	}
}

func TestResolve_RepeatedSegmentNames(t *testing.T) {
	doc := mustParse(t, `{"a":{"b":{"a":"inner"}}}`)
	assert.Equal(t, "inner", ResolveString(doc, "a.b.a"))
	assert.Equal(t, []string{"inner"}, Resolve(mustParse(t, `{"a":[{"a":"inner"}]}`), "a[*].a"))
}

func TestResolveString_JoinsWithSeparator(t *testing.T) {
	doc := mustParse(t, sampleDoc)

	assert.Equal(t, "a^b^c", ResolveString(doc, "host.tags[*]"))
	assert.Equal(t, "disk^cpu", ResolveString(doc, "items[*].name"))
	assert.Equal(t, "", ResolveString(doc, "items[*].missing"))
}

func TestResolve_NestedWildcards(t *testing.T) {
	doc := mustParse(t, `{"groups":[
		{"users":[{"id":"u1"},{"id":"u2"}]},
		{"users":[]},
		{"users":[{"id":"u3"}]}
	]}`)
	assert.Equal(t, []string{"u1", "u2", "u3"}, Resolve(doc, "groups[*].users[*].id"))
}

func TestResolve_NeverPanicsOnOddInput(t *testing.T) {
	doc := mustParse(t, sampleDoc)
	for _, path := range []string{".", "..", "[*]", "[0]", "host..name", "items[*].", "a[*][*]"} {
		assert.NotPanics(t, func() { Resolve(doc, path) }, path)
	}
	assert.NotPanics(t, func() { Resolve(Null(), "a.b[*].c") })
}

func splitDots(path string) []string {
	var out []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	return append(out, path[start:])
}
