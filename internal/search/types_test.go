package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/syntrixbase/esreport/internal/jsonpath"
	"github.com/syntrixbase/esreport/pkg/model"
)

func TestPage_LastCursorAndEmpty(t *testing.T) {
	var nilPage *Page
	assert.True(t, nilPage.Empty())
	assert.Nil(t, nilPage.LastCursor())

	page := &Page{Hits: []Hit{
		{ID: "1", Sort: model.Cursor{json.Number("1")}},
		{ID: "2", Sort: model.Cursor{json.Number("2"), "b"}},
	}}
	assert.False(t, page.Empty())
	assert.Equal(t, model.Cursor{json.Number("2"), "b"}, page.LastCursor())
}

func TestHit_Document(t *testing.T) {
	assert.Equal(t, jsonpath.KindNull, Hit{}.Document().Kind())
	assert.Equal(t, jsonpath.KindNull, Hit{Source: json.RawMessage(`{broken`)}.Document().Kind())

	doc := Hit{Source: json.RawMessage(`{"a":{"b":"c"}}`)}.Document()
	assert.Equal(t, "c", jsonpath.ResolveString(doc, "a.b"))
}

func TestPage_Documents(t *testing.T) {
	page := &Page{Hits: []Hit{
		{Source: json.RawMessage(`{"n":1}`)},
		{Source: json.RawMessage(`{"n":2}`)},
	}}
	docs := page.Documents()
	assert.Len(t, docs, 2)
	assert.Equal(t, "2", jsonpath.ResolveString(docs[1], "n"))
	assert.Nil(t, (&Page{}).Documents())
}
