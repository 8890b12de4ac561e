package search

import (
	"encoding/json"

	"github.com/syntrixbase/esreport/internal/jsonpath"
	"github.com/syntrixbase/esreport/pkg/model"
)

// SearchRequest is one page request against an index pattern.
type SearchRequest struct {
	IndexTag  string
	Query     string
	SortField string
	Size      int
	// After is the cursor of the previous page; empty for the first page.
	After model.Cursor
}

// Hit is one document of a search response.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score,omitempty"`
	Source json.RawMessage `json:"_source"`
	Sort   model.Cursor    `json:"sort,omitempty"`
}

// Document decodes the hit source. A missing or unparseable source yields a
// null node, which resolves every path to nothing.
func (h Hit) Document() jsonpath.Node {
	if len(h.Source) == 0 {
		return jsonpath.Null()
	}
	n, err := jsonpath.Parse(h.Source)
	if err != nil {
		return jsonpath.Null()
	}
	return n
}

// Page is one batch of hits in backend order.
type Page struct {
	Took     int   `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Hits     []Hit `json:"hits"`
}

// Empty reports whether the page has no hits.
func (p *Page) Empty() bool {
	return p == nil || len(p.Hits) == 0
}

// LastCursor returns the sort values of the last hit, nil for an empty page.
func (p *Page) LastCursor() model.Cursor {
	if p.Empty() {
		return nil
	}
	return p.Hits[len(p.Hits)-1].Sort
}

// Documents decodes the source of every hit in order.
func (p *Page) Documents() []jsonpath.Node {
	if p.Empty() {
		return nil
	}
	docs := make([]jsonpath.Node, len(p.Hits))
	for i, h := range p.Hits {
		docs[i] = h.Document()
	}
	return docs
}

type searchResponse struct {
	Took     int  `json:"took"`
	TimedOut bool `json:"timed_out"`
	Hits     *struct {
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// SavedQuery is the query stored in a saved search object.
type SavedQuery struct {
	ID       string
	Title    string
	Query    string
	Language string
}

// savedObjectResponse mirrors the saved-objects API. searchSourceJSON is a
// JSON document encoded as a string and must be decoded a second time.
type savedObjectResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Title                 string `json:"title"`
		KibanaSavedObjectMeta struct {
			SearchSourceJSON string `json:"searchSourceJSON"`
		} `json:"kibanaSavedObjectMeta"`
	} `json:"attributes"`
}

type searchSource struct {
	Query *struct {
		Query    json.RawMessage `json:"query"`
		Language string          `json:"language"`
	} `json:"query"`
}
