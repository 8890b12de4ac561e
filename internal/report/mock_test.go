package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stretchr/testify/mock"
	"github.com/syntrixbase/esreport/internal/search"
	"github.com/syntrixbase/esreport/pkg/model"
)

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, req search.SearchRequest) (*search.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.Page), args.Error(1)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) ResolveSavedQuery(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// afterCursor matches a request carrying the given cursor; nil matches the first page.
func afterCursor(c model.Cursor) any {
	return mock.MatchedBy(func(req search.SearchRequest) bool {
		if c == nil {
			return req.After == nil
		}
		return req.After.Equal(c)
	})
}

// pageOf builds a page of n hits whose sources are {"n": start+i, ...extra}.
// The last hit carries cursor unless cursor is nil.
func pageOf(start, n int, cursor model.Cursor) *search.Page {
	page := &search.Page{Hits: make([]search.Hit, n)}
	for i := 0; i < n; i++ {
		page.Hits[i] = search.Hit{
			ID:     fmt.Sprintf("doc-%d", start+i),
			Source: json.RawMessage(fmt.Sprintf(`{"n":%d,"tags":["a","b"]}`, start+i)),
			Sort:   model.Cursor{json.Number(fmt.Sprint(start + i))},
		}
	}
	if n > 0 {
		page.Hits[n-1].Sort = cursor
	}
	return page
}
