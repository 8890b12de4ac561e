package search

import "context"

// Searcher fetches one page of search results.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*Page, error)
}

// SavedQueryResolver turns a saved query id into its query string.
// It returns model.ErrSavedQueryNotFound when the saved object carries no usable query.
type SavedQueryResolver interface {
	ResolveSavedQuery(ctx context.Context, id string) (string, error)
}
