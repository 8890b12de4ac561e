// Package report runs the report pipeline: it pages through the search
// backend, flattens every document into rows, applies the rule set and
// projects the visible columns.
package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/syntrixbase/esreport/internal/metrics"
	"github.com/syntrixbase/esreport/internal/report/config"
	"github.com/syntrixbase/esreport/internal/rows"
	"github.com/syntrixbase/esreport/internal/search"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Paginator drives a Searcher with search_after cursors until the result set
// is exhausted.
type Paginator struct {
	searcher search.Searcher
	cfg      config.Config
	logger   *slog.Logger
}

// NewPaginator creates a paginator over searcher.
func NewPaginator(searcher search.Searcher, cfg config.Config, logger *slog.Logger) *Paginator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Paginator{
		searcher: searcher,
		cfg:      cfg,
		logger:   logger.With("component", "paginator"),
	}
}

// Collect fetches every page for req and expands its documents into a table
// over columns. paths are aligned 1:1 with columns. It returns the table and
// the number of non-empty pages.
//
// The loop stops on an empty page, on a last document without a cursor, or
// when the backend hands back the cursor it was just given. Any error drops
// the rows collected so far.
func (p *Paginator) Collect(ctx context.Context, req search.SearchRequest, columns, paths []string) (*model.Table, int, error) {
	table := model.NewTable(columns)
	req.After = nil
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, model.WrapError(err)
		}

		page, err := p.searcher.Search(ctx, req)
		if err != nil {
			return nil, 0, err
		}
		if page.Empty() {
			p.logger.Debug("Pagination done", "index", req.IndexTag, "pages", pages, "reason", "empty page")
			break
		}

		pages++
		metrics.PagesFetchedTotal.Inc()
		if p.cfg.MaxPages > 0 && pages > p.cfg.MaxPages {
			return nil, 0, fmt.Errorf("%w: more than %d pages", model.ErrLimitExceeded, p.cfg.MaxPages)
		}

		expanded, err := rows.ExpandAll(ctx, page.Documents(), columns, paths, p.cfg.ExpandWorkers)
		if err != nil {
			return nil, 0, err
		}
		table.Append(expanded...)
		metrics.RowsExpandedTotal.Add(float64(len(expanded)))
		if p.cfg.MaxRows > 0 && table.Len() > p.cfg.MaxRows {
			return nil, 0, fmt.Errorf("%w: more than %d rows", model.ErrLimitExceeded, p.cfg.MaxRows)
		}

		p.logger.Debug("Fetched page", "index", req.IndexTag, "page", pages, "hits", len(page.Hits), "rows", len(expanded))

		next := page.LastCursor()
		if next.IsEmpty() {
			p.logger.Debug("Pagination done", "index", req.IndexTag, "pages", pages, "reason", "no cursor")
			break
		}
		if next.Equal(req.After) {
			p.logger.Warn("Backend repeated the cursor, stopping", "index", req.IndexTag, "pages", pages, "cursor", next)
			break
		}
		req.After = next
	}

	return table, pages, nil
}
