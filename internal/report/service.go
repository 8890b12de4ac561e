package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/syntrixbase/esreport/internal/metrics"
	"github.com/syntrixbase/esreport/internal/report/config"
	"github.com/syntrixbase/esreport/internal/rules"
	"github.com/syntrixbase/esreport/internal/search"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Result is a processed report.
type Result struct {
	Title       string
	Description string
	To          []string
	Cc          []string
	// Table holds the visible columns only.
	Table   *model.Table
	Pages   int
	Elapsed time.Duration
}

// Service processes report specs.
type Service struct {
	paginator *Paginator
	resolver  search.SavedQueryResolver
	engine    *rules.Engine
	logger    *slog.Logger
}

// NewService wires a report service.
func NewService(searcher search.Searcher, resolver search.SavedQueryResolver, cfg config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	engine, err := rules.NewEngine(logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		paginator: NewPaginator(searcher, cfg, logger),
		resolver:  resolver,
		engine:    engine,
		logger:    logger.With("component", "report"),
	}, nil
}

// Process runs spec end to end and returns the final table.
func (s *Service) Process(ctx context.Context, spec model.QuerySpec) (result *Result, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.ReportsTotal.WithLabelValues(status).Inc()
	}()

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	ruleSet := rules.FromSpec(&spec)
	if err := s.engine.Validate(ruleSet); err != nil {
		return nil, err
	}

	query, err := s.resolveQuery(ctx, &spec)
	if err != nil {
		return nil, err
	}

	table, pages, err := s.paginator.Collect(ctx, search.SearchRequest{
		IndexTag:  spec.IndexTag,
		Query:     query,
		SortField: spec.SortField,
		Size:      spec.QuerySize,
	}, spec.Labels(), spec.TableValues)
	if err != nil {
		return nil, err
	}
	collected := table.Len()

	table, err = s.engine.Apply(table, ruleSet)
	if err != nil {
		return nil, err
	}

	table, err = table.Without(hiddenColumns(&spec, table)...)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	s.logger.Info("Report processed",
		"index", spec.IndexTag,
		"title", spec.Title,
		"pages", pages,
		"collected_rows", collected,
		"rows", table.Len(),
		"elapsed", elapsed)

	return &Result{
		Title:       spec.Title,
		Description: spec.Description,
		To:          spec.To,
		Cc:          spec.Cc,
		Table:       table,
		Pages:       pages,
		Elapsed:     elapsed,
	}, nil
}

// SavedQuery resolves a saved query id to its query string.
func (s *Service) SavedQuery(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: saved query id is required", model.ErrInvalidSpec)
	}
	if s.resolver == nil {
		return "", fmt.Errorf("%w: saved queries are not configured", model.ErrSavedQueryNotFound)
	}
	return s.resolver.ResolveSavedQuery(ctx, id)
}

func (s *Service) resolveQuery(ctx context.Context, spec *model.QuerySpec) (string, error) {
	if id := strings.TrimSpace(spec.SavedQueryID); id != "" {
		query, err := s.SavedQuery(ctx, id)
		if err != nil {
			return "", err
		}
		s.logger.Debug("Resolved saved query", "id", id, "query", query)
		return query, nil
	}
	if query := strings.TrimSpace(spec.LuceneQuery); query != "" {
		return query, nil
	}
	return "", fmt.Errorf("%w: savedQueryId or luceneQueryLanguage is required", model.ErrInvalidSpec)
}

// hiddenColumns lists the hidden labels still present in t. The column
// written by the Count function stays visible.
func hiddenColumns(spec *model.QuerySpec, t *model.Table) []string {
	var hidden []string
	for _, label := range spec.HiddenLabels() {
		if spec.Func == model.FuncCount && label == rules.CountColumnOf(t.Columns) {
			continue
		}
		if slices.Contains(t.Columns, label) {
			hidden = append(hidden, label)
		}
	}
	return hidden
}
