// Package search talks to the document search backend: paged searches with
// search_after cursors and saved query lookups.
package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/syntrixbase/esreport/internal/metrics"
	"github.com/syntrixbase/esreport/internal/search/config"
	"github.com/syntrixbase/esreport/pkg/model"
)

// Client is safe for concurrent use; all requests share one connection pool.
type Client struct {
	baseURL  string
	uiURL    string
	username string
	password string
	http     *retryablehttp.Client
	logger   *slog.Logger
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("search url is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "search")

	uiURL := cfg.UIEndpoint
	if uiURL == "" {
		uiURL = cfg.URL
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConns,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
		},
	}
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = logger

	return &Client{
		baseURL:  strings.TrimSuffix(cfg.URL, "/"),
		uiURL:    strings.TrimSuffix(uiURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     rc,
		logger:   logger,
	}, nil
}

// Search fetches one page. Without a cursor it issues a GET; with a cursor it
// switches to a POST carrying {"search_after": [...]}.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*Page, error) {
	params := url.Values{}
	if req.SortField != "" {
		params.Set("sort", req.SortField)
	}
	params.Set("size", strconv.Itoa(req.Size))
	params.Set("q", req.Query)
	urlStr := fmt.Sprintf("%s/%s-*/_search?%s", c.baseURL, url.PathEscape(req.IndexTag), params.Encode())

	method := http.MethodGet
	var body any
	if !req.After.IsEmpty() {
		method = http.MethodPost
		body = map[string]any{"search_after": req.After}
	}

	var resp searchResponse
	if err := c.doRequest(ctx, "search", method, urlStr, body, &resp); err != nil {
		return nil, err
	}
	if resp.Hits == nil || resp.Hits.Hits == nil {
		return nil, fmt.Errorf("%w: response has no hits.hits", model.ErrMalformedResponse)
	}

	return &Page{
		Took:     resp.Took,
		TimedOut: resp.TimedOut,
		Hits:     resp.Hits.Hits,
	}, nil
}

// SavedQuery fetches a saved search object and decodes the query embedded in
// its searchSourceJSON string.
func (c *Client) SavedQuery(ctx context.Context, id string) (*SavedQuery, error) {
	urlStr := fmt.Sprintf("%s/saved_objects/search/%s", c.uiURL, url.PathEscape(id))

	var obj savedObjectResponse
	if err := c.doRequest(ctx, "saved_object", http.MethodGet, urlStr, nil, &obj); err != nil {
		var be *model.BackendError
		if errors.As(err, &be) && be.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: saved object %q does not exist", model.ErrSavedQueryNotFound, id)
		}
		return nil, err
	}

	raw := obj.Attributes.KibanaSavedObjectMeta.SearchSourceJSON
	if raw == "" {
		return nil, fmt.Errorf("%w: saved object %q has no searchSourceJSON", model.ErrSavedQueryNotFound, id)
	}
	var source searchSource
	if err := json.Unmarshal([]byte(raw), &source); err != nil {
		c.logger.Warn("Saved query source is not valid JSON", "id", id, "error", err)
		return nil, fmt.Errorf("%w: saved object %q has malformed searchSourceJSON", model.ErrSavedQueryNotFound, id)
	}
	if source.Query == nil || len(source.Query.Query) == 0 {
		return nil, fmt.Errorf("%w: saved object %q has no query", model.ErrSavedQueryNotFound, id)
	}
	var query string
	if err := json.Unmarshal(source.Query.Query, &query); err != nil || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: saved object %q has no query string", model.ErrSavedQueryNotFound, id)
	}

	return &SavedQuery{
		ID:       id,
		Title:    obj.Attributes.Title,
		Query:    query,
		Language: source.Query.Language,
	}, nil
}

// ResolveSavedQuery implements SavedQueryResolver.
func (c *Client) ResolveSavedQuery(ctx context.Context, id string) (string, error) {
	sq, err := c.SavedQuery(ctx, id)
	if err != nil {
		return "", err
	}
	return sq.Query, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}

// doRequest performs an HTTP request and decodes a JSON response into result.
func (c *Client) doRequest(ctx context.Context, operation, method, urlStr string, body any, result any) (err error) {
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.BackendRequestsTotal.WithLabelValues(operation, status).Inc()
	}()

	var reqBody any
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = jsonBody
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	// Only the caller's context makes a failure a cancellation. The client's own
	// RequestTimeout also reports a deadline, but that is the backend being slow.
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.ErrCanceled
		}
		return fmt.Errorf("%w: %w", model.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return model.ErrCanceled
		}
		return fmt.Errorf("%w: failed to read response body: %w", model.ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &model.BackendError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(string(respBody), 512),
		}
	}

	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	if err := dec.Decode(result); err != nil {
		return fmt.Errorf("%w: %w", model.ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
