package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/syntrixbase/esreport/internal/render"
	"github.com/syntrixbase/esreport/internal/report"
	"github.com/syntrixbase/esreport/internal/server"
	"github.com/syntrixbase/esreport/pkg/model"
)

// ReportParams are the query parameters of a report request.
type ReportParams struct {
	Format      string `schema:"format"`
	IncludeHTML bool   `schema:"include_html"`
}

// ReportResponse is the JSON form of a processed report.
type ReportResponse struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	To          []string   `json:"to,omitempty"`
	Cc          []string   `json:"cc,omitempty"`
	Columns     []string   `json:"columns"`
	Rows        [][]string `json:"rows"`
	HTML        string     `json:"html,omitempty"`
	Pages       int        `json:"pages"`
	ElapsedMs   int64      `json:"elapsed_ms"`
}

func newReportResponse(result *report.Result) ReportResponse {
	return ReportResponse{
		Title:       result.Title,
		Description: result.Description,
		To:          result.To,
		Cc:          result.Cc,
		Columns:     result.Table.Columns,
		Rows:        result.Table.Records(),
		Pages:       result.Pages,
		ElapsedMs:   result.Elapsed.Milliseconds(),
	}
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	var params ReportParams
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		slog.Warn("Report: invalid query parameters", "error", err)
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid query parameters")
		return
	}
	if params.Format == "" {
		params.Format = h.cfg.DefaultFormat
	}
	renderer, err := render.ForFormat(params.Format)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}

	var spec model.QuerySpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, "Invalid request body")
		return
	}

	result, err := h.reports.Process(r.Context(), spec)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if _, ok := renderer.(render.JSON); ok {
		resp := newReportResponse(result)
		if params.IncludeHTML {
			if resp.HTML, err = render.HTMLString(result.Table); err != nil {
				writeInternalError(w, err, "Failed to render report")
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, result.Table); err != nil {
		writeInternalError(w, err, "Failed to render report")
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("Failed to write report", "error", err, "request_id", server.RequestIDFrom(r.Context()))
	}
}
