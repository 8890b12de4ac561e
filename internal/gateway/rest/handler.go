package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/syntrixbase/esreport/internal/gateway/config"
	"github.com/syntrixbase/esreport/internal/metrics"
	"github.com/syntrixbase/esreport/internal/report"
	"github.com/syntrixbase/esreport/internal/server"
	"github.com/syntrixbase/esreport/pkg/model"
)

// ReportService is the report pipeline as seen by the API.
type ReportService interface {
	Process(ctx context.Context, spec model.QuerySpec) (*report.Result, error)
	SavedQuery(ctx context.Context, id string) (string, error)
}

type Handler struct {
	reports ReportService
	cfg     config.Config
}

func NewHandler(reports ReportService, cfg config.Config) *Handler {
	if reports == nil {
		panic("report service cannot be nil")
	}
	cfg.ApplyDefaults()
	return &Handler{
		reports: reports,
		cfg:     cfg,
	}
}

// Health check timeout
const healthTimeout = 5 * time.Second

// APIError represents a structured error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeLimitExceeded   = "LIMIT_EXCEEDED"
	ErrCodeBadGateway      = "BAD_GATEWAY"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// writeError writes a structured JSON error response
func writeError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIError{Code: code, Message: message}); err != nil {
		slog.Warn("Failed to encode error response", "error", err)
	}
}

// writeInternalError writes an internal error response, but first checks if the error
// is due to client cancellation (returns 499 instead of 500).
func writeInternalError(w http.ResponseWriter, err error, message string) {
	if model.IsCanceled(err) {
		w.WriteHeader(499) // Client Closed Request
		return
	}
	slog.Error(message, "error", err)
	writeError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// writeServiceError maps report pipeline errors to responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidSpec), errors.Is(err, model.ErrInvalidRule):
		writeError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, model.ErrSavedQueryNotFound):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, model.ErrLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeLimitExceeded, err.Error())
	// Backend errors first: a backend timeout wraps a deadline error but is not
	// a client cancellation.
	case errors.Is(err, model.ErrBackendUnavailable),
		errors.Is(err, model.ErrBackendError),
		errors.Is(err, model.ErrMalformedResponse):
		slog.Warn("Search backend failure",
			"path", r.URL.Path,
			"error", err,
			"request_id", server.RequestIDFrom(r.Context()),
		)
		writeError(w, http.StatusBadGateway, ErrCodeBadGateway, err.Error())
	case model.IsCanceled(err):
		w.WriteHeader(499) // Client Closed Request
	default:
		writeInternalError(w, err, "Failed to process report")
	}
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("Failed to encode JSON response", "error", err)
	}
}

// maxBodySize wraps a handler with request body size limiting
func maxBodySize(next http.HandlerFunc, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next(w, r)
	}
}

// withTimeout wraps a handler with a context timeout
// If the handler takes longer than the timeout, the context is cancelled
func withTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

// instrumented counts requests per route and status.
func instrumented(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Request ID and panic recovery are handled by the server middleware
	mux.HandleFunc("POST /api/v1/reports", instrumented("/api/v1/reports", withTimeout(maxBodySize(h.handleReport, h.cfg.MaxBodySize), h.cfg.RequestTimeout)))
	mux.HandleFunc("GET /api/v1/saved-queries/{id}", instrumented("/api/v1/saved-queries/{id}", withTimeout(h.handleSavedQuery, h.cfg.RequestTimeout)))

	// Health Check (minimal timeout)
	mux.HandleFunc("GET /health", withTimeout(h.handleHealth, healthTimeout))
}
