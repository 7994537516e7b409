// Package web serves the analyzer page, its JSON API and the ops endpoints.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"workflow-analyzer/internal/analysis"
	"workflow-analyzer/internal/common/config"
	apperrors "workflow-analyzer/internal/common/errors"
	"workflow-analyzer/internal/common/logger"
)

// maxBodyBytes caps inbound bodies; articles may be long but not unbounded.
const maxBodyBytes = 8 << 20

// Analyzer runs one analysis action.
type Analyzer interface {
	Execute(ctx context.Context, content string) *analysis.Outcome
}

type Server struct {
	analyzer   Analyzer
	ui         config.UIConfig
	logger     logger.Logger
	errHandler *apperrors.ErrorHandler
}

func NewServer(analyzer Analyzer, ui config.UIConfig, log logger.Logger) *Server {
	log = log.With(map[string]interface{}{"component": "web"})
	return &Server{
		analyzer:   analyzer,
		ui:         ui,
		logger:     log,
		errHandler: apperrors.NewErrorHandler(log),
	}
}

// Routes returns the handler tree for the whole service.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyze", s.handleAnalyzeForm)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyzeAPI)
	mux.HandleFunc("GET /health", s.handleStatus("healthy"))
	mux.HandleFunc("GET /ready", s.handleStatus("ready"))
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.logRequests(mux)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.page(s.ui.DefaultText, nil))
}

func (s *Server) handleAnalyzeForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	// browsers submit textarea line breaks as CRLF
	content := strings.ReplaceAll(r.PostFormValue("content"), "\r\n", "\n")

	outcome := s.analyzer.Execute(r.Context(), content)
	s.writePage(w, r, s.page(content, outcome))
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	var req analysis.AnalysisRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("empty request body")
		}
		s.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidRequestBodyError(err))
		return
	}

	outcome := s.analyzer.Execute(r.Context(), req.Content)

	status := http.StatusOK
	if outcome.Error != nil {
		status = apperrors.HTTPStatus(outcome.Error.Code)
	}
	writeJSON(w, status, outcome)
}

func (s *Server) handleStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) page(content string, outcome *analysis.Outcome) PageData {
	return PageData{
		Title:   s.ui.Title,
		Heading: s.ui.Heading,
		Intro:   introHTML,
		Content: content,
		Outcome: outcome,
	}
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, data PageData) {
	body, err := renderPage(data)
	if err != nil {
		s.logger.Error("page render failed", map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if r.URL.Path == "/metrics" || r.URL.Path == "/health" || r.URL.Path == "/ready" {
			return
		}
		s.logger.Debug("http request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"durationMs": time.Since(start).Milliseconds(),
		})
	})
}
