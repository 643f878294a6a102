// Package server exposes the export engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ByLCY/tailor/export"
)

// MaxRequestBytes 限制请求体大小。
const MaxRequestBytes = 4 << 20

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	exporter   *export.Exporter
	logger     *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Addr     string
	Exporter *export.Exporter
	Logger   *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	s := &Server{
		exporter: cfg.Exporter,
		logger:   cfg.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.exporter == nil {
		s.exporter = export.New(export.Options{Logger: s.logger})
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withLogging(mux)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("服务启动", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, export.CodeInvalid, "invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, export.CodeInvalid, err.Error())
		return
	}
	format, sel, err := req.Selection()
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, export.CodeInvalid, err.Error())
		return
	}

	sink := &responseSink{w: w}
	if _, err := s.exporter.ExportAs(r.Context(), format, sel, sink); err != nil {
		if sink.written {
			// 响应头已发出，只能中断连接。
			return
		}
		s.errorResponse(w, HTTPStatus(err), export.Code(err), err.Error())
	}
}

// HTTPStatus returns the appropriate HTTP status code for an export error.
func HTTPStatus(err error) int {
	switch export.Code(err) {
	case export.CodeNone:
		return http.StatusOK
	case export.CodeInvalid:
		return http.StatusBadRequest
	case export.CodeMeasurement:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("写入 JSON 响应失败", "error", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, code export.ErrorCode, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message, "code": string(code)})
}

// responseSink 把产物作为附件写入 HTTP 响应。
type responseSink struct {
	w       http.ResponseWriter
	written bool
}

func (s *responseSink) Stage(ctx context.Context, a *export.Artifact) (export.Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &responseDownload{sink: s, art: a}, nil
}

type responseDownload struct {
	sink *responseSink
	art  *export.Artifact
}

func (d *responseDownload) Deliver(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h := d.sink.w.Header()
	h.Set("Content-Type", d.art.MimeType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.art.Filename))
	h.Set("Content-Length", strconv.Itoa(d.art.Size()))
	h.Set("X-Artifact-ID", d.art.ID.String())
	d.sink.w.WriteHeader(http.StatusOK)
	d.sink.written = true
	_, err := d.sink.w.Write(d.art.Data)
	return err
}

// Release 无需清理：产物只存在于内存中。
func (d *responseDownload) Release() error { return nil }
