package server

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/tailor/export"
)

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(Config{Addr: "127.0.0.1:0", Logger: logger})
}

func postExport(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestExportPDF(t *testing.T) {
	rec := postExport(t, newTestServer(), `{"document":"cv","format":"pdf","cv":"Summary:\nBuilt scalable systems."}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="tailored-cv.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Artifact-ID"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Equal(t, fmt.Sprint(rec.Body.Len()), rec.Header().Get("Content-Length"))
}

func TestExportDOCXCoverLetter(t *testing.T) {
	rec := postExport(t, newTestServer(), `{"document":"cover_letter","format":"flow","cv":"ignored","cover_letter":"Dear Team,\n\nThanks."}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `attachment; filename="tailored-cover-letter.docx"`, rec.Header().Get("Content-Disposition"))

	data := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "word/document.xml")
}

func TestExportValidation(t *testing.T) {
	cases := map[string]string{
		"malformed":      `{"document":`,
		"missing format": `{"document":"cv"}`,
		"unknown format": `{"document":"cv","format":"odt"}`,
		"unknown doc":    `{"document":"memo","format":"pdf"}`,
		"unknown field":  `{"document":"cv","format":"pdf","extra":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postExport(t, newTestServer(), body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "invalid", resp["code"])
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestExportMeasurementFailure(t *testing.T) {
	rec := postExport(t, newTestServer(), `{"document":"cv","format":"pdf","cv":"履歴書"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "measurement", resp["code"])
}

func TestExportWrongMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(export.ErrUnknownFormat))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(fmt.Errorf("x: %w", export.ErrInvalidOptions)))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(fmt.Errorf("x: %w", export.ErrMeasurement)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(export.ErrSerialization))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("other")))
}

func TestStartStopsOnCancel(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
