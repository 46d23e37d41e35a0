package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"orderbot/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runRequest(t *testing.T, e *echo.Echo, path, reqID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if reqID != "" {
		req.Header.Set(middleware.HeaderRequestID, reqID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestLog_AssignsIDAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(middleware.RequestLog(log))
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(middleware.CtxRequestIDKey).(string))
	})

	rec := runRequest(t, e, "/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get(middleware.HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Body.String())
	assert.Contains(t, buf.String(), "request_id="+id)
	assert.Contains(t, buf.String(), "status=200")
	assert.Contains(t, buf.String(), "level=INFO")
}

func TestRequestLog_KeepsClientIDAndLogsErrors(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	e := echo.New()
	e.Use(middleware.RequestLog(log))
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "nope")
	})

	rec := runRequest(t, e, "/missing", "abc-123")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.HeaderRequestID))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "status=404")
}
