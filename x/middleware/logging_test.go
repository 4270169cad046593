package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/labstack/echo/v4"
)

func TestRequestLogger(t *testing.T) {

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.POST("/webhook", func(c echo.Context) error {
		c.Set(KeyMessageID, "m-1")
		c.Set(KeyDuplicate, true)
		c.Set(KeyResult, "duplicate")
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var record map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "POST", record["method"])
	assert.Equal(t, "/webhook", record["path"])
	assert.Equal(t, float64(http.StatusOK), record["status"])
	assert.Equal(t, "m-1", record["message_id"])
	assert.Equal(t, true, record["dup"])
	assert.Equal(t, "duplicate", record["result"])
	assert.Contains(t, record, "latency_ms")
	assert.Contains(t, record, "request_id")
}

func TestRequestLoggerRecordsErrors(t *testing.T) {

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var record map[string]interface{}
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, float64(http.StatusInternalServerError), record["status"])
}
