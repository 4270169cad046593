package health

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/peregrinehq/inlet/internal/testutil"
	"github.com/peregrinehq/inlet/util"
)

func probe(t *testing.T, fn func(echo.Context) error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, fn(c))
	return rec
}

func TestLive(t *testing.T) {

	db, cleanup := testutil.CreateDB()
	defer cleanup()

	sqlDB, err := db.DB()
	assert.NoError(t, err)

	handler := NewHandler(sqlDB, util.LoadConfig())

	rec := probe(t, handler.Live)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReady(t *testing.T) {

	t.Setenv("WEBHOOK_SECRET", "configured")

	db, cleanup := testutil.CreateDB()
	defer cleanup()

	sqlDB, err := db.DB()
	assert.NoError(t, err)

	handler := NewHandler(sqlDB, util.LoadConfig())

	rec := probe(t, handler.Ready)
	assert.Equal(t, http.StatusOK, rec.Code)

	// readiness flips the instant the secret is cleared, no restart
	os.Unsetenv("WEBHOOK_SECRET")
	rec = probe(t, handler.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"detail":"webhook secret not set"}`, rec.Body.String())

	os.Setenv("WEBHOOK_SECRET", "configured")
	rec = probe(t, handler.Ready)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyDatabaseDown(t *testing.T) {

	t.Setenv("WEBHOOK_SECRET", "configured")

	db, cleanup := testutil.CreateDB()

	sqlDB, err := db.DB()
	assert.NoError(t, err)

	handler := NewHandler(sqlDB, util.LoadConfig())

	// closing the pool makes the probe fail
	cleanup()

	rec := probe(t, handler.Ready)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"detail":"database not ready"}`, rec.Body.String())
}
