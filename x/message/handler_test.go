package message

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/peregrinehq/inlet/core"
	"github.com/peregrinehq/inlet/internal/testutil"
)

func listRequest(t *testing.T, handler Handler, query string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/messages"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler.List(c))
	return rec
}

func TestHandlerListDefaults(t *testing.T) {

	db, cleanup := testutil.CreateDB()
	defer cleanup()

	handler := NewHandler(NewService(NewRepository(db)))

	rec := listRequest(t, handler, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Data   []core.Message `json:"data"`
		Total  int64          `json:"total"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotNil(t, response.Data)
	assert.Equal(t, int64(0), response.Total)
	assert.Equal(t, 50, response.Limit)
	assert.Equal(t, 0, response.Offset)
}

func TestHandlerListParamValidation(t *testing.T) {

	db, cleanup := testutil.CreateDB()
	defer cleanup()

	handler := NewHandler(NewService(NewRepository(db)))

	// out-of-range values are rejected, not clamped
	for _, query := range []string{
		"?limit=0",
		"?limit=101",
		"?limit=ten",
		"?offset=-1",
		"?offset=many",
	} {
		rec := listRequest(t, handler, query)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, query)
	}

	for _, query := range []string{
		"?limit=1",
		"?limit=100",
		"?offset=0",
		"?limit=100&offset=500",
	} {
		rec := listRequest(t, handler, query)
		assert.Equal(t, http.StatusOK, rec.Code, query)
	}
}

func TestHandlerStats(t *testing.T) {

	db, cleanup := testutil.CreateDB()
	defer cleanup()

	repo := NewRepository(db)
	handler := NewHandler(NewService(repo))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.NoError(t, handler.Stats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t,
		`{"total_messages":0,"senders_count":0,"messages_per_sender":[],"first_message_ts":null,"last_message_ts":null}`,
		rec.Body.String())
}
