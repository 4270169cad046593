// Package health exposes the liveness and readiness probes
package health

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/peregrinehq/inlet/util"
)

// Handler is the interface for handling HTTP requests
type Handler interface {
	Live(c echo.Context) error
	Ready(c echo.Context) error
}

type handler struct {
	db     *sql.DB
	config *util.Config
}

// NewHandler creates a new handler
func NewHandler(db *sql.DB, config *util.Config) Handler {
	return &handler{db: db, config: config}
}

// Live reports that the process can answer at all; no dependency checks.
func (h handler) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "live"})
}

// Ready reports fitness to receive traffic: the webhook secret is configured
// and the database answers a trivial probe. Both are evaluated per request,
// so clearing the secret flips readiness without a restart.
func (h handler) Ready(c echo.Context) error {
	if h.config.WebhookSecret() == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "webhook secret not set"})
	}

	var one int
	if err := h.db.QueryRowContext(c.Request().Context(), "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"detail": "database not ready"})
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
}
