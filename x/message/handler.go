// Package message handles stored message listing and aggregates
package message

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/peregrinehq/inlet/core"
)

var tracer = otel.Tracer("message")

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Handler is the interface for handling HTTP requests
type Handler interface {
	List(c echo.Context) error
	Stats(c echo.Context) error
}

type handler struct {
	service Service
}

// NewHandler creates a new handler
func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// List returns a filtered, paginated page of messages.
// Out-of-range limit/offset is a validation error, not clamped.
func (h handler) List(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandlerList")
	defer span.End()

	filter := Filter{
		Limit:  defaultLimit,
		Offset: 0,
		From:   c.QueryParam("from"),
		Since:  c.QueryParam("since"),
		Search: c.QueryParam("q"),
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": "limit must be an integer between 1 and 100"})
		}
		filter.Limit = limit
	}

	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": "offset must be a non-negative integer"})
		}
		filter.Offset = offset
	}

	messages, total, err := h.service.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
	}
	if messages == nil {
		messages = []core.Message{}
	}

	return c.JSON(http.StatusOK, listResponse{
		Data:   messages,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Stats returns aggregate statistics over the whole table.
func (h handler) Stats(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandlerStats")
	defer span.End()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
	}

	return c.JSON(http.StatusOK, statsResponse{
		TotalMessages:     stats.TotalMessages,
		SendersCount:      stats.SendersCount,
		MessagesPerSender: stats.MessagesPerSender,
		FirstMessageTs:    stats.FirstMessageTs,
		LastMessageTs:     stats.LastMessageTs,
	})
}
