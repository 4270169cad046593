// Package webhook handles signed message ingestion
package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"

	"github.com/peregrinehq/inlet/core"
	"github.com/peregrinehq/inlet/util"
	"github.com/peregrinehq/inlet/x/metrics"
	"github.com/peregrinehq/inlet/x/middleware"
)

var tracer = otel.Tracer("webhook")

// Handler is the interface for handling HTTP requests
type Handler interface {
	Post(c echo.Context) error
}

type handler struct {
	service Service
	config  *util.Config
	metrics *metrics.Metrics
}

// NewHandler creates a new handler
func NewHandler(service Service, config *util.Config, m *metrics.Metrics) Handler {
	return &handler{service: service, config: config, metrics: m}
}

// Post ingests one signed message event.
// The signature covers the exact bytes received, so the body is read raw
// before any JSON parsing. The secret is resolved per request; when it is
// unset verification fails closed.
func (h handler) Post(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandlerPost")
	defer span.End()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		span.RecordError(err)
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "could not read request body"})
	}

	signature := c.Request().Header.Get("X-Signature")
	if err := util.VerifySignature(body, h.config.WebhookSecret(), signature); err != nil {
		// logged without payload contents
		h.metrics.RecordWebhookResult(metrics.ResultInvalidSignature)
		c.Set(middleware.KeyResult, metrics.ResultInvalidSignature)
		return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid signature"})
	}

	var request postRequest
	if err := json.Unmarshal(body, &request); err != nil {
		h.metrics.RecordWebhookResult(metrics.ResultValidationError)
		c.Set(middleware.KeyResult, metrics.ResultValidationError)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": "invalid json body"})
	}

	if fieldErrors := request.validate(); len(fieldErrors) > 0 {
		h.metrics.RecordWebhookResult(metrics.ResultValidationError)
		c.Set(middleware.KeyResult, metrics.ResultValidationError)
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": fieldErrors})
	}

	result, err := h.service.Ingest(ctx, core.Message{
		MessageID:  request.MessageID,
		FromMsisdn: request.From,
		ToMsisdn:   request.To,
		Ts:         request.Ts,
		Text:       request.Text,
	})
	if err != nil {
		span.RecordError(err)
		h.metrics.RecordWebhookResult(metrics.ResultError)
		c.Set(middleware.KeyResult, metrics.ResultError)
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "internal server error"})
	}

	tag := metrics.ResultCreated
	if result == ResultDuplicate {
		tag = metrics.ResultDuplicate
	}
	h.metrics.RecordWebhookResult(tag)
	c.Set(middleware.KeyMessageID, request.MessageID)
	c.Set(middleware.KeyDuplicate, result == ResultDuplicate)
	c.Set(middleware.KeyResult, tag)

	// identical body for created and duplicate
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
