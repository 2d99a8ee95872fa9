package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/waygateai/waygate/internal/channel"
)

const webhookMaxBodyBytes int64 = 1 << 20 // 1 MiB

// callbackGateway runs the request pipeline for one verified callback.
type callbackGateway interface {
	HandleCallback(ctx context.Context, adapter channel.Adapter, cb channel.InboundCallback) ([]byte, error)
}

// WebhookHandler receives Twilio WhatsApp webhook callbacks. The signature
// check is a hard gate: nothing reaches the agent runtime before it passes.
type WebhookHandler struct {
	logger  *slog.Logger
	adapter *Adapter
	gateway callbackGateway
	path    string
}

// NewWebhookHandler creates the public webhook handler.
func NewWebhookHandler(log *slog.Logger, adapter *Adapter, gateway callbackGateway, path string) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(path) == "" {
		path = "/whatsapp"
	}
	return &WebhookHandler{
		logger:  log.With(slog.String("handler", "whatsapp_webhook")),
		adapter: adapter,
		gateway: gateway,
		path:    path,
	}
}

// Register registers webhook callback routes.
func (h *WebhookHandler) Register(e *echo.Echo) {
	e.GET(h.path, h.HandleProbe)
	e.POST(h.path, h.Handle)
}

// HandleProbe responds to health/probe requests on the webhook URL.
func (h *WebhookHandler) HandleProbe(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Handle processes one Twilio callback end to end, synchronously within the
// request cycle: verify, normalize, invoke, extract, render.
func (h *WebhookHandler) Handle(c echo.Context) error {
	if h.adapter == nil || h.gateway == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "webhook dependencies not configured")
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, webhookMaxBodyBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
	}
	if int64(len(body)) > webhookMaxBodyBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("payload too large: max %d bytes", webhookMaxBodyBytes))
	}

	// The form is parsed exactly once; signature verification and callback
	// normalization both work off the same values.
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "callback body is not form encoded")
	}

	if !h.adapter.ValidateRequest(c.Request(), form) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid provider signature")
	}

	cb, err := h.adapter.Normalize(form)
	if err != nil {
		if errors.Is(err, channel.ErrMissingSender) {
			return echo.NewHTTPError(http.StatusBadRequest, "missing 'From' in request form")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	envelope, err := h.gateway.HandleCallback(c.Request().Context(), h.adapter, cb)
	if err != nil {
		if errors.Is(err, channel.ErrMissingSender) {
			return echo.NewHTTPError(http.StatusBadRequest, "missing 'From' in request form")
		}
		h.logger.Error("callback pipeline failed",
			slog.String("sender", cb.Sender),
			slog.Any("error", err),
		)
		// Generic body: remote-runtime internals never leak to the provider.
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.Blob(http.StatusOK, h.adapter.ReplyContentType(), envelope)
}
