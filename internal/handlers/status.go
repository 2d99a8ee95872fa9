package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/waygateai/waygate/internal/channel"
)

// StatusHandler exposes the gateway's liveness surface: a GET status report
// listing the registered channels and a bare HEAD probe for load balancers.
type StatusHandler struct {
	logger   *slog.Logger
	registry *channel.Registry
}

func NewStatusHandler(log *slog.Logger, registry *channel.Registry) *StatusHandler {
	if log == nil {
		log = slog.Default()
	}
	return &StatusHandler{
		logger:   log.With(slog.String("handler", "status")),
		registry: registry,
	}
}

func (h *StatusHandler) Register(e *echo.Echo) {
	e.GET("/ping", h.Status)
	e.HEAD("/health", h.Health)
}

func (h *StatusHandler) Status(c echo.Context) error {
	channels := []string{}
	if h.registry != nil {
		for _, ct := range h.registry.Types() {
			channels = append(channels, ct.String())
		}
		sort.Strings(channels)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"service":  "waygate",
		"channels": channels,
	})
}

func (h *StatusHandler) Health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}
