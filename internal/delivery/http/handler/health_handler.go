package handler

import (
	"context"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health reports component status. A dead database makes the service
// unavailable; a dead cache does not, since matching degrades to
// cache-bypass mode.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	status := fiber.StatusOK
	components := fiber.Map{
		"database": "up",
		"cache":    "up",
	}

	if h.db == nil || h.db.Ping(c.Context()) != nil {
		components["database"] = "down"
		status = fiber.StatusServiceUnavailable
	}
	if h.cache == nil || h.cache.Ping(c.Context()) != nil {
		components["cache"] = "down"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, response.MessageServiceUnavailable, components)
	}
	return response.Success(c, status, response.MessageOK, components)
}
