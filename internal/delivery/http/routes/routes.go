package routes

import (
	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/usecase"
)

type Registry struct {
	health *handler.HealthHandler
	match  *handler.MatchHandler
}

func NewRegistry(db handler.Pinger, cache handler.Pinger, matchUC usecase.MatchingUsecase) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(db, cache),
		match:  handler.NewMatchHandler(matchUC),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.match.RegisterRoutes(v1)
}
