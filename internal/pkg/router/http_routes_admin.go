package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/metrics"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	app.Get("/metrics", middleware.AdminBasicAuth(), metrics.Handler())
}
