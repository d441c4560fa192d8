package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ginee-gateway/app/controllers"
	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/middleware"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ratelimit"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/health", controllers.HandleHealth)

	// Ginee webhooks (server-to-server, no CSRF, optional signature)
	secret := env.GetEnv("GINEE_WEBHOOK_SECRET", "")
	webhooks := app.Group("/webhooks/ginee", ratelimit.Webhooks())
	webhooks.Post("/orders",
		middleware.GineeSignature(secret, models.GineeTopicOrders),
		controllers.HandleGineeOrdersWebhook)
	webhooks.Post("/master-products",
		middleware.GineeSignature(secret, models.GineeTopicMasterProducts),
		controllers.HandleGineeMasterProductsWebhook)
}
