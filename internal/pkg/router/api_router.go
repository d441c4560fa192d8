package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ginee-gateway/app/controllers"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/middleware"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ratelimit"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", ratelimit.API())

	v1 := api.Group("/v1")
	v1.Post("/vouchers/validate", controllers.HandleVoucherValidate)

	// Audit and replay
	events := v1.Group("/webhook-events", middleware.AdminBasicAuth())
	events.Get("/", controllers.HandleWebhookEventList)
	events.Get("/stats", controllers.HandleWebhookEventStats)
	events.Get("/:event_id", controllers.HandleWebhookEventShow)
	events.Post("/:event_id/replay", controllers.HandleWebhookEventReplay)

	// Downstream queue
	jobs := v1.Group("/jobs", middleware.AdminBasicAuth())
	jobs.Get("/stats", controllers.HandleJobQueueStats)
	jobs.Get("/:id", controllers.HandleJobShow)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
