package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
)

const webhookTimeout = 15 * time.Second

// GineeWebhookController receives Ginee push notifications
type GineeWebhookController struct {
	service *ginee.Service
}

func NewGineeWebhookController(service *ginee.Service) *GineeWebhookController {
	return &GineeWebhookController{service: service}
}

// HandleOrders handles POST /webhooks/ginee/orders
func (gc *GineeWebhookController) HandleOrders(c *fiber.Ctx) error {
	return gc.handle(c, models.GineeTopicOrders)
}

// HandleMasterProducts handles POST /webhooks/ginee/master-products
func (gc *GineeWebhookController) HandleMasterProducts(c *fiber.Ctx) error {
	return gc.handle(c, models.GineeTopicMasterProducts)
}

// handle answers 200 with an empty body for accepted and duplicate events
// alike; only a store failure is reported, so the sender retries.
func (gc *GineeWebhookController) handle(c *fiber.Ctx, topic string) error {
	rawBody := append([]byte(nil), c.Body()...)

	ctx, cancel := context.WithTimeout(c.UserContext(), webhookTimeout)
	defer cancel()

	if _, err := gc.service.IngestRaw(ctx, topic, rawBody); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	return c.Status(fiber.StatusOK).Send(nil)
}
