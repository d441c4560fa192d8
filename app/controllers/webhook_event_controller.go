package controllers

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/statistics"
)

// WebhookEventController serves the audit API over stored webhook events
type WebhookEventController struct {
	repo    repository.WebhookEventRepository
	service *ginee.Service
	stats   *statistics.Service
}

func NewWebhookEventController(repo repository.WebhookEventRepository, service *ginee.Service) *WebhookEventController {
	return &WebhookEventController{repo: repo, service: service, stats: statistics.NewService(repo)}
}

// HandleList handles GET /api/v1/webhook-events?topic=&entity=&limit=&offset=
func (wc *WebhookEventController) HandleList(c *fiber.Ctx) error {
	filter := repository.WebhookEventFilter{
		Topic:  strings.TrimSpace(c.Query("topic")),
		Entity: strings.TrimSpace(c.Query("entity")),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	events, err := wc.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("[Audit] Listing webhook events failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load webhook events"})
	}
	total, err := wc.repo.Count(ctx, filter.Topic)
	if err != nil {
		log.Errorf("[Audit] Counting webhook events failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count webhook events"})
	}

	return c.JSON(fiber.Map{
		"data":   events,
		"count":  len(events),
		"total":  total,
		"offset": filter.Offset,
	})
}

// eventIDParam returns the decoded :event_id. Ids are compared byte for byte,
// so no trimming.
func eventIDParam(c *fiber.Ctx) string {
	raw := c.Params("event_id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}

// HandleShow handles GET /api/v1/webhook-events/:event_id
func (wc *WebhookEventController) HandleShow(c *fiber.Ctx) error {
	eventID := eventIDParam(c)
	event, err := wc.repo.GetByEventID(c.UserContext(), eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Webhook event not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load webhook event"})
	}
	return c.JSON(event)
}

// HandleReplay handles POST /api/v1/webhook-events/:event_id/replay
func (wc *WebhookEventController) HandleReplay(c *fiber.Ctx) error {
	eventID := eventIDParam(c)
	event, err := wc.service.Replay(c.UserContext(), eventID)
	switch {
	case errors.Is(err, ginee.ErrEventNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Webhook event not found"})
	case err != nil:
		log.Errorf("[Audit] Replay of %s failed: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "replay_failed"})
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"event_id": event.EventID,
		"topic":    event.Topic,
		"status":   "queued",
	})
}

// HandleStats handles GET /api/v1/webhook-events/stats
func (wc *WebhookEventController) HandleStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	stats, err := wc.stats.GetWebhookStats(ctx)
	if err != nil {
		log.Errorf("[Audit] Loading webhook statistics failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load statistics"})
	}
	return c.JSON(stats)
}
