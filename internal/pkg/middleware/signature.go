package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/metrics"
)

// GineeSignature rejects webhook requests whose X-Ginee-Signature does not
// match the raw body. An empty secret lets every request through.
func GineeSignature(secret string, topic string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ginee.VerifyWebhookSignature(c.Body(), c.Get(ginee.SignatureHeader), secret); err != nil {
			metrics.WebhookEventsTotal.WithLabelValues(topic, "rejected").Inc()
			log.Warnf("[Ginee] Rejected %s webhook from %s: %v", topic, c.IP(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_signature"})
		}
		return c.Next()
	}
}
