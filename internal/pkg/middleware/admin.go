package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
)

var warnAdminDisabledOnce sync.Once

// AdminBasicAuth protects the audit API and /metrics with ADMIN_USER and
// ADMIN_PASSWORD. Without a password the admin surface is closed.
func AdminBasicAuth() fiber.Handler {
	user := env.GetEnv("ADMIN_USER", "admin")
	password := env.GetEnv("ADMIN_PASSWORD", "")
	if password == "" {
		return func(c *fiber.Ctx) error {
			warnAdminDisabledOnce.Do(func() {
				log.Warn("[Admin] ADMIN_PASSWORD is not set; admin routes are disabled")
			})
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin_disabled"})
		}
	}

	return basicauth.New(basicauth.Config{
		Users: map[string]string{user: password},
		Realm: "ginee-gateway",
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="ginee-gateway"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		},
	})
}
