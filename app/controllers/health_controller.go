package controllers

import "github.com/gofiber/fiber/v2"

// HandleHealth is the liveness check
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleCSRFToken hands browser clients the token for the CSRF header
func HandleCSRFToken(c *fiber.Ctx) error {
	token, _ := c.Locals("csrf").(string)
	return c.JSON(fiber.Map{"csrf_token": token})
}
