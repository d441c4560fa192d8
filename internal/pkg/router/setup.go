package router

import (
	"github.com/gofiber/fiber/v2"
)

// Router registers a group of routes on the application
type Router interface {
	InstallRouter(app *fiber.App)
}

func InstallRouter(app *fiber.App) {
	// HttpRouter registers the webhook routes before the CSRF group so the
	// server-to-server endpoints never reach the token check.
	setup(app, NewHttpRouter(), NewApiRouter())
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
