package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/ManuelReschke/ginee-gateway/app/controllers"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/env"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/middleware"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/voucher"
)

// CSRFExemptPaths lists path prefixes that never carry a CSRF token:
// marketplace webhooks and the token-less JSON API.
var CSRFExemptPaths = []string{
	"/webhooks/ginee/",
	"/api/",
}

// IsCSRFExempt reports whether path falls under one of CSRFExemptPaths.
func IsCSRFExempt(path string) bool {
	for _, prefix := range CSRFExemptPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func csrfConfig() csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			return IsCSRFExempt(c.Path())
		},
	}
}

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	vouchers := voucher.NewService(repository.GetGlobalRepositories().Voucher)

	group := app.Group("", cors.New(), csrf.New(csrfConfig()))
	group.Get("/csrf-token", controllers.HandleCSRFToken)
	group.Post("/checkout/voucher", middleware.VoucherMiddleware(vouchers), controllers.HandleCheckoutVoucher)
}
