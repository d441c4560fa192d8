package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/ginee"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/jobqueue"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/voucher"
)

// Global controller instances
var (
	gineeService           *ginee.Service
	gineeWebhookController *GineeWebhookController
	webhookEventController *WebhookEventController
	voucherController      *VoucherController
	jobQueueController     *JobQueueController
)

// InitializeControllers wires the global controllers. A nil service falls
// back to in-process dispatch on the global repositories.
func InitializeControllers(svc *ginee.Service, v voucher.Validator) {
	repos := repository.GetGlobalRepositories()
	if svc == nil {
		svc = ginee.NewService(repos.WebhookEvent, ginee.DefaultRegistry())
	}
	if v == nil {
		v = voucher.NewService(repos.Voucher)
	}
	gineeService = svc
	gineeWebhookController = NewGineeWebhookController(svc)
	webhookEventController = NewWebhookEventController(repos.WebhookEvent, svc)
	voucherController = NewVoucherController(v)
}

func ensureControllers() {
	if gineeWebhookController == nil || webhookEventController == nil || voucherController == nil {
		InitializeControllers(gineeService, nil)
	}
}

// InitializeJobQueueController wires the queue inspection endpoints
func InitializeJobQueueController(q JobQueueInspector) {
	jobQueueController = NewJobQueueController(q)
}

// GetGineeWebhookController returns the global webhook controller
func GetGineeWebhookController() *GineeWebhookController {
	ensureControllers()
	return gineeWebhookController
}

// GetWebhookEventController returns the global audit controller
func GetWebhookEventController() *WebhookEventController {
	ensureControllers()
	return webhookEventController
}

// GetVoucherController returns the global voucher controller
func GetVoucherController() *VoucherController {
	ensureControllers()
	return voucherController
}

// GetJobQueueController returns the global job queue controller
func GetJobQueueController() *JobQueueController {
	if jobQueueController == nil {
		InitializeJobQueueController(jobqueue.GetManager().GetQueue())
	}
	return jobQueueController
}

// Adapter functions used by the router

func HandleGineeOrdersWebhook(c *fiber.Ctx) error {
	return GetGineeWebhookController().HandleOrders(c)
}

func HandleGineeMasterProductsWebhook(c *fiber.Ctx) error {
	return GetGineeWebhookController().HandleMasterProducts(c)
}

func HandleWebhookEventList(c *fiber.Ctx) error {
	return GetWebhookEventController().HandleList(c)
}

func HandleWebhookEventShow(c *fiber.Ctx) error {
	return GetWebhookEventController().HandleShow(c)
}

func HandleWebhookEventStats(c *fiber.Ctx) error {
	return GetWebhookEventController().HandleStats(c)
}

func HandleWebhookEventReplay(c *fiber.Ctx) error {
	return GetWebhookEventController().HandleReplay(c)
}

func HandleVoucherValidate(c *fiber.Ctx) error {
	return GetVoucherController().HandleValidate(c)
}

func HandleCheckoutVoucher(c *fiber.Ctx) error {
	return GetVoucherController().HandleCheckout(c)
}

func HandleJobQueueStats(c *fiber.Ctx) error {
	return GetJobQueueController().HandleStats(c)
}

func HandleJobShow(c *fiber.Ctx) error {
	return GetJobQueueController().HandleShow(c)
}
