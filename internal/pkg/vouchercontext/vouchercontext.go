package vouchercontext

import "github.com/gofiber/fiber/v2"

// Locals key holding the VoucherContext of a request
const Key = "VOUCHER_CONTEXT"

// VoucherContext carries a validated voucher forward to the checkout handler.
// It is set once by the voucher middleware and never mutated afterwards.
type VoucherContext struct {
	VoucherID  uint    `json:"voucher_id"`
	Code       string  `json:"code"`
	CustomerID uint    `json:"customer_id"`
	OrderTotal float64 `json:"order_total"`
	Discount   float64 `json:"discount"`
	Message    string  `json:"message"`
}

// Set stores ctx on the request.
func Set(c *fiber.Ctx, ctx VoucherContext) {
	c.Locals(Key, ctx)
}

// Get returns the voucher context of the request, if a voucher was applied.
func Get(c *fiber.Ctx) (VoucherContext, bool) {
	ctx, ok := c.Locals(Key).(VoucherContext)
	return ctx, ok
}
