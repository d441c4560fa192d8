package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/voucher"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/vouchercontext"
)

// VoucherRequest is the checkout input the voucher middleware reads.
type VoucherRequest struct {
	VoucherCode string  `json:"voucher_code" form:"voucher_code"`
	CustomerID  uint    `json:"customer_id" form:"customer_id"`
	OrderTotal  float64 `json:"order_total" form:"order_total"`
}

// VoucherMiddleware validates the voucher_code of a checkout request. Requests
// without a code pass through untouched. Invalid vouchers are answered with
// 422 and the rejection message; valid ones attach a VoucherContext.
func VoucherMiddleware(validator voucher.Validator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req VoucherRequest
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid checkout request"})
		}
		req.VoucherCode = strings.TrimSpace(req.VoucherCode)
		if req.VoucherCode == "" {
			return c.Next()
		}

		res, err := validator.Validate(c.UserContext(), req.VoucherCode, req.CustomerID, req.OrderTotal)
		if err != nil {
			log.Errorf("[Voucher] Validation failed for %q: %v", req.VoucherCode, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "voucher_check_failed"})
		}
		if !res.Valid {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": res.Message})
		}

		vc := vouchercontext.VoucherContext{
			Code:       req.VoucherCode,
			CustomerID: req.CustomerID,
			OrderTotal: req.OrderTotal,
			Discount:   res.Discount,
			Message:    res.Message,
		}
		if res.Voucher != nil {
			vc.VoucherID = res.Voucher.ID
			vc.Code = res.Voucher.Code
		}
		vouchercontext.Set(c, vc)
		return c.Next()
	}
}
