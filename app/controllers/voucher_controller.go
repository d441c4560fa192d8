package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ginee-gateway/internal/pkg/voucher"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/vouchercontext"
)

// ValidateVoucherRequest is the body of POST /api/v1/vouchers/validate
type ValidateVoucherRequest struct {
	Code       string  `json:"code" validate:"required,max=64"`
	CustomerID uint    `json:"customer_id"`
	OrderTotal float64 `json:"order_total" validate:"gte=0"`
}

// VoucherController exposes voucher checks
type VoucherController struct {
	validator voucher.Validator
	validate  *validator.Validate
}

func NewVoucherController(v voucher.Validator) *VoucherController {
	return &VoucherController{validator: v, validate: validator.New()}
}

// HandleValidate answers a voucher check without side effects
func (vc *VoucherController) HandleValidate(c *fiber.Ctx) error {
	var req ValidateVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": "Invalid JSON body"})
	}
	if err := vc.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request", "message": err.Error()})
	}

	res, err := vc.validator.Validate(c.UserContext(), req.Code, req.CustomerID, req.OrderTotal)
	if err != nil {
		log.Errorf("[Voucher] Validation of %q failed: %v", req.Code, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "voucher_check_failed"})
	}
	return c.JSON(res)
}

// HandleCheckout runs behind the voucher middleware and reports which
// voucher, if any, the checkout carries.
func (vc *VoucherController) HandleCheckout(c *fiber.Ctx) error {
	applied, ok := vouchercontext.Get(c)
	if !ok {
		return c.JSON(fiber.Map{"voucher_applied": false})
	}
	return c.JSON(fiber.Map{
		"voucher_applied": true,
		"voucher_id":      applied.VoucherID,
		"code":            applied.Code,
		"discount":        applied.Discount,
		"message":         applied.Message,
	})
}
