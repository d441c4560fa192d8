// Package voucher answers voucher validity checks for checkout requests.
// Discount computation belongs to the shop backend; this package only reports
// the stored discount of a usable voucher.
package voucher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ginee-gateway/app/models"
	"github.com/ManuelReschke/ginee-gateway/app/repository"
	"github.com/ManuelReschke/ginee-gateway/internal/pkg/metrics"
)

var (
	ErrVoucherNotFound   = errors.New("voucher not found")
	ErrVoucherInactive   = errors.New("voucher inactive")
	ErrVoucherExpired    = errors.New("voucher expired")
	ErrVoucherNotStarted = errors.New("voucher not started")
	ErrVoucherMinOrder   = errors.New("order total below voucher minimum")
	ErrVoucherCustomer   = errors.New("voucher restricted to another customer")
	ErrVoucherExhausted  = errors.New("voucher usage limit reached")
)

// MessageApplied is returned with every valid result.
const MessageApplied = "Voucher applied."

// Result is the verdict of a validity check.
type Result struct {
	Valid    bool    `json:"valid"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message"`

	// Reason is the rule that rejected the voucher, nil when valid.
	Reason  error           `json:"-"`
	Voucher *models.Voucher `json:"-"`
}

// Validator is what the checkout middleware depends on.
type Validator interface {
	Validate(ctx context.Context, code string, customerID uint, orderTotal float64) (Result, error)
}

// Service checks vouchers against the voucher table.
type Service struct {
	repo repository.VoucherRepository
	now  func() time.Time
}

func NewService(repo repository.VoucherRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Validate applies the voucher rules in order: existence, active flag, start
// and end dates, customer restriction, usage limit, minimum order total. A Go
// error is returned only when the voucher table cannot be read.
func (s *Service) Validate(ctx context.Context, code string, customerID uint, orderTotal float64) (Result, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return s.reject(ErrVoucherNotFound, nil, orderTotal), nil
	}

	v, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.reject(ErrVoucherNotFound, nil, orderTotal), nil
		}
		metrics.VoucherChecksTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("voucher lookup failed: %w", err)
	}

	now := s.now()
	switch {
	case !v.IsActive:
		return s.reject(ErrVoucherInactive, v, orderTotal), nil
	case v.StartsAt != nil && now.Before(*v.StartsAt):
		return s.reject(ErrVoucherNotStarted, v, orderTotal), nil
	case v.ExpiresAt != nil && !now.Before(*v.ExpiresAt):
		return s.reject(ErrVoucherExpired, v, orderTotal), nil
	case v.IsRestrictedTo(customerID):
		return s.reject(ErrVoucherCustomer, v, orderTotal), nil
	case v.IsExhausted():
		return s.reject(ErrVoucherExhausted, v, orderTotal), nil
	case orderTotal < v.MinOrderTotal:
		return s.reject(ErrVoucherMinOrder, v, orderTotal), nil
	}

	metrics.VoucherChecksTotal.WithLabelValues("valid").Inc()
	return Result{
		Valid:    true,
		Discount: v.Discount,
		Message:  MessageApplied,
		Voucher:  v,
	}, nil
}

func (s *Service) reject(reason error, v *models.Voucher, orderTotal float64) Result {
	metrics.VoucherChecksTotal.WithLabelValues(resultLabel(reason)).Inc()
	code := ""
	if v != nil {
		code = v.Code
	}
	log.Debugf("[Voucher] Rejected %q (order total %.2f): %v", code, orderTotal, reason)
	return Result{
		Valid:   false,
		Message: Message(reason, v),
		Reason:  reason,
		Voucher: v,
	}
}

// Message maps a rejection reason to the text shown to the customer.
func Message(reason error, v *models.Voucher) string {
	switch {
	case reason == nil:
		return MessageApplied
	case errors.Is(reason, ErrVoucherNotFound):
		return "Voucher code not found."
	case errors.Is(reason, ErrVoucherInactive):
		return "This voucher is no longer active."
	case errors.Is(reason, ErrVoucherNotStarted):
		return "This voucher is not valid yet."
	case errors.Is(reason, ErrVoucherExpired):
		return "This voucher has expired."
	case errors.Is(reason, ErrVoucherCustomer):
		return "This voucher cannot be used for your account."
	case errors.Is(reason, ErrVoucherExhausted):
		return "This voucher has reached its usage limit."
	case errors.Is(reason, ErrVoucherMinOrder):
		if v != nil {
			return fmt.Sprintf("Order total must be at least %.2f to use this voucher.", v.MinOrderTotal)
		}
		return "Order total is too low for this voucher."
	default:
		return "This voucher cannot be applied."
	}
}

func resultLabel(reason error) string {
	switch {
	case errors.Is(reason, ErrVoucherNotFound):
		return "not_found"
	case errors.Is(reason, ErrVoucherInactive):
		return "inactive"
	case errors.Is(reason, ErrVoucherNotStarted):
		return "not_started"
	case errors.Is(reason, ErrVoucherExpired):
		return "expired"
	case errors.Is(reason, ErrVoucherCustomer):
		return "customer"
	case errors.Is(reason, ErrVoucherExhausted):
		return "exhausted"
	case errors.Is(reason, ErrVoucherMinOrder):
		return "min_order"
	default:
		return "rejected"
	}
}
