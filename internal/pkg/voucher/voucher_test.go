package voucher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ManuelReschke/ginee-gateway/app/models"
)

type stubVouchers struct {
	vouchers map[string]*models.Voucher
	err      error
}

func (s *stubVouchers) GetByCode(_ context.Context, code string) (*models.Voucher, error) {
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vouchers[strings.ToUpper(code)]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrUint(u uint) *uint           { return &u }

func TestValidate(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	repo := &stubVouchers{vouchers: map[string]*models.Voucher{
		"SAVE10":   {Code: "SAVE10", Discount: 10, IsActive: true},
		"OFF":      {Code: "OFF", Discount: 5, IsActive: false},
		"SOON":     {Code: "SOON", Discount: 5, IsActive: true, StartsAt: ptrTime(now.Add(time.Hour))},
		"OLD":      {Code: "OLD", Discount: 5, IsActive: true, ExpiresAt: ptrTime(now)},
		"MIN50":    {Code: "MIN50", Discount: 7.5, IsActive: true, MinOrderTotal: 50},
		"VIP":      {Code: "VIP", Discount: 20, IsActive: true, CustomerID: ptrUint(42)},
		"USEDUP":   {Code: "USEDUP", Discount: 3, IsActive: true, UsageLimit: 2, UsedCount: 2},
		"WINDOWED": {Code: "WINDOWED", Discount: 4, IsActive: true, StartsAt: ptrTime(now.Add(-time.Hour)), ExpiresAt: ptrTime(now.Add(time.Hour)), UsageLimit: 5, UsedCount: 4},
	}}
	svc := NewService(repo)
	svc.now = func() time.Time { return now }

	tests := []struct {
		name       string
		code       string
		customerID uint
		total      float64
		wantValid  bool
		wantReason error
		discount   float64
	}{
		{"valid", "save10", 1, 20, true, nil, 10},
		{"blank code", "  ", 1, 20, false, ErrVoucherNotFound, 0},
		{"unknown code", "NOPE", 1, 20, false, ErrVoucherNotFound, 0},
		{"inactive", "OFF", 1, 20, false, ErrVoucherInactive, 0},
		{"not started", "SOON", 1, 20, false, ErrVoucherNotStarted, 0},
		{"expired at boundary", "OLD", 1, 20, false, ErrVoucherExpired, 0},
		{"below minimum", "MIN50", 1, 49.99, false, ErrVoucherMinOrder, 0},
		{"at minimum", "MIN50", 1, 50, true, nil, 7.5},
		{"other customer", "VIP", 7, 100, false, ErrVoucherCustomer, 0},
		{"owning customer", "VIP", 42, 100, true, nil, 20},
		{"exhausted", "USEDUP", 1, 20, false, ErrVoucherExhausted, 0},
		{"inside window", "WINDOWED", 1, 1, true, nil, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Validate(context.Background(), tt.code, tt.customerID, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.discount, res.Discount)
			assert.NotEmpty(t, res.Message)
			if tt.wantReason != nil {
				assert.ErrorIs(t, res.Reason, tt.wantReason)
			} else {
				assert.NoError(t, res.Reason)
				assert.Equal(t, MessageApplied, res.Message)
			}
		})
	}
}

func TestValidateStorageError(t *testing.T) {
	svc := NewService(&stubVouchers{err: errors.New("db gone")})
	_, err := svc.Validate(context.Background(), "SAVE10", 1, 10)
	assert.ErrorContains(t, err, "db gone")
}

func TestMessage(t *testing.T) {
	v := &models.Voucher{MinOrderTotal: 25}
	assert.Equal(t, "Order total must be at least 25.00 to use this voucher.", Message(ErrVoucherMinOrder, v))
	assert.Equal(t, "Voucher code not found.", Message(ErrVoucherNotFound, nil))
	assert.Equal(t, MessageApplied, Message(nil, nil))
	assert.Equal(t, "This voucher cannot be applied.", Message(errors.New("other"), nil))
}
